package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pragambesh-moro/banking-system-simulation/internal/config"
	"github.com/pragambesh-moro/banking-system-simulation/internal/db"
	"github.com/pragambesh-moro/banking-system-simulation/internal/handlers"
	"github.com/pragambesh-moro/banking-system-simulation/internal/jobs"
	"github.com/pragambesh-moro/banking-system-simulation/internal/services"
	"github.com/pragambesh-moro/banking-system-simulation/internal/store"
	"github.com/pragambesh-moro/banking-system-simulation/internal/websocket"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	accounts := store.NewAccountStore(database)
	transactions := store.NewTransactionStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	ledger := services.NewLedgerService(txRunner, accounts, transactions, audit, hub, log)
	registry := services.NewAccountService(txRunner, accounts, transactions, audit, cfg.AccountNumberAttempts, log)
	history := services.NewHistoryService(accounts, transactions)

	reconciler := jobs.NewReconciler(ledger, cfg.ReconcileInterval, log)
	if err := reconciler.Start(); err != nil {
		log.Fatalf("failed to start reconciler: %v", err)
	}
	defer reconciler.Stop()

	handler := handlers.New(cfg, txRunner, users, registry, ledger, history, audit, hub, log)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("ledger API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
