package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pragambesh-moro/banking-system-simulation/internal/auth"
	"github.com/pragambesh-moro/banking-system-simulation/internal/middleware"
	"github.com/pragambesh-moro/banking-system-simulation/internal/websocket"
)

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(h.cfg.JWTSecret))
			r.Post("/accounts", h.CreateAccount)
			r.Get("/accounts/{id}", h.GetAccount)
			r.Get("/accounts/by-number/{number}", h.GetAccountByNumber)
			r.Get("/accounts/{id}/history", h.GetHistory)
			r.Get("/accounts/{id}/stats", h.GetStats)
			r.Post("/transactions/deposit", h.Deposit)
			r.Post("/transactions/withdraw", h.Withdraw)
			r.Post("/transactions/transfer", h.Transfer)
			r.Post("/transactions/transfer-by-account", h.TransferByAccount)
			r.Get("/audit-logs", h.ListAuditLogs)
		})
	})

	router.Get("/ws/balances", h.WSBalances)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

// WSBalances authenticates via a token query parameter because browsers
// cannot set headers on websocket upgrades.
func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}
