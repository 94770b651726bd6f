package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/pragambesh-moro/banking-system-simulation/internal/config"
	"github.com/pragambesh-moro/banking-system-simulation/internal/db"
	"github.com/pragambesh-moro/banking-system-simulation/internal/money"
	"github.com/pragambesh-moro/banking-system-simulation/internal/services"
	"github.com/pragambesh-moro/banking-system-simulation/internal/store"
	"github.com/pragambesh-moro/banking-system-simulation/internal/websocket"
)

type Handler struct {
	cfg      config.Config
	txRunner db.TxRunner
	users    UserStore
	registry AccountService
	ledger   LedgerService
	history  HistoryService
	audit    AuditStore
	hub      *websocket.Hub
	validate *validator.Validate
	log      *logrus.Logger
}

func New(cfg config.Config, txRunner db.TxRunner, users UserStore, registry AccountService, ledger LedgerService, history HistoryService, audit AuditStore, hub *websocket.Hub, log *logrus.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		txRunner: txRunner,
		users:    users,
		registry: registry,
		ledger:   ledger,
		history:  history,
		audit:    audit,
		hub:      hub,
		validate: validator.New(),
		log:      log,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// caller-input errors are 4xx, server-side faults are 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidOpeningBalance),
		errors.Is(err, services.ErrSameAccount):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInsufficientFunds):
		respondError(w, http.StatusBadRequest, "insufficient_funds")
	case errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		respondError(w, http.StatusConflict, err.Error())
	default:
		h.log.WithError(err).Error("request failed")
		respondError(w, http.StatusInternalServerError, "internal_error")
	}
}

func parseAmountMinor(raw string) (int64, error) {
	amount, err := money.ParseMinor(raw)
	if err != nil {
		return 0, services.ErrInvalidAmount
	}
	return amount, nil
}

func accountJSON(a store.Account) map[string]any {
	return map[string]any{
		"id":             a.ID,
		"user_id":        a.UserID,
		"account_number": a.AccountNumber,
		"balance":        money.FormatMinor(a.Balance),
		"created_at":     a.CreatedAt,
		"updated_at":     a.UpdatedAt,
	}
}

func transactionJSON(t store.Transaction) map[string]any {
	return map[string]any{
		"id":                     t.ID,
		"account_id":             t.AccountID,
		"type":                   t.Type,
		"amount":                 money.FormatMinor(t.Amount),
		"balance_after":          money.FormatMinor(t.BalanceAfter),
		"related_transaction_id": t.RelatedTransactionID,
		"description":            t.Description,
		"created_at":             t.CreatedAt,
	}
}
