package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pragambesh-moro/banking-system-simulation/internal/middleware"
	"github.com/pragambesh-moro/banking-system-simulation/internal/money"
)

type createAccountRequest struct {
	InitialBalance string `json:"initial_balance" validate:"omitempty"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	openingMinor := int64(0)
	if req.InitialBalance != "" {
		parsed, err := money.ParseMinor(req.InitialBalance)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid initial balance")
			return
		}
		openingMinor = parsed
	}
	account, err := h.registry.CreateAccount(r.Context(), &userID, openingMinor)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, accountJSON(account))
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid account id")
		return
	}
	account, err := h.registry.GetAccountByID(r.Context(), accountID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, accountJSON(account))
}

func (h *Handler) GetAccountByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	account, err := h.registry.GetAccountByNumber(r.Context(), number)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, accountJSON(account))
}

// GetHistory rejects out-of-range paging before touching the reader:
// limit must be in [1,100], offset non-negative.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid account id")
		return
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil || limit < 1 || limit > 100 {
		respondError(w, http.StatusBadRequest, "limit must be between 1 and 100")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		respondError(w, http.StatusBadRequest, "offset must be non-negative")
		return
	}
	page, err := h.history.GetHistory(r.Context(), accountID, limit, offset)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	transactions := make([]map[string]any, 0, len(page.Transactions))
	for _, t := range page.Transactions {
		transactions = append(transactions, transactionJSON(t))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"account":            accountJSON(page.Account),
		"transactions":       transactions,
		"total_transactions": page.TotalTransactions,
		"limit":              limit,
		"offset":             offset,
	})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid account id")
		return
	}
	days, err := queryInt(r, "days", 30)
	if err != nil || days < 1 || days > 365 {
		respondError(w, http.StatusBadRequest, "days must be between 1 and 365")
		return
	}
	stats, err := h.history.GetDashboardStats(r.Context(), accountID, days)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"total_income":       money.FormatMinor(stats.TotalIncome),
		"total_expenses":     money.FormatMinor(stats.TotalExpenses),
		"total_transactions": stats.TotalTransactions,
		"period_days":        days,
	})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
