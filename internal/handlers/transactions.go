package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pragambesh-moro/banking-system-simulation/internal/middleware"
	"github.com/pragambesh-moro/banking-system-simulation/internal/money"
	"github.com/pragambesh-moro/banking-system-simulation/internal/services"
)

type depositRequest struct {
	AccountID   int64  `json:"account_id" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	result, err := h.ledger.Deposit(r.Context(), req.AccountID, amountMinor, req.Description)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, transactionResultJSON(result))
}

type withdrawRequest struct {
	AccountID   int64  `json:"account_id" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if !h.callerOwnsAccount(w, r, req.AccountID) {
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	result, err := h.ledger.Withdraw(r.Context(), req.AccountID, amountMinor, req.Description)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, transactionResultJSON(result))
}

type transferRequest struct {
	FromAccountID int64  `json:"from_account_id" validate:"required"`
	ToAccountID   int64  `json:"to_account_id" validate:"required"`
	Amount        string `json:"amount" validate:"required"`
	Description   string `json:"description" validate:"omitempty,max=255"`
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if !h.callerOwnsAccount(w, r, req.FromAccountID) {
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	result, err := h.ledger.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, amountMinor, req.Description)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, transferResultJSON(result))
}

type transferByAccountRequest struct {
	FromAccountID   int64  `json:"from_account_id" validate:"required"`
	ToAccountNumber string `json:"to_account_number" validate:"required"`
	Amount          string `json:"amount" validate:"required"`
	Description     string `json:"description" validate:"omitempty,max=255"`
}

func (h *Handler) TransferByAccount(w http.ResponseWriter, r *http.Request) {
	var req transferByAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if !h.callerOwnsAccount(w, r, req.FromAccountID) {
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	result, err := h.ledger.TransferToNumber(r.Context(), req.FromAccountID, req.ToAccountNumber, amountMinor, req.Description)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, transferResultJSON(result))
}

// callerOwnsAccount guards operations that move money out of an account.
func (h *Handler) callerOwnsAccount(w http.ResponseWriter, r *http.Request, accountID int64) bool {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	account, err := h.registry.GetAccountByID(r.Context(), accountID)
	if err != nil {
		h.respondServiceError(w, err)
		return false
	}
	if account.UserID == nil || *account.UserID != userID {
		respondError(w, http.StatusForbidden, "account_access_denied")
		return false
	}
	return true
}

func transactionResultJSON(result services.TransactionResult) map[string]any {
	return map[string]any{
		"account_id":     result.AccountID,
		"account_number": result.AccountNumber,
		"balance":        money.FormatMinor(result.Balance),
		"transaction":    transactionJSON(result.Transaction),
	}
}

func transferResultJSON(result services.TransferResult) map[string]any {
	return map[string]any{
		"from": transactionResultJSON(result.From),
		"to":   transactionResultJSON(result.To),
	}
}
