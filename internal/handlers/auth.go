package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/pragambesh-moro/banking-system-simulation/internal/auth"
	"github.com/pragambesh-moro/banking-system-simulation/internal/db"
	"github.com/pragambesh-moro/banking-system-simulation/internal/middleware"
	"github.com/pragambesh-moro/banking-system-simulation/internal/services"
	"github.com/pragambesh-moro/banking-system-simulation/internal/store"
)

type registerRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
	InitialDeposit string `json:"initial_deposit" validate:"omitempty"`
}

// Register creates the user and their account (with an optional opening
// deposit) in one unit of work, then issues a token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	openingMinor := int64(0)
	if req.InitialDeposit != "" {
		parsed, err := parseAmountMinor(req.InitialDeposit)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "invalid initial deposit")
			return
		}
		openingMinor = parsed
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to secure password")
		return
	}

	var user store.User
	var account store.Account
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		user, err = h.users.Create(r.Context(), tx, req.Name, req.Email, passwordHash)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return services.ErrEmailTaken
			}
			return err
		}
		account, err = h.registry.CreateAccountInTx(r.Context(), tx, &user.ID, openingMinor)
		if err != nil {
			return err
		}
		return h.audit.Log(r.Context(), tx, &user.ID, "register", "user", user.Email, "{}")
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	token, err := auth.GenerateToken(h.cfg.JWTSecret, user.ID, user.Email, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    userJSON(user),
		"account": accountJSON(account),
		"token":   token,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, user.ID, user.Email, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	response := map[string]any{
		"message": "Login successful",
		"user":    userJSON(user),
		"token":   token,
	}
	if account, err := h.registry.GetAccountByUser(r.Context(), user.ID); err == nil {
		response["account"] = accountJSON(account)
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	respondJSON(w, http.StatusOK, userJSON(user))
}

func userJSON(u store.User) map[string]any {
	return map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"created_at": u.CreatedAt,
	}
}
