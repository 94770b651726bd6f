package handlers

import (
	"context"
	"io"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/pragambesh-moro/banking-system-simulation/internal/config"
	"github.com/pragambesh-moro/banking-system-simulation/internal/services"
	"github.com/pragambesh-moro/banking-system-simulation/internal/store"
)

const testSecret = "test-secret"

type runnerStub struct{}

func (runnerStub) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return fn(nil)
}

type stubUsers struct {
	createFn     func(ctx context.Context, tx store.Getter, name, email, passwordHash string) (store.User, error)
	getByEmailFn func(ctx context.Context, email string) (store.User, error)
	getByIDFn    func(ctx context.Context, userID int64) (store.User, error)
}

func (s stubUsers) Create(ctx context.Context, tx store.Getter, name, email, passwordHash string) (store.User, error) {
	if s.createFn == nil {
		return store.User{ID: 1, Name: name, Email: email, PasswordHash: passwordHash}, nil
	}
	return s.createFn(ctx, tx, name, email, passwordHash)
}

func (s stubUsers) GetByEmail(ctx context.Context, email string) (store.User, error) {
	if s.getByEmailFn == nil {
		return store.User{ID: 1, Email: email}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUsers) GetByID(ctx context.Context, userID int64) (store.User, error) {
	if s.getByIDFn == nil {
		return store.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubRegistry struct {
	createFn      func(ctx context.Context, userID *int64, openingMinor int64) (store.Account, error)
	createInTxFn  func(ctx context.Context, tx *sqlx.Tx, userID *int64, openingMinor int64) (store.Account, error)
	getByIDFn     func(ctx context.Context, accountID int64) (store.Account, error)
	getByNumberFn func(ctx context.Context, accountNumber string) (store.Account, error)
	getByUserFn   func(ctx context.Context, userID int64) (store.Account, error)
}

func (s stubRegistry) CreateAccount(ctx context.Context, userID *int64, openingMinor int64) (store.Account, error) {
	if s.createFn == nil {
		return store.Account{ID: 1, UserID: userID, AccountNumber: "ACC-100001", Balance: openingMinor}, nil
	}
	return s.createFn(ctx, userID, openingMinor)
}

func (s stubRegistry) CreateAccountInTx(ctx context.Context, tx *sqlx.Tx, userID *int64, openingMinor int64) (store.Account, error) {
	if s.createInTxFn == nil {
		return store.Account{ID: 1, UserID: userID, AccountNumber: "ACC-100001", Balance: openingMinor}, nil
	}
	return s.createInTxFn(ctx, tx, userID, openingMinor)
}

func (s stubRegistry) GetAccountByID(ctx context.Context, accountID int64) (store.Account, error) {
	if s.getByIDFn == nil {
		return store.Account{ID: accountID}, nil
	}
	return s.getByIDFn(ctx, accountID)
}

func (s stubRegistry) GetAccountByNumber(ctx context.Context, accountNumber string) (store.Account, error) {
	if s.getByNumberFn == nil {
		return store.Account{ID: 1, AccountNumber: accountNumber}, nil
	}
	return s.getByNumberFn(ctx, accountNumber)
}

func (s stubRegistry) GetAccountByUser(ctx context.Context, userID int64) (store.Account, error) {
	if s.getByUserFn == nil {
		return store.Account{}, services.ErrAccountNotFound
	}
	return s.getByUserFn(ctx, userID)
}

type stubLedger struct {
	depositFn          func(ctx context.Context, accountID int64, amountMinor int64, description string) (services.TransactionResult, error)
	withdrawFn         func(ctx context.Context, accountID int64, amountMinor int64, description string) (services.TransactionResult, error)
	transferFn         func(ctx context.Context, fromID, toID int64, amountMinor int64, description string) (services.TransferResult, error)
	transferToNumberFn func(ctx context.Context, fromID int64, toNumber string, amountMinor int64, description string) (services.TransferResult, error)
}

func (s stubLedger) Deposit(ctx context.Context, accountID int64, amountMinor int64, description string) (services.TransactionResult, error) {
	return s.depositFn(ctx, accountID, amountMinor, description)
}

func (s stubLedger) Withdraw(ctx context.Context, accountID int64, amountMinor int64, description string) (services.TransactionResult, error) {
	return s.withdrawFn(ctx, accountID, amountMinor, description)
}

func (s stubLedger) Transfer(ctx context.Context, fromID, toID int64, amountMinor int64, description string) (services.TransferResult, error) {
	return s.transferFn(ctx, fromID, toID, amountMinor, description)
}

func (s stubLedger) TransferToNumber(ctx context.Context, fromID int64, toNumber string, amountMinor int64, description string) (services.TransferResult, error) {
	return s.transferToNumberFn(ctx, fromID, toNumber, amountMinor, description)
}

type stubHistory struct {
	historyFn func(ctx context.Context, accountID int64, limit, offset int) (services.HistoryPage, error)
	statsFn   func(ctx context.Context, accountID int64, windowDays int) (services.DashboardStats, error)
}

func (s stubHistory) GetHistory(ctx context.Context, accountID int64, limit, offset int) (services.HistoryPage, error) {
	if s.historyFn == nil {
		return services.HistoryPage{}, nil
	}
	return s.historyFn(ctx, accountID, limit, offset)
}

func (s stubHistory) GetDashboardStats(ctx context.Context, accountID int64, windowDays int) (services.DashboardStats, error) {
	if s.statsFn == nil {
		return services.DashboardStats{}, nil
	}
	return s.statsFn(ctx, accountID, windowDays)
}

type auditStub struct {
	listFn func(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

func (auditStub) Log(ctx context.Context, tx store.Execer, actorID *int64, action, entityType, entityID, data string) error {
	return nil
}

func (s auditStub) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

func newTestHandler(users UserStore, registry AccountService, ledger LedgerService, history HistoryService) *Handler {
	return newTestHandlerWithAudit(users, registry, ledger, history, auditStub{})
}

func newTestHandlerWithAudit(users UserStore, registry AccountService, ledger LedgerService, history HistoryService, audit AuditStore) *Handler {
	cfg := config.Config{
		JWTSecret:      testSecret,
		TokenTTL:       time.Hour,
		AllowedOrigins: "*",
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(cfg, runnerStub{}, users, registry, ledger, history, audit, nil, log)
}

func ptrInt64(v int64) *int64 {
	return &v
}
