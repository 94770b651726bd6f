package handlers

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/pragambesh-moro/banking-system-simulation/internal/services"
	"github.com/pragambesh-moro/banking-system-simulation/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Getter, name, email, passwordHash string) (store.User, error)
	GetByEmail(ctx context.Context, email string) (store.User, error)
	GetByID(ctx context.Context, userID int64) (store.User, error)
}

type AccountService interface {
	CreateAccount(ctx context.Context, userID *int64, openingMinor int64) (store.Account, error)
	CreateAccountInTx(ctx context.Context, tx *sqlx.Tx, userID *int64, openingMinor int64) (store.Account, error)
	GetAccountByID(ctx context.Context, accountID int64) (store.Account, error)
	GetAccountByNumber(ctx context.Context, accountNumber string) (store.Account, error)
	GetAccountByUser(ctx context.Context, userID int64) (store.Account, error)
}

type LedgerService interface {
	Deposit(ctx context.Context, accountID int64, amountMinor int64, description string) (services.TransactionResult, error)
	Withdraw(ctx context.Context, accountID int64, amountMinor int64, description string) (services.TransactionResult, error)
	Transfer(ctx context.Context, fromID, toID int64, amountMinor int64, description string) (services.TransferResult, error)
	TransferToNumber(ctx context.Context, fromID int64, toNumber string, amountMinor int64, description string) (services.TransferResult, error)
}

type HistoryService interface {
	GetHistory(ctx context.Context, accountID int64, limit, offset int) (services.HistoryPage, error)
	GetDashboardStats(ctx context.Context, accountID int64, windowDays int) (services.DashboardStats, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID *int64, action, entityType, entityID, data string) error
	List(ctx context.Context, limit, offset int) ([]map[string]any, error)
}
