package services

import (
	"context"
	"time"

	"github.com/pragambesh-moro/banking-system-simulation/internal/store"
	"github.com/pragambesh-moro/banking-system-simulation/internal/websocket"
)

type AccountStore interface {
	Create(ctx context.Context, tx store.Getter, userID *int64, accountNumber string, balance int64) (store.Account, error)
	GetByID(ctx context.Context, accountID int64) (store.Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (store.Account, error)
	GetByUser(ctx context.Context, userID int64) (store.Account, error)
	GetForUpdate(ctx context.Context, tx store.Getter, accountID int64) (store.Account, error)
	UpdateBalance(ctx context.Context, tx store.Execer, accountID int64, balance int64) error
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Getter, input store.TransactionInput) (store.Transaction, error)
	SetRelated(ctx context.Context, tx store.Execer, transactionID, relatedID int64) error
	ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]store.Transaction, error)
	CountByAccount(ctx context.Context, accountID int64) (int64, error)
	StatsByAccount(ctx context.Context, accountID int64, since time.Time) (store.AccountStats, error)
	ReconcileAll(ctx context.Context) ([]store.BalanceDrift, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID *int64, action, entityType, entityID, data string) error
}

type BalanceHub interface {
	BroadcastBalance(userID int64, update websocket.BalanceUpdate)
}
