package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/pragambesh-moro/banking-system-simulation/internal/store"
	"github.com/pragambesh-moro/banking-system-simulation/internal/websocket"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubAccountStore struct {
	createFn        func(ctx context.Context, tx store.Getter, userID *int64, accountNumber string, balance int64) (store.Account, error)
	getByIDFn       func(ctx context.Context, accountID int64) (store.Account, error)
	getByNumberFn   func(ctx context.Context, accountNumber string) (store.Account, error)
	getByUserFn     func(ctx context.Context, userID int64) (store.Account, error)
	getForUpdateFn  func(ctx context.Context, tx store.Getter, accountID int64) (store.Account, error)
	updateBalanceFn func(ctx context.Context, tx store.Execer, accountID int64, balance int64) error
}

func (s stubAccountStore) Create(ctx context.Context, tx store.Getter, userID *int64, accountNumber string, balance int64) (store.Account, error) {
	if s.createFn == nil {
		return store.Account{AccountNumber: accountNumber, Balance: balance, UserID: userID}, nil
	}
	return s.createFn(ctx, tx, userID, accountNumber, balance)
}

func (s stubAccountStore) GetByID(ctx context.Context, accountID int64) (store.Account, error) {
	if s.getByIDFn == nil {
		return store.Account{ID: accountID}, nil
	}
	return s.getByIDFn(ctx, accountID)
}

func (s stubAccountStore) GetByNumber(ctx context.Context, accountNumber string) (store.Account, error) {
	if s.getByNumberFn == nil {
		return store.Account{AccountNumber: accountNumber}, nil
	}
	return s.getByNumberFn(ctx, accountNumber)
}

func (s stubAccountStore) GetByUser(ctx context.Context, userID int64) (store.Account, error) {
	if s.getByUserFn == nil {
		return store.Account{}, nil
	}
	return s.getByUserFn(ctx, userID)
}

func (s stubAccountStore) GetForUpdate(ctx context.Context, tx store.Getter, accountID int64) (store.Account, error) {
	return s.getForUpdateFn(ctx, tx, accountID)
}

func (s stubAccountStore) UpdateBalance(ctx context.Context, tx store.Execer, accountID int64, balance int64) error {
	if s.updateBalanceFn == nil {
		return nil
	}
	return s.updateBalanceFn(ctx, tx, accountID, balance)
}

// stubTransactionStore assigns sequential ids so tests can assert on
// the cross-linking of transfer legs.
type stubTransactionStore struct {
	nextID       int64
	created      []store.TransactionInput
	related      [][2]int64
	createFn     func(ctx context.Context, tx store.Getter, input store.TransactionInput) (store.Transaction, error)
	listFn       func(ctx context.Context, accountID int64, limit, offset int) ([]store.Transaction, error)
	countFn      func(ctx context.Context, accountID int64) (int64, error)
	statsFn      func(ctx context.Context, accountID int64, since time.Time) (store.AccountStats, error)
	reconcileFn  func(ctx context.Context) ([]store.BalanceDrift, error)
	setRelatedFn func(ctx context.Context, tx store.Execer, transactionID, relatedID int64) error
}

func (s *stubTransactionStore) Create(ctx context.Context, tx store.Getter, input store.TransactionInput) (store.Transaction, error) {
	if s.createFn != nil {
		return s.createFn(ctx, tx, input)
	}
	s.nextID++
	s.created = append(s.created, input)
	return store.Transaction{
		ID:                   s.nextID,
		AccountID:            input.AccountID,
		Type:                 input.Type,
		Amount:               input.Amount,
		BalanceAfter:         input.BalanceAfter,
		RelatedTransactionID: input.RelatedTransactionID,
		Description:          input.Description,
		CreatedAt:            time.Now(),
	}, nil
}

func (s *stubTransactionStore) SetRelated(ctx context.Context, tx store.Execer, transactionID, relatedID int64) error {
	if s.setRelatedFn != nil {
		return s.setRelatedFn(ctx, tx, transactionID, relatedID)
	}
	s.related = append(s.related, [2]int64{transactionID, relatedID})
	return nil
}

func (s *stubTransactionStore) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]store.Transaction, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, accountID, limit, offset)
}

func (s *stubTransactionStore) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	if s.countFn == nil {
		return 0, nil
	}
	return s.countFn(ctx, accountID)
}

func (s *stubTransactionStore) StatsByAccount(ctx context.Context, accountID int64, since time.Time) (store.AccountStats, error) {
	if s.statsFn == nil {
		return store.AccountStats{}, nil
	}
	return s.statsFn(ctx, accountID, since)
}

func (s *stubTransactionStore) ReconcileAll(ctx context.Context) ([]store.BalanceDrift, error) {
	if s.reconcileFn == nil {
		return nil, nil
	}
	return s.reconcileFn(ctx)
}

type stubAuditStore struct {
	mu      sync.Mutex
	actions []string
}

func (s *stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID *int64, action, entityType, entityID, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
	return nil
}

type stubHub struct {
	mu    sync.Mutex
	calls []websocket.BalanceUpdate
}

func (s *stubHub) BroadcastBalance(_ int64, update websocket.BalanceUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, update)
}

func (s *stubHub) updates() []websocket.BalanceUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]websocket.BalanceUpdate(nil), s.calls...)
}

func int64Ptr(v int64) *int64 {
	return &v
}
