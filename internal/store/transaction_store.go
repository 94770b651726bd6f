package store

import (
	"context"
	"time"
)

const (
	TypeCredit = "CREDIT"
	TypeDebit  = "DEBIT"
)

type TransactionStore struct {
	db DB
}

// Transaction rows are append-only history. related_transaction_id pairs
// the two legs of a transfer and is null for everything else.
type Transaction struct {
	ID                   int64     `db:"id" json:"id"`
	AccountID            int64     `db:"account_id" json:"account_id"`
	Type                 string    `db:"type" json:"type"`
	Amount               int64     `db:"amount" json:"amount"`
	BalanceAfter         int64     `db:"balance_after" json:"balance_after"`
	RelatedTransactionID *int64    `db:"related_transaction_id" json:"related_transaction_id,omitempty"`
	Description          *string   `db:"description" json:"description,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

type TransactionInput struct {
	AccountID            int64
	Type                 string
	Amount               int64
	BalanceAfter         int64
	RelatedTransactionID *int64
	Description          *string
}

// AccountStats aggregates a trailing window of an account's history.
type AccountStats struct {
	TotalCredited    int64 `db:"total_credited"`
	TotalDebited     int64 `db:"total_debited"`
	TransactionCount int64 `db:"transaction_count"`
}

// BalanceDrift is one row of the reconciliation query: the stored balance
// against the balance replayed from the signed transaction history.
type BalanceDrift struct {
	AccountID     int64  `db:"account_id"`
	AccountNumber string `db:"account_number"`
	StoredBalance int64  `db:"stored_balance"`
	ReplayedSum   int64  `db:"replayed_sum"`
	Difference    int64  `db:"difference"`
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) Create(ctx context.Context, tx Getter, input TransactionInput) (Transaction, error) {
	var row Transaction
	err := tx.GetContext(ctx, &row, `
		INSERT INTO transactions (account_id, type, amount, balance_after, related_transaction_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, account_id, type, amount, balance_after, related_transaction_id, description, created_at
	`, input.AccountID, input.Type, input.Amount, input.BalanceAfter, input.RelatedTransactionID, input.Description)
	if err != nil {
		return Transaction{}, err
	}
	return row, nil
}

// SetRelated completes a transfer pair; it is only ever called inside the
// unit of work that created both legs.
func (s *TransactionStore) SetRelated(ctx context.Context, tx Execer, transactionID, relatedID int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET related_transaction_id = $1
		WHERE id = $2
	`, relatedID, transactionID)
	return err
}

func (s *TransactionStore) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]Transaction, error) {
	var rows []Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, account_id, type, amount, balance_after, related_transaction_id, description, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM transactions
		WHERE account_id = $1
	`, accountID)
	return count, err
}

func (s *TransactionStore) StatsByAccount(ctx context.Context, accountID int64, since time.Time) (AccountStats, error) {
	var stats AccountStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE type = 'CREDIT'), 0) AS total_credited,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'DEBIT'), 0)  AS total_debited,
		       COUNT(*)                                                AS transaction_count
		FROM transactions
		WHERE account_id = $1 AND created_at >= $2
	`, accountID, since)
	if err != nil {
		return AccountStats{}, err
	}
	return stats, nil
}

// ReconcileAll replays every account's signed history and reports rows
// where the stored balance disagrees. An empty result means the ledger
// invariants held for every committed mutation.
func (s *TransactionStore) ReconcileAll(ctx context.Context) ([]BalanceDrift, error) {
	var rows []BalanceDrift
	err := s.db.SelectContext(ctx, &rows, `
		SELECT a.id AS account_id,
		       a.account_number,
		       a.balance AS stored_balance,
		       COALESCE(SUM(CASE WHEN t.type = 'CREDIT' THEN t.amount ELSE -t.amount END), 0) AS replayed_sum,
		       a.balance - COALESCE(SUM(CASE WHEN t.type = 'CREDIT' THEN t.amount ELSE -t.amount END), 0) AS difference
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id
		GROUP BY a.id, a.account_number, a.balance
		HAVING a.balance <> COALESCE(SUM(CASE WHEN t.type = 'CREDIT' THEN t.amount ELSE -t.amount END), 0)
		ORDER BY a.id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
