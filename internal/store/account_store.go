package store

import (
	"context"
	"time"
)

type AccountStore struct {
	db DB
}

// Account balances are int64 minor units. The schema enforces
// balance >= 0 and a unique account_number.
type Account struct {
	ID            int64     `db:"id"`
	UserID        *int64    `db:"user_id"`
	AccountNumber string    `db:"account_number"`
	Balance       int64     `db:"balance"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, tx Getter, userID *int64, accountNumber string, balance int64) (Account, error) {
	var row Account
	err := tx.GetContext(ctx, &row, `
		INSERT INTO accounts (user_id, account_number, balance)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, account_number, balance, created_at, updated_at
	`, userID, accountNumber, balance)
	if err != nil {
		return Account{}, err
	}
	return row, nil
}

func (s *AccountStore) GetByID(ctx context.Context, accountID int64) (Account, error) {
	var row Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, account_number, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`, accountID)
	if err != nil {
		return Account{}, err
	}
	return row, nil
}

func (s *AccountStore) GetByNumber(ctx context.Context, accountNumber string) (Account, error) {
	var row Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, account_number, balance, created_at, updated_at
		FROM accounts
		WHERE account_number = $1
	`, accountNumber)
	if err != nil {
		return Account{}, err
	}
	return row, nil
}

func (s *AccountStore) GetByUser(ctx context.Context, userID int64) (Account, error) {
	var row Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, account_number, balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return Account{}, err
	}
	return row, nil
}

// GetForUpdate takes the row-level exclusive lock the ledger engine
// relies on; the lock is held until the surrounding transaction ends.
func (s *AccountStore) GetForUpdate(ctx context.Context, tx Getter, accountID int64) (Account, error) {
	var row Account
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, account_number, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`, accountID)
	if err != nil {
		return Account{}, err
	}
	return row, nil
}

func (s *AccountStore) UpdateBalance(ctx context.Context, tx Execer, accountID int64, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`, balance, accountID)
	return err
}
