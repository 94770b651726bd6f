package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func accountColumns() []string {
	return []string{"id", "user_id", "account_number", "balance", "created_at", "updated_at"}
}

func TestAccountStore_Create(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewAccountStore(db)
	now := time.Now()

	userID := int64(3)
	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs(userID, "ACC-123456", int64(50000)).
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(1, userID, "ACC-123456", 50000, now, now))

	account, err := store.Create(context.Background(), db, &userID, "ACC-123456", 50000)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), account.ID)
	assert.Equal(t, "ACC-123456", account.AccountNumber)
	assert.Equal(t, int64(50000), account.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountStore_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewAccountStore(db)
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id, account_number, balance, created_at, updated_at FROM accounts WHERE id = \\$1").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(accountColumns()).
				AddRow(7, nil, "ACC-654321", 120000, now, now))

		account, err := store.GetByID(context.Background(), 7)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), account.ID)
		assert.Nil(t, account.UserID)
		assert.Equal(t, int64(120000), account.Balance)
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id, account_number, balance, created_at, updated_at FROM accounts WHERE id = \\$1").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := store.GetByID(context.Background(), 99)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountStore_GetForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewAccountStore(db)
	now := time.Now()

	mock.ExpectQuery("SELECT id, user_id, account_number, balance, created_at, updated_at FROM accounts WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(7, nil, "ACC-654321", 120000, now, now))

	account, err := store.GetForUpdate(context.Background(), db, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(120000), account.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountStore_UpdateBalance(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewAccountStore(db)

	mock.ExpectExec("UPDATE accounts SET balance = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
		WithArgs(int64(90000), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdateBalance(context.Background(), db, 7, 90000)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
