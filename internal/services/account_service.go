package services

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/pragambesh-moro/banking-system-simulation/internal/db"
	"github.com/pragambesh-moro/banking-system-simulation/internal/store"
)

// AccountService is the account registry: it allocates ACC-numbers,
// creates accounts and looks them up.
type AccountService struct {
	txRunner     db.TxRunner
	accounts     AccountStore
	transactions TransactionStore
	audit        AuditStore
	maxAttempts  int
	log          *logrus.Logger
}

func NewAccountService(txRunner db.TxRunner, accounts AccountStore, transactions TransactionStore, audit AuditStore, maxAttempts int, log *logrus.Logger) *AccountService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &AccountService{
		txRunner:     txRunner,
		accounts:     accounts,
		transactions: transactions,
		audit:        audit,
		maxAttempts:  maxAttempts,
		log:          log,
	}
}

// CreateAccount inserts an account with a freshly drawn number and, for
// a positive opening balance, the opening CREDIT transaction — all in
// one unit of work. A number collision aborts the transaction and the
// whole attempt is retried with a new draw, up to the configured cap.
func (s *AccountService) CreateAccount(ctx context.Context, userID *int64, openingMinor int64) (store.Account, error) {
	if openingMinor < 0 {
		return store.Account{}, ErrInvalidOpeningBalance
	}
	var created store.Account
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		number := generateAccountNumber()
		err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
			account, err := s.accounts.Create(ctx, tx, userID, number, openingMinor)
			if err != nil {
				return err
			}
			if openingMinor > 0 {
				if _, err := s.transactions.Create(ctx, tx, store.TransactionInput{
					AccountID:    account.ID,
					Type:         store.TypeCredit,
					Amount:       openingMinor,
					BalanceAfter: openingMinor,
					Description:  descriptionOrDefault("", "Initial deposit"),
				}); err != nil {
					return err
				}
			}
			created = account
			return s.audit.Log(ctx, tx, userID, "account_created", "account", number, "{}")
		})
		if err == nil {
			return created, nil
		}
		if db.IsUniqueViolation(err, "accounts_account_number_key") {
			s.log.WithField("attempt", attempt+1).Warn("account number collision, redrawing")
			continue
		}
		return store.Account{}, err
	}
	return store.Account{}, ErrAccountNumbersExhausted
}

// CreateAccountInTx is the registry entry point for callers that already
// hold a unit of work (registration creates the user and the account
// atomically). Collisions are not retried here: the caller's transaction
// is already poisoned, so the error propagates.
func (s *AccountService) CreateAccountInTx(ctx context.Context, tx *sqlx.Tx, userID *int64, openingMinor int64) (store.Account, error) {
	if openingMinor < 0 {
		return store.Account{}, ErrInvalidOpeningBalance
	}
	account, err := s.accounts.Create(ctx, tx, userID, generateAccountNumber(), openingMinor)
	if err != nil {
		return store.Account{}, err
	}
	if openingMinor > 0 {
		if _, err := s.transactions.Create(ctx, tx, store.TransactionInput{
			AccountID:    account.ID,
			Type:         store.TypeCredit,
			Amount:       openingMinor,
			BalanceAfter: openingMinor,
			Description:  descriptionOrDefault("", "Initial deposit"),
		}); err != nil {
			return store.Account{}, err
		}
	}
	return account, nil
}

func (s *AccountService) GetAccountByID(ctx context.Context, accountID int64) (store.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return store.Account{}, translateNoRows(err, ErrAccountNotFound)
	}
	return account, nil
}

func (s *AccountService) GetAccountByNumber(ctx context.Context, accountNumber string) (store.Account, error) {
	account, err := s.accounts.GetByNumber(ctx, accountNumber)
	if err != nil {
		return store.Account{}, translateNoRows(err, ErrAccountNotFound)
	}
	return account, nil
}

func (s *AccountService) GetAccountByUser(ctx context.Context, userID int64) (store.Account, error) {
	account, err := s.accounts.GetByUser(ctx, userID)
	if err != nil {
		return store.Account{}, translateNoRows(err, ErrAccountNotFound)
	}
	return account, nil
}

// generateAccountNumber draws a six-digit number; uniqueness is enforced
// by the account_number constraint, not here.
func generateAccountNumber() string {
	return fmt.Sprintf("ACC-%06d", 100000+rand.Intn(900000))
}
