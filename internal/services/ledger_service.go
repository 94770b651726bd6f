package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/pragambesh-moro/banking-system-simulation/internal/db"
	"github.com/pragambesh-moro/banking-system-simulation/internal/money"
	"github.com/pragambesh-moro/banking-system-simulation/internal/store"
	"github.com/pragambesh-moro/banking-system-simulation/internal/websocket"
)

const maxDescriptionLen = 255

// LedgerService is the mutation engine. Every operation is one unit of
// work: row locks are taken with FOR UPDATE, held to commit or abort,
// and nothing partial is ever visible.
type LedgerService struct {
	txRunner     db.TxRunner
	accounts     AccountStore
	transactions TransactionStore
	audit        AuditStore
	hub          BalanceHub
	log          *logrus.Logger
}

func NewLedgerService(txRunner db.TxRunner, accounts AccountStore, transactions TransactionStore, audit AuditStore, hub BalanceHub, log *logrus.Logger) *LedgerService {
	return &LedgerService{
		txRunner:     txRunner,
		accounts:     accounts,
		transactions: transactions,
		audit:        audit,
		hub:          hub,
		log:          log,
	}
}

// TransactionResult reports one account's state after a committed
// mutation together with the transaction that recorded it.
type TransactionResult struct {
	AccountID     int64
	AccountNumber string
	Balance       int64
	Transaction   store.Transaction
}

// TransferResult carries both legs of a committed transfer.
type TransferResult struct {
	From TransactionResult
	To   TransactionResult
}

func (s *LedgerService) Deposit(ctx context.Context, accountID int64, amountMinor int64, description string) (TransactionResult, error) {
	if amountMinor <= 0 {
		return TransactionResult{}, ErrInvalidAmount
	}
	var result TransactionResult
	var owner *int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.accounts.GetForUpdate(ctx, tx, accountID)
		if err != nil {
			return translateNoRows(err, ErrAccountNotFound)
		}
		owner = account.UserID
		newBalance := account.Balance + amountMinor
		if err := s.accounts.UpdateBalance(ctx, tx, account.ID, newBalance); err != nil {
			return err
		}
		created, err := s.transactions.Create(ctx, tx, store.TransactionInput{
			AccountID:    account.ID,
			Type:         store.TypeCredit,
			Amount:       amountMinor,
			BalanceAfter: newBalance,
			Description:  descriptionOrDefault(description, "Deposit"),
		})
		if err != nil {
			return err
		}
		result = TransactionResult{
			AccountID:     account.ID,
			AccountNumber: account.AccountNumber,
			Balance:       newBalance,
			Transaction:   created,
		}
		return s.auditMutation(ctx, tx, owner, "deposit", created.ID, amountMinor)
	})
	if err != nil {
		return TransactionResult{}, s.classify(err)
	}
	s.broadcast(owner, result)
	return result, nil
}

func (s *LedgerService) Withdraw(ctx context.Context, accountID int64, amountMinor int64, description string) (TransactionResult, error) {
	if amountMinor <= 0 {
		return TransactionResult{}, ErrInvalidAmount
	}
	var result TransactionResult
	var owner *int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.accounts.GetForUpdate(ctx, tx, accountID)
		if err != nil {
			return translateNoRows(err, ErrAccountNotFound)
		}
		owner = account.UserID
		if account.Balance < amountMinor {
			return ErrInsufficientFunds
		}
		newBalance := account.Balance - amountMinor
		if err := s.accounts.UpdateBalance(ctx, tx, account.ID, newBalance); err != nil {
			return err
		}
		created, err := s.transactions.Create(ctx, tx, store.TransactionInput{
			AccountID:    account.ID,
			Type:         store.TypeDebit,
			Amount:       amountMinor,
			BalanceAfter: newBalance,
			Description:  descriptionOrDefault(description, "Withdrawal"),
		})
		if err != nil {
			return err
		}
		result = TransactionResult{
			AccountID:     account.ID,
			AccountNumber: account.AccountNumber,
			Balance:       newBalance,
			Transaction:   created,
		}
		return s.auditMutation(ctx, tx, owner, "withdraw", created.ID, amountMinor)
	})
	if err != nil {
		return TransactionResult{}, s.classify(err)
	}
	s.broadcast(owner, result)
	return result, nil
}

func (s *LedgerService) Transfer(ctx context.Context, fromID, toID int64, amountMinor int64, description string) (TransferResult, error) {
	if amountMinor <= 0 {
		return TransferResult{}, ErrInvalidAmount
	}
	if fromID == toID {
		return TransferResult{}, ErrSameAccount
	}
	var result TransferResult
	var fromOwner, toOwner *int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		from, to, err := s.lockAccountPair(ctx, tx, fromID, toID)
		if err != nil {
			return translateNoRows(err, ErrAccountNotFound)
		}
		fromOwner, toOwner = from.UserID, to.UserID
		if from.Balance < amountMinor {
			return ErrInsufficientFunds
		}
		newFrom := from.Balance - amountMinor
		newTo := to.Balance + amountMinor
		if err := s.accounts.UpdateBalance(ctx, tx, from.ID, newFrom); err != nil {
			return err
		}
		if err := s.accounts.UpdateBalance(ctx, tx, to.ID, newTo); err != nil {
			return err
		}

		debit, err := s.transactions.Create(ctx, tx, store.TransactionInput{
			AccountID:    from.ID,
			Type:         store.TypeDebit,
			Amount:       amountMinor,
			BalanceAfter: newFrom,
			Description:  descriptionOrDefault(description, "Transfer to "+to.AccountNumber),
		})
		if err != nil {
			return err
		}
		credit, err := s.transactions.Create(ctx, tx, store.TransactionInput{
			AccountID:            to.ID,
			Type:                 store.TypeCredit,
			Amount:               amountMinor,
			BalanceAfter:         newTo,
			RelatedTransactionID: &debit.ID,
			Description:          descriptionOrDefault(description, "Transfer from "+from.AccountNumber),
		})
		if err != nil {
			return err
		}
		// Complete the symmetric pair before commit.
		if err := s.transactions.SetRelated(ctx, tx, debit.ID, credit.ID); err != nil {
			return err
		}
		debit.RelatedTransactionID = &credit.ID

		// Conservation: the two legs must cancel exactly.
		if debit.Amount != credit.Amount {
			return ErrLedgerIntegrity
		}

		result = TransferResult{
			From: TransactionResult{
				AccountID:     from.ID,
				AccountNumber: from.AccountNumber,
				Balance:       newFrom,
				Transaction:   debit,
			},
			To: TransactionResult{
				AccountID:     to.ID,
				AccountNumber: to.AccountNumber,
				Balance:       newTo,
				Transaction:   credit,
			},
		}
		return s.auditMutation(ctx, tx, fromOwner, "transfer", debit.ID, amountMinor)
	})
	if err != nil {
		return TransferResult{}, s.classify(err)
	}
	s.broadcast(fromOwner, result.From)
	s.broadcast(toOwner, result.To)
	return result, nil
}

// TransferToNumber resolves the destination by its ACC-number and
// delegates to the id-based Transfer.
func (s *LedgerService) TransferToNumber(ctx context.Context, fromID int64, toNumber string, amountMinor int64, description string) (TransferResult, error) {
	to, err := s.accounts.GetByNumber(ctx, toNumber)
	if err != nil {
		return TransferResult{}, translateNoRows(err, ErrAccountNotFound)
	}
	return s.Transfer(ctx, fromID, to.ID, amountMinor, description)
}

// SelfCheck replays every account's signed history against its stored
// balance. Drift means a committed mutation broke an invariant.
func (s *LedgerService) SelfCheck(ctx context.Context) ([]store.BalanceDrift, error) {
	return s.transactions.ReconcileAll(ctx)
}

// lockAccountPair acquires both row locks in canonical order and hands
// the accounts back in the caller's logical order.
func (s *LedgerService) lockAccountPair(ctx context.Context, tx store.Tx, firstID, secondID int64) (store.Account, store.Account, error) {
	leftID, rightID, swapped := lockOrder(firstID, secondID)
	left, err := s.accounts.GetForUpdate(ctx, tx, leftID)
	if err != nil {
		return store.Account{}, store.Account{}, err
	}
	right, err := s.accounts.GetForUpdate(ctx, tx, rightID)
	if err != nil {
		return store.Account{}, store.Account{}, err
	}
	if swapped {
		return right, left, nil
	}
	return left, right, nil
}

func (s *LedgerService) auditMutation(ctx context.Context, tx store.Execer, actorID *int64, action string, transactionID, amountMinor int64) error {
	data, _ := json.Marshal(map[string]string{
		"transaction_id": strconv.FormatInt(transactionID, 10),
		"amount":         money.FormatMinor(amountMinor),
	})
	return s.audit.Log(ctx, tx, actorID, action, "transaction", strconv.FormatInt(transactionID, 10), string(data))
}

func (s *LedgerService) broadcast(ownerID *int64, result TransactionResult) {
	if ownerID == nil {
		return
	}
	s.hub.BroadcastBalance(*ownerID, websocket.BalanceUpdate{
		AccountID:     result.AccountID,
		AccountNumber: result.AccountNumber,
		Balance:       money.FormatMinor(result.Balance),
	})
}

// classify maps unexpected constraint trips to the integrity error and
// logs them; taxonomy errors pass through untouched.
func (s *LedgerService) classify(err error) error {
	if db.IsCheckViolation(err) {
		s.log.WithError(err).Error("ledger constraint violated at commit")
		return fmt.Errorf("%w: %v", ErrLedgerIntegrity, err)
	}
	return err
}

func translateNoRows(err, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}

// descriptionOrDefault caps the text at the column width. The column is
// VARCHAR(255) — 255 characters, not bytes — so the cut must fall on a
// rune boundary or Postgres rejects the insert as invalid UTF-8.
func descriptionOrDefault(raw, fallback string) *string {
	text := raw
	if text == "" {
		text = fallback
	}
	if runes := []rune(text); len(runes) > maxDescriptionLen {
		text = string(runes[:maxDescriptionLen])
	}
	return &text
}
