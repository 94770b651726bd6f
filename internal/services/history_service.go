package services

import (
	"context"
	"time"

	"github.com/pragambesh-moro/banking-system-simulation/internal/store"
)

// HistoryService is the read-only side: paginated transaction history
// and trailing-window dashboard aggregates. It takes no locks; a
// consistent read is enough.
type HistoryService struct {
	accounts     AccountStore
	transactions TransactionStore
}

func NewHistoryService(accounts AccountStore, transactions TransactionStore) *HistoryService {
	return &HistoryService{accounts: accounts, transactions: transactions}
}

type HistoryPage struct {
	Account           store.Account
	Transactions      []store.Transaction
	TotalTransactions int64
}

type DashboardStats struct {
	TotalIncome       int64
	TotalExpenses     int64
	TotalTransactions int64
}

// GetHistory returns the most recent transactions first. Paging bounds
// (limit in [1,100], offset >= 0) are the request layer's contract;
// arguments here are assumed well-formed.
func (s *HistoryService) GetHistory(ctx context.Context, accountID int64, limit, offset int) (HistoryPage, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return HistoryPage{}, translateNoRows(err, ErrAccountNotFound)
	}
	transactions, err := s.transactions.ListByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return HistoryPage{}, err
	}
	total, err := s.transactions.CountByAccount(ctx, accountID)
	if err != nil {
		return HistoryPage{}, err
	}
	return HistoryPage{
		Account:           account,
		Transactions:      transactions,
		TotalTransactions: total,
	}, nil
}

func (s *HistoryService) GetDashboardStats(ctx context.Context, accountID int64, windowDays int) (DashboardStats, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return DashboardStats{}, translateNoRows(err, ErrAccountNotFound)
	}
	since := time.Now().AddDate(0, 0, -windowDays)
	stats, err := s.transactions.StatsByAccount(ctx, accountID, since)
	if err != nil {
		return DashboardStats{}, err
	}
	return DashboardStats{
		TotalIncome:       stats.TotalCredited,
		TotalExpenses:     stats.TotalDebited,
		TotalTransactions: stats.TransactionCount,
	}, nil
}
