package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/pragambesh-moro/banking-system-simulation/internal/money"
	"github.com/pragambesh-moro/banking-system-simulation/internal/store"
)

type LedgerChecker interface {
	SelfCheck(ctx context.Context) ([]store.BalanceDrift, error)
}

// Reconciler periodically replays the transaction history against the
// stored balances and logs any drift. It never mutates anything.
type Reconciler struct {
	checker  LedgerChecker
	interval time.Duration
	log      *logrus.Logger
	cron     *cron.Cron
}

func NewReconciler(checker LedgerChecker, interval time.Duration, log *logrus.Logger) *Reconciler {
	return &Reconciler{
		checker:  checker,
		interval: interval,
		log:      log,
		cron:     cron.New(),
	}
}

func (r *Reconciler) Start() error {
	spec := fmt.Sprintf("@every %s", r.interval)
	if _, err := r.cron.AddFunc(spec, r.Run); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

func (r *Reconciler) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Reconciler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	drift, err := r.checker.SelfCheck(ctx)
	if err != nil {
		r.log.WithError(err).Error("ledger self-check failed")
		return
	}
	if len(drift) == 0 {
		r.log.Debug("ledger self-check clean")
		return
	}
	for _, row := range drift {
		r.log.WithFields(logrus.Fields{
			"account_id":     row.AccountID,
			"account_number": row.AccountNumber,
			"stored":         money.FormatMinor(row.StoredBalance),
			"replayed":       money.FormatMinor(row.ReplayedSum),
			"difference":     money.FormatMinor(row.Difference),
		}).Error("ledger drift detected")
	}
}
