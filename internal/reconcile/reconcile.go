// Package reconcile cross-checks wallet balances against the ledger.
//
// A wallet is in balance when
//
//	balance + pending withdrawal reservations == sum(transactions)
//
// Reservations are taken from the balance when a withdrawal is queued
// but only reach the ledger when the withdrawal completes, so they are
// added back before comparing.
package reconcile

import (
	"context"

	"invest_ledger/internal/metrics"
	"invest_ledger/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Mismatch is a wallet whose balance disagrees with its ledger
type Mismatch struct {
	UserID    uuid.UUID       `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	Reserved  decimal.Decimal `json:"reserved"`
	LedgerSum decimal.Decimal `json:"ledger_sum"`
	Drift     decimal.Decimal `json:"drift"`
}

// Report is the outcome of one reconciliation run
type Report struct {
	WalletsChecked int        `json:"wallets_checked"`
	Mismatches     []Mismatch `json:"mismatches"`
}

// Checker runs reconciliation passes
type Checker struct {
	store *store.Store
	log   logrus.FieldLogger
}

// NewChecker builds a Checker; a nil logger uses the standard logger
func NewChecker(st *store.Store, log logrus.FieldLogger) *Checker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Checker{store: st, log: log}
}

// Check compares every wallet against its ledger. The reads share one
// transaction so the snapshot is consistent.
func (c *Checker) Check(ctx context.Context) (*Report, error) {
	report := &Report{Mismatches: []Mismatch{}}
	err := c.store.Atomic(ctx, func(r *store.Repos) error {
		wallets, err := r.Wallets.All()
		if err != nil {
			return err
		}
		sums, err := r.Ledger.SumsByUser()
		if err != nil {
			return err
		}
		reserved, err := r.Withdrawals.PendingByUser()
		if err != nil {
			return err
		}

		report.WalletsChecked = len(wallets)
		for _, w := range wallets {
			held := reserved[w.UserID].Amount
			expected := sums[w.UserID]
			if w.Balance.Add(held).Equal(expected) {
				continue
			}
			report.Mismatches = append(report.Mismatches, Mismatch{
				UserID:    w.UserID,
				Balance:   w.Balance,
				Reserved:  held,
				LedgerSum: expected,
				Drift:     w.Balance.Add(held).Sub(expected),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ReconcileMismatches.Set(float64(len(report.Mismatches)))
	entry := c.log.WithFields(logrus.Fields{
		"wallets_checked": report.WalletsChecked,
		"mismatches":      len(report.Mismatches),
	})
	if len(report.Mismatches) > 0 {
		entry.Warn("Ledger reconciliation found drift")
	} else {
		entry.Info("Ledger reconciliation clean")
	}
	return report, nil
}
