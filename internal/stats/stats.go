// Package stats computes the admin dashboard rollup. It only reads; its
// numbers are a derived view and never feed back into wallet balances.
package stats

import (
	"context"

	"invest_ledger/internal/domain"
	"invest_ledger/internal/store"

	"github.com/shopspring/decimal"
)

// PlatformStats is the dashboard rollup. Deposits and withdrawals count
// resolved requests only, so admin balance adjustments are excluded.
type PlatformStats struct {
	TotalDeposits     decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals  decimal.Decimal `json:"total_withdrawals"`
	TotalUsers        int64           `json:"total_users"`
	ActiveInvestments decimal.Decimal `json:"active_investments"`
	CashFlow          decimal.Decimal `json:"cash_flow"`
	ApprovedDeposits  int64           `json:"approved_deposits"`
	CompletedPayouts  int64           `json:"completed_withdrawals"`
}

// Aggregator computes PlatformStats from the store
type Aggregator struct {
	store *store.Store
}

// NewAggregator builds an Aggregator over st
func NewAggregator(st *store.Store) *Aggregator {
	return &Aggregator{store: st}
}

// ComputeStats scans approved deposits, completed withdrawals, users and
// active investments
func (a *Aggregator) ComputeStats(ctx context.Context) (*PlatformStats, error) {
	r := a.store.Read(ctx)

	deposits, err := r.Deposits.SumByStatus(domain.StatusApproved)
	if err != nil {
		return nil, err
	}
	withdrawals, err := r.Withdrawals.SumByStatus(domain.StatusCompleted)
	if err != nil {
		return nil, err
	}
	users, err := r.Users.Count()
	if err != nil {
		return nil, err
	}
	invested, err := r.Investments.SumActive()
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		TotalDeposits:     deposits.Amount,
		TotalWithdrawals:  withdrawals.Amount,
		TotalUsers:        users,
		ActiveInvestments: invested,
		CashFlow:          deposits.Amount.Sub(withdrawals.Amount),
		ApprovedDeposits:  deposits.Count,
		CompletedPayouts:  withdrawals.Count,
	}, nil
}
