package reconcile_test

import (
	"context"
	"testing"

	"invest_ledger/internal/domain"
	"invest_ledger/internal/metrics"
	"invest_ledger/internal/reconcile"
	"invest_ledger/internal/store"
	"invest_ledger/internal/testutil"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_CleanLedger(t *testing.T) {
	db := testutil.NewDB(t)
	st := store.New(db)
	user := testutil.SeedUser(t, db, "alice", decimal.Zero)
	ctx := context.Background()

	require.NoError(t, st.Atomic(ctx, func(r *store.Repos) error {
		w, err := r.Wallets.ForUpdate(user.ID)
		if err != nil {
			return err
		}
		if err := r.Wallets.CompareAndSetBalance(w, testutil.D(t, "70")); err != nil {
			return err
		}
		if _, err := r.Ledger.Append(&domain.Transaction{UserID: user.ID, Type: domain.TxDeposit, Amount: testutil.D(t, "100")}); err != nil {
			return err
		}
		// 30 still reserved by a pending withdrawal
		return r.Withdrawals.Create(&domain.PendingWithdrawal{UserID: user.ID, Amount: testutil.D(t, "30"), PhoneNumber: "254700000001"})
	}))

	report, err := reconcile.NewChecker(st, nil).Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.WalletsChecked)
	assert.Empty(t, report.Mismatches)
	assert.Equal(t, float64(0), promtest.ToFloat64(metrics.ReconcileMismatches))
}

func TestCheck_ReportsDrift(t *testing.T) {
	db := testutil.NewDB(t)
	st := store.New(db)
	// Seeded balances have no ledger entries behind them
	drifted := testutil.SeedUser(t, db, "bob", testutil.D(t, "25"))
	testutil.SeedUser(t, db, "carol", decimal.Zero)

	report, err := reconcile.NewChecker(st, nil).Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.WalletsChecked)
	require.Len(t, report.Mismatches, 1)

	m := report.Mismatches[0]
	assert.Equal(t, drifted.ID, m.UserID)
	assert.True(t, m.LedgerSum.IsZero())
	assert.True(t, m.Drift.Equal(testutil.D(t, "25")))
	assert.Equal(t, float64(1), promtest.ToFloat64(metrics.ReconcileMismatches))
}
