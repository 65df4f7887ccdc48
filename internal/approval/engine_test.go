package approval_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"invest_ledger/internal/approval"
	"invest_ledger/internal/domain"
	"invest_ledger/internal/metrics"
	"invest_ledger/internal/reconcile"
	"invest_ledger/internal/requests"
	"invest_ledger/internal/stats"
	"invest_ledger/internal/store"
	"invest_ledger/internal/testutil"

	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	st     *store.Store
	engine *approval.Engine
	admin  *domain.User
	hook   *logtest.Hook
}

func newFixture(t *testing.T, opts approval.Options) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	st := store.New(db)
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opts.Logger = logger
	return &fixture{
		db:     db,
		st:     st,
		engine: approval.New(st, opts),
		admin:  testutil.SeedAdmin(t, db, "root"),
		hook:   hook,
	}
}

func (f *fixture) balance(t *testing.T, userID uuid.UUID) decimal.Decimal {
	t.Helper()
	b, err := f.st.Read(context.Background()).Wallets.GetBalance(userID)
	require.NoError(t, err)
	return b
}

func (f *fixture) txCount(t *testing.T, userID uuid.UUID) int64 {
	t.Helper()
	n, err := f.st.Read(context.Background()).Ledger.CountByUser(userID)
	require.NoError(t, err)
	return n
}

func TestResolveDeposit_ApproveCreditsWalletOnce(t *testing.T) {
	f := newFixture(t, approval.Options{})
	user := testutil.SeedUser(t, f.db, "alice", decimal.Zero)
	dep := testutil.SeedDeposit(t, f.db, user.ID, testutil.D(t, "100"), "ABC123")
	ctx := context.Background()

	res, err := f.engine.ResolveDeposit(ctx, dep.ID, domain.DecisionApprove, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, res.Status)
	require.NotNil(t, res.NewBalance)
	assert.True(t, res.NewBalance.Equal(testutil.D(t, "100")))
	assert.NotEqual(t, uuid.Nil, res.TransactionID)
	assert.NotEqual(t, uuid.Nil, res.AuditID)

	_, err = f.engine.ResolveDeposit(ctx, dep.ID, domain.DecisionApprove, f.admin.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))

	assert.True(t, f.balance(t, user.ID).Equal(testutil.D(t, "100")))
	assert.EqualValues(t, 1, f.txCount(t, user.ID))

	txs, _, err := f.engine.ListTransactions(ctx, user.ID, store.Page{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TxDeposit, txs[0].Type)
	assert.Equal(t, "M-PESA Deposit - ABC123", txs[0].Description)
	assert.Equal(t, dep.ID.String(), txs[0].Reference)

	got, err := f.st.Read(ctx).Deposits.Get(dep.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, f.admin.ID, *got.ApprovedBy)
	assert.NotNil(t, got.ApprovedAt)

	entries, total, err := f.engine.ListAuditLog(ctx, store.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, domain.ActionApproveDeposit, entries[0].Action)
	assert.Equal(t, "pending_deposits", entries[0].TargetTable)
	assert.Equal(t, dep.ID, entries[0].TargetID)
	assert.Equal(t, f.admin.ID, entries[0].AdminID)
}

func TestResolveDeposit_RejectLeavesWalletAlone(t *testing.T) {
	f := newFixture(t, approval.Options{})
	user := testutil.SeedUser(t, f.db, "bob", testutil.D(t, "10"))
	dep := testutil.SeedDeposit(t, f.db, user.ID, testutil.D(t, "100"), "")

	res, err := f.engine.ResolveDeposit(context.Background(), dep.ID, domain.DecisionReject, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, res.Status)
	assert.Nil(t, res.NewBalance)
	assert.Equal(t, uuid.Nil, res.TransactionID)

	assert.True(t, f.balance(t, user.ID).Equal(testutil.D(t, "10")))
	assert.Zero(t, f.txCount(t, user.ID))

	entries, _, err := f.engine.ListAuditLog(context.Background(), store.Page{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionRejectDeposit, entries[0].Action)
	assert.Equal(t, "Manual", entries[0].Details.Reference)
}

func TestResolveDeposit_RollsBackWhenAuditWriteFails(t *testing.T) {
	f := newFixture(t, approval.Options{})
	user := testutil.SeedUser(t, f.db, "carol", testutil.D(t, "5"))
	dep := testutil.SeedDeposit(t, f.db, user.ID, testutil.D(t, "100"), "")

	auditDown := errors.New("audit log unavailable")
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_audit", func(tx *gorm.DB) {
		if tx.Statement.Table == "admin_audit_log" {
			_ = tx.AddError(auditDown)
		}
	}))

	_, err := f.engine.ResolveDeposit(context.Background(), dep.ID, domain.DecisionApprove, f.admin.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStore))
	assert.True(t, errors.Is(err, auditDown))

	assert.True(t, f.balance(t, user.ID).Equal(testutil.D(t, "5")), "wallet write must roll back")
	assert.Zero(t, f.txCount(t, user.ID), "ledger append must roll back")
	got, err := f.st.Read(context.Background()).Deposits.Get(dep.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)

	var errorLogged bool
	for _, e := range f.hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Data["operation"] == "resolve_deposit" {
			errorLogged = true
		}
	}
	assert.True(t, errorLogged, "store failures are logged at error level")
}

func TestResolveDeposit_ConcurrentDepositsForSameUser(t *testing.T) {
	f := newFixture(t, approval.Options{})
	user := testutil.SeedUser(t, f.db, "dave", decimal.Zero)
	d1 := testutil.SeedDeposit(t, f.db, user.ID, testutil.D(t, "100"), "")
	d2 := testutil.SeedDeposit(t, f.db, user.ID, testutil.D(t, "50"), "")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []uuid.UUID{d1.ID, d2.ID} {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.engine.ResolveDeposit(context.Background(), id, domain.DecisionApprove, f.admin.ID)
		}(i, id)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.True(t, f.balance(t, user.ID).Equal(testutil.D(t, "150")), "got %s", f.balance(t, user.ID))
	assert.EqualValues(t, 2, f.txCount(t, user.ID))
}

func TestResolveDeposit_RaceOnSameDepositHasOneWinner(t *testing.T) {
	f := newFixture(t, approval.Options{})
	user := testutil.SeedUser(t, f.db, "erin", decimal.Zero)
	dep := testutil.SeedDeposit(t, f.db, user.ID, testutil.D(t, "80"), "")

	const racers = 5
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.engine.ResolveDeposit(context.Background(), dep.ID, domain.DecisionApprove, f.admin.ID)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrInvalidState), "unexpected error %v", err)
	}
	assert.Equal(t, 1, ok)
	assert.True(t, f.balance(t, user.ID).Equal(testutil.D(t, "80")))
	assert.EqualValues(t, 1, f.txCount(t, user.ID))
}

// bumpWalletVersion makes the next n wallet updates miss their
// compare-and-set by moving the version inside the same transaction.
// A negative n bumps every update. It returns the number of bumps made.
func bumpWalletVersion(t *testing.T, db *gorm.DB, n int) *int {
	t.Helper()
	bumps := 0
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:bump_version", func(tx *gorm.DB) {
		if tx.Statement.Table != "wallets" || (n >= 0 && bumps >= n) {
			return
		}
		bumps++
		if _, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context, "UPDATE wallets SET version = version + 1"); err != nil {
			_ = tx.AddError(err)
		}
	}))
	return &bumps
}

func TestResolveDeposit_RetriesAfterConflict(t *testing.T) {
	f := newFixture(t, approval.Options{ConflictRetries: 2})
	user := testutil.SeedUser(t, f.db, "nick", decimal.Zero)
	dep := testutil.SeedDeposit(t, f.db, user.ID, testutil.D(t, "100"), "")
	bumps := bumpWalletVersion(t, f.db, 1)
	retried := metrics.ConflictRetriesTotal.WithLabelValues("resolve_deposit")
	before := promtest.ToFloat64(retried)

	res, err := f.engine.ResolveDeposit(context.Background(), dep.ID, domain.DecisionApprove, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, *bumps)
	assert.True(t, res.NewBalance.Equal(testutil.D(t, "100")))
	assert.True(t, f.balance(t, user.ID).Equal(testutil.D(t, "100")))
	assert.EqualValues(t, 1, f.txCount(t, user.ID))
	assert.Equal(t, before+1, promtest.ToFloat64(retried))
}

func TestResolveDeposit_GivesUpAfterRetries(t *testing.T) {
	f := newFixture(t, approval.Options{ConflictRetries: 2})
	user := testutil.SeedUser(t, f.db, "olga", testutil.D(t, "7"))
	dep := testutil.SeedDeposit(t, f.db, user.ID, testutil.D(t, "100"), "")
	bumps := bumpWalletVersion(t, f.db, -1)
	retried := metrics.ConflictRetriesTotal.WithLabelValues("resolve_deposit")
	before := promtest.ToFloat64(retried)

	_, err := f.engine.ResolveDeposit(context.Background(), dep.ID, domain.DecisionApprove, f.admin.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict), "got %v", err)
	assert.Equal(t, 3, *bumps, "one attempt plus two retries")
	assert.Equal(t, before+2, promtest.ToFloat64(retried))

	assert.True(t, f.balance(t, user.ID).Equal(testutil.D(t, "7")))
	assert.Zero(t, f.txCount(t, user.ID))
	got, err := f.st.Read(context.Background()).Deposits.Get(dep.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestResolveDeposit_CancelledContextKeepsConflictKind(t *testing.T) {
	f := newFixture(t, approval.Options{ConflictRetries: 3})
	user := testutil.SeedUser(t, f.db, "pete", decimal.Zero)
	dep := testutil.SeedDeposit(t, f.db, user.ID, testutil.D(t, "100"), "")
	bumps := bumpWalletVersion(t, f.db, -1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.engine.ResolveDeposit(ctx, dep.ID, domain.DecisionApprove, f.admin.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict), "got %v", err)
	assert.False(t, errors.Is(err, context.Canceled))
	assert.Equal(t, "conflict", domain.Kind(err))
	assert.Equal(t, 1, *bumps, "a cancelled context is not retried")
	assert.True(t, f.balance(t, user.ID).IsZero())
}

func TestResolveDeposit_UnknownDeposit(t *testing.T) {
	f := newFixture(t, approval.Options{})

	_, err := f.engine.ResolveDeposit(context.Background(), uuid.New(), domain.DecisionApprove, f.admin.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestResolve_RequiresActorAndDecision(t *testing.T) {
	f := newFixture(t, approval.Options{})
	user := testutil.SeedUser(t, f.db, "frank", decimal.Zero)
	dep := testutil.SeedDeposit(t, f.db, user.ID, testutil.D(t, "10"), "")
	ctx := context.Background()

	_, err := f.engine.ResolveDeposit(ctx, dep.ID, domain.DecisionApprove, uuid.Nil)
	assert.True(t, errors.Is(err, domain.ErrNotAuthenticated))

	_, err = f.engine.ResolveWithdrawal(ctx, uuid.New(), domain.DecisionReject, uuid.Nil)
	assert.True(t, errors.Is(err, domain.ErrNotAuthenticated))

	_, err = f.engine.ResolveDeposit(ctx, dep.ID, domain.Decision("maybe"), f.admin.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	got, err := f.st.Read(ctx).Deposits.Get(dep.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestResolveWithdrawal_RejectRefundsReservation(t *testing.T) {
	f := newFixture(t, approval.Options{})
	user := testutil.SeedUser(t, f.db, "gina", testutil.D(t, "500"))
	svc := requests.NewService(f.st, nil)
	ctx := context.Background()

	wd, err := svc.SubmitWithdrawal(ctx, user.ID, requests.WithdrawalInput{Amount: testutil.D(t, "500"), PhoneNumber: "254700000001"})
	require.NoError(t, err)
	assert.True(t, f.balance(t, user.ID).IsZero(), "submission reserves the amount")

	res, err := f.engine.ResolveWithdrawal(ctx, wd.ID, domain.DecisionReject, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, res.Status)

	assert.True(t, f.balance(t, user.ID).Equal(testutil.D(t, "500")))
	assert.Zero(t, f.txCount(t, user.ID), "a refund writes no ledger entry")

	got, err := f.st.Read(ctx).Withdrawals.Get(wd.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
	require.NotNil(t, got.ProcessedBy)
	assert.Equal(t, f.admin.ID, *got.ProcessedBy)

	_, err = f.engine.ResolveWithdrawal(ctx, wd.ID, domain.DecisionApprove, f.admin.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
	assert.True(t, f.balance(t, user.ID).Equal(testutil.D(t, "500")))
}

func TestResolveWithdrawal_ApproveRecordsDebit(t *testing.T) {
	f := newFixture(t, approval.Options{})
	user := testutil.SeedUser(t, f.db, "hank", testutil.D(t, "300"))
	svc := requests.NewService(f.st, nil)
	ctx := context.Background()

	wd, err := svc.SubmitWithdrawal(ctx, user.ID, requests.WithdrawalInput{Amount: testutil.D(t, "120"), PhoneNumber: "+254700000002"})
	require.NoError(t, err)

	res, err := f.engine.ResolveWithdrawal(ctx, wd.ID, domain.DecisionApprove, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, res.Status)
	assert.True(t, f.balance(t, user.ID).Equal(testutil.D(t, "180")), "approval does not debit twice")

	txs, total, err := f.engine.ListTransactions(ctx, user.ID, store.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, domain.TxWithdrawal, txs[0].Type)
	assert.True(t, txs[0].Amount.Equal(testutil.D(t, "-120")))
	assert.Equal(t, "Withdrawal to +254700000002", txs[0].Description)

	pending, err := f.engine.ListPendingWithdrawals(ctx, store.Page{})
	require.NoError(t, err)
	assert.Empty(t, pending)
	done, err := f.engine.ListWithdrawals(ctx, domain.StatusCompleted, store.Page{})
	require.NoError(t, err)
	assert.Len(t, done, 1)
}

func TestAdjustBalance(t *testing.T) {
	cases := []struct {
		name          string
		start         string
		amount        string
		allowNegative bool
		wantErr       error
		wantBalance   string
		wantType      domain.TransactionType
	}{
		{name: "credit", start: "10", amount: "15.50", wantBalance: "25.5", wantType: domain.TxDeposit},
		{name: "debit", start: "10", amount: "-4", wantBalance: "6", wantType: domain.TxWithdrawal},
		{name: "debit to zero", start: "10", amount: "-10", wantBalance: "0", wantType: domain.TxWithdrawal},
		{name: "overdraft refused", start: "10", amount: "-11", wantErr: domain.ErrInvalidState, wantBalance: "10"},
		{name: "overdraft allowed", start: "10", amount: "-11", allowNegative: true, wantBalance: "-1", wantType: domain.TxWithdrawal},
		{name: "zero amount", start: "10", amount: "0", wantErr: domain.ErrInvalidInput, wantBalance: "10"},
		{name: "sub-cent amount", start: "10", amount: "0.005", wantErr: domain.ErrInvalidInput, wantBalance: "10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, approval.Options{AllowNegativeBalance: tc.allowNegative})
			user := testutil.SeedUser(t, f.db, "ivan", testutil.D(t, tc.start))

			res, err := f.engine.AdjustBalance(context.Background(), user.ID, testutil.D(t, tc.amount), "correction", f.admin.ID)
			assert.True(t, f.balance(t, user.ID).Equal(testutil.D(t, tc.wantBalance)), "balance %s", f.balance(t, user.ID))
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
				assert.Zero(t, f.txCount(t, user.ID))
				return
			}
			require.NoError(t, err)
			require.NotNil(t, res.OldBalance)
			assert.True(t, res.OldBalance.Equal(testutil.D(t, tc.start)))

			txs, _, err := f.engine.ListTransactions(context.Background(), user.ID, store.Page{})
			require.NoError(t, err)
			require.Len(t, txs, 1)
			assert.Equal(t, tc.wantType, txs[0].Type)
			assert.True(t, txs[0].Amount.Equal(testutil.D(t, tc.amount)))
			assert.Equal(t, "Admin adjustment: correction", txs[0].Description)

			entries, _, err := f.engine.ListAuditLog(context.Background(), store.Page{})
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, domain.ActionBalanceAdjustment, entries[0].Action)
			assert.Equal(t, "wallets", entries[0].TargetTable)
			assert.Equal(t, "correction", entries[0].Details.Reason)
		})
	}
}

func TestAdjustBalance_Validation(t *testing.T) {
	f := newFixture(t, approval.Options{})
	user := testutil.SeedUser(t, f.db, "judy", testutil.D(t, "1"))
	ctx := context.Background()

	_, err := f.engine.AdjustBalance(ctx, user.ID, testutil.D(t, "1"), "fix", uuid.Nil)
	assert.True(t, errors.Is(err, domain.ErrNotAuthenticated))

	_, err = f.engine.AdjustBalance(ctx, user.ID, testutil.D(t, "1"), "   ", f.admin.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.engine.AdjustBalance(ctx, uuid.New(), testutil.D(t, "1"), "fix", f.admin.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestScenario_DepositAdjustAndStats(t *testing.T) {
	f := newFixture(t, approval.Options{})
	user := testutil.SeedUser(t, f.db, "kate", testutil.D(t, "1000"))
	other := testutil.SeedUser(t, f.db, "liam", decimal.Zero)
	ctx := context.Background()

	d1 := testutil.SeedDeposit(t, f.db, user.ID, testutil.D(t, "200"), "")
	res, err := f.engine.ResolveDeposit(ctx, d1.ID, domain.DecisionApprove, f.admin.ID)
	require.NoError(t, err)
	assert.True(t, res.NewBalance.Equal(testutil.D(t, "1200")))

	res, err = f.engine.AdjustBalance(ctx, user.ID, testutil.D(t, "-300"), "correction", f.admin.ID)
	require.NoError(t, err)
	assert.True(t, res.NewBalance.Equal(testutil.D(t, "900")))

	txs, _, err := f.engine.ListTransactions(ctx, user.ID, store.Page{})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, domain.TxWithdrawal, txs[0].Type)
	assert.True(t, txs[0].Amount.Equal(testutil.D(t, "-300")))
	assert.Equal(t, domain.TxDeposit, txs[1].Type)
	assert.True(t, txs[1].Amount.Equal(testutil.D(t, "200")))

	d2 := testutil.SeedDeposit(t, f.db, other.ID, testutil.D(t, "50"), "")
	_, err = f.engine.ResolveDeposit(ctx, d2.ID, domain.DecisionApprove, f.admin.ID)
	require.NoError(t, err)

	s, err := stats.NewAggregator(f.st).ComputeStats(ctx)
	require.NoError(t, err)
	assert.True(t, s.TotalDeposits.Equal(testutil.D(t, "250")), "total deposits %s", s.TotalDeposits)
	assert.True(t, s.TotalWithdrawals.IsZero())
	assert.True(t, s.CashFlow.Equal(testutil.D(t, "250")))
	assert.EqualValues(t, 2, s.ApprovedDeposits)
}

func TestLedgerStaysReconciled(t *testing.T) {
	f := newFixture(t, approval.Options{})
	user := testutil.SeedUser(t, f.db, "mona", decimal.Zero)
	svc := requests.NewService(f.st, nil)
	ctx := context.Background()

	d1 := testutil.SeedDeposit(t, f.db, user.ID, testutil.D(t, "400"), "")
	_, err := f.engine.ResolveDeposit(ctx, d1.ID, domain.DecisionApprove, f.admin.ID)
	require.NoError(t, err)

	kept, err := svc.SubmitWithdrawal(ctx, user.ID, requests.WithdrawalInput{Amount: testutil.D(t, "100"), PhoneNumber: "254700000003"})
	require.NoError(t, err)
	paid, err := svc.SubmitWithdrawal(ctx, user.ID, requests.WithdrawalInput{Amount: testutil.D(t, "50"), PhoneNumber: "254700000003"})
	require.NoError(t, err)
	refused, err := svc.SubmitWithdrawal(ctx, user.ID, requests.WithdrawalInput{Amount: testutil.D(t, "25"), PhoneNumber: "254700000003"})
	require.NoError(t, err)

	_, err = f.engine.ResolveWithdrawal(ctx, paid.ID, domain.DecisionApprove, f.admin.ID)
	require.NoError(t, err)
	_, err = f.engine.ResolveWithdrawal(ctx, refused.ID, domain.DecisionReject, f.admin.ID)
	require.NoError(t, err)
	_, err = f.engine.AdjustBalance(ctx, user.ID, testutil.D(t, "-5"), "fee", f.admin.ID)
	require.NoError(t, err)

	// 400 - 100 (reserved) - 50 - 5
	assert.True(t, f.balance(t, user.ID).Equal(testutil.D(t, "245")))
	got, err := f.st.Read(ctx).Withdrawals.Get(kept.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)

	report, err := reconcile.NewChecker(f.st, nil).Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.WalletsChecked)
	assert.Empty(t, report.Mismatches)
}
