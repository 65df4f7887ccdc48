// Package approval is the only write path from admin decisions into
// wallets, the transaction ledger and the audit log.
//
// Each command runs as one serializable unit of work: the request status
// change, the wallet compare-and-set, the ledger append and the audit
// append commit together or not at all. Compare-and-set conflicts are
// retried from a fresh read a bounded number of times.
package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invest_ledger/internal/domain"
	"invest_ledger/internal/metrics"
	"invest_ledger/internal/store"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultConflictRetries is used when Options.ConflictRetries is negative
const DefaultConflictRetries = 3

// Options tune an Engine
type Options struct {
	// ConflictRetries is how many extra attempts a command gets after a
	// compare-and-set conflict. Zero disables retrying.
	ConflictRetries int
	// AllowNegativeBalance lets AdjustBalance debit a wallet below zero.
	AllowNegativeBalance bool
	Logger               logrus.FieldLogger
	// Now is the clock used for approved_at/processed_at.
	Now func() time.Time
}

// Engine executes admin decisions and balance adjustments
type Engine struct {
	store         *store.Store
	retries       int
	allowNegative bool
	log           logrus.FieldLogger
	now           func() time.Time
}

// Result describes a committed command
type Result struct {
	Operation     string               `json:"operation"`
	RequestID     uuid.UUID            `json:"request_id"`
	UserID        uuid.UUID            `json:"user_id"`
	Status        domain.RequestStatus `json:"status,omitempty"`
	Amount        decimal.Decimal      `json:"amount"`
	OldBalance    *decimal.Decimal     `json:"old_balance,omitempty"`
	NewBalance    *decimal.Decimal     `json:"new_balance,omitempty"`
	TransactionID uuid.UUID            `json:"transaction_id"`
	AuditID       uuid.UUID            `json:"audit_id"`
}

// New builds an Engine over st
func New(st *store.Store, opts Options) *Engine {
	if opts.ConflictRetries < 0 {
		opts.ConflictRetries = DefaultConflictRetries
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		store:         st,
		retries:       opts.ConflictRetries,
		allowNegative: opts.AllowNegativeBalance,
		log:           opts.Logger,
		now:           opts.Now,
	}
}

// ResolveDeposit approves or rejects a pending deposit. Approval credits
// the wallet and appends a deposit transaction; rejection only closes the
// request. Both append an audit entry. A deposit that is no longer
// pending yields ErrInvalidState.
func (e *Engine) ResolveDeposit(ctx context.Context, depositID uuid.UUID, decision domain.Decision, adminID uuid.UUID) (*Result, error) {
	const op = "resolve_deposit"
	if err := checkCommand(decision, adminID); err != nil {
		return nil, e.finish(op, logrus.Fields{"deposit_id": depositID}, time.Now(), nil, err)
	}

	start := time.Now()
	var res *Result
	err := e.run(ctx, op, func(r *store.Repos) error {
		// Lock the deposit and check it is still pending
		dep, err := r.Deposits.ForUpdate(depositID)
		if err != nil {
			return err
		}
		if dep.Status != domain.StatusPending {
			return fmt.Errorf("%w: deposit %s already %s", domain.ErrInvalidState, dep.ID, dep.Status)
		}

		out := &Result{Operation: op, RequestID: dep.ID, UserID: dep.UserID, Amount: dep.Amount}
		details := domain.AuditDetails{UserID: dep.UserID, Amount: dep.Amount, Reference: dep.Reference()}
		action := domain.ActionRejectDeposit
		status := domain.StatusRejected

		if decision == domain.DecisionApprove {
			action = domain.ActionApproveDeposit
			status = domain.StatusApproved

			wallet, err := r.Wallets.ForUpdate(dep.UserID) // Lock the wallet row
			if err != nil {
				return err
			}
			oldBalance := wallet.Balance
			// Credit the wallet
			if err := r.Wallets.CompareAndSetBalance(wallet, oldBalance.Add(dep.Amount)); err != nil {
				return err
			}
			out.OldBalance, out.NewBalance = &oldBalance, &wallet.Balance

			out.TransactionID, err = r.Ledger.Append(&domain.Transaction{
				UserID:      dep.UserID,
				Type:        domain.TxDeposit,
				Amount:      dep.Amount,
				Description: "M-PESA Deposit - " + dep.Reference(),
				Reference:   dep.ID.String(),
			})
			if err != nil {
				return err
			}
			details.OldBalance, details.NewBalance = out.OldBalance, out.NewBalance
		}

		// Close the request
		if err := r.Deposits.Resolve(dep, status, adminID, e.now()); err != nil {
			return err
		}
		out.Status = status

		entry := &domain.AdminAuditLogEntry{
			AdminID:     adminID,
			Action:      action,
			TargetTable: "pending_deposits",
			TargetID:    dep.ID,
			Details:     details,
		}
		if err := r.Audit.Append(entry); err != nil {
			return err
		}
		out.AuditID = entry.ID
		res = out
		return nil
	})
	fields := logrus.Fields{"deposit_id": depositID, "admin_id": adminID, "decision": decision}
	if err != nil {
		return nil, e.finish(op, fields, start, nil, err)
	}
	return res, e.finish(op, fields, start, res, nil)
}

// ResolveWithdrawal completes or rejects a pending withdrawal. The amount
// was reserved when the request was made, so completion only appends the
// withdrawal transaction while rejection returns the reservation to the
// wallet without a ledger entry.
func (e *Engine) ResolveWithdrawal(ctx context.Context, withdrawalID uuid.UUID, decision domain.Decision, adminID uuid.UUID) (*Result, error) {
	const op = "resolve_withdrawal"
	if err := checkCommand(decision, adminID); err != nil {
		return nil, e.finish(op, logrus.Fields{"withdrawal_id": withdrawalID}, time.Now(), nil, err)
	}

	start := time.Now()
	var res *Result
	err := e.run(ctx, op, func(r *store.Repos) error {
		wd, err := r.Withdrawals.ForUpdate(withdrawalID)
		if err != nil {
			return err
		}
		if wd.Status != domain.StatusPending {
			return fmt.Errorf("%w: withdrawal %s already %s", domain.ErrInvalidState, wd.ID, wd.Status)
		}

		out := &Result{Operation: op, RequestID: wd.ID, UserID: wd.UserID, Amount: wd.Amount}
		details := domain.AuditDetails{UserID: wd.UserID, Amount: wd.Amount, Reference: wd.PhoneNumber}
		action := domain.ActionApproveWithdrawal
		status := domain.StatusCompleted

		if decision == domain.DecisionApprove {
			// Balance was debited at submission, only record the payout
			out.TransactionID, err = r.Ledger.Append(&domain.Transaction{
				UserID:      wd.UserID,
				Type:        domain.TxWithdrawal,
				Amount:      wd.Amount.Neg(), // Debits are negative
				Description: "Withdrawal to " + wd.PhoneNumber,
				Reference:   wd.ID.String(),
			})
			if err != nil {
				return err
			}
		} else {
			action = domain.ActionRejectWithdrawal
			status = domain.StatusRejected

			wallet, err := r.Wallets.ForUpdate(wd.UserID)
			if err != nil {
				return err
			}
			oldBalance := wallet.Balance
			// Return the reserved amount
			if err := r.Wallets.CompareAndSetBalance(wallet, oldBalance.Add(wd.Amount)); err != nil {
				return err
			}
			out.OldBalance, out.NewBalance = &oldBalance, &wallet.Balance
			details.OldBalance, details.NewBalance = out.OldBalance, out.NewBalance
		}

		if err := r.Withdrawals.Resolve(wd, status, adminID, e.now()); err != nil {
			return err
		}
		out.Status = status

		entry := &domain.AdminAuditLogEntry{
			AdminID:     adminID,
			Action:      action,
			TargetTable: "pending_withdrawals",
			TargetID:    wd.ID,
			Details:     details,
		}
		if err := r.Audit.Append(entry); err != nil {
			return err
		}
		out.AuditID = entry.ID
		res = out
		return nil
	})
	fields := logrus.Fields{"withdrawal_id": withdrawalID, "admin_id": adminID, "decision": decision}
	if err != nil {
		return nil, e.finish(op, fields, start, nil, err)
	}
	return res, e.finish(op, fields, start, res, nil)
}

// checkCommand validates the parts common to every resolve command
func checkCommand(decision domain.Decision, adminID uuid.UUID) error {
	if adminID == uuid.Nil {
		return domain.ErrNotAuthenticated
	}
	if !decision.Valid() {
		return fmt.Errorf("%w: decision must be approve or reject, got %q", domain.ErrInvalidInput, decision)
	}
	return nil
}

// run executes fn as one unit of work, retrying it from scratch while it
// fails with ErrConflict and retries remain. The transaction itself is
// detached from ctx cancellation so a started commit is never abandoned
// half way; ctx only cuts short the wait between attempts. When ctx ends
// the retry loop, the last attempt's error is returned.
func (e *Engine) run(ctx context.Context, op string, fn func(r *store.Repos) error) error {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     5 * time.Millisecond,
		RandomizationFactor: 0.5,
		Multiplier:          2,
		MaxInterval:         100 * time.Millisecond,
		MaxElapsedTime:      2 * time.Second,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()

	attempt := 0
	var lastErr error
	txCtx := context.WithoutCancel(ctx)
	err := backoff.RetryNotify(func() error {
		attempt++
		lastErr = e.store.Atomic(txCtx, fn)
		if lastErr == nil || errors.Is(lastErr, domain.ErrConflict) {
			return lastErr
		}
		return backoff.Permanent(lastErr)
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(e.retries)), ctx), func(err error, wait time.Duration) {
		// Only called when another attempt is actually scheduled
		metrics.ConflictRetriesTotal.WithLabelValues(op).Inc()
		e.log.WithFields(logrus.Fields{"operation": op, "attempt": attempt, "wait": wait}).Debug("Retrying after write conflict")
	})
	if err != nil && lastErr != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return lastErr
	}
	return err
}

// finish records metrics and the outcome log line for a command
func (e *Engine) finish(op string, fields logrus.Fields, start time.Time, res *Result, err error) error {
	metrics.CommandsTotal.WithLabelValues(op, domain.Kind(err)).Inc()
	metrics.CommandDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	fields["operation"] = op
	if err != nil {
		fields["error"] = err.Error()
		fields["kind"] = domain.Kind(err)
		entry := e.log.WithFields(fields)
		if errors.Is(err, domain.ErrStore) {
			entry.Error("Ledger command failed")
		} else {
			entry.Warn("Ledger command refused")
		}
		return err
	}
	fields["user_id"] = res.UserID
	fields["amount"] = res.Amount.String()
	if res.NewBalance != nil {
		fields["new_balance"] = res.NewBalance.String()
	}
	if res.Status != "" {
		fields["status"] = res.Status
	}
	e.log.WithFields(fields).Info("Ledger command committed")
	return nil
}
