package approval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"invest_ledger/internal/domain"
	"invest_ledger/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// AdjustBalance applies an admin correction of amount (signed) to a
// user's wallet, bypassing the request queue. A positive amount is
// recorded as a deposit and a negative one as a withdrawal. Unless the
// engine allows negative balances, a debit that would take the wallet
// below zero fails with ErrInvalidState.
func (e *Engine) AdjustBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, reason string, adminID uuid.UUID) (*Result, error) {
	const op = "adjust_balance"
	fields := logrus.Fields{"user_id": userID, "admin_id": adminID, "amount": amount.String()}

	reason = strings.TrimSpace(reason)
	switch {
	case adminID == uuid.Nil:
		return nil, e.finish(op, fields, time.Now(), nil, domain.ErrNotAuthenticated)
	case reason == "":
		return nil, e.finish(op, fields, time.Now(), nil, fmt.Errorf("%w: reason is required", domain.ErrInvalidInput))
	case amount.IsZero():
		return nil, e.finish(op, fields, time.Now(), nil, fmt.Errorf("%w: amount must be non-zero", domain.ErrInvalidInput))
	case !amount.Equal(amount.Round(2)):
		// Wallet balances are stored to the cent
		return nil, e.finish(op, fields, time.Now(), nil, fmt.Errorf("%w: amount %s has more than two decimal places", domain.ErrInvalidInput, amount))
	}

	start := time.Now()
	var res *Result
	err := e.run(ctx, op, func(r *store.Repos) error {
		wallet, err := r.Wallets.ForUpdate(userID)
		if err != nil {
			return err
		}
		oldBalance := wallet.Balance
		newBalance := oldBalance.Add(amount) // amount is signed
		if amount.IsNegative() && newBalance.IsNegative() && !e.allowNegative {
			return fmt.Errorf("%w: adjustment of %s would leave wallet at %s", domain.ErrInvalidState, amount, newBalance)
		}
		if err := r.Wallets.CompareAndSetBalance(wallet, newBalance); err != nil {
			return err
		}

		// Credits are recorded as deposits, debits as withdrawals
		txType := domain.TxDeposit
		if amount.IsNegative() {
			txType = domain.TxWithdrawal
		}
		txID, err := r.Ledger.Append(&domain.Transaction{
			UserID:      userID,
			Type:        txType,
			Amount:      amount,
			Description: "Admin adjustment: " + reason,
			Reference:   wallet.ID.String(),
		})
		if err != nil {
			return err
		}

		out := &Result{
			Operation:     op,
			UserID:        userID,
			Amount:        amount,
			OldBalance:    &oldBalance,
			NewBalance:    &wallet.Balance,
			TransactionID: txID,
		}
		entry := &domain.AdminAuditLogEntry{
			AdminID:     adminID,
			Action:      domain.ActionBalanceAdjustment,
			TargetTable: "wallets",
			TargetID:    wallet.ID,
			Details: domain.AuditDetails{
				UserID:     userID,
				Amount:     amount,
				Reason:     reason,
				OldBalance: out.OldBalance,
				NewBalance: out.NewBalance,
			},
		}
		if err := r.Audit.Append(entry); err != nil {
			return err
		}
		out.AuditID = entry.ID
		res = out
		return nil
	})
	if err != nil {
		return nil, e.finish(op, fields, start, nil, err)
	}
	return res, e.finish(op, fields, start, res, nil)
}
