package approval

import (
	"context"

	"invest_ledger/internal/domain"
	"invest_ledger/internal/store"

	"github.com/google/uuid"
)

// ListPendingDeposits returns deposits awaiting a decision, newest first
func (e *Engine) ListPendingDeposits(ctx context.Context, page store.Page) ([]domain.PendingDeposit, error) {
	return e.store.Read(ctx).Deposits.List(domain.StatusPending, page)
}

// ListDeposits returns deposits in any status ("" for all), newest first
func (e *Engine) ListDeposits(ctx context.Context, status domain.RequestStatus, page store.Page) ([]domain.PendingDeposit, error) {
	return e.store.Read(ctx).Deposits.List(status, page)
}

// ListPendingWithdrawals returns withdrawals awaiting a decision, newest first
func (e *Engine) ListPendingWithdrawals(ctx context.Context, page store.Page) ([]domain.PendingWithdrawal, error) {
	return e.store.Read(ctx).Withdrawals.List(domain.StatusPending, page)
}

// ListWithdrawals returns withdrawals in any status ("" for all), newest first
func (e *Engine) ListWithdrawals(ctx context.Context, status domain.RequestStatus, page store.Page) ([]domain.PendingWithdrawal, error) {
	return e.store.Read(ctx).Withdrawals.List(status, page)
}

// GetWallet returns a user's wallet
func (e *Engine) GetWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	return e.store.Read(ctx).Wallets.Get(userID)
}

// ListTransactions returns a user's ledger entries, newest first, with the total count
func (e *Engine) ListTransactions(ctx context.Context, userID uuid.UUID, page store.Page) ([]domain.Transaction, int64, error) {
	r := e.store.Read(ctx)
	total, err := r.Ledger.CountByUser(userID)
	if err != nil {
		return nil, 0, err
	}
	txs, err := r.Ledger.ListByUser(userID, page)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// ListAuditLog returns audit entries, newest first, with the total count
func (e *Engine) ListAuditLog(ctx context.Context, page store.Page) ([]domain.AdminAuditLogEntry, int64, error) {
	r := e.store.Read(ctx)
	total, err := r.Audit.Count()
	if err != nil {
		return nil, 0, err
	}
	entries, err := r.Audit.ListAll(page)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
