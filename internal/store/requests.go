package store

import (
	"fmt"
	"time"

	"invest_ledger/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Deposits is the pending-deposit half of the request queue
type Deposits struct {
	db *gorm.DB
}

// Create queues a new deposit request in the pending state
func (d *Deposits) Create(dep *domain.PendingDeposit) error {
	dep.Status = domain.StatusPending
	if err := d.db.Create(dep).Error; err != nil {
		return classify(err)
	}
	return nil
}

// Get reads a deposit request
func (d *Deposits) Get(id uuid.UUID) (*domain.PendingDeposit, error) {
	var dep domain.PendingDeposit
	if err := d.db.Where("id = ?", id).First(&dep).Error; err != nil {
		return nil, notFound(err, "deposit "+id.String())
	}
	return &dep, nil
}

// ForUpdate reads a deposit request and locks it for the transaction
func (d *Deposits) ForUpdate(id uuid.UUID) (*domain.PendingDeposit, error) {
	var dep domain.PendingDeposit
	// Lock the request row
	err := d.db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ?", id).
		First(&dep).Error
	if err != nil {
		return nil, notFound(err, "deposit "+id.String())
	}
	return &dep, nil
}

// List returns deposit requests with the given status (all when empty), newest first
func (d *Deposits) List(status domain.RequestStatus, page Page) ([]domain.PendingDeposit, error) {
	var deps []domain.PendingDeposit
	q := d.db.Order("created_at desc").Order("id desc")
	// Filter by status if requested
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if page.Limit > 0 {
		q = q.Limit(page.Limit).Offset(page.Offset)
	}
	if err := q.Find(&deps).Error; err != nil {
		return nil, classify(err)
	}
	return deps, nil
}

// ListByUser returns one user's deposit requests, newest first
func (d *Deposits) ListByUser(userID uuid.UUID) ([]domain.PendingDeposit, error) {
	var deps []domain.PendingDeposit
	if err := d.db.Where("user_id = ?", userID).Order("created_at desc").Order("id desc").Find(&deps).Error; err != nil {
		return nil, classify(err)
	}
	return deps, nil
}

// Resolve moves a pending deposit to a terminal status. The update is
// conditional on the row still being pending, so only one of several
// racing resolutions can succeed.
func (d *Deposits) Resolve(dep *domain.PendingDeposit, status domain.RequestStatus, adminID uuid.UUID, at time.Time) error {
	res := d.db.Model(&domain.PendingDeposit{}).
		Where("id = ? AND status = ?", dep.ID, domain.StatusPending).
		Updates(map[string]any{
			"status":      status,
			"approved_by": adminID,
			"approved_at": at,
		})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: deposit %s is no longer pending", domain.ErrInvalidState, dep.ID)
	}
	dep.Status = status
	dep.ApprovedBy = &adminID
	dep.ApprovedAt = &at
	return nil
}

// SumByStatus totals the amounts of deposits in one status
func (d *Deposits) SumByStatus(status domain.RequestStatus) (Total, error) {
	return sumByStatus(d.db.Model(&domain.PendingDeposit{}), status)
}

// Withdrawals is the pending-withdrawal half of the request queue
type Withdrawals struct {
	db *gorm.DB
}

// Create queues a new withdrawal request in the pending state. The
// caller must already have reserved the amount from the wallet.
func (w *Withdrawals) Create(wd *domain.PendingWithdrawal) error {
	wd.Status = domain.StatusPending
	if err := w.db.Create(wd).Error; err != nil {
		return classify(err)
	}
	return nil
}

// Get reads a withdrawal request
func (w *Withdrawals) Get(id uuid.UUID) (*domain.PendingWithdrawal, error) {
	var wd domain.PendingWithdrawal
	if err := w.db.Where("id = ?", id).First(&wd).Error; err != nil {
		return nil, notFound(err, "withdrawal "+id.String())
	}
	return &wd, nil
}

// ForUpdate reads a withdrawal request and locks it for the transaction
func (w *Withdrawals) ForUpdate(id uuid.UUID) (*domain.PendingWithdrawal, error) {
	var wd domain.PendingWithdrawal
	err := w.db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ?", id).
		First(&wd).Error
	if err != nil {
		return nil, notFound(err, "withdrawal "+id.String())
	}
	return &wd, nil
}

// List returns withdrawal requests with the given status (all when empty), newest first
func (w *Withdrawals) List(status domain.RequestStatus, page Page) ([]domain.PendingWithdrawal, error) {
	var wds []domain.PendingWithdrawal
	q := w.db.Order("created_at desc").Order("id desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if page.Limit > 0 {
		q = q.Limit(page.Limit).Offset(page.Offset)
	}
	if err := q.Find(&wds).Error; err != nil {
		return nil, classify(err)
	}
	return wds, nil
}

// ListByUser returns one user's withdrawal requests, newest first
func (w *Withdrawals) ListByUser(userID uuid.UUID) ([]domain.PendingWithdrawal, error) {
	var wds []domain.PendingWithdrawal
	if err := w.db.Where("user_id = ?", userID).Order("created_at desc").Order("id desc").Find(&wds).Error; err != nil {
		return nil, classify(err)
	}
	return wds, nil
}

// Resolve moves a pending withdrawal to a terminal status, conditional
// on the row still being pending
func (w *Withdrawals) Resolve(wd *domain.PendingWithdrawal, status domain.RequestStatus, adminID uuid.UUID, at time.Time) error {
	res := w.db.Model(&domain.PendingWithdrawal{}).
		Where("id = ? AND status = ?", wd.ID, domain.StatusPending).
		Updates(map[string]any{
			"status":       status,
			"processed_by": adminID,
			"processed_at": at,
		})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: withdrawal %s is no longer pending", domain.ErrInvalidState, wd.ID)
	}
	wd.Status = status
	wd.ProcessedBy = &adminID
	wd.ProcessedAt = &at
	return nil
}

// SumByStatus totals the amounts of withdrawals in one status
func (w *Withdrawals) SumByStatus(status domain.RequestStatus) (Total, error) {
	return sumByStatus(w.db.Model(&domain.PendingWithdrawal{}), status)
}

// PendingByUser totals every user's outstanding withdrawal reservations
func (w *Withdrawals) PendingByUser() (map[uuid.UUID]Total, error) {
	var rows []userTotal
	err := w.db.Model(&domain.PendingWithdrawal{}).
		Select("user_id, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Where("status = ?", domain.StatusPending).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	out := make(map[uuid.UUID]Total, len(rows))
	for _, r := range rows {
		out[r.UserID] = Total{Count: r.Count, Amount: r.Amount}
	}
	return out, nil
}

// Total is a count and amount rollup over request rows
type Total struct {
	Count  int64
	Amount decimal.Decimal
}

type userTotal struct {
	UserID uuid.UUID
	Count  int64
	Amount decimal.Decimal
}

func sumByStatus(q *gorm.DB, status domain.RequestStatus) (Total, error) {
	var t Total
	err := q.Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Where("status = ?", status).
		Scan(&t).Error
	if err != nil {
		return Total{}, classify(err)
	}
	return t, nil
}
