package store

import (
	"invest_ledger/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger is the append-only transaction history. There is no update
// or delete.
type Ledger struct {
	db *gorm.DB
}

// Append records a transaction and returns its id
func (l *Ledger) Append(t *domain.Transaction) (uuid.UUID, error) {
	if t.Status == "" {
		t.Status = domain.TxStatusCompleted
	}
	if err := l.db.Create(t).Error; err != nil {
		return uuid.Nil, classify(err)
	}
	return t.ID, nil
}

// ListByUser returns a user's transactions, newest first
func (l *Ledger) ListByUser(userID uuid.UUID, page Page) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	// Newest first, id breaks ties within the same timestamp
	q := l.db.Where("user_id = ?", userID).Order("created_at desc").Order("id desc")
	if page.Limit > 0 {
		q = q.Limit(page.Limit).Offset(page.Offset)
	}
	if err := q.Find(&txs).Error; err != nil {
		return nil, classify(err)
	}
	return txs, nil
}

// CountByUser counts a user's transactions
func (l *Ledger) CountByUser(userID uuid.UUID) (int64, error) {
	var total int64
	if err := l.db.Model(&domain.Transaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, classify(err)
	}
	return total, nil
}

// UserSum is the signed total of one user's ledger entries
type UserSum struct {
	UserID uuid.UUID
	Total  decimal.Decimal
}

// SumsByUser totals every user's ledger entries
func (l *Ledger) SumsByUser() (map[uuid.UUID]decimal.Decimal, error) {
	var rows []UserSum
	err := l.db.Model(&domain.Transaction{}).
		// Signed sum per user
		Select("user_id, COALESCE(SUM(amount), 0) AS total").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	sums := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, r := range rows {
		sums[r.UserID] = r.Total
	}
	return sums, nil
}
