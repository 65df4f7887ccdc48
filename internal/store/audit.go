package store

import (
	"invest_ledger/internal/domain"

	"gorm.io/gorm"
)

// AuditLog is the write-once record of admin actions
type AuditLog struct {
	db *gorm.DB
}

// Append records an audit entry
func (a *AuditLog) Append(e *domain.AdminAuditLogEntry) error {
	// Insert only, entries are never updated
	if err := a.db.Create(e).Error; err != nil {
		return classify(err)
	}
	return nil
}

// ListAll returns audit entries, newest first
func (a *AuditLog) ListAll(page Page) ([]domain.AdminAuditLogEntry, error) {
	var entries []domain.AdminAuditLogEntry
	q := a.db.Order("created_at desc").Order("id desc")
	if page.Limit > 0 {
		q = q.Limit(page.Limit).Offset(page.Offset)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, classify(err)
	}
	return entries, nil
}

// Count returns the number of audit entries
func (a *AuditLog) Count() (int64, error) {
	var total int64
	if err := a.db.Model(&domain.AdminAuditLogEntry{}).Count(&total).Error; err != nil {
		return 0, classify(err)
	}
	return total, nil
}
