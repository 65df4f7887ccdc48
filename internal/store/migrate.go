package store

import (
	"fmt"

	"invest_ledger/internal/domain"

	"gorm.io/gorm"
)

// Migrate creates or updates every ledger table
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
