package db

import (
	"fmt"

	"invest_ledger/internal/domain" // Importing domain models
	"invest_ledger/internal/store"  // Schema and connection helpers

	"github.com/sirupsen/logrus"
	"gorm.io/gorm" // GORM ORM library
)

// Migrate performs automatic migration for the database schema and,
// when promote names a user, grants that user the admin role
func Migrate(conn *gorm.DB, promote string) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := store.Migrate(conn); err != nil {
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	if promote == "" {
		return nil
	}
	return Promote(conn, promote)
}

// Promote grants the admin role to an existing user. Admins can only be
// created this way; registration always yields plain users.
func Promote(conn *gorm.DB, username string) error {
	res := conn.Model(&domain.User{}).Where("username = ?", username).Update("role", domain.RoleAdmin)
	if res.Error != nil {
		return fmt.Errorf("promote %s: %w", username, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := conn.Model(&domain.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return fmt.Errorf("promote %s: %w", username, err)
		}
		if count == 0 {
			return fmt.Errorf("%w: promote %s: no such user", domain.ErrNotFound, username)
		}
	}
	logrus.WithField("username", username).Info("User promoted to admin")
	return nil
}
