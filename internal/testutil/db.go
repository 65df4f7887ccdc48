// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"testing"

	"invest_ledger/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database. The pool holds a
// single connection so that the memory database survives and concurrent
// transactions queue behind each other instead of failing with SQLITE_BUSY.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(domain.Models()...))
	return db
}

// SeedUser creates a user with a wallet holding balance. The balance is
// written directly, without a matching ledger entry.
func SeedUser(t testing.TB, db *gorm.DB, username string, balance decimal.Decimal) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Password: "x", Role: domain.RoleUser}
	require.NoError(t, db.Omit("Wallet").Create(user).Error)
	wallet := &domain.Wallet{UserID: user.ID, Balance: balance}
	require.NoError(t, db.Create(wallet).Error)
	user.Wallet = *wallet
	return user
}

// SeedAdmin creates an admin user without a wallet
func SeedAdmin(t testing.TB, db *gorm.DB, username string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Password: "x", Role: domain.RoleAdmin}
	require.NoError(t, db.Omit("Wallet").Create(user).Error)
	return user
}

// SeedDeposit queues a pending deposit
func SeedDeposit(t testing.TB, db *gorm.DB, userID uuid.UUID, amount decimal.Decimal, code string) *domain.PendingDeposit {
	t.Helper()
	dep := &domain.PendingDeposit{
		UserID:            userID,
		Amount:            amount,
		PhoneNumber:       "254700000001",
		PaymentNumberUsed: "254711000000",
		Status:            domain.StatusPending,
	}
	if code != "" {
		dep.MpesaCode = &code
	}
	require.NoError(t, db.Create(dep).Error)
	return dep
}

// D parses a decimal literal, failing the test on bad input
func D(t testing.TB, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
