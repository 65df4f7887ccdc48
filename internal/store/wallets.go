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

// Wallets is the Wallet Store. Balances change only through
// CompareAndSetBalance.
type Wallets struct {
	db *gorm.DB
}

// Create opens a zero-balance wallet for a user
func (w *Wallets) Create(userID uuid.UUID) (*domain.Wallet, error) {
	wallet := domain.Wallet{UserID: userID, Balance: decimal.Zero}
	if err := w.db.Create(&wallet).Error; err != nil {
		return nil, classify(err)
	}
	return &wallet, nil
}

// Get reads a user's wallet
func (w *Wallets) Get(userID uuid.UUID) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := w.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, notFound(err, "wallet for user "+userID.String())
	}
	return &wallet, nil
}

// ForUpdate reads a user's wallet and locks the row until the
// surrounding transaction ends
func (w *Wallets) ForUpdate(userID uuid.UUID) (*domain.Wallet, error) {
	var wallet domain.Wallet
	// SELECT ... FOR UPDATE
	err := w.db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("user_id = ?", userID).
		First(&wallet).Error
	if err != nil {
		return nil, notFound(err, "wallet for user "+userID.String())
	}
	return &wallet, nil
}

// GetBalance returns the spendable balance of a user's wallet
func (w *Wallets) GetBalance(userID uuid.UUID) (decimal.Decimal, error) {
	wallet, err := w.Get(userID)
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}

// CompareAndSetBalance writes newBalance only if the stored wallet still
// has the version current was read at. On success current is updated in
// place. A stale snapshot yields ErrConflict.
func (w *Wallets) CompareAndSetBalance(current *domain.Wallet, newBalance decimal.Decimal) error {
	now := time.Now()
	res := w.db.Model(&domain.Wallet{}).
		// Match the version we read
		Where("user_id = ? AND version = ?", current.UserID, current.Version).
		Updates(map[string]any{
			"balance":    newBalance,               // New balance
			"version":    gorm.Expr("version + 1"), // Bump version for the next writer
			"updated_at": now,                      // Last modified time
		})
	if res.Error != nil {
		return classify(res.Error)
	}
	// Nothing matched, someone else wrote first
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: wallet for user %s changed since version %d", domain.ErrConflict, current.UserID, current.Version)
	}
	current.Balance = newBalance
	current.Version++
	current.UpdatedAt = now
	return nil
}

// All lists every wallet
func (w *Wallets) All() ([]domain.Wallet, error) {
	var wallets []domain.Wallet
	if err := w.db.Order("user_id").Find(&wallets).Error; err != nil {
		return nil, classify(err)
	}
	return wallets, nil
}
