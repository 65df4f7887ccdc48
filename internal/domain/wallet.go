package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet Model
//
// Balance is the spendable amount. It only changes through a
// compare-and-set on Version, so a stale read can never overwrite
// a concurrent credit.
type Wallet struct {
	ID            uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`                          // Primary key
	UserID        uuid.UUID       `gorm:"type:char(36);uniqueIndex;not null" json:"user_id"`           // Owner, one wallet per user
	Balance       decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`        // Spendable funds
	TotalInvested decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"total_invested"` // Lifetime amount invested
	TotalReturns  decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"total_returns"`  // Lifetime returns paid
	Version       int64           `gorm:"not null;default:0" json:"version"`                           // Compare token for balance updates
	UpdatedAt     time.Time       `json:"updated_at"`                                                  // Last mutation time
}

// BeforeCreate assigns a time-ordered id when none is set
func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	return assignID(&w.ID)
}

// TableName pins the table name used by existing deployments
func (Wallet) TableName() string {
	return "wallets"
}
