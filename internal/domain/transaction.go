package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType classifies a ledger entry
type TransactionType string

// Ledger entry types. The sign of Amount carries the direction.
const (
	TxDeposit         TransactionType = "deposit"
	TxWithdrawal      TransactionType = "withdrawal"
	TxInvestment      TransactionType = "investment"
	TxReturn          TransactionType = "return"
	TxReferralBonus   TransactionType = "referral_bonus"
	TxAdminAdjustment TransactionType = "admin_adjustment"
)

// TxStatusCompleted is the only status written by the approval engine
const TxStatusCompleted = "completed"

// Transaction Model. Rows are append-only.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`               // Primary key, time-ordered
	UserID      uuid.UUID       `gorm:"type:char(36);index;not null" json:"user_id"`      // Wallet owner
	Type        TransactionType `gorm:"size:32;not null" json:"type"`                     // Transaction type
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`        // Signed amount
	Description string          `gorm:"size:255" json:"description"`                      // Human readable description
	Reference   string          `gorm:"size:64;index" json:"reference,omitempty"`         // Request or wallet that caused it
	Status      string          `gorm:"size:16;not null;default:completed" json:"status"` // Settlement status
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`                          // Timestamp of creation
}

// BeforeCreate assigns a time-ordered id when none is set
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	return assignID(&t.ID)
}

// TableName overrides the table name
func (Transaction) TableName() string {
	return "transactions"
}
