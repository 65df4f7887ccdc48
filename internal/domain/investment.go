package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Investment states
const (
	InvestmentActive  = "active"
	InvestmentMatured = "matured"
)

// Investment Model. Created by the product collaborator; this
// module only reads it for platform stats.
type Investment struct {
	ID             uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`                  // Primary key
	UserID         uuid.UUID       `gorm:"type:char(36);index;not null" json:"user_id"`         // Investor
	ProductName    string          `gorm:"size:128" json:"product_name"`                        // Product bought
	Amount         decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`           // Principal
	ExpectedReturn decimal.Decimal `gorm:"type:decimal(20,2)" json:"expected_return"`           // Promised return
	Status         string          `gorm:"size:16;index;not null;default:active" json:"status"` // active or matured
	CreatedAt      time.Time       `json:"created_at"`                                          // Purchase time
}

// BeforeCreate assigns a time-ordered id when none is set
func (i *Investment) BeforeCreate(tx *gorm.DB) error {
	return assignID(&i.ID)
}

// TableName overrides the table name
func (Investment) TableName() string {
	return "investments"
}

// Models lists every table managed by migrations
func Models() []any {
	return []any{
		&User{},
		&Wallet{},
		&Transaction{},
		&PendingDeposit{},
		&PendingWithdrawal{},
		&AdminAuditLogEntry{},
		&Investment{},
	}
}
