package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AuditAction names a privileged admin action
type AuditAction string

// Audited actions
const (
	ActionApproveDeposit    AuditAction = "approve_deposit"
	ActionRejectDeposit     AuditAction = "reject_deposit"
	ActionApproveWithdrawal AuditAction = "approve_withdrawal"
	ActionRejectWithdrawal  AuditAction = "reject_withdrawal"
	ActionBalanceAdjustment AuditAction = "balance_adjustment"
)

// AuditDetails is the snapshot stored with each audit entry
type AuditDetails struct {
	UserID     uuid.UUID        `json:"user_id"`
	Amount     decimal.Decimal  `json:"amount"`
	Reason     string           `json:"reason,omitempty"`
	OldBalance *decimal.Decimal `json:"old_balance,omitempty"`
	NewBalance *decimal.Decimal `json:"new_balance,omitempty"`
	Reference  string           `json:"reference,omitempty"`
}

// AdminAuditLogEntry Model. Rows are append-only and never read by
// business logic.
type AdminAuditLogEntry struct {
	ID          uuid.UUID    `gorm:"type:char(36);primaryKey" json:"id"`           // Primary key
	AdminID     uuid.UUID    `gorm:"type:char(36);index;not null" json:"admin_id"` // Acting admin
	Action      AuditAction  `gorm:"size:32;not null" json:"action"`               // What was done
	TargetTable string       `gorm:"size:64;not null" json:"target_table"`         // Table of the affected row
	TargetID    uuid.UUID    `gorm:"type:char(36);not null" json:"target_id"`      // Affected row
	Details     AuditDetails `gorm:"type:text;serializer:json" json:"details"`     // Amounts and user affected
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`                      // Timestamp of creation
}

// BeforeCreate assigns a time-ordered id when none is set
func (e *AdminAuditLogEntry) BeforeCreate(tx *gorm.DB) error {
	return assignID(&e.ID)
}

// TableName overrides the table name
func (AdminAuditLogEntry) TableName() string {
	return "admin_audit_log"
}
