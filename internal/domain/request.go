package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RequestStatus is the state of a pending deposit or withdrawal
type RequestStatus string

// Request states. Everything except StatusPending is terminal.
const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"  // deposits only
	StatusCompleted RequestStatus = "completed" // withdrawals only
	StatusRejected  RequestStatus = "rejected"
)

// Decision is an administrator's verdict on a pending request
type Decision string

// Accepted decisions
const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Valid reports whether d is one of the accepted decisions
func (d Decision) Valid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// PendingDeposit Model
type PendingDeposit struct {
	ID                uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`                   // Primary key
	UserID            uuid.UUID       `gorm:"type:char(36);index;not null" json:"user_id"`          // Depositing user
	Amount            decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`            // Amount sent, always positive
	PhoneNumber       string          `gorm:"size:20;not null" json:"phone_number"`                 // Sender phone
	MpesaCode         *string         `gorm:"size:32" json:"mpesa_code,omitempty"`                  // Payment rail reference
	PaymentNumberUsed string          `gorm:"size:20" json:"payment_number_used"`                   // Receiving number shown to the user
	Status            RequestStatus   `gorm:"size:16;index;not null;default:pending" json:"status"` // pending, approved, rejected
	ApprovedBy        *uuid.UUID      `gorm:"type:char(36)" json:"approved_by,omitempty"`           // Resolving admin
	ApprovedAt        *time.Time      `json:"approved_at,omitempty"`                                // Resolution time
	CreatedAt         time.Time       `gorm:"index" json:"created_at"`                              // Submission time
}

// BeforeCreate assigns a time-ordered id when none is set
func (d *PendingDeposit) BeforeCreate(tx *gorm.DB) error {
	return assignID(&d.ID)
}

// TableName overrides the table name
func (PendingDeposit) TableName() string {
	return "pending_deposits"
}

// Reference returns the payment rail code, or "Manual" when none was given
func (d *PendingDeposit) Reference() string {
	if d.MpesaCode == nil || *d.MpesaCode == "" {
		return "Manual"
	}
	return *d.MpesaCode
}

// PendingWithdrawal Model. Amount was already reserved out of the
// wallet balance when the row was created.
type PendingWithdrawal struct {
	ID          uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`                   // Primary key
	UserID      uuid.UUID       `gorm:"type:char(36);index;not null" json:"user_id"`          // Withdrawing user
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`            // Reserved amount, always positive
	PhoneNumber string          `gorm:"size:20;not null" json:"phone_number"`                 // Destination phone
	Status      RequestStatus   `gorm:"size:16;index;not null;default:pending" json:"status"` // pending, completed, rejected
	ProcessedBy *uuid.UUID      `gorm:"type:char(36)" json:"processed_by,omitempty"`          // Resolving admin
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`                               // Resolution time
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`                              // Submission time
}

// BeforeCreate assigns a time-ordered id when none is set
func (w *PendingWithdrawal) BeforeCreate(tx *gorm.DB) error {
	return assignID(&w.ID)
}

// TableName overrides the table name
func (PendingWithdrawal) TableName() string {
	return "pending_withdrawals"
}
