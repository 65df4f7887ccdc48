package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user can hold
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User Model
type User struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`            // Primary key
	Username  string    `gorm:"size:64;unique;not null" json:"username"`       // Unique username
	Password  string    `gorm:"not null" json:"-"`                             // Hashed password
	Role      string    `gorm:"size:16;default:user" json:"role"`              // Role: user or admin
	Wallet    Wallet    `gorm:"foreignKey:UserID;references:ID" json:"wallet"` // One-to-one relationship with Wallet
	CreatedAt time.Time `json:"created_at"`                                    // Registration time
}

// BeforeCreate assigns a time-ordered id when none is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	return assignID(&u.ID)
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// assignID fills id with a UUIDv7 if it is still the zero value
func assignID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}
	v, err := uuid.NewV7()
	if err != nil {
		return err
	}
	*id = v
	return nil
}
