package store

import (
	"invest_ledger/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Users reads and onboards platform users
type Users struct {
	db *gorm.DB
}

// Create inserts a user row. Callers pair it with Wallets.Create in the
// same unit of work.
func (u *Users) Create(user *domain.User) error {
	if err := u.db.Omit("Wallet").Create(user).Error; err != nil {
		return classify(err)
	}
	return nil
}

// Get reads a user by id
func (u *Users) Get(id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := u.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err, "user "+id.String())
	}
	return &user, nil
}

// GetByUsername reads a user by username
func (u *Users) GetByUsername(username string) (*domain.User, error) {
	var user domain.User
	if err := u.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "user "+username)
	}
	return &user, nil
}

// List returns users with their wallets, newest first
func (u *Users) List(page Page) ([]domain.User, error) {
	var users []domain.User
	q := u.db.Preload("Wallet").Order("created_at desc")
	if page.Limit > 0 {
		q = q.Limit(page.Limit).Offset(page.Offset)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, classify(err)
	}
	return users, nil
}

// Count returns the number of registered users
func (u *Users) Count() (int64, error) {
	var total int64
	if err := u.db.Model(&domain.User{}).Count(&total).Error; err != nil {
		return 0, classify(err)
	}
	return total, nil
}
