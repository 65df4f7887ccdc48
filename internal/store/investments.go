package store

import (
	"invest_ledger/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Investments reads investment positions. Positions are opened and
// matured by the product service, never here.
type Investments struct {
	db *gorm.DB
}

// SumActive totals the principal of all active investments
func (i *Investments) SumActive() (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := i.db.Model(&domain.Investment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", domain.InvestmentActive).
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, classify(err)
	}
	return sum, nil
}
