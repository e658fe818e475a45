package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundTransaction is money the owner put into or took out of the business.
type FundTransaction struct {
	ID          string          `json:"id" gorm:"primaryKey;size:64"`
	Type        FundType        `json:"type" gorm:"size:16;not null;index"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(18,4);not null;default:0"`
	Date        string          `json:"date,omitempty" gorm:"size:32"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty" gorm:"autoUpdateTime:false"`
}

func (FundTransaction) TableName() string { return "fund_transactions" }

// All returns every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&Order{},
		&ExpenseLine{},
		&Payment{},
		&Vendor{},
		&VendorTransaction{},
		&GeneralExpense{},
		&FundTransaction{},
	}
}
