package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneralExpense is a business cost not tied to any order. It is always
// treated as paid.
type GeneralExpense struct {
	ID          string          `json:"id" gorm:"primaryKey;size:64"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(18,4);not null;default:0"`
	Date        string          `json:"date" gorm:"size:32;index"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty" gorm:"autoUpdateTime:false"`
}

func (GeneralExpense) TableName() string { return "general_expenses" }
