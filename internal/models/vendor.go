package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Vendor struct {
	ID            string     `json:"id" gorm:"primaryKey;size:64"`
	Name          string     `json:"name" gorm:"not null;index"`
	ContactNumber string     `json:"contactNumber"`
	CreatedAt     time.Time  `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty" gorm:"autoUpdateTime:false"`

	// LegacyName carries the "vendorName" field older files used instead of
	// "name". It is folded into Name on load and never stored.
	LegacyName string `json:"vendorName,omitempty" gorm:"-"`
}

// NormalizeName folds the legacy alias into Name.
func (v *Vendor) NormalizeName() {
	if v.Name == "" && v.LegacyName != "" {
		v.Name = v.LegacyName
	}
	v.LegacyName = ""
}

// VendorTransaction mirrors one vendor-tagged expense line of an order. The
// collection is derived from orders and regenerated whenever an order is saved.
type VendorTransaction struct {
	ID                 string          `json:"id" gorm:"primaryKey;size:128"`
	OrderID            string          `json:"orderId" gorm:"size:64;index"`
	VendorID           string          `json:"vendorId" gorm:"size:64;index"`
	VendorName         string          `json:"vendorName"`
	ExpenseID          *string         `json:"expenseId" gorm:"size:64"`
	ExpenseDescription string          `json:"expenseDescription"`
	Amount             decimal.Decimal `json:"amount" gorm:"type:decimal(18,4);not null;default:0"`
	Status             PaymentStatus   `json:"status" gorm:"size:16;index"`
	CreatedAt          time.Time       `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt          *time.Time      `json:"updatedAt,omitempty" gorm:"autoUpdateTime:false"`
}

// ExpenseKey returns the linked expense line id, or "" for legacy entries.
func (t VendorTransaction) ExpenseKey() string {
	if t.ExpenseID == nil {
		return ""
	}
	return *t.ExpenseID
}
