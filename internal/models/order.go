package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID                      string          `json:"id" gorm:"primaryKey;size:64"`
	CustomerName            string          `json:"customerName" gorm:"index"`
	CustomerPhone           string          `json:"customerPhone"`
	OrderDescription        string          `json:"orderDescription" gorm:"type:text"`
	OrderDate               string          `json:"orderDate" gorm:"size:32;index"`
	OrderTotal              decimal.Decimal `json:"orderTotal" gorm:"type:decimal(18,4);not null;default:0"`
	ReceivedDeliveryCharges decimal.Decimal `json:"receivedDeliveryCharges" gorm:"type:decimal(18,4);not null;default:0"`
	PaidDeliveryCharges     decimal.Decimal `json:"paidDeliveryCharges" gorm:"type:decimal(18,4);not null;default:0"`
	IsCompleted             bool            `json:"isCompleted" gorm:"default:false"`
	Expenses                []ExpenseLine   `json:"expenses" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments                []Payment       `json:"payments" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt               time.Time       `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt               *time.Time      `json:"updatedAt,omitempty" gorm:"autoUpdateTime:false"`
}

// ExpenseLine is a cost incurred for one order, optionally owed to a vendor.
// Lines are stored in their own table but only ever read and written
// through their order.
type ExpenseLine struct {
	OrderID             string          `json:"-" gorm:"primaryKey;size:64"`
	Position            int             `json:"-" gorm:"primaryKey"`
	ID                  FlexibleID      `json:"id" gorm:"column:expense_id;size:64;index"`
	Description         string          `json:"description"`
	Amount              decimal.Decimal `json:"amount" gorm:"type:decimal(18,4);not null;default:0"`
	VendorID            FlexibleID      `json:"vendorId" gorm:"size:64;index"`
	VendorName          string          `json:"vendorName"`
	VendorPaymentStatus PaymentStatus   `json:"vendorPaymentStatus" gorm:"size:16"`
}

type Payment struct {
	OrderID  string          `json:"-" gorm:"primaryKey;size:64"`
	Position int             `json:"-" gorm:"primaryKey"`
	ID       FlexibleID      `json:"id" gorm:"column:payment_id;size:64"`
	Date     string          `json:"date" gorm:"size:32"`
	Amount   decimal.Decimal `json:"amount" gorm:"type:decimal(18,4);not null;default:0"`
}

func (ExpenseLine) TableName() string { return "order_expenses" }

func (Payment) TableName() string { return "order_payments" }

// HasVendor reports whether the line is tagged with a vendor and therefore
// mirrored in the vendor transaction ledger.
func (e ExpenseLine) HasVendor() bool {
	return e.VendorID != ""
}

// EffectiveStatus returns the stored status, or paid when none was recorded.
func (e ExpenseLine) EffectiveStatus() PaymentStatus {
	if e.VendorPaymentStatus == "" {
		return StatusPaid
	}
	return e.VendorPaymentStatus
}

// IsPaid is true for vendor-less lines and for vendor lines marked paid.
func (e ExpenseLine) IsPaid() bool {
	return !e.HasVendor() || e.VendorPaymentStatus == StatusPaid
}

// EnsureSlices replaces nil line slices with empty ones so the order always
// serializes expenses and payments as arrays.
func (o *Order) EnsureSlices() {
	if o.Expenses == nil {
		o.Expenses = []ExpenseLine{}
	}
	if o.Payments == nil {
		o.Payments = []Payment{}
	}
}

// Touch sets UpdatedAt.
func (o *Order) Touch(now time.Time) {
	t := now.UTC()
	o.UpdatedAt = &t
}
