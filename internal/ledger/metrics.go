// Package ledger computes the derived financial figures of the business
// from its orders, general expenses, owner fund movements and vendor
// transactions. Everything here is a pure function of its inputs.
//
// Two bases are deliberately kept apart: profit counts every incurred cost
// whether or not the vendor has been paid (accrual), while cash in hand
// counts only money that actually left the business (cash basis).
package ledger

import (
	"github.com/shopspring/decimal"

	"bookkeeper/internal/models"
)

// GrandTotal is what the customer owes in total: order total plus the
// delivery charge billed to them.
func GrandTotal(o models.Order) decimal.Decimal {
	return o.OrderTotal.Add(o.ReceivedDeliveryCharges)
}

// TotalPayments sums the payments received on the order.
func TotalPayments(o models.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range o.Payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// Receivable is the amount still owed by the customer. Overpayment yields a
// negative value.
func Receivable(o models.Order) decimal.Decimal {
	return GrandTotal(o).Sub(TotalPayments(o))
}

// OrderExpenseTotal is every expense line plus the delivery charge paid out,
// regardless of vendor payment status.
func OrderExpenseTotal(o models.Order) decimal.Decimal {
	sum := o.PaidDeliveryCharges
	for _, e := range o.Expenses {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// PaidOrderExpenseTotal counts only lines that have actually been paid:
// vendor-less lines and vendor lines marked paid, plus paid delivery.
func PaidOrderExpenseTotal(o models.Order) decimal.Decimal {
	sum := o.PaidDeliveryCharges
	for _, e := range o.Expenses {
		if e.IsPaid() {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

// Profit is grand total minus all incurred order expenses.
func Profit(o models.Order) decimal.Decimal {
	return GrandTotal(o).Sub(OrderExpenseTotal(o))
}

// Payable is what the business still owes vendors for this order.
func Payable(o models.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range o.Expenses {
		if e.HasVendor() && e.VendorPaymentStatus != models.StatusPaid {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

func TotalGeneralExpenses(expenses []models.GeneralExpense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return sum
}

type FundSummary struct {
	Deposits    decimal.Decimal `json:"totalDeposits"`
	Withdrawals decimal.Decimal `json:"totalWithdrawals"`
	Net         decimal.Decimal `json:"netBalance"`
}

// FundTotals splits owner fund movements by type. Unknown types are ignored.
func FundTotals(funds []models.FundTransaction) FundSummary {
	s := FundSummary{Deposits: decimal.Zero, Withdrawals: decimal.Zero}
	for _, f := range funds {
		switch f.Type {
		case models.FundDeposit:
			s.Deposits = s.Deposits.Add(f.Amount)
		case models.FundWithdraw:
			s.Withdrawals = s.Withdrawals.Add(f.Amount)
		}
	}
	s.Net = s.Deposits.Sub(s.Withdrawals)
	return s
}

// CashInHand = payments received + deposits - withdrawals - paid order
// expenses - general expenses.
func CashInHand(orders []models.Order, expenses []models.GeneralExpense, funds []models.FundTransaction) decimal.Decimal {
	received := decimal.Zero
	paidOut := decimal.Zero
	for _, o := range orders {
		received = received.Add(TotalPayments(o))
		paidOut = paidOut.Add(PaidOrderExpenseTotal(o))
	}
	ft := FundTotals(funds)
	return received.Add(ft.Deposits).Sub(ft.Withdrawals).Sub(paidOut).Sub(TotalGeneralExpenses(expenses))
}

type VendorSummary struct {
	TotalAssigned decimal.Decimal `json:"totalAssigned"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	TotalPending  decimal.Decimal `json:"totalPending"`
}

// VendorTotals summarizes a vendor's transactions. Pending is whatever is
// assigned but not marked paid.
func VendorTotals(transactions []models.VendorTransaction) VendorSummary {
	s := VendorSummary{TotalAssigned: decimal.Zero, TotalPaid: decimal.Zero}
	for _, tx := range transactions {
		s.TotalAssigned = s.TotalAssigned.Add(tx.Amount)
		if tx.Status == models.StatusPaid {
			s.TotalPaid = s.TotalPaid.Add(tx.Amount)
		}
	}
	s.TotalPending = s.TotalAssigned.Sub(s.TotalPaid)
	return s
}
