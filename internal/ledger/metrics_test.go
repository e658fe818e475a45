package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"bookkeeper/internal/models"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertAmount(t *testing.T, name string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Fatalf("%s: expected %d got %s", name, want, got)
	}
}

func TestReceivableAndGrandTotal(t *testing.T) {
	o := models.Order{
		OrderTotal:              d(1000),
		ReceivedDeliveryCharges: d(100),
		Payments:                []models.Payment{{Amount: d(500)}},
	}
	assertAmount(t, "grand total", GrandTotal(o), 1100)
	assertAmount(t, "receivable", Receivable(o), 600)
}

func TestOverpaymentIsNegativeReceivable(t *testing.T) {
	o := models.Order{OrderTotal: d(100), Payments: []models.Payment{{Amount: d(150)}}}
	assertAmount(t, "receivable", Receivable(o), -50)
}

func TestExpenseBases(t *testing.T) {
	o := models.Order{
		Expenses: []models.ExpenseLine{
			{Amount: d(200), VendorID: "v1", VendorPaymentStatus: models.StatusPending},
			{Amount: d(50)},
		},
	}
	assertAmount(t, "order expense total", OrderExpenseTotal(o), 250)
	assertAmount(t, "paid-only total", PaidOrderExpenseTotal(o), 50)
	assertAmount(t, "payable", Payable(o), 200)
}

func TestPaidDeliveryCountsOnBothBases(t *testing.T) {
	o := models.Order{
		OrderTotal:          d(300),
		PaidDeliveryCharges: d(40),
		Expenses: []models.ExpenseLine{
			{Amount: d(100), VendorID: "v1", VendorPaymentStatus: models.StatusPaid},
			{Amount: d(60), VendorID: "v2"},
		},
	}
	assertAmount(t, "order expense total", OrderExpenseTotal(o), 200)
	// a vendor line with no recorded status is neither paid for cash purposes
	// nor settled for payables
	assertAmount(t, "paid-only total", PaidOrderExpenseTotal(o), 140)
	assertAmount(t, "payable", Payable(o), 60)
	assertAmount(t, "profit", Profit(o), 100)
}

func TestProfitMayBeNegative(t *testing.T) {
	o := models.Order{OrderTotal: d(100), Expenses: []models.ExpenseLine{{Amount: d(180)}}}
	assertAmount(t, "profit", Profit(o), -80)
}

func TestCashInHand(t *testing.T) {
	orders := []models.Order{
		{Payments: []models.Payment{{Amount: d(1000)}, {Amount: d(500)}}, Expenses: []models.ExpenseLine{{Amount: d(300)}}},
	}
	funds := []models.FundTransaction{
		{Type: models.FundDeposit, Amount: d(1000)},
		{Type: models.FundWithdraw, Amount: d(200)},
	}
	assertAmount(t, "cash in hand", CashInHand(orders, nil, funds), 2000)
}

func TestCashInHandExcludesPendingVendorLines(t *testing.T) {
	orders := []models.Order{{
		Payments: []models.Payment{{Amount: d(500)}},
		Expenses: []models.ExpenseLine{
			{Amount: d(200), VendorID: "v1", VendorPaymentStatus: models.StatusPending},
			{Amount: d(50)},
		},
	}}
	expenses := []models.GeneralExpense{{Amount: d(25)}}
	assertAmount(t, "cash in hand", CashInHand(orders, expenses, nil), 425)
}

func TestFundTotals(t *testing.T) {
	ft := FundTotals([]models.FundTransaction{
		{Type: models.FundDeposit, Amount: d(300)},
		{Type: models.FundWithdraw, Amount: d(500)},
		{Type: "transfer", Amount: d(999)},
	})
	assertAmount(t, "deposits", ft.Deposits, 300)
	assertAmount(t, "withdrawals", ft.Withdrawals, 500)
	assertAmount(t, "net", ft.Net, -200)
}

func TestVendorTotals(t *testing.T) {
	s := VendorTotals([]models.VendorTransaction{
		{Amount: d(100), Status: models.StatusPaid},
		{Amount: d(40), Status: models.StatusPending},
		{Amount: d(10)},
	})
	assertAmount(t, "assigned", s.TotalAssigned, 150)
	assertAmount(t, "paid", s.TotalPaid, 100)
	assertAmount(t, "pending", s.TotalPending, 50)
}

func TestEmptyInputs(t *testing.T) {
	dash := Summarize(nil, nil, nil)
	if dash.TotalOrders != 0 || !dash.CashInHand.IsZero() || !dash.TotalProfit.IsZero() {
		t.Fatalf("expected zero dashboard got %+v", dash)
	}
	if dash.RecentOrders == nil || len(dash.RecentOrders) != 0 {
		t.Fatalf("expected empty recent orders got %#v", dash.RecentOrders)
	}
	s := VendorTotals(nil)
	if !s.TotalPending.IsZero() {
		t.Fatalf("expected zero pending got %s", s.TotalPending)
	}
}
