package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"bookkeeper/internal/models"
)

const recentOrdersLimit = 5

var hundred = decimal.NewFromInt(100)

// OrderFigures is the per-order breakdown shown next to an order.
type OrderFigures struct {
	OrderID          string          `json:"orderId"`
	CustomerName     string          `json:"customerName"`
	CustomerPhone    string          `json:"customerPhone"`
	OrderDate        string          `json:"orderDate"`
	IsCompleted      bool            `json:"isCompleted"`
	GrandTotal       decimal.Decimal `json:"grandTotal"`
	TotalPayments    decimal.Decimal `json:"totalPayments"`
	Receivable       decimal.Decimal `json:"receivable"`
	ExpenseTotal     decimal.Decimal `json:"expenseTotal"`
	PaidExpenseTotal decimal.Decimal `json:"paidExpenseTotal"`
	Profit           decimal.Decimal `json:"profit"`
	Payable          decimal.Decimal `json:"payable"`
}

func Figures(o models.Order) OrderFigures {
	return OrderFigures{
		OrderID:          o.ID,
		CustomerName:     o.CustomerName,
		CustomerPhone:    o.CustomerPhone,
		OrderDate:        o.OrderDate,
		IsCompleted:      o.IsCompleted,
		GrandTotal:       GrandTotal(o),
		TotalPayments:    TotalPayments(o),
		Receivable:       Receivable(o),
		ExpenseTotal:     OrderExpenseTotal(o),
		PaidExpenseTotal: PaidOrderExpenseTotal(o),
		Profit:           Profit(o),
		Payable:          Payable(o),
	}
}

// Dashboard is the business-wide snapshot.
type Dashboard struct {
	TotalOrders           int             `json:"totalOrders"`
	TotalSales            decimal.Decimal `json:"totalSales"`
	TotalReceivables      decimal.Decimal `json:"totalReceivables"`
	TotalPaymentsReceived decimal.Decimal `json:"totalPaymentsReceived"`
	TotalOrderExpenses    decimal.Decimal `json:"totalOrderExpenses"`
	TotalGeneralExpenses  decimal.Decimal `json:"totalGeneralExpenses"`
	TotalExpenses         decimal.Decimal `json:"totalExpenses"`
	TotalProfit           decimal.Decimal `json:"totalProfit"`
	TotalOwnerDeposits    decimal.Decimal `json:"totalOwnerDeposits"`
	TotalOwnerWithdrawals decimal.Decimal `json:"totalOwnerWithdrawals"`
	PaidExpenses          decimal.Decimal `json:"paidExpenses"`
	CashInHand            decimal.Decimal `json:"cashInHand"`
	TotalPayables         decimal.Decimal `json:"totalPayables"`
	ProfitTrend           decimal.Decimal `json:"profitTrend"`
	CashTrend             decimal.Decimal `json:"cashTrend"`
	RecentOrders          []OrderFigures  `json:"recentOrders"`
}

func Summarize(orders []models.Order, expenses []models.GeneralExpense, funds []models.FundTransaction) Dashboard {
	d := Dashboard{
		TotalOrders:           len(orders),
		TotalSales:            decimal.Zero,
		TotalReceivables:      decimal.Zero,
		TotalPaymentsReceived: decimal.Zero,
		TotalOrderExpenses:    decimal.Zero,
		TotalPayables:         decimal.Zero,
	}
	paidOrderExpenses := decimal.Zero
	for _, o := range orders {
		d.TotalSales = d.TotalSales.Add(GrandTotal(o))
		d.TotalReceivables = d.TotalReceivables.Add(Receivable(o))
		d.TotalPaymentsReceived = d.TotalPaymentsReceived.Add(TotalPayments(o))
		d.TotalOrderExpenses = d.TotalOrderExpenses.Add(OrderExpenseTotal(o))
		d.TotalPayables = d.TotalPayables.Add(Payable(o))
		paidOrderExpenses = paidOrderExpenses.Add(PaidOrderExpenseTotal(o))
	}

	d.TotalGeneralExpenses = TotalGeneralExpenses(expenses)
	d.TotalExpenses = d.TotalOrderExpenses.Add(d.TotalGeneralExpenses)
	d.TotalProfit = d.TotalSales.Sub(d.TotalExpenses)

	ft := FundTotals(funds)
	d.TotalOwnerDeposits = ft.Deposits
	d.TotalOwnerWithdrawals = ft.Withdrawals

	d.PaidExpenses = paidOrderExpenses.Add(d.TotalGeneralExpenses)
	d.CashInHand = d.TotalPaymentsReceived.Add(ft.Deposits).Sub(ft.Withdrawals).Sub(d.PaidExpenses)

	d.ProfitTrend = Trend(d.TotalProfit, d.TotalExpenses)
	d.CashTrend = Trend(d.CashInHand, d.TotalExpenses)
	d.RecentOrders = RecentOrders(orders, recentOrdersLimit)
	return d
}

// Trend expresses value as an absolute percentage of base, one decimal place.
// A zero base is treated as 1.
func Trend(value, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		base = decimal.NewFromInt(1)
	}
	return value.Div(base).Mul(hundred).Abs().Round(1)
}

// RecentOrders returns the figures of the latest orders by order date.
func RecentOrders(orders []models.Order, limit int) []OrderFigures {
	sorted := make([]models.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderDate > sorted[j].OrderDate
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]OrderFigures, 0, len(sorted))
	for _, o := range sorted {
		out = append(out, Figures(o))
	}
	return out
}
