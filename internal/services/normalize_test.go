package services

import (
	"testing"

	"bookkeeper/internal/models"
)

func TestNormalizeOrderIsDeterministic(t *testing.T) {
	o := models.Order{
		ID:       "o1",
		Expenses: []models.ExpenseLine{{Description: "fabric"}, {ID: "keep", Description: "print", VendorPaymentStatus: models.StatusPending}},
		Payments: []models.Payment{{}},
	}
	if !NormalizeOrder(&o) {
		t.Fatalf("expected changes")
	}
	if o.Expenses[0].ID != "o1-exp-0" || o.Expenses[1].ID != "keep" {
		t.Fatalf("unexpected ids %+v", o.Expenses)
	}
	if o.Expenses[1].VendorPaymentStatus != models.StatusPending {
		t.Fatalf("expected existing status kept")
	}
	if o.Payments[0].ID != "o1-pay-0" {
		t.Fatalf("unexpected payment id %q", o.Payments[0].ID)
	}
	if NormalizeOrder(&o) {
		t.Fatalf("expected second run to change nothing")
	}
}

func TestLinkLegacyTransactionsClaimsEachLineOnce(t *testing.T) {
	orders := []models.Order{{
		ID: "o1",
		Expenses: []models.ExpenseLine{
			{ID: "a", Description: "fabric", Amount: dec(100), VendorID: "v1"},
			{ID: "b", Description: "fabric", Amount: dec(100), VendorID: "v1"},
			{ID: "c", Description: "print", Amount: dec(40), VendorID: "v2"},
		},
	}}
	linkedID := "c"
	txs := []models.VendorTransaction{
		{ID: "t1", OrderID: "o1", VendorID: "v1", ExpenseDescription: "fabric", Amount: dec(100)},
		{ID: "t2", OrderID: "o1", VendorID: "v1", ExpenseDescription: "fabric", Amount: dec(100)},
		{ID: "t3", OrderID: "o1", VendorID: "v2", ExpenseID: &linkedID, ExpenseDescription: "print", Amount: dec(40)},
		{ID: "t4", OrderID: "o1", VendorID: "v2", ExpenseDescription: "print", Amount: dec(40)},
		{ID: "t5", OrderID: "gone", VendorID: "v1", ExpenseDescription: "fabric", Amount: dec(100)},
	}

	linked, unresolved := LinkLegacyTransactions(orders, txs)
	if len(linked) != 2 || unresolved != 2 {
		t.Fatalf("expected 2 linked and 2 unresolved, got %d and %d", len(linked), unresolved)
	}
	if linked[0].ExpenseKey() != "a" || linked[1].ExpenseKey() != "b" {
		t.Fatalf("expected duplicates paired in order, got %q %q", linked[0].ExpenseKey(), linked[1].ExpenseKey())
	}
	if txs[0].ExpenseID != nil {
		t.Fatalf("expected input slice untouched")
	}
}

func TestNormalizeOrderReassignsRepeatedIDs(t *testing.T) {
	o := models.Order{
		ID: "o9",
		Expenses: []models.ExpenseLine{
			{ID: "dup", Description: "a", VendorPaymentStatus: models.StatusPaid},
			{ID: "dup", Description: "b", VendorPaymentStatus: models.StatusPaid},
			{ID: "o9-exp-1", Description: "c", VendorPaymentStatus: models.StatusPaid},
		},
		Payments: []models.Payment{{ID: "p"}, {ID: "p"}},
	}
	if !NormalizeOrder(&o) {
		t.Fatalf("expected changes")
	}
	got := []models.FlexibleID{o.Expenses[0].ID, o.Expenses[1].ID, o.Expenses[2].ID}
	want := []models.FlexibleID{"dup", "o9-exp-1-1", "o9-exp-1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected expense ids %v got %v", want, got)
		}
	}
	if o.Payments[0].ID != "p" || o.Payments[1].ID != "o9-pay-1" {
		t.Fatalf("unexpected payment ids %q %q", o.Payments[0].ID, o.Payments[1].ID)
	}
	if NormalizeOrder(&o) {
		t.Fatalf("expected second run to change nothing")
	}
}
