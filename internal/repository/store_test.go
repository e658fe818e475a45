package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bookkeeper/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStore(db)
}

func sampleOrder(id string) *models.Order {
	return &models.Order{
		ID:           id,
		CustomerName: "Ayesha",
		OrderDate:    "2024-03-01",
		OrderTotal:   decimal.NewFromInt(1000),
		CreatedAt:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Expenses: []models.ExpenseLine{
			{ID: "e1", Description: "fabric", Amount: decimal.NewFromInt(200), VendorID: "v1", VendorPaymentStatus: models.StatusPending},
			{ID: "e2", Description: "thread", Amount: decimal.NewFromInt(50)},
		},
		Payments: []models.Payment{{ID: "p1", Date: "2024-03-02", Amount: decimal.NewFromInt(500)}},
	}
}

func TestOrderCreateAndGetPreservesLineOrder(t *testing.T) {
	store := setupTestStore(t)
	if err := store.Orders.Create(sampleOrder("o1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := store.Orders.GetByID("o1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Expenses) != 2 || got.Expenses[0].ID != "e1" || got.Expenses[1].ID != "e2" {
		t.Fatalf("unexpected expenses %+v", got.Expenses)
	}
	if !got.Expenses[0].Amount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected amount 200 got %s", got.Expenses[0].Amount)
	}
	if len(got.Payments) != 1 || got.Payments[0].ID != "p1" {
		t.Fatalf("unexpected payments %+v", got.Payments)
	}
}

func TestOrderUpdateReplacesLines(t *testing.T) {
	store := setupTestStore(t)
	order := sampleOrder("o1")
	if err := store.Orders.Create(order); err != nil {
		t.Fatalf("create: %v", err)
	}
	order.Expenses = order.Expenses[1:]
	order.Payments = nil
	order.CustomerName = "Ayesha K"
	if err := store.Orders.Update(order); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := store.Orders.GetByID("o1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CustomerName != "Ayesha K" {
		t.Fatalf("expected renamed customer got %q", got.CustomerName)
	}
	if len(got.Expenses) != 1 || got.Expenses[0].ID != "e2" {
		t.Fatalf("expected only e2 got %+v", got.Expenses)
	}
	if got.Payments == nil || len(got.Payments) != 0 {
		t.Fatalf("expected empty payments slice got %#v", got.Payments)
	}
}

func TestOrderUpdateMissing(t *testing.T) {
	store := setupTestStore(t)
	if err := store.Orders.Update(sampleOrder("nope")); !IsNotFound(err) {
		t.Fatalf("expected not found got %v", err)
	}
	if err := store.Orders.Delete("nope"); !IsNotFound(err) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	store := setupTestStore(t)
	boom := errors.New("boom")
	err := store.Transaction(func(tx *Store) error {
		if err := tx.Orders.Create(sampleOrder("o1")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom got %v", err)
	}
	if _, err := store.Orders.GetByID("o1"); !IsNotFound(err) {
		t.Fatalf("expected rolled back order, got %v", err)
	}
}

func TestVendorTransactionQueries(t *testing.T) {
	store := setupTestStore(t)
	now := time.Now().UTC()
	txs := []models.VendorTransaction{
		{ID: "t1", OrderID: "o1", VendorID: "v1", Amount: decimal.NewFromInt(10), Status: models.StatusPaid, CreatedAt: now},
		{ID: "t2", OrderID: "o1", VendorID: "v2", Amount: decimal.NewFromInt(20), Status: models.StatusPending, CreatedAt: now},
		{ID: "t3", OrderID: "o2", VendorID: "v1", Amount: decimal.NewFromInt(30), Status: models.StatusPending, CreatedAt: now},
	}
	if err := store.VendorTransactions.CreateBatch(txs); err != nil {
		t.Fatalf("create: %v", err)
	}
	byVendor, err := store.VendorTransactions.GetByVendorID("v1")
	if err != nil || len(byVendor) != 2 {
		t.Fatalf("expected 2 for v1 got %d err=%v", len(byVendor), err)
	}
	if err := store.VendorTransactions.UpdateStatus("t2", models.StatusPaid, now); err != nil {
		t.Fatalf("update status: %v", err)
	}
	t2, _ := store.VendorTransactions.GetByID("t2")
	if t2.Status != models.StatusPaid {
		t.Fatalf("expected paid got %s", t2.Status)
	}
	n, err := store.VendorTransactions.DeleteByOrderID("o1")
	if err != nil || n != 2 {
		t.Fatalf("expected 2 deleted got %d err=%v", n, err)
	}
	rest, _ := store.VendorTransactions.GetAll()
	if len(rest) != 1 || rest[0].ID != "t3" {
		t.Fatalf("expected only t3 left got %+v", rest)
	}
}

func TestReplaceAll(t *testing.T) {
	store := setupTestStore(t)
	if err := store.Vendors.Create(&models.Vendor{ID: "old", Name: "Old"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.Vendors.ReplaceAll([]models.Vendor{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	vendors, _ := store.Vendors.GetAll()
	if len(vendors) != 2 {
		t.Fatalf("expected 2 vendors got %d", len(vendors))
	}
	if err := store.Vendors.ReplaceAll(nil); err != nil {
		t.Fatalf("replace empty: %v", err)
	}
	vendors, _ = store.Vendors.GetAll()
	if len(vendors) != 0 {
		t.Fatalf("expected empty collection got %d", len(vendors))
	}
}
