package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bookkeeper/internal/ledger"
	"bookkeeper/internal/models"
	"bookkeeper/internal/repository"
)

var dbSeq atomic.Int64

// setupTestStore opens a private in-memory database. The sequence suffix
// keeps two stores in one test apart.
func setupTestStore(t *testing.T) *repository.Store {
	t.Helper()
	name := fmt.Sprintf("%s_%d", strings.ReplaceAll(t.Name(), "/", "_"), dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.NewStore(db)
}

// stepClock returns a clock that advances one second per call.
func stepClock() Clock {
	var mu sync.Mutex
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

type fakeCache struct {
	dashboard   *ledger.Dashboard
	invalidated int
}

func (c *fakeCache) GetDashboard(ctx context.Context) (*ledger.Dashboard, bool, error) {
	return c.dashboard, c.dashboard != nil, nil
}

func (c *fakeCache) SetDashboard(ctx context.Context, d *ledger.Dashboard, ttl time.Duration) error {
	c.dashboard = d
	return nil
}

func (c *fakeCache) InvalidateDashboard(ctx context.Context) error {
	c.dashboard = nil
	c.invalidated++
	return nil
}

type testEnv struct {
	store     *repository.Store
	cache     *fakeCache
	sync      TransactionSynchronizer
	orders    OrderService
	vendors   VendorService
	expenses  ExpenseService
	funds     FundService
	dashboard DashboardService
	reconcile ReconcileService
	backup    BackupService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := setupTestStore(t)
	cache := &fakeCache{}
	clock := stepClock()
	syncer := NewTransactionSynchronizer(store, clock)
	return &testEnv{
		store:     store,
		cache:     cache,
		sync:      syncer,
		orders:    NewOrderService(store, syncer, cache, clock),
		vendors:   NewVendorService(store, syncer, cache, clock),
		expenses:  NewExpenseService(store.Expenses, cache, clock),
		funds:     NewFundService(store.Funds, cache, clock),
		dashboard: NewDashboardService(store, cache, time.Minute),
		reconcile: NewReconcileService(store, syncer, cache),
		backup:    NewBackupService(store, "", cache, clock),
	}
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func (e *testEnv) createVendor(t *testing.T, name string) *models.Vendor {
	t.Helper()
	v := &models.Vendor{Name: name}
	if err := e.vendors.CreateVendor(v); err != nil {
		t.Fatalf("create vendor: %v", err)
	}
	return v
}

func (e *testEnv) createOrder(t *testing.T, lines ...models.ExpenseLine) *models.Order {
	t.Helper()
	o := &models.Order{
		CustomerName:  "Ayesha Khan",
		CustomerPhone: "0300-1234567",
		OrderDate:     "2024-03-01",
		OrderTotal:    dec(1000),
		Expenses:      lines,
	}
	if err := e.orders.CreateOrder(o); err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}
