package server

import (
	"time"

	"bookkeeper/internal/repository"
	"bookkeeper/internal/services"
)

// BuildServices wires every service over one store. cache may be nil.
func BuildServices(store *repository.Store, cache services.MetricsCache, cacheTTL time.Duration, backupPrefix string) Services {
	clock := func() time.Time { return time.Now().UTC() }
	sync := services.NewTransactionSynchronizer(store, clock)
	return Services{
		Orders:    services.NewOrderService(store, sync, cache, clock),
		Vendors:   services.NewVendorService(store, sync, cache, clock),
		Expenses:  services.NewExpenseService(store.Expenses, cache, clock),
		Funds:     services.NewFundService(store.Funds, cache, clock),
		Dashboard: services.NewDashboardService(store, cache, cacheTTL),
		Reconcile: services.NewReconcileService(store, sync, cache),
		Backup:    services.NewBackupService(store, backupPrefix, cache, clock),
		Clock:     clock,
	}
}
