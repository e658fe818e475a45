package migrations

import (
	"fmt"

	"gorm.io/gorm"

	"bookkeeper/internal/database"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/models"
	"bookkeeper/internal/repository"
	"bookkeeper/internal/services"
)

// Report counts what a migration run changed.
type Report struct {
	OrdersNormalized     int `json:"ordersNormalized"`
	TransactionsUpdated  int `json:"transactionsUpdated"`
	TransactionsLinked   int `json:"transactionsLinked"`
	UnresolvedLegacyRows int `json:"unresolvedLegacyRows"`
}

// RunMigrations brings the schema up to date and upgrades legacy rows.
// Running it again on migrated data changes nothing.
func RunMigrations(db *gorm.DB) (*Report, error) {
	log := logger.WithComponent("migrations")
	log.Info().Msg("Running database migrations")

	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	report, err := NormalizeLegacyData(repository.NewStore(db))
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("orders_normalized", report.OrdersNormalized).
		Int("transactions_updated", report.TransactionsUpdated).
		Int("transactions_linked", report.TransactionsLinked).
		Int("unresolved", report.UnresolvedLegacyRows).
		Msg("Database migrations completed")
	return report, nil
}

// NormalizeLegacyData backfills expense line ids and statuses, defaults
// missing transaction statuses and links transactions that predate expense
// ids to their line. Updated rows keep their updatedAt.
func NormalizeLegacyData(store *repository.Store) (*Report, error) {
	report := &Report{}
	err := store.Transaction(func(tx *repository.Store) error {
		orders, err := tx.Orders.GetAll()
		if err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}
		for i := range orders {
			if !services.NormalizeOrder(&orders[i]) {
				continue
			}
			if err := tx.Orders.Update(&orders[i]); err != nil {
				return fmt.Errorf("failed to normalize order %s: %w", orders[i].ID, err)
			}
			report.OrdersNormalized++
		}

		transactions, err := tx.VendorTransactions.GetAll()
		if err != nil {
			return fmt.Errorf("failed to load vendor transactions: %w", err)
		}
		for i := range transactions {
			if transactions[i].Status != "" {
				continue
			}
			transactions[i].Status = models.StatusPaid
			if err := tx.VendorTransactions.Update(&transactions[i]); err != nil {
				return fmt.Errorf("failed to default transaction status: %w", err)
			}
			report.TransactionsUpdated++
		}

		linked, unresolved := services.LinkLegacyTransactions(orders, transactions)
		for i := range linked {
			if err := tx.VendorTransactions.Update(&linked[i]); err != nil {
				return fmt.Errorf("failed to link vendor transaction %s: %w", linked[i].ID, err)
			}
		}
		report.TransactionsLinked = len(linked)
		report.UnresolvedLegacyRows = unresolved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
