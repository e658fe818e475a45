package services

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"bookkeeper/internal/ledger"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/models"
	"bookkeeper/internal/repository"
)

// TransactionSynchronizer keeps the vendor transaction collection a mirror of
// the vendor-tagged expense lines embedded in orders.
type TransactionSynchronizer interface {
	// SyncForOrder drops every transaction of the order and regenerates one
	// per vendor-tagged expense line. It runs on the given store so callers
	// can make it part of the order write.
	SyncForOrder(store *repository.Store, order *models.Order) ([]models.VendorTransaction, error)
	RemoveForOrder(store *repository.Store, orderID string) (int64, error)
	// UpdateTransactionStatus sets the status of one transaction and copies
	// it onto the matching expense line of the owning order.
	UpdateTransactionStatus(transactionID string, status models.PaymentStatus) (*models.VendorTransaction, error)
	// Rebuild regenerates the whole collection from the current orders.
	Rebuild() (*RebuildResult, error)
	// Project returns the transactions an order should have, without storing them.
	Project(order models.Order, vendors map[string]models.Vendor) []models.VendorTransaction
}

type RebuildResult struct {
	Orders       int `json:"orders"`
	Transactions int `json:"transactions"`
}

type transactionSynchronizer struct {
	store *repository.Store
	now   Clock
	log   zerolog.Logger
}

func NewTransactionSynchronizer(store *repository.Store, clock Clock) TransactionSynchronizer {
	if clock == nil {
		clock = systemClock
	}
	return &transactionSynchronizer{
		store: store,
		now:   clock,
		log:   logger.WithComponent("vendor-sync"),
	}
}

func (s *transactionSynchronizer) SyncForOrder(store *repository.Store, order *models.Order) ([]models.VendorTransaction, error) {
	if order == nil || order.ID == "" {
		return nil, nil
	}
	removed, err := store.VendorTransactions.DeleteByOrderID(order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear vendor transactions for order %s: %w", order.ID, err)
	}

	vendors, err := s.vendorsFor(store, order)
	if err != nil {
		return nil, err
	}
	transactions := s.Project(*order, vendors)
	if err := store.VendorTransactions.CreateBatch(transactions); err != nil {
		return nil, fmt.Errorf("failed to store vendor transactions for order %s: %w", order.ID, err)
	}

	syncRunsTotal.WithLabelValues("order").Inc()
	transactionsGeneratedTotal.Add(float64(len(transactions)))
	s.log.Debug().
		Str("order_id", order.ID).
		Int64("removed", removed).
		Int("created", len(transactions)).
		Msg("Vendor transactions synced")
	return transactions, nil
}

func (s *transactionSynchronizer) RemoveForOrder(store *repository.Store, orderID string) (int64, error) {
	removed, err := store.VendorTransactions.DeleteByOrderID(orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove vendor transactions for order %s: %w", orderID, err)
	}
	s.log.Debug().Str("order_id", orderID).Int64("removed", removed).Msg("Vendor transactions removed")
	return removed, nil
}

func (s *transactionSynchronizer) Project(order models.Order, vendors map[string]models.Vendor) []models.VendorTransaction {
	now := s.now()
	stamp := now.UnixNano()
	transactions := make([]models.VendorTransaction, 0, len(order.Expenses))
	seen := make(map[string]bool, len(order.Expenses))

	for i, e := range order.Expenses {
		if !e.HasVendor() {
			continue
		}
		key := string(e.ID)
		if key == "" {
			key = strconv.Itoa(i)
		}
		id := fmt.Sprintf("%s-%s-%d", order.ID, key, stamp)
		if seen[id] {
			id = fmt.Sprintf("%s-%d", id, i)
		}
		seen[id] = true

		name := e.VendorName
		if name == "" {
			name = vendors[string(e.VendorID)].Name
		}
		var expenseID *string
		if e.ID != "" {
			v := string(e.ID)
			expenseID = &v
		}
		transactions = append(transactions, models.VendorTransaction{
			ID:                 id,
			OrderID:            order.ID,
			VendorID:           string(e.VendorID),
			VendorName:         name,
			ExpenseID:          expenseID,
			ExpenseDescription: e.Description,
			Amount:             e.Amount,
			Status:             e.EffectiveStatus(),
			CreatedAt:          now,
			UpdatedAt:          &now,
		})
	}
	return transactions
}

// vendorsFor loads vendors only when some vendor line lacks a name snapshot.
func (s *transactionSynchronizer) vendorsFor(store *repository.Store, order *models.Order) (map[string]models.Vendor, error) {
	for _, e := range order.Expenses {
		if e.HasVendor() && e.VendorName == "" {
			all, err := store.Vendors.GetAll()
			if err != nil {
				return nil, fmt.Errorf("failed to load vendors: %w", err)
			}
			return ledger.IndexVendors(all), nil
		}
	}
	return nil, nil
}

func (s *transactionSynchronizer) UpdateTransactionStatus(transactionID string, status models.PaymentStatus) (*models.VendorTransaction, error) {
	if !status.Valid() {
		return nil, newValidationError("status", ErrInvalidStatus)
	}

	var updated *models.VendorTransaction
	err := s.store.Transaction(func(tx *repository.Store) error {
		t, err := tx.VendorTransactions.GetByID(transactionID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrTransactionNotFound
			}
			return fmt.Errorf("failed to get vendor transaction: %w", err)
		}

		now := s.now()
		if err := tx.VendorTransactions.UpdateStatus(t.ID, status, now); err != nil {
			return fmt.Errorf("failed to update vendor transaction status: %w", err)
		}
		t.Status = status
		t.UpdatedAt = &now
		updated = t

		order, err := tx.Orders.GetByID(t.OrderID)
		if err != nil {
			if repository.IsNotFound(err) {
				s.log.Warn().Str("transaction_id", t.ID).Str("order_id", t.OrderID).Msg("Owning order not found, expense line not updated")
				return nil
			}
			return fmt.Errorf("failed to get order: %w", err)
		}

		i := expenseLineIndex(*order, t.ExpenseKey())
		if i < 0 {
			s.log.Warn().Str("transaction_id", t.ID).Str("order_id", order.ID).Msg("No matching expense line for vendor transaction")
			return nil
		}
		order.Expenses[i].VendorPaymentStatus = status
		order.Touch(now)
		if err := tx.Orders.Update(order); err != nil {
			return fmt.Errorf("failed to update order expense status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *transactionSynchronizer) Rebuild() (*RebuildResult, error) {
	result := &RebuildResult{}
	err := s.store.Transaction(func(tx *repository.Store) error {
		orders, err := tx.Orders.GetAll()
		if err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}
		all, err := tx.Vendors.GetAll()
		if err != nil {
			return fmt.Errorf("failed to load vendors: %w", err)
		}
		vendors := ledger.IndexVendors(all)

		var transactions []models.VendorTransaction
		for _, o := range orders {
			transactions = append(transactions, s.Project(o, vendors)...)
		}
		if err := tx.VendorTransactions.ReplaceAll(transactions); err != nil {
			return fmt.Errorf("failed to replace vendor transactions: %w", err)
		}
		result.Orders = len(orders)
		result.Transactions = len(transactions)
		return nil
	})
	if err != nil {
		return nil, err
	}
	syncRunsTotal.WithLabelValues("rebuild").Inc()
	transactionsGeneratedTotal.Add(float64(result.Transactions))
	s.log.Info().Int("orders", result.Orders).Int("transactions", result.Transactions).Msg("Vendor transactions rebuilt")
	return result, nil
}

// expenseLineIndex returns the position of the line with the given id, or
// -1. Unlinked transactions (empty key) match nothing.
func expenseLineIndex(order models.Order, expenseID string) int {
	if expenseID == "" {
		return -1
	}
	for i, e := range order.Expenses {
		if string(e.ID) == expenseID {
			return i
		}
	}
	return -1
}
