package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"bookkeeper/internal/ledger"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/models"
	"bookkeeper/internal/repository"
)

type OrderService interface {
	CreateOrder(order *models.Order) error
	GetOrderByID(id string) (*models.Order, error)
	GetAllOrders() ([]models.Order, error)
	SearchOrders(query string) ([]models.Order, error)
	// UpdateOrder loads the order, lets apply modify it and stores the result
	// together with the regenerated vendor transactions.
	UpdateOrder(id string, apply func(order *models.Order) error) (*models.Order, error)
	ToggleCompletion(id string) (*models.Order, error)
	DeleteOrder(id string) error
	GetOrderFigures(id string) (*ledger.OrderFigures, error)
}

type orderService struct {
	store *repository.Store
	sync  TransactionSynchronizer
	now   Clock
	cache invalidator
	log   zerolog.Logger
}

func NewOrderService(store *repository.Store, sync TransactionSynchronizer, cache MetricsCache, clock Clock) OrderService {
	if clock == nil {
		clock = systemClock
	}
	log := logger.WithComponent("orders")
	return &orderService{
		store: store,
		sync:  sync,
		now:   clock,
		cache: invalidator{cache: cache, log: log},
		log:   log,
	}
}

func (s *orderService) CreateOrder(order *models.Order) error {
	order.ID = newID()
	order.CreatedAt = s.now()
	order.UpdatedAt = nil
	order.IsCompleted = false

	err := s.store.Transaction(func(tx *repository.Store) error {
		if err := prepareLines(tx, order); err != nil {
			return err
		}
		if err := tx.Orders.Create(order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		_, err := s.sync.SyncForOrder(tx, order)
		return err
	})
	if err != nil {
		return err
	}

	s.cache.invalidate()
	s.log.Info().Str("order_id", order.ID).Str("customer", order.CustomerName).Msg("Order created")
	return nil
}

func (s *orderService) GetOrderByID(id string) (*models.Order, error) {
	order, err := s.store.Orders.GetByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *orderService) GetAllOrders() ([]models.Order, error) {
	orders, err := s.store.Orders.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// SearchOrders matches the customer name case-insensitively or the phone
// number as a plain substring. An empty query returns every order.
func (s *orderService) SearchOrders(query string) ([]models.Order, error) {
	orders, err := s.GetAllOrders()
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return orders, nil
	}

	needle := strings.ToLower(query)
	matched := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.CustomerName), needle) || strings.Contains(o.CustomerPhone, query) {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

func (s *orderService) UpdateOrder(id string, apply func(order *models.Order) error) (*models.Order, error) {
	var updated *models.Order
	err := s.store.Transaction(func(tx *repository.Store) error {
		order, err := tx.Orders.GetByID(id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to get order: %w", err)
		}

		createdAt := order.CreatedAt
		if err := apply(order); err != nil {
			return err
		}
		order.ID = id
		order.CreatedAt = createdAt
		order.Touch(s.now())

		if err := prepareLines(tx, order); err != nil {
			return err
		}
		if err := tx.Orders.Update(order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		if _, err := s.sync.SyncForOrder(tx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.invalidate()
	s.log.Info().Str("order_id", id).Msg("Order updated")
	return updated, nil
}

// ToggleCompletion flips IsCompleted. Vendor transactions do not depend on
// the flag and are left alone.
func (s *orderService) ToggleCompletion(id string) (*models.Order, error) {
	var order *models.Order
	err := s.store.Transaction(func(tx *repository.Store) error {
		var err error
		order, err = tx.Orders.GetByID(id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to get order: %w", err)
		}
		order.IsCompleted = !order.IsCompleted
		order.Touch(s.now())
		if err := tx.Orders.SetCompleted(id, order.IsCompleted, *order.UpdatedAt); err != nil {
			return fmt.Errorf("failed to update order completion: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.invalidate()
	s.log.Info().Str("order_id", id).Bool("completed", order.IsCompleted).Msg("Order completion toggled")
	return order, nil
}

func (s *orderService) DeleteOrder(id string) error {
	var removed int64
	err := s.store.Transaction(func(tx *repository.Store) error {
		if err := tx.Orders.Delete(id); err != nil {
			if repository.IsNotFound(err) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to delete order: %w", err)
		}
		var err error
		removed, err = s.sync.RemoveForOrder(tx, id)
		return err
	})
	if err != nil {
		return err
	}

	s.cache.invalidate()
	s.log.Info().Str("order_id", id).Int64("transactions_removed", removed).Msg("Order deleted")
	return nil
}

func (s *orderService) GetOrderFigures(id string) (*ledger.OrderFigures, error) {
	order, err := s.GetOrderByID(id)
	if err != nil {
		return nil, err
	}
	figures := ledger.Figures(*order)
	return &figures, nil
}

// prepareLines checks amounts and line ids, then fills in what the order
// form normally supplies: missing line ids, the default paid status and the
// vendor name snapshot.
func prepareLines(tx *repository.Store, order *models.Order) error {
	order.EnsureSlices()
	if err := validateOrderAmounts(order); err != nil {
		return err
	}

	var vendors map[string]models.Vendor
	seen := make(map[models.FlexibleID]bool, len(order.Expenses))
	for i := range order.Expenses {
		e := &order.Expenses[i]
		if e.ID == "" {
			e.ID = models.FlexibleID(newID())
		}
		if seen[e.ID] {
			return newValidationError(fmt.Sprintf("expenses[%d].id", i), ErrDuplicateLineID)
		}
		seen[e.ID] = true
		if e.VendorPaymentStatus == "" {
			e.VendorPaymentStatus = models.StatusPaid
		}
		if !e.VendorPaymentStatus.Valid() {
			return newValidationError(fmt.Sprintf("expenses[%d].vendorPaymentStatus", i), ErrInvalidStatus)
		}
		if !e.HasVendor() {
			e.VendorName = ""
			continue
		}
		if e.VendorName == "" {
			if vendors == nil {
				all, err := tx.Vendors.GetAll()
				if err != nil {
					return fmt.Errorf("failed to load vendors: %w", err)
				}
				vendors = ledger.IndexVendors(all)
			}
			e.VendorName = vendors[string(e.VendorID)].Name
		}
	}

	seen = make(map[models.FlexibleID]bool, len(order.Payments))
	for i := range order.Payments {
		p := &order.Payments[i]
		if p.ID == "" {
			p.ID = models.FlexibleID(newID())
		}
		if seen[p.ID] {
			return newValidationError(fmt.Sprintf("payments[%d].id", i), ErrDuplicateLineID)
		}
		seen[p.ID] = true
	}
	return nil
}

func validateOrderAmounts(order *models.Order) error {
	switch {
	case order.OrderTotal.IsNegative():
		return newValidationError("orderTotal", ErrNegativeAmount)
	case order.ReceivedDeliveryCharges.IsNegative():
		return newValidationError("receivedDeliveryCharges", ErrNegativeAmount)
	case order.PaidDeliveryCharges.IsNegative():
		return newValidationError("paidDeliveryCharges", ErrNegativeAmount)
	}
	for i, e := range order.Expenses {
		if e.Amount.IsNegative() {
			return newValidationError(fmt.Sprintf("expenses[%d].amount", i), ErrNegativeAmount)
		}
	}
	for i, p := range order.Payments {
		if p.Amount.IsNegative() {
			return newValidationError(fmt.Sprintf("payments[%d].amount", i), ErrNegativeAmount)
		}
	}
	return nil
}

// MergeOrderJSON applies a JSON object onto order the way a shallow object
// spread would: fields present in data replace the stored ones, absent
// fields are kept. Line arrays are replaced whole, never merged element-wise.
func MergeOrderJSON(order *models.Order, data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return newValidationError("body", err)
	}
	if _, ok := fields["expenses"]; ok {
		order.Expenses = nil
	}
	if _, ok := fields["payments"]; ok {
		order.Payments = nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(order); err != nil {
		return newValidationError("body", err)
	}
	return nil
}
