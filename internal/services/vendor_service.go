package services

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"bookkeeper/internal/ledger"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/models"
	"bookkeeper/internal/repository"
)

type VendorService interface {
	CreateVendor(vendor *models.Vendor) error
	GetVendorByID(id string) (*models.Vendor, error)
	GetAllVendors() ([]models.Vendor, error)
	UpdateVendor(id string, apply func(vendor *models.Vendor) error) (*models.Vendor, error)
	// DeleteVendor removes the vendor and its transactions. Expense lines
	// that reference it keep the id and display as unknown.
	DeleteVendor(id string) (int64, error)
	GetVendorDetails(id string) (*VendorDetails, error)
	GetTransactions(vendorID string) ([]models.VendorTransaction, error)
	UpdateTransactionStatus(transactionID string, status models.PaymentStatus) (*models.VendorTransaction, error)
}

// VendorDetails is a vendor with its transactions and their totals.
type VendorDetails struct {
	Vendor       models.Vendor              `json:"vendor"`
	Transactions []models.VendorTransaction `json:"transactions"`
	Summary      ledger.VendorSummary       `json:"summary"`
}

type vendorService struct {
	store *repository.Store
	sync  TransactionSynchronizer
	now   Clock
	cache invalidator
	log   zerolog.Logger
}

func NewVendorService(store *repository.Store, sync TransactionSynchronizer, cache MetricsCache, clock Clock) VendorService {
	if clock == nil {
		clock = systemClock
	}
	log := logger.WithComponent("vendors")
	return &vendorService{
		store: store,
		sync:  sync,
		now:   clock,
		cache: invalidator{cache: cache, log: log},
		log:   log,
	}
}

func (s *vendorService) CreateVendor(vendor *models.Vendor) error {
	vendor.NormalizeName()
	vendor.Name = strings.TrimSpace(vendor.Name)
	if vendor.Name == "" {
		return &ValidationError{Field: "name", Message: "vendor name is required"}
	}
	vendor.ID = newID()
	vendor.CreatedAt = s.now()
	vendor.UpdatedAt = nil

	if err := s.store.Vendors.Create(vendor); err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	s.log.Info().Str("vendor_id", vendor.ID).Str("name", vendor.Name).Msg("Vendor created")
	return nil
}

func (s *vendorService) GetVendorByID(id string) (*models.Vendor, error) {
	vendor, err := s.store.Vendors.GetByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrVendorNotFound
		}
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return vendor, nil
}

func (s *vendorService) GetAllVendors() ([]models.Vendor, error) {
	vendors, err := s.store.Vendors.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get vendors: %w", err)
	}
	return vendors, nil
}

// UpdateVendor resolves the name as: new name, else the legacy alias, else
// the stored name.
func (s *vendorService) UpdateVendor(id string, apply func(vendor *models.Vendor) error) (*models.Vendor, error) {
	vendor, err := s.GetVendorByID(id)
	if err != nil {
		return nil, err
	}

	stored := vendor.Name
	createdAt := vendor.CreatedAt
	vendor.Name = ""
	if err := apply(vendor); err != nil {
		return nil, err
	}
	vendor.NormalizeName()
	if strings.TrimSpace(vendor.Name) == "" {
		vendor.Name = stored
	}
	vendor.ID = id
	vendor.CreatedAt = createdAt
	now := s.now()
	vendor.UpdatedAt = &now

	if err := s.store.Vendors.Update(vendor); err != nil {
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}
	s.log.Info().Str("vendor_id", id).Msg("Vendor updated")
	return vendor, nil
}

func (s *vendorService) DeleteVendor(id string) (int64, error) {
	var removed int64
	err := s.store.Transaction(func(tx *repository.Store) error {
		if err := tx.Vendors.Delete(id); err != nil {
			if repository.IsNotFound(err) {
				return ErrVendorNotFound
			}
			return fmt.Errorf("failed to delete vendor: %w", err)
		}
		var err error
		removed, err = tx.VendorTransactions.DeleteByVendorID(id)
		if err != nil {
			return fmt.Errorf("failed to delete vendor transactions: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.cache.invalidate()
	s.log.Info().Str("vendor_id", id).Int64("transactions_removed", removed).Msg("Vendor deleted")
	return removed, nil
}

func (s *vendorService) GetVendorDetails(id string) (*VendorDetails, error) {
	vendor, err := s.GetVendorByID(id)
	if err != nil {
		return nil, err
	}
	transactions, err := s.GetTransactions(id)
	if err != nil {
		return nil, err
	}
	return &VendorDetails{
		Vendor:       *vendor,
		Transactions: transactions,
		Summary:      ledger.VendorTotals(transactions),
	}, nil
}

// GetTransactions returns the transactions of one vendor, or all of them
// when vendorID is empty.
func (s *vendorService) GetTransactions(vendorID string) ([]models.VendorTransaction, error) {
	var (
		transactions []models.VendorTransaction
		err          error
	)
	if vendorID == "" {
		transactions, err = s.store.VendorTransactions.GetAll()
	} else {
		transactions, err = s.store.VendorTransactions.GetByVendorID(vendorID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor transactions: %w", err)
	}
	if transactions == nil {
		transactions = []models.VendorTransaction{}
	}
	return transactions, nil
}

func (s *vendorService) UpdateTransactionStatus(transactionID string, status models.PaymentStatus) (*models.VendorTransaction, error) {
	t, err := s.sync.UpdateTransactionStatus(transactionID, status)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate()
	s.log.Info().Str("transaction_id", t.ID).Str("status", string(status)).Msg("Vendor transaction status updated")
	return t, nil
}
