package repository

import (
	"errors"

	"gorm.io/gorm"
)

const batchSize = 200

// Store groups the ledger repositories over one backend. Operations that
// must commit together (an order write and its vendor transaction resync,
// a full import) run through Transaction.
type Store struct {
	db *gorm.DB

	Orders             OrderRepository
	Vendors            VendorRepository
	VendorTransactions VendorTransactionRepository
	Expenses           GeneralExpenseRepository
	Funds              FundRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:                 db,
		Orders:             NewOrderRepository(db),
		Vendors:            NewVendorRepository(db),
		VendorTransactions: NewVendorTransactionRepository(db),
		Expenses:           NewGeneralExpenseRepository(db),
		Funds:              NewFundRepository(db),
	}
}

// Transaction runs fn against a Store bound to a single database
// transaction. The transaction commits when fn returns nil.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// replaceAll deletes every row of model and inserts rows in their place.
func replaceAll[T any](db *gorm.DB, model interface{}, rows []T) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, batchSize).Error
	})
}
