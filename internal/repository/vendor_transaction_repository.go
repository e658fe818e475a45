package repository

import (
	"time"

	"bookkeeper/internal/models"

	"gorm.io/gorm"
)

type VendorTransactionRepository interface {
	CreateBatch(transactions []models.VendorTransaction) error
	GetByID(id string) (*models.VendorTransaction, error)
	GetAll() ([]models.VendorTransaction, error)
	GetByVendorID(vendorID string) ([]models.VendorTransaction, error)
	GetByOrderID(orderID string) ([]models.VendorTransaction, error)
	Update(transaction *models.VendorTransaction) error
	UpdateStatus(id string, status models.PaymentStatus, updatedAt time.Time) error
	DeleteByOrderID(orderID string) (int64, error)
	DeleteByVendorID(vendorID string) (int64, error)
	ReplaceAll(transactions []models.VendorTransaction) error
}

type vendorTransactionRepository struct {
	db *gorm.DB
}

func NewVendorTransactionRepository(db *gorm.DB) VendorTransactionRepository {
	return &vendorTransactionRepository{db: db}
}

func (r *vendorTransactionRepository) CreateBatch(transactions []models.VendorTransaction) error {
	if len(transactions) == 0 {
		return nil
	}
	return r.db.CreateInBatches(transactions, batchSize).Error
}

func (r *vendorTransactionRepository) GetByID(id string) (*models.VendorTransaction, error) {
	var tx models.VendorTransaction
	err := r.db.Where("id = ?", id).First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *vendorTransactionRepository) GetAll() ([]models.VendorTransaction, error) {
	var transactions []models.VendorTransaction
	err := r.db.Order("created_at, id").Find(&transactions).Error
	return transactions, err
}

func (r *vendorTransactionRepository) GetByVendorID(vendorID string) ([]models.VendorTransaction, error) {
	var transactions []models.VendorTransaction
	err := r.db.Where("vendor_id = ?", vendorID).Order("created_at, id").Find(&transactions).Error
	return transactions, err
}

func (r *vendorTransactionRepository) GetByOrderID(orderID string) ([]models.VendorTransaction, error) {
	var transactions []models.VendorTransaction
	err := r.db.Where("order_id = ?", orderID).Order("created_at, id").Find(&transactions).Error
	return transactions, err
}

func (r *vendorTransactionRepository) Update(transaction *models.VendorTransaction) error {
	return r.db.Save(transaction).Error
}

func (r *vendorTransactionRepository) UpdateStatus(id string, status models.PaymentStatus, updatedAt time.Time) error {
	res := r.db.Model(&models.VendorTransaction{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": updatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *vendorTransactionRepository) DeleteByOrderID(orderID string) (int64, error) {
	res := r.db.Where("order_id = ?", orderID).Delete(&models.VendorTransaction{})
	return res.RowsAffected, res.Error
}

func (r *vendorTransactionRepository) DeleteByVendorID(vendorID string) (int64, error) {
	res := r.db.Where("vendor_id = ?", vendorID).Delete(&models.VendorTransaction{})
	return res.RowsAffected, res.Error
}

func (r *vendorTransactionRepository) ReplaceAll(transactions []models.VendorTransaction) error {
	return replaceAll(r.db, &models.VendorTransaction{}, transactions)
}
