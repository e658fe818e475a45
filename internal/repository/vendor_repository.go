package repository

import (
	"bookkeeper/internal/models"

	"gorm.io/gorm"
)

type VendorRepository interface {
	Create(vendor *models.Vendor) error
	GetByID(id string) (*models.Vendor, error)
	GetAll() ([]models.Vendor, error)
	Update(vendor *models.Vendor) error
	Delete(id string) error
	ReplaceAll(vendors []models.Vendor) error
}

type vendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) Create(vendor *models.Vendor) error {
	return r.db.Create(vendor).Error
}

func (r *vendorRepository) GetByID(id string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.Where("id = ?", id).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) GetAll() ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.Order("created_at, id").Find(&vendors).Error
	return vendors, err
}

func (r *vendorRepository) Update(vendor *models.Vendor) error {
	return r.db.Save(vendor).Error
}

func (r *vendorRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&models.Vendor{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *vendorRepository) ReplaceAll(vendors []models.Vendor) error {
	return replaceAll(r.db, &models.Vendor{}, vendors)
}
