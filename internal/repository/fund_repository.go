package repository

import (
	"bookkeeper/internal/models"

	"gorm.io/gorm"
)

type FundRepository interface {
	Create(fund *models.FundTransaction) error
	GetByID(id string) (*models.FundTransaction, error)
	GetAll() ([]models.FundTransaction, error)
	Update(fund *models.FundTransaction) error
	Delete(id string) error
	ReplaceAll(funds []models.FundTransaction) error
}

type fundRepository struct {
	db *gorm.DB
}

func NewFundRepository(db *gorm.DB) FundRepository {
	return &fundRepository{db: db}
}

func (r *fundRepository) Create(fund *models.FundTransaction) error {
	return r.db.Create(fund).Error
}

func (r *fundRepository) GetByID(id string) (*models.FundTransaction, error) {
	var fund models.FundTransaction
	err := r.db.Where("id = ?", id).First(&fund).Error
	if err != nil {
		return nil, err
	}
	return &fund, nil
}

func (r *fundRepository) GetAll() ([]models.FundTransaction, error) {
	var funds []models.FundTransaction
	err := r.db.Order("created_at, id").Find(&funds).Error
	return funds, err
}

func (r *fundRepository) Update(fund *models.FundTransaction) error {
	return r.db.Save(fund).Error
}

func (r *fundRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&models.FundTransaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *fundRepository) ReplaceAll(funds []models.FundTransaction) error {
	return replaceAll(r.db, &models.FundTransaction{}, funds)
}
