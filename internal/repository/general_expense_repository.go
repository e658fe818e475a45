package repository

import (
	"bookkeeper/internal/models"

	"gorm.io/gorm"
)

type GeneralExpenseRepository interface {
	Create(expense *models.GeneralExpense) error
	GetByID(id string) (*models.GeneralExpense, error)
	GetAll() ([]models.GeneralExpense, error)
	Update(expense *models.GeneralExpense) error
	Delete(id string) error
	ReplaceAll(expenses []models.GeneralExpense) error
}

type generalExpenseRepository struct {
	db *gorm.DB
}

func NewGeneralExpenseRepository(db *gorm.DB) GeneralExpenseRepository {
	return &generalExpenseRepository{db: db}
}

func (r *generalExpenseRepository) Create(expense *models.GeneralExpense) error {
	return r.db.Create(expense).Error
}

func (r *generalExpenseRepository) GetByID(id string) (*models.GeneralExpense, error) {
	var expense models.GeneralExpense
	err := r.db.Where("id = ?", id).First(&expense).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *generalExpenseRepository) GetAll() ([]models.GeneralExpense, error) {
	var expenses []models.GeneralExpense
	err := r.db.Order("created_at, id").Find(&expenses).Error
	return expenses, err
}

func (r *generalExpenseRepository) Update(expense *models.GeneralExpense) error {
	return r.db.Save(expense).Error
}

func (r *generalExpenseRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&models.GeneralExpense{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *generalExpenseRepository) ReplaceAll(expenses []models.GeneralExpense) error {
	return replaceAll(r.db, &models.GeneralExpense{}, expenses)
}
