package repository

import (
	"bookkeeper/internal/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetAll() ([]models.Order, error)
	Update(order *models.Order) error
	SetCompleted(id string, completed bool, updatedAt time.Time) error
	Delete(id string) error
	ReplaceAll(orders []models.Order) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		return insertLines(tx, order)
	})
}

func (r *orderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := withLines(r.db).Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	order.EnsureSlices()
	return &order, nil
}

func (r *orderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := withLines(r.db).Order("created_at, id").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].EnsureSlices()
	}
	return orders, nil
}

// Update rewrites the order row and replaces its expense and payment lines.
func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(order).Select("*").Omit(clause.Associations).Updates(order)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := deleteLines(tx, order.ID); err != nil {
			return err
		}
		return insertLines(tx, order)
	})
}

// SetCompleted flips only the completion flag and timestamp; lines are untouched.
func (r *orderRepository) SetCompleted(id string, completed bool, updatedAt time.Time) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_completed": completed,
		"updated_at":   updatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteLines(tx, id); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *orderRepository) ReplaceAll(orders []models.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.ExpenseLine{}, &models.Payment{}, &models.Order{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		for i := range orders {
			if err := tx.Omit(clause.Associations).Create(&orders[i]).Error; err != nil {
				return err
			}
			if err := insertLines(tx, &orders[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Expenses", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

func insertLines(tx *gorm.DB, order *models.Order) error {
	for i := range order.Expenses {
		order.Expenses[i].OrderID = order.ID
		order.Expenses[i].Position = i
	}
	for i := range order.Payments {
		order.Payments[i].OrderID = order.ID
		order.Payments[i].Position = i
	}
	if len(order.Expenses) > 0 {
		if err := tx.Create(&order.Expenses).Error; err != nil {
			return err
		}
	}
	if len(order.Payments) > 0 {
		if err := tx.Create(&order.Payments).Error; err != nil {
			return err
		}
	}
	return nil
}

func deleteLines(tx *gorm.DB, orderID string) error {
	if err := tx.Where("order_id = ?", orderID).Delete(&models.ExpenseLine{}).Error; err != nil {
		return err
	}
	return tx.Where("order_id = ?", orderID).Delete(&models.Payment{}).Error
}
