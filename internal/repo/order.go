package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mercatus/webstore/internal/models"
)

// CreateOrder writes the order row and its product associations in one
// transaction. Any missing customer or product aborts the whole call and
// leaves no partial rows behind.
func (r *GormRepo) CreateOrder(ctx context.Context, customerID uint, totalAmount float64, productIDs []uint) (*models.Order, error) {
	var order models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: customer %d", ErrNotFound, customerID)
			}
			return err
		}

		order = models.Order{
			CustomerID:  customerID,
			TotalAmount: totalAmount,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, pid := range productIDs {
			var product models.Product
			if err := tx.First(&product, pid).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d", ErrNotFound, pid)
				}
				return err
			}
			if err := tx.Model(&order).Association("Products").Append(&product); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetOrder(ctx, order.ID)
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Products").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, customerID uint, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Products").
		Where("customer_id = ?", customerID).
		Order("order_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
