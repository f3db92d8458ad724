package repository

import (
	"github.com/hvngo/shop-backend/internal/app/model"
	"github.com/hvngo/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindAll() ([]model.Order, error)
	FindItemsByOrderID(orderID uint) ([]model.OrderItem, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id").Preload("Product")
	})
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.preloadOrder().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (r *orderRepository) FindAll() ([]model.Order, error) {
	var orders []model.Order
	err := r.preloadOrder().
		Preload("User").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to list all orders in database", err, nil)
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindItemsByOrderID(orderID uint) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.
		Where("order_id = ?", orderID).
		Preload("Product").
		Order("id").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find order items in database", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}
	return items, nil
}
