package repository

import (
	"errors"
	"time"

	"github.com/hvngo/shop-backend/internal/app/model"
	"github.com/hvngo/shop-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	GetOrCreateCart(userID uint) (*model.Cart, error)
	AddOrIncrementItem(item *model.CartItem) error
	FindItemsByUserID(userID uint) ([]model.CartItem, error)
	FindItemByID(id uint) (*model.CartItem, error)
	DeleteItem(id uint) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// GetOrCreateCart returns the user's cart, creating it lazily on first use.
// Two concurrent first adds may both attempt the insert; the unique index on
// user_id lets exactly one win and the loser re-reads the winner's row.
func (r *cartRepository) GetOrCreateCart(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	cart = model.Cart{UserID: userID}
	err = r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&cart).Error
	if err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if cart.ID != 0 {
		logger.Debug("Cart created in database", map[string]interface{}{
			"cart_id": cart.ID,
			"user_id": userID,
		})
		return &cart, nil
	}

	// Lost the creation race, fetch the winner's cart
	if err := r.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		logger.Error("Failed to fetch cart after creation race", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return &cart, nil
}

// AddOrIncrementItem merges a line into the cart as one atomic statement:
// insert, or on (cart_id, product_id) conflict add the requested quantity to
// the existing row. Concurrent adds for the same product sum instead of
// duplicating or overwriting each other.
func (r *cartRepository) AddOrIncrementItem(item *model.CartItem) error {
	logger.Debug("Upserting cart item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + excluded.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
	if err != nil {
		logger.Error("Failed to upsert cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}

	return nil
}

func (r *cartRepository) FindItemsByUserID(userID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Preload("Product").
		Order("cart_items.id").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find cart items by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart items found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(items),
	})
	return items, nil
}

func (r *cartRepository) FindItemByID(id uint) (*model.CartItem, error) {
	var item model.CartItem
	if err := r.db.Preload("Cart").Preload("Product").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes one cart line and reports how many rows went away, so
// callers can tell "already gone" apart from a storage fault.
func (r *cartRepository) DeleteItem(id uint) (int64, error) {
	res := r.db.Delete(&model.CartItem{}, id)
	if res.Error != nil {
		logger.Error("Failed to delete cart item from database", res.Error, map[string]interface{}{
			"cart_item_id": id,
		})
		return 0, res.Error
	}

	logger.Debug("Cart item delete executed", map[string]interface{}{
		"cart_item_id":  id,
		"rows_affected": res.RowsAffected,
	})
	return res.RowsAffected, nil
}
