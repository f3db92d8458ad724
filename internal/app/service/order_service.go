package service

import (
	"errors"
	"fmt"

	"github.com/hvngo/shop-backend/internal/app/model"
	"github.com/hvngo/shop-backend/internal/app/repository"
	"github.com/hvngo/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrNoItemsSelected  = errors.New("no cart items selected")
	ErrCartItemNotOwned = errors.New("cart item does not belong to the user")
)

// ShippingDetails carries the recipient data denormalized onto the order
type ShippingDetails struct {
	Address       string
	Phone         string
	RecipientName string
}

type OrderService interface {
	PlaceOrder(userID uint, cartItemIDs []uint, shipping ShippingDetails) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetAllOrders() ([]model.Order, error)
	GetOrderItems(userID uint, role model.UserRole, orderID uint) ([]model.OrderItem, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	db        *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		db:        db,
	}
}

// PlaceOrder converts the selected cart lines into a persisted order as one
// transaction: resolve the lines with their current catalog prices, write the
// order header and its lines in a single batched create, then delete the
// consumed cart lines. Any failure rolls the whole commit back, so an order
// never appears without its lines and a consumed line never survives billing.
func (s *orderService) PlaceOrder(userID uint, cartItemIDs []uint, shipping ShippingDetails) (*model.Order, error) {
	logger.Info("Placing order", map[string]interface{}{
		"user_id":    userID,
		"item_count": len(cartItemIDs),
	})

	if len(cartItemIDs) == 0 {
		logger.Warn("Cannot place order: no cart items selected", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrNoItemsSelected
	}

	ids := dedupeIDs(cartItemIDs)

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		logger.Error("Failed to fetch purchaser", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		logger.Error("Failed to begin order transaction", tx.Error, map[string]interface{}{
			"user_id": userID,
		})
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order placement, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	// Resolve the selected lines under the transaction, scoped to the
	// caller's cart so foreign line ids are rejected, with the current
	// catalog price loaded for the snapshot.
	var cartItems []model.CartItem
	err = tx.
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id IN ? AND carts.user_id = ?", ids, userID).
		Preload("Product").
		Order("cart_items.id").
		Find(&cartItems).Error
	if err != nil {
		tx.Rollback()
		logger.Error("Failed to resolve cart items for order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if len(cartItems) != len(ids) {
		tx.Rollback()
		logger.Warn("Order rejected: cart items missing or foreign", map[string]interface{}{
			"user_id":   userID,
			"requested": len(ids),
			"resolved":  len(cartItems),
		})
		return nil, ErrCartItemNotOwned
	}

	var totalPrice float64
	orderItems := make([]model.OrderItem, 0, len(cartItems))
	for _, item := range cartItems {
		if item.Product.ID == 0 {
			tx.Rollback()
			logger.Warn("Order rejected: product no longer available", map[string]interface{}{
				"user_id":      userID,
				"cart_item_id": item.ID,
				"product_id":   item.ProductID,
			})
			return nil, ErrProductNotFound
		}

		// Unit price snapshotted here; later catalog changes must not
		// touch this order.
		orderItems = append(orderItems, model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		})
		totalPrice += item.Product.Price * float64(item.Quantity)
	}

	username := shipping.RecipientName
	if username == "" {
		username = user.Username
	}

	order := &model.Order{
		UserID:     userID,
		TotalPrice: totalPrice,
		Status:     model.OrderStatusPending,
		Address:    shipping.Address,
		Phone:      shipping.Phone,
		Username:   username,
		OrderItems: orderItems,
	}

	// Header and lines go in as one batched create; a failing line insert
	// aborts the whole commit instead of leaving a half-written order.
	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id":     userID,
			"total_price": totalPrice,
		})
		return nil, err
	}

	if err := tx.Where("id IN ?", ids).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to remove consumed cart items", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Order placed successfully", map[string]interface{}{
		"user_id":     userID,
		"order_id":    order.ID,
		"total_price": totalPrice,
		"item_count":  len(orderItems),
	})

	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User orders fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (s *orderService) GetAllOrders() ([]model.Order, error) {
	orders, err := s.orderRepo.FindAll()
	if err != nil {
		logger.Error("Failed to fetch all orders", err, nil)
		return nil, err
	}

	logger.Info("All orders fetched successfully", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

// GetOrderItems returns an order's lines for its owner or an admin. A foreign
// order reads as not found rather than confirming it exists.
func (s *orderService) GetOrderItems(userID uint, role model.UserRole, orderID uint) ([]model.OrderItem, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if order.UserID != userID && role != model.RoleAdmin {
		logger.Warn("Order items access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}

	return s.orderRepo.FindItemsByOrderID(orderID)
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
