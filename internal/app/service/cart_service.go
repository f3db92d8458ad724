package service

import (
	"errors"

	"github.com/hvngo/shop-backend/internal/app/model"
	"github.com/hvngo/shop-backend/internal/app/repository"
	"github.com/hvngo/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrCartItemNotFound = errors.New("cart item not found")
)

type CartService interface {
	AddToCart(userID, productID uint, quantity int) error
	GetCartItems(userID uint) ([]model.CartItem, error)
	RemoveFromCart(userID, cartItemID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddToCart merges a product into the user's cart. Repeated adds for the same
// product are additive: the cart keeps at most one line per product, with
// quantity equal to the sum of every requested amount.
func (s *cartService) AddToCart(userID, productID uint, quantity int) error {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		logger.Warn("Cannot add to cart: invalid quantity", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"quantity":   quantity,
		})
		return ErrInvalidQuantity
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	cart, err := s.cartRepo.GetOrCreateCart(userID)
	if err != nil {
		logger.Error("Failed to get or create cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	item := &model.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.AddOrIncrementItem(item); err != nil {
		logger.Error("Failed to merge item into cart", err, map[string]interface{}{
			"user_id":    userID,
			"cart_id":    cart.ID,
			"product_id": productID,
		})
		return err
	}

	logger.Info("Item merged into cart", map[string]interface{}{
		"user_id":    userID,
		"cart_id":    cart.ID,
		"product_id": productID,
		"quantity":   quantity,
	})
	return nil
}

// GetCartItems returns the user's cart lines joined with product display
// fields, ordered by line id. A missing cart reads as an empty cart.
func (s *cartService) GetCartItems(userID uint) ([]model.CartItem, error) {
	items, err := s.cartRepo.FindItemsByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart items", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Cart items fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(items),
	})
	return items, nil
}

// RemoveFromCart deletes one cart line by its id. Removing a line that is
// already gone is a success, so the operation is safe to retry. A line owned
// by a different user reads as not found.
func (s *cartService) RemoveFromCart(userID, cartItemID uint) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
	})

	item, err := s.cartRepo.FindItemByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item already gone, treating removal as success", map[string]interface{}{
				"user_id":      userID,
				"cart_item_id": cartItemID,
			})
			return nil
		}
		logger.Error("Failed to fetch cart item for removal", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	if item.Cart.UserID != userID {
		logger.Warn("Cart item removal denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     item.Cart.UserID,
		})
		return ErrCartItemNotFound
	}

	rows, err := s.cartRepo.DeleteItem(cartItemID)
	if err != nil {
		logger.Error("Failed to delete cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}
	if rows == 0 {
		// Deleted concurrently between the lookup and the delete
		logger.Warn("Cart item vanished before delete", map[string]interface{}{
			"cart_item_id": cartItemID,
		})
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
	})
	return nil
}
