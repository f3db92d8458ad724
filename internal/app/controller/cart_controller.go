package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hvngo/shop-backend/internal/app/model"
	"github.com/hvngo/shop-backend/internal/app/service"
	apperrors "github.com/hvngo/shop-backend/internal/errors"
	"github.com/hvngo/shop-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type addToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// cartLineResponse is the flattened cart view served to clients: one line per
// product with its display fields joined in.
type cartLineResponse struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

func toCartLineResponses(items []model.CartItem) []cartLineResponse {
	lines := make([]cartLineResponse, 0, len(items))
	for _, item := range items {
		lines = append(lines, cartLineResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			ImageURL:  item.Product.ImageURL,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

func (ctrl *CartController) AddToCart(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "product_id and quantity are required")
		return
	}

	err := ctrl.cartService.AddToCart(userID, req.ProductID, req.Quantity)
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Quantity must be a positive integer")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case err != nil:
		respondStorageError(c, err, "cart")
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Item added to cart"})
	}
}

type getCartRequest struct {
	UserID uint `json:"userId"`
}

// GetCart returns the caller's cart lines. An admin may pass another user's id
// in the body to inspect that user's cart.
func (ctrl *CartController) GetCart(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	// An absent body means the caller's own cart.
	var req getCartRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request payload")
		return
	}

	targetID := callerID
	if req.UserID != 0 && req.UserID != callerID {
		role, _ := middleware.GetUserRole(c)
		if role != string(model.RoleAdmin) {
			apperrors.Forbidden(c, "Cannot view another user's cart")
			return
		}
		targetID = req.UserID
	}

	items, err := ctrl.cartService.GetCartItems(targetID)
	if err != nil {
		respondStorageError(c, err, "cart")
		return
	}

	c.JSON(http.StatusOK, toCartLineResponses(items))
}

func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Cart item id must be a number")
		return
	}

	err = ctrl.cartService.RemoveFromCart(userID, uint(itemID))
	switch {
	case errors.Is(err, service.ErrCartItemNotFound):
		apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
	case err != nil:
		respondStorageError(c, err, "cart")
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}
