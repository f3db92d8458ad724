package controller

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hvngo/shop-backend/internal/app/model"
	"github.com/hvngo/shop-backend/internal/app/service"
	apperrors "github.com/hvngo/shop-backend/internal/errors"
	"github.com/hvngo/shop-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

type placeOrderRequest struct {
	CartItems  json.RawMessage `json:"cart_items" binding:"required"`
	TotalPrice float64         `json:"total_price"`
	Address    string          `json:"address"`
	Phone      string          `json:"phone"`
	Status     string          `json:"status"`
	Username   string          `json:"username"`
}

// decodeCartItemIDs accepts either a JSON array of line ids or a JSON string
// wrapping one; browser clients send the latter.
func decodeCartItemIDs(raw json.RawMessage) ([]uint, error) {
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err == nil {
		return ids, nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, errors.New("cart_items must be an array of cart item ids")
	}
	if err := json.Unmarshal([]byte(encoded), &ids); err != nil {
		return nil, errors.New("cart_items string must contain a JSON array of cart item ids")
	}
	return ids, nil
}

// orderLineResponse flattens an order line with its product display fields.
type orderLineResponse struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid order payload: "+err.Error())
		return
	}

	cartItemIDs, err := decodeCartItemIDs(req.CartItems)
	if err != nil {
		apperrors.BadRequest(c, apperrors.OrderInvalidItems, err.Error())
		return
	}

	order, err := ctrl.orderService.PlaceOrder(userID, cartItemIDs, service.ShippingDetails{
		Address:       req.Address,
		Phone:         req.Phone,
		RecipientName: req.Username,
	})
	switch {
	case errors.Is(err, service.ErrNoItemsSelected):
		apperrors.BadRequest(c, apperrors.OrderNoItemsSelected, "No cart items selected")
		return
	case errors.Is(err, service.ErrCartItemNotOwned):
		apperrors.BadRequest(c, apperrors.OrderInvalidItems, "One or more cart items do not exist or belong to another user")
		return
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.BadRequest(c, apperrors.OrderInvalidItems, "One or more products are no longer available")
		return
	case err != nil:
		respondStorageError(c, err, "order")
		return
	}

	// The client-sent total is display data only; flag drift but bill the
	// recomputed amount.
	if req.TotalPrice != 0 && math.Abs(req.TotalPrice-order.TotalPrice) > 0.005 {
		middleware.GetLoggerFromContext(c).Warn("Client total diverges from computed total", map[string]interface{}{
			"order_id":     order.ID,
			"client_total": req.TotalPrice,
			"server_total": order.TotalPrice,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order placed successfully",
		"order_id": order.ID,
	})
}

// GetUserOrders serves a user's order history to that user or an admin.
func (ctrl *OrderController) GetUserOrders(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "User id must be a number")
		return
	}

	if uint(targetID) != callerID {
		role, _ := middleware.GetUserRole(c)
		if role != string(model.RoleAdmin) {
			apperrors.Forbidden(c, "Cannot view another user's orders")
			return
		}
	}

	orders, err := ctrl.orderService.GetUserOrders(uint(targetID))
	if err != nil {
		respondStorageError(c, err, "order")
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := ctrl.orderService.GetAllOrders()
	if err != nil {
		respondStorageError(c, err, "order")
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (ctrl *OrderController) GetOrderItems(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Order id must be a number")
		return
	}

	role, _ := middleware.GetUserRole(c)
	items, err := ctrl.orderService.GetOrderItems(userID, model.UserRole(role), uint(orderID))
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		return
	case err != nil:
		respondStorageError(c, err, "order")
		return
	}

	lines := make([]orderLineResponse, 0, len(items))
	for _, item := range items {
		lines = append(lines, orderLineResponse{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			ImageURL:  item.Product.ImageURL,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	c.JSON(http.StatusOK, lines)
}
