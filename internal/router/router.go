package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hvngo/shop-backend/config"
	"github.com/hvngo/shop-backend/internal/app/controller"
	"github.com/hvngo/shop-backend/internal/app/model"
	"github.com/hvngo/shop-backend/internal/middleware"
)

type Controllers struct {
	Auth     *controller.AuthController
	Cart     *controller.CartController
	Order    *controller.OrderController
	Product  *controller.ProductController
	Category *controller.CategoryController
}

// Setup wires all routes onto a fresh engine.
func Setup(cfg *config.Config, ctrls Controllers) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/register", ctrls.Auth.Register)
	r.POST("/login", ctrls.Auth.Login)

	r.GET("/products", ctrls.Product.GetAllProducts)
	r.GET("/products/:id", ctrls.Product.GetProductByID)
	r.GET("/categories", ctrls.Category.GetAllCategories)
	r.GET("/categories/:id", ctrls.Category.GetCategoryByID)

	auth := r.Group("/", middleware.RequireAuth(cfg.JWT.Secret))
	{
		auth.POST("/logout", ctrls.Auth.Logout)
		auth.GET("/me", ctrls.Auth.Me)

		auth.POST("/cart", ctrls.Cart.AddToCart)
		auth.POST("/getCart", ctrls.Cart.GetCart)
		auth.DELETE("/cart/:id", ctrls.Cart.RemoveFromCart)

		auth.POST("/orders", ctrls.Order.PlaceOrder)
		auth.GET("/orders/:userId", ctrls.Order.GetUserOrders)
		auth.GET("/order_items/:orderId", ctrls.Order.GetOrderItems)
	}

	admin := r.Group("/", middleware.RequireAuth(cfg.JWT.Secret), middleware.RequireRole(string(model.RoleAdmin)))
	{
		admin.GET("/admin/orders", ctrls.Order.GetAllOrders)
		admin.POST("/products", ctrls.Product.CreateProduct)
		admin.DELETE("/products/:id", ctrls.Product.DeleteProduct)
		admin.POST("/categories", ctrls.Category.CreateCategory)
		admin.PUT("/categories/:id", ctrls.Category.UpdateCategory)
		admin.DELETE("/categories/:id", ctrls.Category.DeleteCategory)
	}

	return r
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	allowAll := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; ok || allowAll {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
