package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hvngo/shop-backend/config"
	"github.com/hvngo/shop-backend/internal/app/controller"
	"github.com/hvngo/shop-backend/internal/app/repository"
	"github.com/hvngo/shop-backend/internal/app/service"
	"github.com/hvngo/shop-backend/internal/db"
	"github.com/hvngo/shop-backend/internal/router"
	"github.com/hvngo/shop-backend/pkg/logger"
	"github.com/hvngo/shop-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err, nil)
	}

	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      logFormat,
		EnableColor: cfg.Server.Environment == "development",
	})

	database, err := db.Open(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
		})
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("Failed to close database", err, nil)
		}
	}()

	if err := db.Migrate(database); err != nil {
		logger.Fatal("Failed to run migrations", err, nil)
	}

	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to connect to Redis", err, map[string]interface{}{
				"host": cfg.Redis.Host,
			})
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis", err, nil)
			}
		}()
	}

	userRepo := repository.NewUserRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	productRepo := repository.NewProductRepository(database)
	cartRepo := repository.NewCartRepository(database)
	orderRepo := repository.NewOrderRepository(database)

	authService := service.NewAuthService(userRepo, &cfg.JWT)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, userRepo, database)

	engine := router.Setup(cfg, router.Controllers{
		Auth:     controller.NewAuthController(authService),
		Cart:     controller.NewCartController(cartService),
		Order:    controller.NewOrderController(orderService),
		Product:  controller.NewProductController(productService),
		Category: controller.NewCategoryController(categoryService),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("Server starting", map[string]interface{}{
			"port":        cfg.Server.Port,
			"environment": cfg.Server.Environment,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", err, nil)
	}
	logger.Info("Server stopped", nil)
}
