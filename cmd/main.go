package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"salepoint/internal/caching"
	"salepoint/internal/handlers"
	"salepoint/internal/jobs"
	"salepoint/internal/middleware"
	"salepoint/internal/repositories"
	"salepoint/internal/services"
	"salepoint/pkg/config"
	"salepoint/pkg/database"
	"salepoint/pkg/logger"
)

const lowStockScanInterval = 15 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(&logger.Config{Level: cfg.LogLevel, Environment: cfg.Environment}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.L().Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()
	logger.L().Info("database connected")

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	objectStore, err := services.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		logger.L().Fatal("failed to initialize object store", zap.Error(err))
	}

	// Repositories
	tenantRepo := repositories.NewTenantRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	customerRepo := repositories.NewCustomerRepo(pool)

	// Services
	tenantSvc := services.NewTenantService(tenantRepo)
	productSvc := services.NewProductService(productRepo, cacheSvc)
	customerSvc := services.NewCustomerService(customerRepo)
	orderSvc := services.NewOrderService(pool, cacheSvc)
	receiptSvc := services.NewReceiptService(orderSvc, objectStore, cfg.ReceiptBucket)

	// Background jobs
	scanner, err := jobs.NewLowStockScanner(tenantRepo, productRepo, lowStockScanInterval)
	if err != nil {
		logger.L().Fatal("failed to create low stock scanner", zap.Error(err))
	}
	if err := scanner.Start(ctx); err != nil {
		logger.L().Fatal("failed to start low stock scanner", zap.Error(err))
	}
	defer func() {
		if err := scanner.Stop(); err != nil {
			logger.L().Warn("low stock scanner shutdown", zap.Error(err))
		}
	}()

	// Handlers
	tenantHandlers := handlers.NewTenantHandlers(tenantSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	customerHandlers := handlers.NewCustomerHandlers(customerSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc, receiptSvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.MetricsMiddleware)

	e.GET("/health", healthHandlers.Liveness)
	e.GET("/health/ready", healthHandlers.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Platform administration: authenticated, not tenant-scoped.
	admin := e.Group("/tenants", middleware.JWTMiddleware(cfg.JWTSecret))
	admin.POST("", tenantHandlers.CreateTenant)
	admin.GET("", tenantHandlers.ListTenants)
	admin.GET("/:id", tenantHandlers.GetTenant)
	admin.PUT("/:id", tenantHandlers.UpdateTenant)
	admin.DELETE("/:id", tenantHandlers.DeactivateTenant)

	// Tenant-scoped API: every route below runs with a resolved tenant.
	api := e.Group("/api/v1", middleware.JWTMiddleware(cfg.JWTSecret), middleware.TenantMiddleware(tenantSvc))

	api.POST("/products", productHandlers.CreateProduct)
	api.GET("/products", productHandlers.ListProducts)
	api.GET("/products/low-stock", productHandlers.ListLowStock)
	api.GET("/products/:id", productHandlers.GetProduct)
	api.PUT("/products/:id", productHandlers.UpdateProduct)
	api.DELETE("/products/:id", productHandlers.DeleteProduct)

	api.POST("/customers", customerHandlers.CreateCustomer)
	api.GET("/customers", customerHandlers.ListCustomers)
	api.GET("/customers/:id", customerHandlers.GetCustomer)
	api.PUT("/customers/:id", customerHandlers.UpdateCustomer)
	api.DELETE("/customers/:id", customerHandlers.DeleteCustomer)

	api.POST("/orders", orderHandlers.CreateOrder)
	api.GET("/orders", orderHandlers.ListOrders)
	api.GET("/orders/:id", orderHandlers.GetOrder)
	api.POST("/orders/:id/cancel", orderHandlers.CancelOrder)
	api.PATCH("/orders/:id/status", orderHandlers.UpdateStatus)
	api.GET("/orders/:id/receipt", orderHandlers.GetReceipt)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.HTTPPort)))
}
