package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"tradedesk/internal/caching"
	"tradedesk/internal/config"
	"tradedesk/internal/handlers"
	"tradedesk/internal/jobs/background"
	"tradedesk/internal/middleware"
	"tradedesk/internal/repositories"
	"tradedesk/internal/services"
	"tradedesk/pkg/database"
)

const version = "1.0.0"

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	cfg := config.Load()

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	documentSvc, err := services.NewDocumentService(minioEndpoint, minioAccessKey, minioSecretKey, cfg.DocumentStore, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize document storage: %v", err)
	}
	if err := documentSvc.EnsureBucketExists(context.Background()); err != nil {
		log.Printf("WARN: could not ensure document bucket exists: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	tenantRepo := repositories.NewTenantRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	supplierRepo := repositories.NewSupplierRepo(pool)
	orderRepo := repositories.NewPurchaseOrderRepo(pool)
	itemRepo := repositories.NewPurchaseOrderItemRepo(pool)
	movementRepo := repositories.NewStockMovementRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)

	// Cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Services
	authSvc := services.NewAuthService(userRepo, cacheSvc, jwtSecret, cfg.SessionTTL)
	productSvc := services.NewProductService(productRepo, supplierRepo, cacheSvc)
	supplierSvc := services.NewSupplierService(supplierRepo)
	eligibilitySvc := services.NewEligibilityService(itemRepo, movementRepo, cacheSvc, cfg.VerdictTTL)
	sampleSvc := services.NewSampleOrderService(productRepo, orderRepo, itemRepo, eligibilitySvc, cfg.VATRate)
	orderSvc := services.NewPurchaseOrderService(orderRepo, itemRepo)
	movementSvc := services.NewStockMovementService(movementRepo, productRepo, cacheSvc)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, orderRepo)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	supplierHandlers := handlers.NewSupplierHandlers(supplierSvc)
	sampleHandlers := handlers.NewSampleHandlers(sampleSvc)
	orderHandlers := handlers.NewPurchaseOrderHandlers(orderSvc)
	movementHandlers := handlers.NewStockMovementHandlers(movementSvc)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc, documentSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	scheduler := background.NewJobScheduler(orderRepo, invoiceRepo, tenantRepo, cfg.DraftMaxAge)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/detailed", healthHandlers.DetailedHealthCheck)

	v1 := e.Group("/v1")

	// Authentication routes (no JWT required)
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/logout", authHandlers.Logout)

	// Protected routes
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}))
	protected.Use(middleware.TenantContext(userRepo))

	// Supplier routes
	protected.GET("/suppliers", supplierHandlers.ListSuppliers)
	protected.POST("/suppliers", supplierHandlers.CreateSupplier)
	protected.GET("/suppliers/:id", supplierHandlers.GetSupplier)
	protected.PUT("/suppliers/:id", supplierHandlers.UpdateSupplier)
	protected.DELETE("/suppliers/:id", supplierHandlers.DeleteSupplier)

	// Product routes
	protected.GET("/products", productHandlers.ListProducts)
	protected.POST("/products", productHandlers.CreateProduct)
	protected.GET("/products/search", productHandlers.SearchProducts)
	protected.GET("/products/:id", productHandlers.GetProduct)
	protected.PUT("/products/:id", productHandlers.UpdateProduct)
	protected.DELETE("/products/:id", productHandlers.DeleteProduct)

	// Sample request routes
	protected.POST("/samples", sampleHandlers.RequestSample)
	protected.GET("/products/:id/eligibility", sampleHandlers.CheckEligibility)

	// Purchase order routes
	protected.GET("/orders", orderHandlers.ListOrders)
	protected.GET("/orders/:id", orderHandlers.GetOrder)
	protected.POST("/orders/:id/confirm", orderHandlers.ConfirmOrder)
	protected.POST("/orders/:id/cancel", orderHandlers.CancelOrder)
	protected.DELETE("/orders/:id", orderHandlers.DeleteOrder)
	protected.GET("/suppliers/:supplier_id/draft", orderHandlers.GetDraftForSupplier)

	// Stock movement routes
	protected.GET("/movements", movementHandlers.ListMovements)
	protected.POST("/movements", movementHandlers.RecordMovement)

	// Invoice routes
	protected.GET("/invoices", invoiceHandlers.ListInvoices)
	protected.POST("/invoices", invoiceHandlers.GenerateInvoice)
	protected.GET("/invoices/:id", invoiceHandlers.GetInvoice)
	protected.PUT("/invoices/:id/paid", invoiceHandlers.MarkInvoicePaid)
	protected.POST("/invoices/:id/attachments", invoiceHandlers.UploadAttachment)
	protected.GET("/invoices/:id/attachments/:filename", invoiceHandlers.GetAttachmentURL)

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("tradedesk server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
