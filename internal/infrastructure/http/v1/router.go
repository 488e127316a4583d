// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"merchtable/internal/domain/alerts"
	"merchtable/internal/domain/catalog/item"
	"merchtable/internal/domain/ledger"
	"merchtable/internal/domain/reports"
	"merchtable/internal/domain/sales"
	"merchtable/internal/infrastructure/http/v1/handlers"
	"merchtable/internal/infrastructure/http/v1/middleware"
	"merchtable/internal/infrastructure/storage/postgres"
	"merchtable/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	// Pool is the database pool for health checks; nil for memory-backed
	// deployments.
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	ItemService   *item.Service
	LedgerService *ledger.Service
	AlertRegister *alerts.Register
	SaleRecorder  *sales.Recorder
	ReportEngine  *reports.Engine
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no actor required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.ActorContext())
	{
		baseHandler := handlers.NewBaseHandler()

		itemHandler := handlers.NewItemHandler(baseHandler, cfg.ItemService)
		stockHandler := handlers.NewStockHandler(baseHandler, cfg.LedgerService)

		items := apiV1.Group("/items")
		itemHandler.RegisterRoutes(items)
		stockHandler.RegisterRoutes(items)

		alertHandler := handlers.NewAlertHandler(baseHandler, cfg.AlertRegister)
		alertHandler.RegisterRoutes(apiV1.Group("/alerts"))

		saleHandler := handlers.NewSaleHandler(baseHandler, cfg.SaleRecorder)
		saleHandler.RegisterRoutes(apiV1.Group("/sales"))

		reportHandler := handlers.NewReportHandler(baseHandler, cfg.ReportEngine)
		reportHandler.RegisterRoutes(apiV1.Group("/reports"))
	}

	return router
}
