// Package main is the entry point for the merchtable API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"merchtable/internal/core/tx"
	"merchtable/internal/domain/alerts"
	"merchtable/internal/domain/catalog/item"
	"merchtable/internal/domain/ledger"
	"merchtable/internal/domain/reports"
	"merchtable/internal/domain/sales"
	v1 "merchtable/internal/infrastructure/http/v1"
	"merchtable/internal/infrastructure/storage/memory"
	"merchtable/internal/infrastructure/storage/postgres"
	"merchtable/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting merchtable server")

	// --- Storage ---
	// DATABASE_URL selects postgres; without it the server runs on the
	// in-memory store (single-process deployments, demos, tests).
	var (
		pool      *postgres.Pool
		txManager tx.Manager

		itemRepo   item.Repository
		ledgerRepo ledger.Repository
		alertRepo  alerts.Repository
		saleRepo   sales.Repository
		reportRepo reports.Repository
	)

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		poolCfg := postgres.DefaultPoolConfig(dsn)
		if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
			poolCfg.MaxConns = int32(maxConns)
		}

		pool, err = postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()
		log.Info("database connection established")

		txm := postgres.NewTxManager(pool)
		txManager = txm

		itemRepo = postgres.NewItemRepo(txm)
		ledgerRepo = postgres.NewLedgerRepo(txm)
		alertRepo = postgres.NewAlertRepo(txm)
		saleRepo = postgres.NewSaleRepo(txm)
		reportRepo = postgres.NewReportRepo(txm)
	} else {
		store := memory.NewStore()
		log.Info("running on in-memory storage")

		itemRepo = memory.NewItemRepo(store)
		ledgerRepo = memory.NewLedgerRepo(store)
		alertRepo = memory.NewAlertRepo(store)
		saleRepo = memory.NewSaleRepo(store)
		reportRepo = memory.NewReportRepo(store)
	}

	// --- Services ---
	ledgerCfg := ledger.DefaultConfig()
	ledgerCfg.DefaultLowStockThreshold = getEnvInt("DEFAULT_LOW_STOCK_THRESHOLD", ledgerCfg.DefaultLowStockThreshold)
	ledgerCfg.ResolveOnRestock = getEnv("RESOLVE_ALERTS_ON_RESTOCK", "false") == "true"

	itemService := item.NewService(itemRepo)
	alertRegister := alerts.NewRegister(alertRepo, nil)
	ledgerService := ledger.NewService(itemRepo, ledgerRepo, alertRegister, ledgerCfg)
	saleRecorder := sales.NewRecorder(itemRepo, saleRepo, ledgerService, txManager)
	reportEngine := reports.NewEngine(reportRepo, saleRepo)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:          pool,
		Logger:        log,
		ItemService:   itemService,
		LedgerService: ledgerService,
		AlertRegister: alertRegister,
		SaleRecorder:  saleRecorder,
		ReportEngine:  reportEngine,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
