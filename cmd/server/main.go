package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	apptracking "github.com/hongquyngo/inbound-logistic-dashboard/internal/application/tracking"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/infrastructure/cache"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/infrastructure/config"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/infrastructure/logger"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/infrastructure/metrics"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/infrastructure/persistence"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/interfaces/http/handler"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/interfaces/http/middleware"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	// Initialize database with GORM logging routed through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	// Repositories
	poRepo := persistence.NewGormPurchaseOrderRepository(db.DB)

	// Filter options cache (Redis when enabled, in-memory otherwise)
	optionsCache := cache.NewFilterOptionsCache(cfg.Redis, cfg.Tracking.OptionsCacheTTL, log)

	// Application services
	poService := apptracking.NewPOTrackingService(poRepo, optionsCache, log)
	dashboardService := apptracking.NewDashboardService(poRepo, log,
		cfg.Tracking.ArrivalHorizonDays, cfg.Tracking.TopVendors)

	// Handlers
	trackingHandler := handler.NewTrackingHandler(poService, dashboardService)
	systemHandler := handler.NewSystemHandler(db, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID first so recovery and access logs carry it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(metrics.Middleware())

	// Operational endpoints outside the versioned API
	engine.GET("/health", systemHandler.Health)
	engine.GET("/metrics", metrics.Handler())

	// Versioned API routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(trackingHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
