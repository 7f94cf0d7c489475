package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"circustix/api/routes"
	"circustix/internal/shared/config"
	"circustix/internal/shared/database"
	"circustix/internal/shared/middleware"
	"circustix/internal/shared/validation"
	"circustix/pkg/logger"
	"circustix/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Smart environment loading
	envErr := godotenv.Load()

	// Load config
	cfg := config.Load()

	// Set Gin mode (debug/release) before the logger picks its handler
	gin.SetMode(cfg.GinMode)
	appLogger := logger.NewWithWriter(os.Stdout, cfg.LogLevel)
	logger.SetDefault(appLogger)

	if envErr != nil {
		if cfg.IsProduction() || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	if err := validation.RegisterWithGin(); err != nil {
		appLogger.Error("Failed to register validators", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize DB; either store may come back nil and the box office degrades
	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("Failed to initialize databases", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	appRouter := routes.NewRouter(cfg, db, appLogger)
	if err := appRouter.Start(); err != nil {
		appLogger.Error("Failed to start background jobs", slog.Any("error", err))
	}
	defer func() {
		appLogger.Info("Stopping background jobs...")
		if err := appRouter.Close(); err != nil {
			appLogger.Error("Error stopping background jobs", slog.Any("error", err))
		}
	}()

	engine := setupEngine(cfg, appRouter, appLogger)

	// HTTP server
	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("api_docs", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Port)),
			slog.String("version", Version),
			slog.String("commit", GitCommit),
			slog.String("built", BuildTime),
			slog.Bool("durable_orders", db.PostgreSQL != nil),
			slog.Bool("redis", db.Redis != nil),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupEngine(cfg *config.Config, appRouter *routes.Router, appLogger *logger.Logger) *gin.Engine {
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(appLogger),
		middleware.RequestLogger(appLogger),
		middleware.CORS(),
	)

	// Global rate limiting middleware (applied to all routes)
	if cfg.RateLimit.Enabled {
		engine.Use(ratelimit.Middleware(appRouter.RateLimiter(), appLogger))
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
			slog.Int("hold_requests", cfg.RateLimit.HoldRequests),
			slog.Int("order_requests", cfg.RateLimit.OrderRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	appRouter.SetupRoutes(engine)
	return engine
}
