package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/mrDinkelman185/FINCo/internal/accounts"
	"github.com/mrDinkelman185/FINCo/internal/auth"
	"github.com/mrDinkelman185/FINCo/internal/cache"
	"github.com/mrDinkelman185/FINCo/internal/config"
	"github.com/mrDinkelman185/FINCo/internal/database"
	"github.com/mrDinkelman185/FINCo/internal/positions"
	"github.com/mrDinkelman185/FINCo/internal/trading"
	"github.com/mrDinkelman185/FINCo/internal/validation"
	"github.com/mrDinkelman185/FINCo/internal/venue"
	"github.com/mrDinkelman185/FINCo/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// init configures the application logging based on environment settings
// In development mode, it enables pretty printing with timestamps
// Debug logging can be enabled via DEBUG environment variable
func init() {
	// Configure pretty logging for development
	if os.Getenv("ENV") != "production" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		zlog.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set global log level
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// main initializes and runs the trading API server with graceful shutdown support
// It sets up all required services, database connections, and API routes
func main() {
	// Load immutable process configuration
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize database")
	}
	if err := accounts.SeedDemoAccounts(db); err != nil {
		zlog.Fatal().Err(err).Msg("Failed to seed demo accounts")
	}

	// Initialize router
	router := gin.Default()

	// Initialize services and handlers
	authService := auth.NewService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	authHandlers := auth.NewGinHandlers(authService)
	// Register test credentials
	authService.RegisterAPICredentials(auth.TestAPIKey, auth.TestAPISecret)

	sharedCache := cache.New()

	gate := validation.DefaultChain(cfg.Compliance.Enabled)
	gate.Append(accounts.NewActiveAccountRule(accounts.NewDatabase(db)))

	venueClient := venue.NewNoopClient(cfg.Venue.Enabled)

	tradingService := trading.NewService(db, sharedCache, gate, venueClient)
	tradingHandlers := trading.NewGinHandlers(tradingService)

	positionService := positions.NewService(db, sharedCache)
	positionHandlers := positions.NewGinHandlers(positionService)

	// Setup middleware
	router.Use(middleware.RateLimit())

	// Setup API routes
	setupRoutes(router, cfg, authHandlers, tradingHandlers, positionHandlers)

	// Create server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown setup
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Msg("Shutting down server...")

	// Give outstanding operations 5 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	zlog.Info().Msg("Server exiting")
}

// setupRoutes configures all API endpoints and their handlers
// It groups routes by functionality and applies appropriate middleware:
// - Auth routes: Public endpoints for authentication
// - Order and position routes: Protected by JWT authentication
// - Internal routes: Protected by internal network authentication, consumed
//   by the execution feed (fills) and the pricing feed (valuations)
func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandlers *auth.GinHandlers,
	tradingHandlers *trading.GinHandlers,
	positionHandlers *positions.GinHandlers,
) {
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/token", authHandlers.GenerateTokenHandler())
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.JWTAuth(cfg.Auth.JWTSecret))
		{
			orders.POST("", tradingHandlers.CreateOrderHandler())
			orders.GET("", tradingHandlers.ListOrdersHandler())
			orders.GET("/:order_code", tradingHandlers.GetOrderHandler())
			orders.PUT("/:order_code", tradingHandlers.AmendOrderHandler())
			orders.DELETE("/:order_code", tradingHandlers.CancelOrderHandler())
		}

		// Position routes
		positionsGroup := v1.Group("/positions")
		positionsGroup.Use(middleware.JWTAuth(cfg.Auth.JWTSecret))
		{
			positionsGroup.GET("", positionHandlers.ListPositionsHandler())
			positionsGroup.GET("/:symbol", positionHandlers.GetPositionHandler())
		}

		// Internal routes (should be protected by internal network)
		internal := v1.Group("/internal")
		internal.Use(middleware.InternalAuth(cfg.Auth.JWTSecret))
		{
			internal.POST("/fills/:order_code", tradingHandlers.ApplyFillHandler())
			internal.POST("/positions/:symbol/valuation", positionHandlers.RefreshValuationHandler())
		}
	}
}
