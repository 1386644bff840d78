package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pizza-paradise/internal/asset"
	"pizza-paradise/internal/auth"
	"pizza-paradise/internal/config"
	"pizza-paradise/internal/database"
	"pizza-paradise/internal/handler"
	"pizza-paradise/internal/notify"
	"pizza-paradise/internal/repository"
	"pizza-paradise/internal/router"
	"pizza-paradise/internal/service"
	"pizza-paradise/internal/workflow"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting pizza-paradise API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool and schema
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	pizzaRepo := repository.NewPizzaRepository(pool, logger)
	toppingRepo := repository.NewToppingRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	couponRepo := repository.NewCouponRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Initialize authentication primitives
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTTLMinutes)*time.Minute,
		time.Duration(cfg.Auth.RefreshTTLHours)*time.Hour,
	)

	// Initialize image store with S3 and local fallback
	localStore, err := asset.NewLocalStore(cfg.Assets.LocalDir, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}

	var images asset.Store
	if cfg.Assets.S3Enabled {
		s3Store, err := asset.NewS3Store(ctx, cfg.Assets.S3Bucket, cfg.Assets.S3Region, cfg.Assets.S3Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 image store, falling back to local file system only")
			images = localStore
		} else {
			images = asset.NewFallbackStore(s3Store, localStore, true, logger)
		}
	} else {
		images = localStore
		logger.Info().Msg("using local file system for pizza images (S3 disabled)")
	}

	// Initialize the notification dispatcher
	var sender notify.Sender
	if cfg.SMTP.Enabled {
		sender = notify.NewSMTPSender(cfg.SMTP, logger)
	} else {
		sender = notify.NewNoopSender(logger)
	}
	notifier := notify.NewDispatcher(sender, orderRepo, userRepo, logger)

	// Initialize the order status workflow
	runner := workflow.NewRunner(
		orderRepo,
		time.Duration(cfg.Workflow.StageDelaySeconds)*time.Second,
		cfg.Workflow.MaxConcurrent,
		logger,
	)

	// Initialize services
	userService := service.NewUserService(userRepo, couponRepo, hasher, tokens, logger)
	catalogService := service.NewCatalogService(pizzaRepo, toppingRepo, images, logger)
	cartService := service.NewCartService(cartRepo, pizzaRepo, toppingRepo, couponRepo, orderRepo, logger)
	couponService := service.NewCouponService(couponRepo, logger)
	orderService := service.NewOrderService(orderRepo, logger)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(userService, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	cartHandler := handler.NewCartHandler(cartService, notifier, runner, logger)
	couponHandler := handler.NewCouponHandler(couponService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	userHandler := handler.NewUserHandler(userService, orderService, logger)

	// Initialize router
	mux := router.New(
		authHandler,
		catalogHandler,
		cartHandler,
		couponHandler,
		orderHandler,
		userHandler,
		tokens,
		cfg.Assets.LocalDir,
		logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed, forcing close")
			if closeErr := server.Close(); closeErr != nil {
				return fmt.Errorf("failed to close server: %w", closeErr)
			}
		}

		if err := runner.Close(); err != nil {
			logger.Error().Err(err).Msg("order workflow shutdown failed")
		}

		logger.Info().Msg("server stopped")
	}

	return nil
}
