package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/RoiLaboratories/taxifi/internal/app"
	"github.com/RoiLaboratories/taxifi/internal/config"
	"github.com/RoiLaboratories/taxifi/internal/handler"
	internalRedis "github.com/RoiLaboratories/taxifi/internal/redis"
	"github.com/RoiLaboratories/taxifi/internal/repository/postgres"
	"github.com/RoiLaboratories/taxifi/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, err := wireServer(ctx, db, redisClient, nrApp, cfg)
	if err != nil {
		log.Fatalf("failed to wire server: %v", err)
	}

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(ctx context.Context, db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, error) {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	walletRepo := postgres.NewWalletRepository(db)
	txRepo := postgres.NewTransactionRepository(db)
	rideRepo := postgres.NewRideRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	savingsWalletRepo := postgres.NewSavingsWalletRepository(db)
	savingsPlanRepo := postgres.NewSavingsPlanRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)

	// Initialize services.
	fareCalc := service.NewFareCalculator(cfg.Pricing)
	ledgerService := service.NewLedgerService(
		db, walletRepo, txRepo, savingsWalletRepo, savingsPlanRepo, rideRepo,
		cacheStore, fareCalc, cfg.Wallet,
	)
	userService := service.NewUserService(userRepo, walletRepo)
	rideService := service.NewRideService(rideRepo, ratingRepo, userRepo, ledgerService, fareCalc)
	savingsService := service.NewSavingsService(
		savingsPlanRepo, savingsWalletRepo, userRepo, ledgerService, lockStore, cfg.Pricing,
	)
	bonusService := service.NewBonusService(
		rideRepo, walletRepo, txRepo, userRepo, settingsRepo, ledgerService, lockStore, cfg.Pricing,
	)

	// Seed the platform wallet and settings record.
	if _, err := ledgerService.EnsureAdminWallet(ctx); err != nil {
		return nil, err
	}
	if err := settingsRepo.Init(ctx, cfg.Pricing.BonusAmount); err != nil {
		return nil, err
	}

	// Initialize handlers.
	userHandler := handler.NewUserHandler(userService)
	rideHandler := handler.NewRideHandler(rideService)
	walletHandler := handler.NewWalletHandler(ledgerService)
	savingsHandler := handler.NewSavingsHandler(savingsService)
	bonusHandler := handler.NewBonusHandler(bonusService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		UserHandler:    userHandler,
		RideHandler:    rideHandler,
		WalletHandler:  walletHandler,
		SavingsHandler: savingsHandler,
		BonusHandler:   bonusHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}
