package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"giftly-backend/internal/adapters/http/middleware"
	"giftly-backend/internal/adapters/http/routes"
	"giftly-backend/internal/adapters/persistence/models"
	"giftly-backend/internal/adapters/persistence/repositories"
	"giftly-backend/internal/config"
	"giftly-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed master data
	if err := config.SeedMasterData(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed master data: %v", err)
	}

	// Scheduled jobs: expiry sweep and settlement close
	if cfg.Cron.Enabled {
		bankingRepo := repositories.NewBrandBankingRepository(db)
		orderRepo := repositories.NewOrderRepository(db)
		termsRepo := repositories.NewBrandTermsRepository(db)
		settlementRepo := repositories.NewSettlementRepository(db)

		policyService := services.NewPolicyService()
		commissionService := services.NewCommissionService()
		notifyService := services.NewNotifyService()
		settlementService := services.NewSettlementService(db, settlementRepo, bankingRepo, notifyService)
		redemptionService := services.NewRedemptionService(db, orderRepo, termsRepo, policyService, commissionService, settlementService)

		cronService := services.NewCronService(bankingRepo, redemptionService, settlementService)
		if err := cronService.Start(); err != nil {
			log.Fatalf("❌ Failed to start cron scheduler: %v", err)
		}
		defer cronService.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Giftly API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
