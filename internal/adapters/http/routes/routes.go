package routes

import (
	"giftly-backend/internal/adapters/http/handlers"
	"giftly-backend/internal/adapters/http/middleware"
	"giftly-backend/internal/adapters/persistence/repositories"
	"giftly-backend/internal/config"
	"giftly-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	brandRepo := repositories.NewBrandRepository(db)
	termsRepo := repositories.NewBrandTermsRepository(db)
	bankingRepo := repositories.NewBrandBankingRepository(db)
	voucherRepo := repositories.NewVoucherRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	settlementRepo := repositories.NewSettlementRepository(db)
	occasionRepo := repositories.NewOccasionRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)

	// Initialize services
	policyService := services.NewPolicyService()
	commissionService := services.NewCommissionService()
	notifyService := services.NewNotifyService()
	settlementService := services.NewSettlementService(db, settlementRepo, bankingRepo, notifyService)
	redemptionService := services.NewRedemptionService(db, orderRepo, termsRepo, policyService, commissionService, settlementService)
	orderService := services.NewOrderService(
		db,
		orderRepo,
		brandRepo,
		voucherRepo,
		termsRepo,
		occasionRepo,
		customerRepo,
		policyService,
		commissionService,
		settlementService,
	)
	brandService := services.NewBrandService(brandRepo, termsRepo, bankingRepo, voucherRepo, policyService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	brandHandler := handlers.NewBrandHandler(brandService)
	orderHandler := handlers.NewOrderHandler(orderService, redemptionService)
	settlementHandler := handlers.NewSettlementHandler(settlementService, redemptionService)
	masterHandler := handlers.NewMasterHandler(occasionRepo, customerRepo)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Master data
	apiV1.Get("/occasions", masterHandler.ListOccasions)
	apiV1.Post("/customers", masterHandler.CreateCustomer)
	apiV1.Get("/customers/:id", masterHandler.GetCustomer)

	// Brand catalog
	brands := apiV1.Group("/brands")
	brands.Post("/", brandHandler.Create)
	brands.Get("/", brandHandler.List)
	brands.Get("/:id", brandHandler.Get)
	brands.Put("/:id", brandHandler.Update)
	brands.Delete("/:id", brandHandler.Delete)
	brands.Post("/:id/terms", brandHandler.SetTerms)
	brands.Get("/:id/terms", brandHandler.ListTerms)
	brands.Put("/:id/banking", brandHandler.SetBanking)
	brands.Get("/:id/banking", brandHandler.GetBanking)
	brands.Post("/:id/vouchers", brandHandler.CreateVoucher)
	brands.Get("/:id/vouchers", brandHandler.ListVouchers)
	brands.Get("/:id/vouchers/:voucherId", brandHandler.GetVoucher)
	brands.Delete("/:id/vouchers/:voucherId", brandHandler.DeactivateVoucher)

	// Orders & redemption
	orders := apiV1.Group("/orders")
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Post("/:id/redeem", middleware.RedeemRateLimiter(), orderHandler.Redeem)
	orders.Post("/:id/cancel", orderHandler.Cancel)
	apiV1.Post("/redeem", middleware.RedeemRateLimiter(), orderHandler.RedeemByCode)
	apiV1.Get("/gift-codes/:code", orderHandler.GetByCode)

	// Settlement ledger (service token required)
	settlements := apiV1.Group("/settlements", middleware.ServiceAuth(cfg))
	settlements.Get("/brand/:brandId", settlementHandler.ListByBrand)
	settlements.Get("/:id", settlementHandler.Get)
	settlements.Post("/close", settlementHandler.Close)
	settlements.Post("/:id/payments", settlementHandler.RecordPayment)
	settlements.Post("/sweep", settlementHandler.Sweep)
}
