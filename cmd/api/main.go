package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"basera_backend/internal/controller"
	"basera_backend/internal/middleware"
	"basera_backend/internal/model"
	"basera_backend/pkg/cache"
	"basera_backend/pkg/config"
	"basera_backend/pkg/cron"
	"basera_backend/pkg/database"
	"basera_backend/pkg/email"
	"basera_backend/pkg/seed"
	"basera_backend/pkg/utils/storage"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/request-reset", controller.RequestPasswordReset)
	auth.Post("/reset-password", controller.ResetPassword)

	// Public listing routes; auth gerektiren rotalardan ÖNCE kayıtlı
	// olmalılar, aksi halde prefix middleware'i bunları da yakalar
	publicListings := api.Group("/l")
	publicListings.Get("/:username/:listing_slug", controller.GetListingBySlug)
	api.Get("/listings", controller.ListListings)

	// Site visit booking (public form on listing page)
	api.Post("/listings/:id/visits", controller.BookVisit)

	// Listing view recording
	api.Post("/listings/:id/view", controller.RecordListingView)

	// Location routes
	api.Get("/locations/states", controller.GetStates)
	api.Get("/locations/cities/:stateCode", controller.GetCitiesByState)

	// Stripe webhook; Stripe bearer token göndermez
	api.Post("/webhook", controller.HandleStripeWebhook)

	api.Get("/me", middleware.AuthMiddleware(), controller.GetMe)

	// Protected Listing Routes with allowance checks
	listings := api.Group("/listings", middleware.AuthMiddleware())
	listings.Get("/my", controller.ListMyListings)
	listings.Get("/allowance", controller.GetAllowance)
	listings.Post("/", middleware.CheckPostingAllowance(), controller.CreateListing)
	listings.Put("/:id", middleware.CheckListingOwnership(), middleware.CheckEditWindow(), controller.UpdateListing)
	listings.Delete("/:id", middleware.CheckListingOwnership(), controller.DeleteListing)

	// Protected visit routes
	visits := api.Group("/visits", middleware.AuthMiddleware())
	visits.Get("/", controller.GetMyVisits)
	visits.Put("/:id/status", controller.UpdateVisitStatus)
	visits.Put("/:id/read", controller.MarkVisitAsRead)

	// Complaint routes
	complaints := api.Group("/complaints", middleware.AuthMiddleware())
	complaints.Post("/", controller.RegisterComplaint)
	complaints.Get("/my", controller.GetMyComplaints)

	// Dashboard routes
	dashboard := api.Group("/dashboard", middleware.AuthMiddleware())
	dashboard.Get("/stats", controller.GetDashboardStats)

	// Settings routes
	settings := api.Group("/settings", middleware.AuthMiddleware())
	settings.Get("/profile", controller.GetProfile)
	settings.Put("/profile", controller.UpdateProfile)
	settings.Post("/avatar", controller.UploadAvatar)

	// Subscription routes; public uçlar Use'tan önce kayıtlı
	subscriptions := api.Group("/subscriptions")
	subscriptions.Get("/plans", controller.ListPlans)
	subscriptions.Get("/payment-success", controller.HandleSubscriptionSuccess)  // Ödeme başarılı
	subscriptions.Get("/payment-cancelled", controller.HandleSubscriptionCancel) // Ödemeden vazgeçildi

	subProtected := subscriptions.Use(middleware.AuthMiddleware())
	subProtected.Post("/create-checkout-session", controller.CreateCheckoutSession)
	subProtected.Post("/cancel-subscription", controller.CancelSubscription) // Aktif abonelik iptali
	subProtected.Get("/my", controller.GetMySubscription)
}

func main() {
	cfg := config.Load()

	email.InitEmailService(cfg.Email.APIKey, cfg.Email.From)
	controller.InitSubscriptionController()

	if cfg.DB.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.DB.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.LoginHistory{},
		&model.Plan{},
		&model.UserSubscription{},
		&model.SubscriptionUsage{},
		&model.Listing{},
		&model.ListingImage{},
		&model.ListingView{},
		&model.ListingStats{},
		&model.VisitRequest{},
		&model.Complaint{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedPlans(database.GetDB())

	cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password)

	if err := storage.InitStorage(); err != nil {
		log.Fatal("Could not initialize storage:", err)
	}

	cron.InitSubscriptionExpiryCron()
	cron.InitListingExpiryCron()
	cron.InitViewStatsCron()

	app := fiber.New(fiber.Config{
		BodyLimit: 64 * 1024 * 1024, // çok resimli form gönderimi
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
