package routes

import (
	"partsdepot/internal/adapters/http/handlers"
	"partsdepot/internal/adapters/http/middleware"
	"partsdepot/internal/adapters/persistence/repositories"
	"partsdepot/internal/config"
	"partsdepot/internal/core/domain"
	"partsdepot/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	partRepo := repositories.NewPartRepository(db)
	shippingRepo := repositories.NewShippingMethodRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	quoteRepo := repositories.NewQuoteRepository(db)

	// Initialize services
	notifyService := services.NewNotificationService()
	authService := services.NewAuthService(userRepo, refreshTokenRepo, notifyService, cfg)
	userService := services.NewUserService(userRepo, refreshTokenRepo)
	orderService := services.NewOrderService(orderRepo, partRepo, shippingRepo, userRepo, notifyService, cfg)
	quoteService := services.NewQuoteService(quoteRepo, partRepo, userRepo, orderService, notifyService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	partHandler := handlers.NewPartHandler(partRepo, shippingRepo)
	orderHandler := handlers.NewOrderHandler(orderService)
	quoteHandler := handlers.NewQuoteHandler(quoteService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, authHandler, userHandler, partHandler, orderHandler, quoteHandler, userRepo, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	partHandler *handlers.PartHandler,
	orderHandler *handlers.OrderHandler,
	quoteHandler *handlers.QuoteHandler,
	userRepo repositories.UserRepository,
	cfg *config.Config,
) {
	authRequired := middleware.AuthMiddleware(cfg, userRepo)

	// Auth routes (public + protected)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, authRequired)

	// Catalog routes (public)
	router.Get("/parts", partHandler.List)
	router.Get("/parts/:id", partHandler.Get)
	router.Get("/shipping-methods", partHandler.ListShippingMethods)

	// Order routes (authenticated users)
	orderRoutes := router.Group("/orders")
	orderRoutes.Use(authRequired)
	orderRoutes.Post("/", orderHandler.Place)
	orderRoutes.Get("/", orderHandler.ListMine)
	orderRoutes.Get("/:id", orderHandler.Get)

	// Quote routes (authenticated users)
	quoteRoutes := router.Group("/quotes")
	quoteRoutes.Use(authRequired)
	quoteRoutes.Post("/", quoteHandler.Create)
	quoteRoutes.Get("/", quoteHandler.ListMine)
	quoteRoutes.Get("/:id", quoteHandler.Get)
	quoteRoutes.Post("/:id/convert", quoteHandler.Convert)

	// Self-service account routes (authenticated users)
	router.Put("/users/me/password", authRequired, userHandler.ChangePassword)

	// Admin routes
	adminRoutes := router.Group("/admin")
	adminRoutes.Use(authRequired)
	adminRoutes.Use(middleware.RequireRole(domain.RoleAdmin))
	setupAdminRoutes(adminRoutes, userHandler, partHandler, orderHandler, quoteHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, authRequired fiber.Handler) {
	// Public routes, rate limited against credential stuffing
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)
	router.Get("/verify-email", handler.VerifyEmail)
	router.Post("/forgot-password", middleware.StrictRateLimiter(), handler.ForgotPassword)
	router.Post("/reset-password", middleware.StrictRateLimiter(), handler.ResetPassword)

	// Protected routes
	router.Get("/me", authRequired, handler.Me)
	router.Post("/logout-all", authRequired, handler.LogoutAll)
}

// setupAdminRoutes configures admin-only routes
func setupAdminRoutes(
	router fiber.Router,
	userHandler *handlers.UserHandler,
	partHandler *handlers.PartHandler,
	orderHandler *handlers.OrderHandler,
	quoteHandler *handlers.QuoteHandler,
) {
	// User management
	router.Get("/users", userHandler.List)
	router.Get("/users/:id", userHandler.Get)
	router.Put("/users/:id", userHandler.Update)

	// Catalog management
	router.Post("/parts", partHandler.Create)
	router.Put("/parts/:id", partHandler.Update)

	// Order management
	router.Get("/orders", orderHandler.ListAll)
	router.Patch("/orders/:id/status", orderHandler.UpdateStatus)

	// Quote oversight
	router.Get("/quotes", quoteHandler.ListAll)
}
