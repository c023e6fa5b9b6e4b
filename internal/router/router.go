// internal/router/router.go
package router

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/Piyush5621/AnarchyBay/internal/assistant"
	"github.com/Piyush5621/AnarchyBay/internal/config"
	"github.com/Piyush5621/AnarchyBay/internal/handlers"
	"github.com/Piyush5621/AnarchyBay/internal/middleware"
	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/payments"
	"github.com/Piyush5621/AnarchyBay/internal/ratelimit"
	"github.com/Piyush5621/AnarchyBay/internal/repository"
	"github.com/Piyush5621/AnarchyBay/internal/services"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

// Dependencies are the optional integrations. A nil field disables the
// feature behind it.
type Dependencies struct {
	Razorpay  payments.OrderGateway
	Stripe    payments.IntentGateway
	Storage   services.FileStore
	Generator assistant.TextGenerator
	Notifier  services.Notifier
	Limits    *ratelimit.Set
}

// BuildDependencies connects the integrations enabled by the configuration.
func BuildDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{
		Notifier: services.NewNotificationService(cfg),
	}

	if cfg.RazorpayEnabled() {
		deps.Razorpay = payments.NewRazorpayGateway(cfg.Payment.RazorpayKeyID, cfg.Payment.RazorpayKeySecret)
	} else {
		logrus.Warn("Razorpay keys not set, razorpay checkout disabled")
	}
	if cfg.Payment.StripeSecretKey != "" {
		deps.Stripe = payments.NewStripeGateway(cfg.Payment.StripeSecretKey)
	}

	storage, err := services.NewStorageService(cfg)
	switch {
	case err == nil:
		deps.Storage = storage
	case errors.Is(err, services.ErrStorageDisabled):
		logrus.Warn("Storage credentials not set, uploads and downloads disabled")
	default:
		return nil, err
	}

	if cfg.Gemini.APIKey != "" {
		gemini, err := assistant.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}
		deps.Generator = gemini
	} else {
		logrus.Warn("GEMINI_API_KEY not set, chat assistant disabled")
	}

	client, err := ratelimit.NewRedisClient(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	if client == nil {
		logrus.Warn("REDIS_URL not set, rate limits run degraded")
	}
	deps.Limits = ratelimit.NewSet(client)

	return deps, nil
}

func Initialize(db *gorm.DB, cfg *config.Config, deps *Dependencies) (*gin.Engine, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Repositories
	profileRepo := repository.NewProfileRepo(db)
	productRepo := repository.NewProductRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	reportRepo := repository.NewReportRepo(db)
	contactRepo := repository.NewContactRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	statsRepo := repository.NewStatsRepo(sqlx.NewDb(sqlDB, "postgres"))

	// Initialize services
	authService := services.NewAuthService(profileRepo, cfg)
	productService := services.NewProductService(productRepo, purchaseRepo, profileRepo, deps.Storage, cfg)
	checkoutService := services.NewCheckoutService(productRepo, purchaseRepo, profileRepo, deps.Razorpay, deps.Stripe, deps.Notifier, cfg)
	purchaseService := services.NewPurchaseService(purchaseRepo, statsRepo)
	reportService := services.NewReportService(reportRepo, productRepo, profileRepo)
	contactService := services.NewContactService(contactRepo, deps.Notifier)
	adminService := services.NewAdminService(profileRepo, productRepo, statsRepo, auditRepo)
	chatService := services.NewChatService(productRepo, deps.Generator)
	profileService := services.NewProfileService(profileRepo, productRepo)
	licenseService := services.NewLicenseService(purchaseRepo)

	// Initialize handlers
	h := &routeHandlers{
		health:   handlers.NewHealthHandler(sqlDB, cfg),
		auth:     handlers.NewAuthHandler(authService),
		profile:  handlers.NewProfileHandler(profileService),
		product:  handlers.NewProductHandler(productService, reportService),
		payment:  handlers.NewPaymentHandler(checkoutService),
		purchase: handlers.NewPurchaseHandler(purchaseService),
		license:  handlers.NewLicenseHandler(licenseService),
		admin:    handlers.NewAdminHandler(adminService, reportService, contactService),
		contact:  handlers.NewContactHandler(contactService),
		chat:     handlers.NewChatHandler(chatService),
	}

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()
	r.MaxMultipartMemory = 32 << 20

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL, cfg.IsProduction()))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.NewThrottle(rate.Limit(20), 40).Middleware())
	r.Use(middleware.AuditLogMiddleware(auditRepo))

	register(r, h, deps.Limits, profileRepo)
	return r, nil
}

type routeHandlers struct {
	health   *handlers.HealthHandler
	auth     *handlers.AuthHandler
	profile  *handlers.ProfileHandler
	product  *handlers.ProductHandler
	payment  *handlers.PaymentHandler
	purchase *handlers.PurchaseHandler
	license  *handlers.LicenseHandler
	admin    *handlers.AdminHandler
	contact  *handlers.ContactHandler
	chat     *handlers.ChatHandler
}

func register(r *gin.Engine, h *routeHandlers, limits *ratelimit.Set, profiles middleware.ProfileFinder) {
	authRequired := middleware.AuthRequired(profiles)
	optionalAuth := middleware.OptionalAuth(profiles)
	authLimit := middleware.RateLimit(limits.Auth, middleware.ByIPAndEmail)
	apiLimit := middleware.RateLimit(limits.API, middleware.ByIP)
	downloadLimit := middleware.RateLimit(limits.Download, middleware.ByUserOrIP)
	uploadLimit := middleware.RateLimit(limits.Upload, middleware.ByUserOrIP)
	paymentLimit := middleware.RateLimit(limits.Payment, middleware.ByUserOrIP)

	// Health check
	r.GET("/health", h.health.Health)
	r.GET("/health-check", h.health.HealthCheck)

	// Authentication routes
	auth := r.Group("/auth")
	{
		auth.POST("/signup", authLimit, h.auth.Signup)
		auth.POST("/login", authLimit, h.auth.Login)
		auth.POST("/refresh", authLimit, h.auth.Refresh)
		auth.GET("/me", authRequired, h.auth.Me)
		auth.POST("/logout", authRequired, h.auth.Logout)
	}

	api := r.Group("/api")
	api.GET("/config", h.health.PublicConfig)

	// User routes
	users := api.Group("/users")
	{
		users.GET("/:id", h.profile.GetPublicProfile)
		users.PUT("/profile", authRequired, h.profile.UpdateProfile)
	}

	// Product routes
	products := api.Group("/products")
	{
		products.GET("/list", h.product.List)
		products.GET("/search", h.product.Search)
		products.GET("/total", h.product.Total)
		products.GET("/featured", h.product.Featured)
		products.GET("/:id", optionalAuth, h.product.Get)
		products.GET("/:id/variants", optionalAuth, h.product.ListVariants)

		creator := products.Group("")
		creator.Use(authRequired, middleware.RequireRole(models.RoleCreator, models.RoleSeller))
		{
			creator.GET("/my/list", h.product.MyProducts)
			creator.POST("/create", uploadLimit, h.product.Create)
			creator.PUT("/:id", h.product.Update)
			creator.DELETE("/:id", h.product.Delete)
			creator.POST("/:id/variants", h.product.CreateVariant)
		}

		products.GET("/:id/files", authRequired, downloadLimit, h.product.Files)
		products.POST("/:id/report", authRequired, apiLimit, h.product.Report)
	}

	// Purchase routes
	purchases := api.Group("/purchases")
	purchases.Use(authRequired)
	{
		purchases.POST("/checkout/razorpay", paymentLimit, h.payment.CreateRazorpayOrder)
		purchases.POST("/verify/razorpay", paymentLimit, h.payment.VerifyRazorpayPayment)
		purchases.POST("/checkout/stripe", paymentLimit, h.payment.CreateStripeOrder)
		purchases.POST("/verify/stripe", paymentLimit, h.payment.ConfirmStripePayment)

		purchases.GET("/my", h.purchase.MyPurchases)
		purchases.GET("/sales", middleware.RequireRole(models.RoleCreator, models.RoleSeller), h.purchase.Sales)
		purchases.GET("/check/:productId", h.purchase.CheckOwnership)
		purchases.GET("/order/:orderId", h.purchase.ByOrder)
		purchases.GET("/:id", h.purchase.Get)
	}

	api.POST("/licenses/verify", apiLimit, h.license.Verify)

	// Contact routes
	contact := api.Group("/contact")
	{
		contact.POST("", apiLimit, h.contact.Submit)
		contact.GET("", authRequired, middleware.AdminRequired(), h.admin.ListContactMessages)
	}

	api.POST("/chat", apiLimit, h.chat.Chat)

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(authRequired, middleware.AdminRequired())
	{
		admin.GET("/stats", h.admin.Stats)

		adminUsers := admin.Group("/users")
		{
			adminUsers.GET("", h.admin.ListUsers)
			adminUsers.PUT("/:id/roles", h.admin.ReplaceRoles)
			adminUsers.POST("/:id/roles/:role", h.admin.AddRole)
			adminUsers.DELETE("/:id/roles/:role", h.admin.RemoveRole)
			adminUsers.PUT("/:id/verified-seller", h.admin.SetVerifiedSeller)
			adminUsers.PUT("/:id/admin-badge", h.admin.ToggleAdminBadge)
			adminUsers.PUT("/:id/status", h.admin.SetUserStatus)
		}

		adminProducts := admin.Group("/products")
		{
			adminProducts.GET("", h.admin.ListProducts)
			adminProducts.PUT("/:id/featured", h.admin.ToggleFeatured)
			adminProducts.PUT("/:id/activate", h.admin.ActivateProduct)
			adminProducts.DELETE("/:id", h.admin.DeactivateProduct)
		}

		adminReports := admin.Group("/reports")
		{
			adminReports.GET("", h.admin.ListReports)
			adminReports.PUT("/:id/status", h.admin.UpdateReportStatus)
		}

		adminContact := admin.Group("/contact-messages")
		{
			adminContact.GET("", h.admin.ListContactMessages)
			adminContact.POST("/:id/reply", h.admin.ReplyContactMessage)
		}
	}
}
