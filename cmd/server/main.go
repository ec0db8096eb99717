package main

import (
	"log"

	"github.com/ecommerce-project/backend/internal/audit"
	"github.com/ecommerce-project/backend/internal/blacklist"
	"github.com/ecommerce-project/backend/internal/config"
	"github.com/ecommerce-project/backend/internal/database"
	"github.com/ecommerce-project/backend/internal/handler"
	"github.com/ecommerce-project/backend/internal/mailer"
	"github.com/ecommerce-project/backend/internal/middleware"
	"github.com/ecommerce-project/backend/internal/repository"
	"github.com/ecommerce-project/backend/internal/service"
	"github.com/ecommerce-project/backend/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment != "production"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Redis backs both the refresh-token blacklist and the rate limiter.
	tokenBlacklist, err := blacklist.NewRedisBlacklist(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer tokenBlacklist.Close()

	journal, err := audit.NewLog(cfg.AuditLogPath)
	if err != nil {
		log.Fatalf("Failed to open audit log: %v", err)
	}
	defer journal.Close()

	smtpMailer := mailer.New(cfg)

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	roleRepo := repository.NewRoleRepository(database.DB)
	groupRepo := repository.NewGroupRepository(database.DB)
	categoriaRepo := repository.NewCategoriaRepository(database.DB)
	productoRepo := repository.NewProductoRepository(database.DB)
	metodoPagoRepo := repository.NewMetodoPagoRepository(database.DB)

	// Services
	accountService := service.NewAccountService(userRepo, roleRepo, groupRepo, tokenBlacklist, smtpMailer, journal, cfg)
	catalogService := service.NewCatalogService(categoriaRepo, productoRepo, userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(accountService, cfg)
	portalHandler := handler.NewPortalHandler(smtpMailer)
	categoryHandler := handler.NewCategoryHandler(catalogService)
	productHandler := handler.NewProductHandler(catalogService)
	paymentHandler := handler.NewPaymentMethodHandler(metodoPagoRepo)

	rateLimiter := middleware.NewRateLimiter(tokenBlacklist.Client(), middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
		BlockTime:   cfg.RateLimitBlockTime,
	})

	isProduction := cfg.Environment == "production"
	if isProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(isProduction))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Public auth routes, rate limited
	auth := router.Group("/api/auth")
	auth.Use(rateLimiter.Middleware())
	{
		auth.POST("/signup", authHandler.SignUp)
		auth.POST("/login", authHandler.Login)
		auth.GET("/activate/:uid/:token", authHandler.Activate)
		auth.POST("/refresh-token", authHandler.Refresh)
		auth.POST("/email", portalHandler.SendEmail)
	}

	// Routes requiring a valid access token
	authenticated := router.Group("/api/auth")
	authenticated.Use(middleware.AuthMiddleware(cfg.JWTSecret, tokenBlacklist))
	{
		authenticated.POST("/logout", authHandler.Logout)
		authenticated.POST("/change-password", authHandler.ChangePassword)
		authenticated.GET("/comprador", portalHandler.Comprador)
		authenticated.GET("/admin", middleware.StaffMiddleware(), portalHandler.Admin)
	}

	// Catalog: authentication plus model-level permission per method
	categorias := router.Group("/api/categorias")
	categorias.Use(middleware.AuthMiddleware(cfg.JWTSecret, tokenBlacklist))
	categorias.Use(middleware.ModelPermission(userRepo, "categoria"))
	{
		categorias.GET("", categoryHandler.List)
		categorias.POST("", categoryHandler.Create)
		categorias.GET("/:id", categoryHandler.Retrieve)
		categorias.PUT("/:id", categoryHandler.Update)
		categorias.DELETE("/:id", categoryHandler.Delete)
	}

	productos := router.Group("/api/productos")
	productos.Use(middleware.AuthMiddleware(cfg.JWTSecret, tokenBlacklist))
	productos.Use(middleware.ModelPermission(userRepo, "producto"))
	{
		productos.GET("", productHandler.List)
		productos.POST("", productHandler.Create)
		productos.GET("/:id", productHandler.Retrieve)
		productos.PUT("/:id", productHandler.Update)
		productos.DELETE("/:id", productHandler.Delete)
	}

	metodos := router.Group("/api/metodos-pago")
	metodos.Use(middleware.AuthMiddleware(cfg.JWTSecret, tokenBlacklist))
	{
		metodos.GET("", paymentHandler.List)
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
