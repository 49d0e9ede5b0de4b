package server

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gharseva/gharseva-api/internal/config"
	"github.com/gharseva/gharseva-api/internal/domain"
	"github.com/gharseva/gharseva-api/internal/handler"
	"github.com/gharseva/gharseva-api/internal/middleware"
	"github.com/gharseva/gharseva-api/internal/repository"
	"github.com/gharseva/gharseva-api/internal/service"
	"github.com/gharseva/gharseva-api/internal/telemetry"
)

const idempotencyTTL = 10 * time.Minute

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	AssetStore  domain.AssetStore
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	// Initialize repositories
	partnerRepo := repository.NewMongoPartnerRepository(deps.MongoDB)
	userRepo := repository.NewMongoUserRepository(deps.MongoDB)
	directoryCache := repository.NewRedisDirectoryCache(deps.RedisClient)

	// Initialize services
	validator := service.NewUploadValidator()
	tokenTTL := time.Duration(deps.Config.JWT.ExpiryHours) * time.Hour
	authService := service.NewAuthService(partnerRepo, userRepo, deps.Config.JWT.Secret, tokenTTL)
	partnerService := service.NewPartnerService(partnerRepo)
	mediaService := service.NewMediaService(partnerRepo, deps.AssetStore, validator)
	portfolioService := service.NewPortfolioService(partnerRepo, deps.AssetStore, validator)
	directoryService := service.NewDirectoryService(partnerRepo, userRepo, directoryCache)
	userService := service.NewUserService(userRepo, deps.AssetStore, validator)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	partnerHandler := handler.NewPartnerHandler(partnerService)
	mediaHandler := handler.NewMediaHandler(mediaService)
	portfolioHandler := handler.NewPortfolioHandler(portfolioService)
	directoryHandler := handler.NewDirectoryHandler(directoryService)
	userHandler := handler.NewUserHandler(userService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "GharSeva API",
		BodyLimit:    int(deps.Config.Server.MaxUploadSizeMB*1024*1024)*service.MaxBatchFiles + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	if deps.Config.OTEL.Enabled {
		app.Use(telemetry.FiberMiddleware())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "gharseva-api",
		})
	})

	// API v1 routes
	v1 := app.Group("/v1")

	// Auth endpoints (public)
	auth := v1.Group("/auth")
	auth.Post("/partners/register", authHandler.RegisterPartner)
	auth.Post("/partners/login", authHandler.LoginPartner)
	auth.Post("/users/register", authHandler.RegisterUser)
	auth.Post("/users/login", authHandler.LoginUser)

	// Directory endpoints (public)
	directory := v1.Group("/directory")
	directory.Get("/nearby", directoryHandler.FindNearby)
	directory.Get("/categories", directoryHandler.ListCategories)
	directory.Get("/categories/:category", directoryHandler.FindByCategory)
	directory.Get("/search", directoryHandler.SearchByServiceName)

	// Partner self-service (requires 'partner' role). Registered before the
	// public /partners/:id route so "me" is not swallowed by the param.
	me := v1.Group("/partners/me")
	me.Use(middleware.RequireAuth(deps.Config.JWT.Secret))
	me.Use(middleware.RequireRole(domain.RolePartner))

	me.Get("/", partnerHandler.GetProfile)
	me.Put("/", partnerHandler.UpdateProfile)
	me.Put("/services", partnerHandler.UpdateServices)
	me.Get("/visiting-fee", partnerHandler.GetVisitingFee)
	me.Put("/visiting-fee", partnerHandler.UpdateVisitingFee)
	me.Put("/password", authHandler.ChangePartnerPassword)
	me.Post("/deactivate", partnerHandler.Deactivate)
	me.Get("/nearby-users", directoryHandler.FindNearbyUsers)

	// Media endpoints replay on a repeated correlation id instead of
	// re-uploading
	idem := middleware.Idempotency(deps.RedisClient, idempotencyTTL)
	me.Put("/avatar", idem, mediaHandler.UpdateAvatar)
	me.Delete("/avatar", mediaHandler.DeleteAvatar)
	me.Put("/banner", idem, mediaHandler.UpdateBanner)
	me.Delete("/banner", mediaHandler.DeleteBanner)

	me.Post("/portfolio", idem, portfolioHandler.AddImages)
	me.Patch("/portfolio/:id", portfolioHandler.UpdateImage)
	me.Delete("/portfolio/:id", portfolioHandler.DeleteImage)

	// Public partner details
	v1.Get("/partners/:id", partnerHandler.GetDetails)

	// Seeker self-service (requires 'user' role)
	users := v1.Group("/users/me")
	users.Use(middleware.RequireAuth(deps.Config.JWT.Secret))
	users.Use(middleware.RequireRole(domain.RoleUser))
	users.Get("/", userHandler.GetProfile)
	users.Put("/", userHandler.UpdateProfile)
	users.Put("/password", authHandler.ChangeUserPassword)
	users.Post("/deactivate", userHandler.Deactivate)
	users.Put("/avatar", idem, userHandler.UpdateAvatar)
	users.Delete("/avatar", userHandler.DeleteAvatar)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
