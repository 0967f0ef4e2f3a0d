package router

import (
	"collections-web/internal/config"
	"collections-web/internal/handler"
	"collections-web/internal/middleware"
	"collections-web/internal/repository"
	"collections-web/internal/service"
	"collections-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redisClient *redis.Client,
	cfg *config.Config,
) {
	log := utils.GetLogger()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	jobRepo := repository.NewImportJobRepository(db)
	stagingRepo := repository.NewStagingRepository(db)
	debtorRepo := repository.NewDebtorRepository(db)
	accountRepo := repository.NewDebtAccountRepository(db)
	metricsRepo := repository.NewImportMetricsRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg)
	jobService := service.NewImportJobService(jobRepo, stagingRepo, portfolioRepo, log)
	validator := service.NewImportValidator(jobRepo, stagingRepo, log, cfg.StagingPageSize)
	resolver := service.NewEntityResolver(debtorRepo, accountRepo, log)
	processor := service.NewImportProcessor(
		jobRepo, stagingRepo, portfolioRepo, resolver, metricsRepo, log,
		cfg.ChunkSize, cfg.StagingPageSize, cfg.ProcessWarnAfter,
	)

	// Initialize Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redisClient != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	clientHandler := handler.NewClientHandler(clientRepo)
	portfolioHandler := handler.NewPortfolioHandler(portfolioRepo, clientRepo)
	importHandler := handler.NewImportHandler(jobService, validator, processor, asynqClient, redisClient, log)

	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/logout", authHandler.Logout)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/auth/me", authHandler.Me)

	// Client routes
	clients := protected.Group("/clients")
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.Get)
	clients.Post("/", middleware.AdminOnly(), clientHandler.Create)

	// Portfolio routes
	portfolios := protected.Group("/portfolios")
	portfolios.Get("/", portfolioHandler.List)
	portfolios.Get("/:id", portfolioHandler.Get)
	portfolios.Post("/", middleware.AdminOnly(), portfolioHandler.Create)
	portfolios.Put("/:id", middleware.AdminOnly(), portfolioHandler.Update)
	portfolios.Delete("/:id", middleware.AdminOnly(), portfolioHandler.Delete)

	// Import pipeline routes
	imports := protected.Group("/imports")
	imports.Get("/", importHandler.List)
	imports.Post("/", importHandler.Create)
	imports.Get("/:id", importHandler.Get)
	imports.Post("/:id/validate", importHandler.Validate)
	imports.Post("/:id/process", importHandler.Process)
	imports.Post("/:id/process-chunk", importHandler.ProcessChunk)
	imports.Post("/:id/process-async", importHandler.ProcessAsync)
}
