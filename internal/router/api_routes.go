package router

import (
	"surety-web/internal/config"
	"surety-web/internal/handler"
	"surety-web/internal/middleware"
	"surety-web/internal/repository"
	"surety-web/internal/service"
	"surety-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redis *redis.Client,
	cfg *config.Config,
) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	suretyRepo := repository.NewSuretyRepository(db)

	// Initialize services
	log := utils.GetLogger()
	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo, log)
	importService := service.NewImportService(suretyRepo, userRepo, log)
	excelService := service.NewExcelService()

	// Initialize Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redis != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, excelService, cfg)
	suretyHandler := handler.NewSuretyHandler(suretyRepo, importService, excelService, cfg)
	exportHandler := handler.NewExportHandler(asynqClient, redis)

	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))
	protected.Get("/auth/me", authHandler.Me)

	// Admin routes
	admin := protected.Group("/admin", middleware.AdminOnly())

	users := admin.Group("/users")
	users.Get("/", userHandler.GetUsers)
	users.Post("/", userHandler.CreateUser)
	users.Post("/import", userHandler.ImportUsers)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)

	sureties := admin.Group("/sureties")
	sureties.Get("/", suretyHandler.GetSureties)
	sureties.Get("/export", suretyHandler.ExportSureties)
	sureties.Get("/template", suretyHandler.DownloadTemplate)
	sureties.Post("/import", suretyHandler.ImportSureties)
	sureties.Post("/bulk", suretyHandler.BulkCreateSureties)
	sureties.Post("/export-jobs", exportHandler.CreateExportJob)
	sureties.Get("/export-jobs/:code", exportHandler.GetExportJob)
	sureties.Post("/", suretyHandler.CreateSurety)
	sureties.Put("/:id", suretyHandler.UpdateSurety)
	sureties.Delete("/:id", suretyHandler.DeleteSurety)

	// Member routes
	user := protected.Group("/user", middleware.UserOnly())
	user.Get("/me", authHandler.Me)
	user.Get("/sureties", suretyHandler.GetMySureties)
	user.Post("/sureties", suretyHandler.CreateSurety)
}
