package main

import (
	"context"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profile-hub/adapters/event"
	"profile-hub/adapters/file_storage"
	httpAdapter "profile-hub/adapters/http"
	"profile-hub/adapters/persistence"
	authUC "profile-hub/internal/application/usecase/auth"
	profileUC "profile-hub/internal/application/usecase/profile"
	"profile-hub/internal/config"
	"profile-hub/pkg/auth"
	"profile-hub/pkg/logger"
	"profile-hub/pkg/tracing"
)

func main() {

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Starting Profile Hub API server...")

	if cfg.Jaeger.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, appLogger, "profile-hub-api")
		if err != nil {
			appLogger.Fatal("cannot init tracer", err)
		}
		defer tp.Shutdown(context.Background())
	}

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	producer, err := event.NewProfileEventProducer(cfg)
	if err != nil {
		appLogger.Fatal("cannot init Kafka producer", err)
	}
	defer producer.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	pictureStore, err := file_storage.NewLocalPictureStore(cfg)
	if err != nil {
		appLogger.Fatal("failed to initialize picture store", err)
	}

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, redisClient, appLogger)
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, appLogger)
	uploadUseCase := profileUC.NewUploadPictureUseCase(profileRepo, pictureStore, producer, appLogger)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(loginUseCase)
	profileHandler := httpAdapter.NewProfileHandler(profileUseCase, uploadUseCase, appLogger)

	// Middleware
	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)
	errorMiddleware := httpAdapter.ErrorMiddleware(appLogger)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), errorMiddleware)

	// Uploaded pictures are served straight from the static root.
	router.Static("/"+file_storage.PictureDir, filepath.Join(cfg.Storage.StaticRoot, file_storage.PictureDir))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		api.POST("/auth/login", authHandler.Login)

		prof := api.Group("/profile")
		prof.Use(authMiddleware)
		{
			prof.POST("/upload-profile-picture/:userId", profileHandler.UploadProfilePicture)
			prof.POST("/add-job-description/:userId", profileHandler.AddJobDescription)
			prof.POST("/add-address/:userId", profileHandler.AddAddress)
			prof.POST("/add-courses/:userId", profileHandler.AddCourses)
			prof.POST("/add-projects/:userId", profileHandler.AddProjects)
			prof.POST("/add-skills/:userId", profileHandler.AddSkills)

			prof.PUT("/update-job-description/:userId", profileHandler.AddJobDescription)
			prof.PUT("/update-address/:userId", profileHandler.AddAddress)
			prof.PUT("/update-course/:userId/:courseId", profileHandler.UpdateCourse)
			prof.PUT("/update-project/:userId/:projectId", profileHandler.UpdateProject)
			prof.PUT("/update-skill/:userId/:skillId", profileHandler.UpdateSkill)

			prof.GET("/get-profile/:userId", profileHandler.GetProfile)

			prof.DELETE("/delete-course/:userId/:courseId", profileHandler.DeleteCourse)
			prof.DELETE("/delete-skill/:userId/:skillId", profileHandler.DeleteSkill)
			prof.DELETE("/delete-project/:userId/:projectId", profileHandler.DeleteProject)
		}
	}

	appLogger.Info("Server running", zap.String("port", cfg.App.Port))
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("cannot run server", err)
	}
}
