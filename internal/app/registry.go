package app

import (
	"docregistry/internal/activity"
	"docregistry/internal/auth"
	"docregistry/internal/config"
	"docregistry/internal/document"
	"docregistry/internal/messaging/kafka"
	"docregistry/internal/storage"
	"docregistry/internal/summarizer"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
	summarizerClient summarizer.Client,
	archive storage.Storage,
	cfg *config.AppConfig,
	logger *zap.Logger,
) error {
	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	documentRepo := document.NewRepository(gormDB)
	activityRepo := activity.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	authService := auth.NewService(authRepo, cfg.JWTSecret, logger)
	documentService := document.NewServiceWithOutbox(
		db,
		documentRepo,
		authRepo,
		outboxRepo,
		rdb,
		summarizerClient,
		archive,
		cfg.GuestUploader,
		logger,
	)
	activityService := activity.NewService(activityRepo, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	documentHandler := document.NewHandler(documentService, cfg.GuestUploader, logger)
	activityHandler := activity.NewHandler(activityService, logger)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, cfg.JWTSecret)
		document.RegisterRoutes(api, documentHandler, rdb, cfg.JWTSecret)
		activity.RegisterRoutes(api, activityHandler, cfg.JWTSecret)
	}

	return nil
}
