package app

import (
	"fmt"

	"docregistry/internal/activity"
	"docregistry/internal/auth"
	"docregistry/internal/config"
	"docregistry/internal/document"
	"docregistry/internal/messaging/kafka"
	"docregistry/internal/middleware"
	"docregistry/internal/shared/connection"
	"docregistry/internal/storage"
	"docregistry/internal/summarizer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BuildApp(router *gin.Engine, cfg *config.AppConfig, logger *zap.Logger) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	// 1. Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		5,
	)
	if err != nil {
		return err
	}

	if err := gormDB.AutoMigrate(
		&auth.User{},
		&document.Document{},
		&activity.Activity{},
		&kafka.OutboxTable{},
	); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}

	var archive storage.Storage
	if cfg.MinIO.Endpoint != "" {
		archive, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("minio not configured, raw uploads will not be archived")
	}

	summarizerClient := summarizer.NewClient(cfg.Summarizer)

	// 2. Global middleware
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.ContextLogger(logger))

	// 3. Modules & routes
	return registerModules(router, gormDB, redisClient, summarizerClient, archive, cfg, logger)
}
