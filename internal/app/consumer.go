package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"docregistry/internal/activity"
	"docregistry/internal/config"
	"docregistry/internal/events"
	"docregistry/internal/messaging/kafka/consumer"
	"docregistry/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer records document lifecycle events into the activity trail.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")
	cfg := config.Load()

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

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	activityRepo := activity.NewRepository(gormDB)
	activityService := activity.NewService(activityRepo, logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.DocumentLifecycleTopic,
		GroupID:        "docregistry-activity",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeDocumentLifecycle(ctx, reader, activityService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
