package consumer

import (
	"context"
	"encoding/json"

	"docregistry/internal/activity"
	"docregistry/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func ConsumeDocumentLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	activityService activity.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.document_lifecycle")
	log.Info("document lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("document lifecycle consumer stopped")
				return
			}
			log.Error("fetch document lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.DocumentLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode document lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := activityService.Record(ctx, event); err != nil {
			log.Error("record document activity failed",
				zap.String("document_id", event.DocumentID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit document lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("document activity recorded",
			zap.String("document_id", event.DocumentID),
			zap.String("event_type", event.EventType),
		)
	}
}
