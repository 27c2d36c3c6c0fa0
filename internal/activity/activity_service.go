package activity

import (
	"context"
	"time"

	"docregistry/internal/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultListLimit = 100

//go:generate mockgen -source=activity_service.go -destination=mock/activity_service_mock.go -package=mock
type Service interface {
	Record(ctx context.Context, event events.DocumentLifecycleEvent) error
	ListRecent(ctx context.Context) ([]ActivityResponse, error)
}

type ActivityResponse struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId"`
	EventType  string `json:"eventType"`
	Title      string `json:"title"`
	Actor      string `json:"actor"`
	OccurredAt string `json:"occurredAt"`
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("activity.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("activity.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Record(ctx context.Context, event events.DocumentLifecycleEvent) error {
	entry := &Activity{
		ID:         uuid.New(),
		DocumentID: event.DocumentID,
		EventType:  event.EventType,
		Title:      event.Title,
		Actor:      event.UploadedBy,
		RequestID:  event.RequestID,
		OccurredAt: event.OccurredAt,
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("record activity failed",
			zap.String("document_id", event.DocumentID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (s *service) ListRecent(ctx context.Context) ([]ActivityResponse, error) {
	entries, err := s.repo.FindRecent(ctx, defaultListLimit)
	if err != nil {
		s.logger.Error("list activity failed", zap.Error(err))
		return nil, err
	}

	res := make([]ActivityResponse, len(entries))
	for i, e := range entries {
		res[i] = ActivityResponse{
			ID:         e.ID.String(),
			DocumentID: e.DocumentID,
			EventType:  e.EventType,
			Title:      e.Title,
			Actor:      e.Actor,
			OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339),
		}
	}
	return res, nil
}
