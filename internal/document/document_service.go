package document

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"docregistry/internal/auth"
	documenterrors "docregistry/internal/document/errors"
	"docregistry/internal/events"
	"docregistry/internal/messaging/kafka"
	"docregistry/internal/shared/contextutil"
	"docregistry/internal/storage"
	"docregistry/internal/summarizer"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const ListCacheKey = "documents:list"

const listCacheTTL = 5 * time.Minute

// maxIngestBytes caps how much of a remote document ingestion will buffer.
const maxIngestBytes = 50 << 20

//go:generate mockgen -source=document_service.go -destination=mock/document_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context) ([]DocumentResponse, error)
	Create(ctx context.Context, req CreateDocumentRequest) (DocumentResponse, error)
	Upload(ctx context.Context, req UploadRequest) (DocumentResponse, error)
	IngestURL(ctx context.Context, req IngestURLRequest) (DocumentResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db         *sql.DB
	repo       Repository
	users      auth.Repository
	outbox     kafka.OutboxRepository
	rdb        *redis.Client
	summarizer summarizer.Client
	archive    storage.Storage
	guest      string
	fetch      *http.Client
	sf         *singleflight.Group
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users auth.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, users, nil, rdb, nil, nil, "guest", logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	users auth.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	summarizerClient summarizer.Client,
	archive storage.Storage,
	guest string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("document.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("document.service")
	}
	if guest == "" {
		guest = "guest"
	}
	return &service{
		db:         db,
		repo:       repo,
		users:      users,
		outbox:     outboxRepo,
		rdb:        rdb,
		summarizer: summarizerClient,
		archive:    archive,
		guest:      guest,
		fetch:      &http.Client{Timeout: 60 * time.Second},
		sf:         &singleflight.Group{},
		logger:     l,
	}
}

func (s *service) List(ctx context.Context) ([]DocumentResponse, error) {
	// 1. Check Redis first
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, ListCacheKey).Result(); err == nil {
			var resp []DocumentResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// 2. Singleflight collapses concurrent misses into one query
	v, err, _ := s.sf.Do(ListCacheKey, func() (interface{}, error) {
		docs, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(docs)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, ListCacheKey, jsonData, listCacheTTL)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]DocumentResponse), nil
}

func (s *service) Create(ctx context.Context, req CreateDocumentRequest) (DocumentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create document requested",
		zap.String("request_id", rid),
		zap.String("title", req.Title),
		zap.String("uploaded_by", req.UploadedBy),
	)

	// A record has to point at something retrievable. Enforced here, not in
	// the schema.
	if req.URL == "" && req.Filename == "" {
		return DocumentResponse{}, documenterrors.ErrMissingSource
	}

	if err := s.resolveUploader(ctx, req.UploadedBy); err != nil {
		return DocumentResponse{}, err
	}

	doc := &Document{
		ID:         uuid.New(),
		Title:      req.Title,
		URL:        req.URL,
		Filename:   req.Filename,
		Summary:    req.Summary,
		UploadedBy: req.UploadedBy,
		UploadedAt: time.Now().UTC(),
	}

	if err := s.persistWithEvent(ctx, doc, events.DocumentUploaded); err != nil {
		return DocumentResponse{}, err
	}

	s.invalidateListCache(ctx)

	s.logger.Info("create document success",
		zap.String("request_id", rid),
		zap.String("document_id", doc.ID.String()),
	)

	return mapToResponse(*doc), nil
}

func (s *service) Upload(ctx context.Context, req UploadRequest) (DocumentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("upload document requested",
		zap.String("request_id", rid),
		zap.String("filename", req.Filename),
		zap.String("uploaded_by", req.UploadedBy),
	)

	if req.File == nil || req.Filename == "" {
		return DocumentResponse{}, documenterrors.ErrMissingFile
	}
	if req.Title == "" {
		req.Title = req.Filename
	}

	if err := s.resolveUploader(ctx, req.UploadedBy); err != nil {
		return DocumentResponse{}, err
	}

	// Archive the raw bytes first so the original survives even if the
	// summary artifact is ever lost.
	if s.archive != nil {
		key := fmt.Sprintf("%s/%s/%s", req.UploadedBy, uuid.New().String(), req.Filename)
		if _, err := s.archive.Put(ctx, key, req.File, storage.PutOptions{
			Size:        req.Size,
			ContentType: req.ContentType,
		}); err != nil {
			s.logger.Error("archive raw upload failed", zap.String("request_id", rid), zap.Error(err))
			return DocumentResponse{}, err
		}
		if _, err := req.File.Seek(0, 0); err != nil {
			return DocumentResponse{}, err
		}
	}

	result, err := s.summarizer.Summarize(ctx, req.Filename, req.File)
	if err != nil {
		// No record is written when summarization fails.
		s.logger.Error("summarize failed",
			zap.String("request_id", rid),
			zap.String("filename", req.Filename),
			zap.Error(err),
		)
		return DocumentResponse{}, documenterrors.ErrSummarizerUnavailable
	}

	doc := &Document{
		ID:         uuid.New(),
		Title:      req.Title,
		URL:        s.summarizer.DownloadURL(result.SummaryDownloadName),
		Filename:   req.Filename,
		Summary:    result.SummaryContent,
		UploadedBy: req.UploadedBy,
		UploadedAt: time.Now().UTC(),
	}

	if err := s.persistWithEvent(ctx, doc, events.DocumentUploaded); err != nil {
		return DocumentResponse{}, err
	}

	s.invalidateListCache(ctx)

	s.logger.Info("upload document success",
		zap.String("request_id", rid),
		zap.String("document_id", doc.ID.String()),
	)

	return mapToResponse(*doc), nil
}

// IngestURL fetches a remote document, runs it through the same
// archive-then-summarize path as Upload, and keeps the source URL on the
// record.
func (s *service) IngestURL(ctx context.Context, req IngestURLRequest) (DocumentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("ingest url requested",
		zap.String("request_id", rid),
		zap.String("url", req.URL),
		zap.String("uploaded_by", req.UploadedBy),
	)

	if req.URL == "" || req.Filename == "" {
		return DocumentResponse{}, documenterrors.ErrMissingSource
	}
	if req.Title == "" {
		req.Title = req.Filename
	}

	if err := s.resolveUploader(ctx, req.UploadedBy); err != nil {
		return DocumentResponse{}, err
	}

	data, contentType, err := s.fetchSource(ctx, req.URL)
	if err != nil {
		s.logger.Warn("fetch source url failed",
			zap.String("request_id", rid),
			zap.String("url", req.URL),
			zap.Error(err),
		)
		return DocumentResponse{}, documenterrors.ErrSourceUnreachable
	}

	file := bytes.NewReader(data)
	if s.archive != nil {
		key := fmt.Sprintf("%s/%s/%s", req.UploadedBy, uuid.New().String(), req.Filename)
		if _, err := s.archive.Put(ctx, key, file, storage.PutOptions{
			Size:        int64(len(data)),
			ContentType: contentType,
		}); err != nil {
			s.logger.Error("archive ingested document failed", zap.String("request_id", rid), zap.Error(err))
			return DocumentResponse{}, err
		}
		if _, err := file.Seek(0, 0); err != nil {
			return DocumentResponse{}, err
		}
	}

	result, err := s.summarizer.Summarize(ctx, req.Filename, file)
	if err != nil {
		// No record is written when summarization fails.
		s.logger.Error("summarize failed",
			zap.String("request_id", rid),
			zap.String("url", req.URL),
			zap.Error(err),
		)
		return DocumentResponse{}, documenterrors.ErrSummarizerUnavailable
	}

	doc := &Document{
		ID:         uuid.New(),
		Title:      req.Title,
		URL:        req.URL,
		Filename:   req.Filename,
		Summary:    result.SummaryContent,
		UploadedBy: req.UploadedBy,
		UploadedAt: time.Now().UTC(),
	}

	if err := s.persistWithEvent(ctx, doc, events.DocumentUploaded); err != nil {
		return DocumentResponse{}, err
	}

	s.invalidateListCache(ctx)

	s.logger.Info("ingest url success",
		zap.String("request_id", rid),
		zap.String("document_id", doc.ID.String()),
	)

	return mapToResponse(*doc), nil
}

func (s *service) fetchSource(ctx context.Context, rawURL string) ([]byte, string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := s.fetch.Do(httpReq)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("source fetch failed (%d)", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIngestBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("source document is empty")
	}
	if len(data) > maxIngestBytes {
		return nil, "", fmt.Errorf("source document exceeds %d bytes", maxIngestBytes)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete document requested",
		zap.String("request_id", rid),
		zap.String("document_id", id),
	)

	if _, err := uuid.Parse(id); err != nil {
		return documenterrors.ErrInvalidDocumentID
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete document begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	affected, err := qtx.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete document failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}
	if affected == 0 {
		return documenterrors.ErrDocumentNotFound
	}

	if err := s.enqueueEvent(ctx, tx, doc, events.DocumentDeleted); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete document commit failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	s.invalidateListCache(ctx)

	s.logger.Info("delete document success",
		zap.String("request_id", rid),
		zap.String("document_id", id),
	)
	return nil
}

// resolveUploader checks uploadedBy against registered users; the guest
// sentinel bypasses the lookup.
func (s *service) resolveUploader(ctx context.Context, uploadedBy string) error {
	if uploadedBy == "" {
		return documenterrors.ErrUnknownUploader
	}
	if uploadedBy == s.guest || s.users == nil {
		return nil
	}

	exists, err := s.users.ExistsByEmail(ctx, uploadedBy)
	if err != nil {
		return err
	}
	if !exists {
		return documenterrors.ErrUnknownUploader
	}
	return nil
}

func (s *service) persistWithEvent(ctx context.Context, doc *Document, eventType string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, doc); err != nil {
		s.logger.Error("persist document failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := s.enqueueEvent(ctx, tx, doc, eventType); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, doc *Document, eventType string) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.DocumentLifecycleEvent{
		EventType:  eventType,
		RequestID:  rid,
		DocumentID: doc.ID.String(),
		Title:      doc.Title,
		UploadedBy: doc.UploadedBy,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "document",
		AggregateID:   doc.ID.String(),
		EventType:     eventType,
		Topic:         events.DocumentLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("outbox persist failed",
			zap.String("document_id", doc.ID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (s *service) invalidateListCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, ListCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate document list cache",
			zap.Error(err),
			zap.String("key", ListCacheKey),
		)
	}
}

func mapToResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:         doc.ID.String(),
		Title:      doc.Title,
		URL:        doc.URL,
		Filename:   doc.Filename,
		Summary:    doc.Summary,
		UploadedBy: doc.UploadedBy,
		UploadedAt: doc.UploadedAt.UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(docs []Document) []DocumentResponse {
	res := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		res[i] = mapToResponse(d)
	}
	return res
}
