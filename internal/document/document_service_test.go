package document_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docregistry/internal/auth"
	"docregistry/internal/document"
	documenterrors "docregistry/internal/document/errors"
	"docregistry/internal/messaging/kafka"
	"docregistry/internal/summarizer"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeDocumentRepo struct {
	CreateFn   func(ctx context.Context, doc *document.Document) error
	FindAllFn  func(ctx context.Context) ([]document.Document, error)
	FindByIDFn func(ctx context.Context, id string) (*document.Document, error)
	DeleteFn   func(ctx context.Context, id string) (int64, error)
}

func (f *fakeDocumentRepo) WithTx(tx *sql.Tx) document.Repository { return f }
func (f *fakeDocumentRepo) Create(ctx context.Context, doc *document.Document) error {
	return f.CreateFn(ctx, doc)
}
func (f *fakeDocumentRepo) FindAll(ctx context.Context) ([]document.Document, error) {
	return f.FindAllFn(ctx)
}
func (f *fakeDocumentRepo) FindByID(ctx context.Context, id string) (*document.Document, error) {
	return f.FindByIDFn(ctx, id)
}
func (f *fakeDocumentRepo) Delete(ctx context.Context, id string) (int64, error) {
	return f.DeleteFn(ctx, id)
}

type fakeOutboxRepo struct {
	events []kafka.OutboxEvent
	err    error
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.events, nil
}
func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error              { return nil }
func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id, reason string) error    { return nil }

type fakeSummarizer struct {
	SummarizeFn func(ctx context.Context, filename string, file io.Reader) (*summarizer.UploadResult, error)
}

func (f *fakeSummarizer) Summarize(ctx context.Context, filename string, file io.Reader) (*summarizer.UploadResult, error) {
	return f.SummarizeFn(ctx, filename, file)
}
func (f *fakeSummarizer) FetchSummary(ctx context.Context, name string) (string, error) {
	return "", nil
}
func (f *fakeSummarizer) DownloadURL(name string) string {
	return "http://summarizer.local/download_summary/" + name
}

type fakeUploaderDirectory struct {
	emails map[string]bool
}

func (f *fakeUploaderDirectory) Create(ctx context.Context, user *auth.User) error { return nil }
func (f *fakeUploaderDirectory) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUploaderDirectory) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUploaderDirectory) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return f.emails[email], nil
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *fakeDocumentRepo
	outbox  *fakeOutboxRepo
	users   *fakeUploaderDirectory
}

func setupServiceTest(t *testing.T) (*serviceDeps, document.Service) {
	t.Helper()

	db, sqlMock, _ := sqlmock.New()
	repo := &fakeDocumentRepo{}
	outbox := &fakeOutboxRepo{}
	users := &fakeUploaderDirectory{emails: map[string]bool{"ana@example.com": true}}

	svc := document.NewServiceWithOutbox(db, repo, users, outbox, nil, nil, nil, "guest")

	return &serviceDeps{db: db, sqlMock: sqlMock, repo: repo, outbox: outbox, users: users}, svc
}

func TestDocumentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("neither url nor filename -> invalid input", func(t *testing.T) {
		deps, svc := setupServiceTest(t)
		defer deps.db.Close()

		_, err := svc.Create(ctx, document.CreateDocumentRequest{
			Title:      "Quarterly report",
			UploadedBy: "ana@example.com",
		})

		assert.ErrorIs(t, err, documenterrors.ErrMissingSource)
	})

	t.Run("filename only is enough", func(t *testing.T) {
		deps, svc := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.CreateFn = func(ctx context.Context, doc *document.Document) error {
			assert.Equal(t, "Quarterly report", doc.Title)
			assert.Equal(t, "report.pdf", doc.Filename)
			assert.False(t, doc.UploadedAt.IsZero())
			return nil
		}

		resp, err := svc.Create(ctx, document.CreateDocumentRequest{
			Title:      "Quarterly report",
			Filename:   "report.pdf",
			UploadedBy: "ana@example.com",
		})

		assert.NoError(t, err)
		assert.Equal(t, "report.pdf", resp.Filename)
		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "document_uploaded", deps.outbox.events[0].EventType)
	})

	t.Run("unknown uploader -> invalid input", func(t *testing.T) {
		deps, svc := setupServiceTest(t)
		defer deps.db.Close()

		_, err := svc.Create(ctx, document.CreateDocumentRequest{
			Title:      "Quarterly report",
			URL:        "https://example.com/report.pdf",
			UploadedBy: "stranger@example.com",
		})

		assert.ErrorIs(t, err, documenterrors.ErrUnknownUploader)
	})

	t.Run("guest sentinel bypasses the user lookup", func(t *testing.T) {
		deps, svc := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.CreateFn = func(ctx context.Context, doc *document.Document) error { return nil }

		_, err := svc.Create(ctx, document.CreateDocumentRequest{
			Title:      "Anonymous drop",
			URL:        "https://example.com/drop.pdf",
			UploadedBy: "guest",
		})

		assert.NoError(t, err)
	})

	t.Run("repo error -> rollback, no outbox event", func(t *testing.T) {
		deps, svc := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.CreateFn = func(ctx context.Context, doc *document.Document) error {
			return errors.New("insert failed")
		}

		_, err := svc.Create(ctx, document.CreateDocumentRequest{
			Title:      "Quarterly report",
			Filename:   "report.pdf",
			UploadedBy: "ana@example.com",
		})

		assert.Error(t, err)
		assert.Empty(t, deps.outbox.events)
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns documents newest first", func(t *testing.T) {
		deps, svc := setupServiceTest(t)
		defer deps.db.Close()

		now := time.Now().UTC()
		deps.repo.FindAllFn = func(ctx context.Context) ([]document.Document, error) {
			return []document.Document{
				{ID: uuid.New(), Title: "third", UploadedAt: now},
				{ID: uuid.New(), Title: "second", UploadedAt: now.Add(-time.Hour)},
				{ID: uuid.New(), Title: "first", UploadedAt: now.Add(-2 * time.Hour)},
			}, nil
		}

		resp, err := svc.List(ctx)
		assert.NoError(t, err)
		assert.Len(t, resp, 3)
		for i := 1; i < len(resp); i++ {
			prev, _ := time.Parse(time.RFC3339, resp[i-1].UploadedAt)
			cur, _ := time.Parse(time.RFC3339, resp[i].UploadedAt)
			assert.True(t, prev.After(cur), "expected strictly descending uploadedAt")
		}
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()
		rdb, redisMock := redismock.NewClientMock()

		repo := &fakeDocumentRepo{
			FindAllFn: func(ctx context.Context) ([]document.Document, error) {
				t.Fatal("repository should not be reached on cache hit")
				return nil, nil
			},
		}
		svc := document.NewServiceWithOutbox(db, repo, nil, nil, rdb, nil, nil, "guest")

		redisMock.ExpectGet(document.ListCacheKey).
			SetVal(`[{"id":"abc","title":"cached","url":"","filename":"","summary":"","uploadedBy":"guest","uploadedAt":"2026-01-01T00:00:00Z"}]`)

		resp, err := svc.List(ctx)
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "cached", resp[0].Title)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("missing id -> not found", func(t *testing.T) {
		deps, svc := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		deps.repo.FindByIDFn = func(ctx context.Context, got string) (*document.Document, error) {
			return nil, documenterrors.ErrDocumentNotFound
		}

		err := svc.Delete(ctx, id)
		assert.ErrorIs(t, err, documenterrors.ErrDocumentNotFound)
	})

	t.Run("malformed id -> invalid input", func(t *testing.T) {
		deps, svc := setupServiceTest(t)
		defer deps.db.Close()

		err := svc.Delete(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, documenterrors.ErrInvalidDocumentID)
	})

	t.Run("success enqueues deleted event", func(t *testing.T) {
		deps, svc := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.FindByIDFn = func(ctx context.Context, got string) (*document.Document, error) {
			assert.Equal(t, id.String(), got)
			return &document.Document{ID: id, Title: "doomed", UploadedBy: "ana@example.com"}, nil
		}
		deps.repo.DeleteFn = func(ctx context.Context, got string) (int64, error) {
			return 1, nil
		}
		expectTx(t, deps.sqlMock, true)

		err := svc.Delete(ctx, id.String())
		assert.NoError(t, err)
		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "document_deleted", deps.outbox.events[0].EventType)
	})
}

func TestDocumentService_IngestURL(t *testing.T) {
	ctx := context.Background()

	t.Run("unreachable source leaves no record", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		repo := &fakeDocumentRepo{
			CreateFn: func(ctx context.Context, doc *document.Document) error {
				t.Fatal("no record may be written when the source cannot be fetched")
				return nil
			},
		}
		svc := document.NewServiceWithOutbox(db, repo, nil, nil, nil, nil, nil, "guest")

		_, err := svc.IngestURL(ctx, document.IngestURLRequest{
			URL:        "http://127.0.0.1:1/report.pdf",
			Filename:   "report.pdf",
			UploadedBy: "guest",
		})

		assert.ErrorIs(t, err, documenterrors.ErrSourceUnreachable)
	})

	t.Run("non-2xx source leaves no record", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		db, _, _ := sqlmock.New()
		defer db.Close()

		repo := &fakeDocumentRepo{}
		svc := document.NewServiceWithOutbox(db, repo, nil, nil, nil, nil, nil, "guest")

		_, err := svc.IngestURL(ctx, document.IngestURLRequest{
			URL:        srv.URL + "/gone.pdf",
			Filename:   "gone.pdf",
			UploadedBy: "guest",
		})

		assert.ErrorIs(t, err, documenterrors.ErrSourceUnreachable)
	})

	t.Run("summarizer failure leaves no record", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("remote document bytes"))
		}))
		defer srv.Close()

		db, _, _ := sqlmock.New()
		defer db.Close()

		repo := &fakeDocumentRepo{
			CreateFn: func(ctx context.Context, doc *document.Document) error {
				t.Fatal("no record may be written when summarization fails")
				return nil
			},
		}
		sum := &fakeSummarizer{
			SummarizeFn: func(ctx context.Context, filename string, file io.Reader) (*summarizer.UploadResult, error) {
				return nil, errors.New("connection refused")
			},
		}
		svc := document.NewServiceWithOutbox(db, repo, nil, nil, nil, sum, nil, "guest")

		_, err := svc.IngestURL(ctx, document.IngestURLRequest{
			URL:        srv.URL + "/report.pdf",
			Filename:   "report.pdf",
			UploadedBy: "guest",
		})

		assert.ErrorIs(t, err, documenterrors.ErrSummarizerUnavailable)
	})

	t.Run("success keeps the source url on the record", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("remote document bytes"))
		}))
		defer srv.Close()

		db, sqlMock, _ := sqlmock.New()
		defer db.Close()

		var created *document.Document
		repo := &fakeDocumentRepo{
			CreateFn: func(ctx context.Context, doc *document.Document) error {
				created = doc
				return nil
			},
		}
		sum := &fakeSummarizer{
			SummarizeFn: func(ctx context.Context, filename string, file io.Reader) (*summarizer.UploadResult, error) {
				assert.Equal(t, "report.pdf", filename)
				content, _ := io.ReadAll(file)
				assert.Equal(t, "remote document bytes", string(content))
				return &summarizer.UploadResult{
					OriginalFilename:    "report.pdf",
					SummaryContent:      "a short summary",
					SummaryDownloadName: "report_summary.txt",
				}, nil
			},
		}
		outbox := &fakeOutboxRepo{}
		svc := document.NewServiceWithOutbox(db, repo, nil, outbox, nil, sum, nil, "guest")

		expectTx(t, sqlMock, true)

		sourceURL := srv.URL + "/report.pdf"
		resp, err := svc.IngestURL(ctx, document.IngestURLRequest{
			URL:        sourceURL,
			Filename:   "report.pdf",
			UploadedBy: "guest",
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, sourceURL, resp.URL)
		assert.Equal(t, "a short summary", resp.Summary)
		assert.Len(t, outbox.events, 1)
		assert.Equal(t, "document_uploaded", outbox.events[0].EventType)
	})

	t.Run("unknown uploader -> invalid input", func(t *testing.T) {
		deps, svc := setupServiceTest(t)
		defer deps.db.Close()

		_, err := svc.IngestURL(ctx, document.IngestURLRequest{
			URL:        "https://example.com/report.pdf",
			Filename:   "report.pdf",
			UploadedBy: "stranger@example.com",
		})

		assert.ErrorIs(t, err, documenterrors.ErrUnknownUploader)
	})
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("summarizer failure leaves no record", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		repo := &fakeDocumentRepo{
			CreateFn: func(ctx context.Context, doc *document.Document) error {
				t.Fatal("no record may be written when summarization fails")
				return nil
			},
		}
		sum := &fakeSummarizer{
			SummarizeFn: func(ctx context.Context, filename string, file io.Reader) (*summarizer.UploadResult, error) {
				return nil, errors.New("connection refused")
			},
		}
		svc := document.NewServiceWithOutbox(db, repo, nil, nil, nil, sum, nil, "guest")

		_, err := svc.Upload(ctx, document.UploadRequest{
			Filename:   "report.pdf",
			UploadedBy: "guest",
			File:       strings.NewReader("raw bytes"),
		})

		assert.ErrorIs(t, err, documenterrors.ErrSummarizerUnavailable)
	})

	t.Run("success derives url and stores summary text", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()

		var created *document.Document
		repo := &fakeDocumentRepo{
			CreateFn: func(ctx context.Context, doc *document.Document) error {
				created = doc
				return nil
			},
		}
		sum := &fakeSummarizer{
			SummarizeFn: func(ctx context.Context, filename string, file io.Reader) (*summarizer.UploadResult, error) {
				assert.Equal(t, "report.pdf", filename)
				return &summarizer.UploadResult{
					OriginalFilename:    "report.pdf",
					SummaryContent:      "a short summary",
					SummaryDownloadName: "report_summary.txt",
				}, nil
			},
		}
		svc := document.NewServiceWithOutbox(db, repo, nil, nil, nil, sum, nil, "guest")

		expectTx(t, sqlMock, true)

		resp, err := svc.Upload(ctx, document.UploadRequest{
			Title:      "Monthly report",
			Filename:   "report.pdf",
			UploadedBy: "guest",
			File:       strings.NewReader("raw bytes"),
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, "a short summary", resp.Summary)
		assert.Equal(t, "http://summarizer.local/download_summary/report_summary.txt", resp.URL)
	})

	t.Run("missing file -> invalid input", func(t *testing.T) {
		deps, svc := setupServiceTest(t)
		defer deps.db.Close()

		_, err := svc.Upload(ctx, document.UploadRequest{
			Filename:   "",
			UploadedBy: "guest",
		})

		assert.ErrorIs(t, err, documenterrors.ErrMissingFile)
	})
}
