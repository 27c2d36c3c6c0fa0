package document

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=document_repo.go -destination=mock/document_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, doc *Document) error
	FindAll(ctx context.Context) ([]Document, error)
	FindByID(ctx context.Context, id string) (*Document, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

// Create joins the caller's transaction when one was attached with WithTx, so
// the record and its outbox row commit or roll back together.
func (r *repository) Create(ctx context.Context, doc *Document) error {
	if r.tx != nil {
		query := `
        INSERT INTO documents (
            id, title, url, filename, summary, uploaded_by, uploaded_at, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
    `
		_, err := r.tx.ExecContext(
			ctx, query,
			doc.ID, doc.Title, doc.URL, doc.Filename, doc.Summary, doc.UploadedBy, doc.UploadedAt,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(doc).Error
}

// FindAll returns every document, newest first.
func (r *repository) FindAll(ctx context.Context) ([]Document, error) {
	var docs []Document
	err := r.db.WithContext(ctx).
		Order("uploaded_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	return &doc, err
}

// Delete removes by id and reports how many rows went away so the service can
// distinguish a miss from a hit.
func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}
	res := r.db.WithContext(ctx).Delete(&Document{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
