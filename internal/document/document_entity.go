package document

import (
	"time"

	"github.com/google/uuid"
)

// Document records are created on upload confirmation, read on list, and
// deleted by id; they are never updated in place.
type Document struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title      string    `gorm:"type:varchar(255);not null"`
	URL        string    `gorm:"type:text;not null;default:''"`
	Filename   string    `gorm:"type:varchar(255);not null;default:''"`
	Summary    string    `gorm:"type:text;not null;default:''"`
	UploadedBy string    `gorm:"type:varchar(255);not null;index"`
	UploadedAt time.Time `gorm:"not null;index:idx_documents_uploaded_at,sort:desc"`
	CreatedAt  time.Time
}
