package activity

import (
	"time"

	"github.com/google/uuid"
)

// Activity is an append-only trail of document lifecycle events, written by
// the Kafka consumer.
type Activity struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentID string    `gorm:"type:uuid;not null;index"`
	EventType  string    `gorm:"type:varchar(50);not null"`
	Title      string    `gorm:"type:varchar(255);not null"`
	Actor      string    `gorm:"type:varchar(255);not null"`
	RequestID  string    `gorm:"type:varchar(64)"`
	OccurredAt time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
}

func (Activity) TableName() string {
	return "document_activities"
}
