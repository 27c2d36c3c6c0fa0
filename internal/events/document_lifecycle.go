package events

import "time"

const DocumentLifecycleTopic = "registry.document.lifecycle.v1"

const (
	DocumentUploaded = "document_uploaded"
	DocumentDeleted  = "document_deleted"
)

type DocumentLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	DocumentID string    `json:"document_id"`
	Title      string    `json:"title"`
	UploadedBy string    `json:"uploaded_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
