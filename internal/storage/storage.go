// Package storage archives raw uploads to an S3-compatible object store
// before they are handed to the summarizer. Implementations stream; nothing
// touches local disk.
package storage

import (
	"context"
	"io"
	"time"
)

//go:generate mockgen -source=storage.go -destination=mock/storage_mock.go -package=mock

type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

type PutOptions struct {
	Size        int64
	ContentType string
}

type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
