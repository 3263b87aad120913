package document

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrDuplicateID is returned by a Repository when the id is already taken.
var ErrDuplicateID = errors.New("document id already exists")

// Repository persists decoded documents.
type Repository interface {
	Create(ctx context.Context, doc Document) error
	Get(ctx context.Context, id string) (Document, bool, error)
}

// Cache keeps recently used documents close to the HTTP surface.
type Cache interface {
	Get(ctx context.Context, id string) (Document, bool, error)
	Set(ctx context.Context, doc Document, ttl time.Duration) error
}

// ObjectStorage abstracts blob storage (R2/S3/local).
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key      string
	Size     int64
	MimeType string
	ETag     string
}
