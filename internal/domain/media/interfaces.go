package media

import (
	"context"
	"time"
)

// Repository defines persistence operations needed by the service.
// Lookups by id return (nil, nil) when the record does not exist.
type Repository interface {
	Create(ctx context.Context, record *Record) error
	GetByID(ctx context.Context, id string) (*Record, error)
	Update(ctx context.Context, id string, patch Patch) (*Record, error)
	Delete(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	IncrementUsage(ctx context.Context, id string, at time.Time) (bool, error)
	Stats(ctx context.Context, filter StatsFilter) (*Stats, error)
	FindStale(ctx context.Context, statuses []Status, before time.Time) ([]*Record, error)
}

// LocalStore writes bytes to server-managed storage.
type LocalStore interface {
	Write(ctx context.Context, key string, data []byte, mimeType string) (string, error)
	WriteThumbnail(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// ObjectStore authorizes direct client uploads to an object store.
// It has no Write: the server never handles those bytes.
type ObjectStore interface {
	Enabled() bool
	Presign(ctx context.Context, key, mimeType string) (*PresignedUpload, error)
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
}

// ThumbnailGenerator renders a JPEG derivative for the given primary bytes.
type ThumbnailGenerator interface {
	Thumbnail(ctx context.Context, kind Kind, data []byte) ([]byte, error)
}

// MetadataExtractor reads best-effort properties; it returns nil when nothing could be read.
type MetadataExtractor interface {
	Extract(kind Kind, mimeType string, data []byte) *Metadata
}

// AuditEntry describes one mutation for the audit trail.
type AuditEntry struct {
	Action  string
	ActorID string
	MediaID string
	Payload any
	Err     error
}

// AuditLogger records mutations. Implementations are best-effort.
type AuditLogger interface {
	Record(ctx context.Context, entry AuditEntry)
}
