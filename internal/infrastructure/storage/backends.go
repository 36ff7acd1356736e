package storage

import (
	"context"

	"github.com/rs/zerolog"

	"recipehub/media-api/internal/config"
)

// Backends bundles the two storage protocols. They are not interchangeable:
// local storage accepts bytes, object storage only authorizes client uploads.
type Backends struct {
	Local  *LocalStorage
	Object *S3Storage
}

// NewBackends initializes local storage and, when configured, object storage.
func NewBackends(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backends, error) {
	local, err := NewLocalStorage(cfg, log)
	if err != nil {
		return nil, err
	}
	object, err := NewS3Storage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Backends{Local: local, Object: object}, nil
}

// Health reports per-backend readiness errors; a nil map value means healthy.
func (b *Backends) Health(ctx context.Context) map[string]error {
	status := map[string]error{
		backendLocal: b.Local.Health(ctx),
	}
	if b.Object.Enabled() {
		status[backendObject] = b.Object.Health(ctx)
	}
	return status
}
