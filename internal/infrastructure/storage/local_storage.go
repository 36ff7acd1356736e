package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"recipehub/media-api/internal/config"
	"recipehub/media-api/internal/infrastructure/metrics"
)

const backendLocal = "local"

var errInvalidKey = errors.New("storage key must be a relative path inside the storage root")

// LocalStorage writes media to the local filesystem and serves it under a base URL.
type LocalStorage struct {
	basePath string
	baseURL  string
	log      zerolog.Logger
}

// NewLocalStorage creates a new local filesystem storage backend.
func NewLocalStorage(cfg *config.Config, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	basePath, err := filepath.Abs(cfg.LocalStoragePath)
	if err != nil {
		return nil, fmt.Errorf("resolve local storage path: %w", err)
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory: %w", err)
	}

	storage := &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(cfg.LocalStorageBaseURL, "/"),
		log:      logger,
	}

	logger.Info().
		Str("path", basePath).
		Str("base_url", storage.baseURL).
		Msg("local storage initialized")

	return storage, nil
}

// Root returns the directory files are written under.
func (l *LocalStorage) Root() string {
	return l.basePath
}

// Write stores data under key and returns its public URL.
func (l *LocalStorage) Write(ctx context.Context, key string, data []byte, mimeType string) (url string, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordStorageOperation(backendLocal, "write", metrics.Status(err), time.Since(start).Seconds())
	}()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	fullPath, err := l.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	// write to a sibling temp file so readers never observe a partial file
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	l.log.Debug().
		Str("key", key).
		Str("mime_type", mimeType).
		Int("bytes", len(data)).
		Msg("file written to local storage")

	return l.URL(key), nil
}

// WriteThumbnail stores a JPEG derivative.
func (l *LocalStorage) WriteThumbnail(ctx context.Context, key string, data []byte) (string, error) {
	return l.Write(ctx, key, data, "image/jpeg")
}

// Delete removes the file at key. A missing file is not an error.
func (l *LocalStorage) Delete(ctx context.Context, key string) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordStorageOperation(backendLocal, "delete", metrics.Status(err), time.Since(start).Seconds())
	}()

	fullPath, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL returns the public URL for key.
func (l *LocalStorage) URL(key string) string {
	if l.baseURL != "" {
		return l.baseURL + "/" + strings.TrimPrefix(path.Clean("/"+key), "/")
	}
	return "file://" + filepath.Join(l.basePath, filepath.FromSlash(key))
}

// Health checks if the storage directory is writable.
func (l *LocalStorage) Health(ctx context.Context) error {
	testFile := filepath.Join(l.basePath, ".health_check")
	if err := os.WriteFile(testFile, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("storage directory not writable: %w", err)
	}
	_ = os.Remove(testFile)
	return nil
}

// resolve maps a slash-separated key to a path under basePath, rejecting traversal.
func (l *LocalStorage) resolve(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", errInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errInvalidKey
	}
	fullPath := filepath.Join(l.basePath, filepath.FromSlash(cleaned))
	rel, err := filepath.Rel(l.basePath, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errInvalidKey
	}
	return fullPath, nil
}
