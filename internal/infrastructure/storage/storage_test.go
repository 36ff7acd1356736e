package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipehub/media-api/internal/config"
)

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	cfg := &config.Config{
		LocalStoragePath:    t.TempDir(),
		LocalStorageBaseURL: "http://localhost:8285/v1/files/",
	}
	local, err := NewLocalStorage(cfg, zerolog.Nop())
	require.NoError(t, err)
	return local
}

func stored(local *LocalStorage, key string) bool {
	_, err := os.Stat(filepath.Join(local.Root(), filepath.FromSlash(key)))
	return err == nil
}

func TestLocalStorage_WriteAndDelete(t *testing.T) {
	local := newLocal(t)
	ctx := context.Background()

	url, err := local.Write(ctx, "images/1-abc-cat.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8285/v1/files/images/1-abc-cat.png", url)

	data, err := os.ReadFile(filepath.Join(local.Root(), "images", "1-abc-cat.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.True(t, stored(local, "images/1-abc-cat.png"))

	entries, err := os.ReadDir(filepath.Join(local.Root(), "images"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, local.Delete(ctx, "images/1-abc-cat.png"))
	assert.False(t, stored(local, "images/1-abc-cat.png"))
	require.NoError(t, local.Delete(ctx, "images/1-abc-cat.png"))
}

func TestLocalStorage_WriteThumbnail(t *testing.T) {
	local := newLocal(t)

	url, err := local.WriteThumbnail(context.Background(), "thumbnails/1-abc-cat_thumb.jpg", []byte{0xff, 0xd8})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, "/thumbnails/1-abc-cat_thumb.jpg"))
	assert.True(t, stored(local, "thumbnails/1-abc-cat_thumb.jpg"))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	local := newLocal(t)
	ctx := context.Background()

	for _, key := range []string{"", "/etc/passwd", "../outside.png", "images/../../outside.png", "..", `images\..\x.png`} {
		_, err := local.Write(ctx, key, []byte("x"), "image/png")
		assert.ErrorIs(t, err, errInvalidKey, key)
	}
	assert.ErrorIs(t, local.Delete(ctx, "../outside.png"), errInvalidKey)
}

func TestLocalStorage_Health(t *testing.T) {
	assert.NoError(t, newLocal(t).Health(context.Background()))
}

func TestS3Storage_DisabledWithoutCredentials(t *testing.T) {
	s3, err := NewS3Storage(context.Background(), &config.Config{S3Region: "us-east-1"}, zerolog.Nop())
	require.NoError(t, err)

	assert.False(t, s3.Enabled())
	_, err = s3.Presign(context.Background(), "media/a.png", "image/png")
	assert.ErrorIs(t, err, errStorageDisabled)
	assert.ErrorIs(t, s3.Delete(context.Background(), "media/a.png"), errStorageDisabled)
	assert.NoError(t, s3.Health(context.Background()))
}

func TestS3Storage_PublicURL(t *testing.T) {
	tests := []struct {
		name    string
		storage S3Storage
		want    string
	}{
		{
			name:    "public endpoint path style",
			storage: S3Storage{bucket: "recipes", publicEndpoint: "https://cdn.example.com", pathStyle: true},
			want:    "https://cdn.example.com/recipes/media/1-a%20b.png",
		},
		{
			name:    "public endpoint virtual host",
			storage: S3Storage{bucket: "recipes", publicEndpoint: "https://media.example.com"},
			want:    "https://media.example.com/media/1-a%20b.png",
		},
		{
			name:    "custom endpoint virtual host",
			storage: S3Storage{bucket: "recipes", endpoint: "https://s3.example.com"},
			want:    "https://recipes.s3.example.com/media/1-a%20b.png",
		},
		{
			name:    "aws default",
			storage: S3Storage{bucket: "recipes", region: "eu-west-1"},
			want:    "https://recipes.s3.eu-west-1.amazonaws.com/media/1-a%20b.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.storage.PublicURL("media/1-a b.png"))
		})
	}
}

func TestS3Storage_ExternalizeURL(t *testing.T) {
	s := S3Storage{publicEndpoint: "https://cdn.example.com/storage"}
	assert.Equal(t, "https://cdn.example.com/storage/recipes", s.externalizeURL("http://minio:9000/recipes"))

	s = S3Storage{}
	assert.Equal(t, "http://minio:9000/recipes", s.externalizeURL("http://minio:9000/recipes"))
}

func TestS3Storage_PresignPolicy(t *testing.T) {
	cfg := &config.Config{
		S3Endpoint:     "http://localhost:9000",
		S3Region:       "us-east-1",
		S3Bucket:       "recipes",
		S3AccessKeyID:  "test-access",
		S3SecretKey:    "test-secret",
		S3UsePathStyle: true,
		S3PresignTTL:   time.Hour,
		MaxMediaBytes:  1024,
	}
	s3, err := NewS3Storage(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.True(t, s3.Enabled())

	upload, err := s3.Presign(context.Background(), "media/1-abc-clip.mp4", "video/mp4")
	require.NoError(t, err)
	assert.Contains(t, upload.UploadURL, "localhost:9000")
	assert.Equal(t, "media/1-abc-clip.mp4", upload.Key)
	assert.Equal(t, "media/1-abc-clip.mp4", upload.Fields["key"])
	assert.Equal(t, "video/mp4", upload.Fields["Content-Type"])
	assert.Equal(t, "http://localhost:9000/recipes/media/1-abc-clip.mp4", upload.PublicURL)
	assert.WithinDuration(t, time.Now().Add(time.Hour), upload.ExpiresAt, time.Minute)
}

func TestBackends_Health(t *testing.T) {
	cfg := &config.Config{LocalStoragePath: t.TempDir(), S3Region: "us-east-1"}
	backends, err := NewBackends(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	status := backends.Health(context.Background())
	assert.Contains(t, status, backendLocal)
	assert.NotContains(t, status, backendObject)
	assert.NoError(t, status[backendLocal])
}
