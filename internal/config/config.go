package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"recipehub/media-api/internal/domain/media"
)

// Config holds the environment driven configuration for the media service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"media-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"MEDIA_API_PORT" envDefault:"8285"`
	LogLevel        string        `env:"MEDIA_LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database
	DBPostgresqlWriteDSN string `env:"DB_POSTGRESQL_WRITE_DSN,notEmpty"`
	DBPostgresqlRead1DSN string `env:"DB_POSTGRESQL_READ1_DSN"` // Optional read replica

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Local Storage Configuration
	LocalStoragePath    string `env:"MEDIA_LOCAL_STORAGE_PATH" envDefault:"./media-data"`
	LocalStorageBaseURL string `env:"MEDIA_LOCAL_STORAGE_BASE_URL" envDefault:"http://localhost:8285/v1/files"`

	// Object Storage Configuration (S3 compatible)
	S3Endpoint       string        `env:"MEDIA_S3_ENDPOINT"`
	S3PublicEndpoint string        `env:"MEDIA_S3_PUBLIC_ENDPOINT"`
	S3Region         string        `env:"MEDIA_S3_REGION" envDefault:"us-east-1"`
	S3Bucket         string        `env:"MEDIA_S3_BUCKET"`
	S3AccessKeyID    string        `env:"MEDIA_S3_ACCESS_KEY_ID"`
	S3SecretKey      string        `env:"MEDIA_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle   bool          `env:"MEDIA_S3_USE_PATH_STYLE" envDefault:"true"`
	S3PresignTTL     time.Duration `env:"MEDIA_S3_PRESIGN_TTL" envDefault:"1h"`

	// Upload Policy
	MaxMediaBytes     int64    `env:"MEDIA_MAX_BYTES" envDefault:"52428800"`
	AllowedImageMIMEs []string `env:"MEDIA_ALLOWED_IMAGE_MIMES" envSeparator:"," envDefault:"image/jpeg,image/png,image/gif,image/webp"`
	AllowedVideoMIMEs []string `env:"MEDIA_ALLOWED_VIDEO_MIMES" envSeparator:"," envDefault:"video/mp4,video/webm,video/quicktime"`
	MaxAltLength      int      `env:"MEDIA_MAX_ALT_LENGTH" envDefault:"500"`
	MaxTagLength      int      `env:"MEDIA_MAX_TAG_LENGTH" envDefault:"50"`
	MaxTags           int      `env:"MEDIA_MAX_TAGS" envDefault:"20"`
	BulkDeleteMax     int      `env:"MEDIA_BULK_DELETE_MAX" envDefault:"50"`
	BulkTagsMax       int      `env:"MEDIA_BULK_TAGS_MAX" envDefault:"100"`
	ListDefaultLimit  int      `env:"MEDIA_LIST_DEFAULT_LIMIT" envDefault:"20"`
	ListMaxLimit      int      `env:"MEDIA_LIST_MAX_LIMIT" envDefault:"100"`

	// Derivatives
	ThumbnailSize    int           `env:"MEDIA_THUMBNAIL_SIZE" envDefault:"300"`
	ThumbnailQuality int           `env:"MEDIA_THUMBNAIL_QUALITY" envDefault:"80"`
	ThumbnailMaxPix  int64         `env:"MEDIA_THUMBNAIL_MAX_PIXELS" envDefault:"50000000"`
	FFmpegPath       string        `env:"MEDIA_FFMPEG_PATH" envDefault:"ffmpeg"`
	FFmpegTimeout    time.Duration `env:"MEDIA_FFMPEG_TIMEOUT" envDefault:"15s"`
	VideoFrameOffset time.Duration `env:"MEDIA_VIDEO_FRAME_OFFSET" envDefault:"1s"`
	WorkDir          string        `env:"MEDIA_WORK_DIR"`

	// Cleanup
	CleanupScheduleEnabled bool   `env:"MEDIA_CLEANUP_SCHEDULE_ENABLED" envDefault:"false"`
	CleanupCron            string `env:"MEDIA_CLEANUP_CRON" envDefault:"0 * * * *"`
	CleanupMaxAgeHours     int    `env:"MEDIA_CLEANUP_MAX_AGE_HOURS" envDefault:"24"`

	// Authentication
	AuthEnabled bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer  string `env:"AUTH_ISSUER"`
	Account     string `env:"ACCOUNT"`
	AuthJWKSURL string `env:"AUTH_JWKS_URL"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.S3Bucket = strings.TrimSpace(c.S3Bucket)
	c.S3AccessKeyID = strings.TrimSpace(c.S3AccessKeyID)
	c.S3SecretKey = strings.TrimSpace(c.S3SecretKey)
	c.S3Endpoint = strings.TrimSpace(c.S3Endpoint)
	c.S3PublicEndpoint = strings.TrimSpace(c.S3PublicEndpoint)
	c.LocalStoragePath = strings.TrimSpace(c.LocalStoragePath)
	c.LocalStorageBaseURL = strings.TrimSuffix(strings.TrimSpace(c.LocalStorageBaseURL), "/")
	c.AllowedImageMIMEs = normalizeList(c.AllowedImageMIMEs)
	c.AllowedVideoMIMEs = normalizeList(c.AllowedVideoMIMEs)

	if c.MaxMediaBytes <= 0 {
		c.MaxMediaBytes = 50 * 1024 * 1024
	}
	if c.ThumbnailQuality < 1 || c.ThumbnailQuality > 100 {
		c.ThumbnailQuality = 80
	}
	if c.ThumbnailSize <= 0 {
		c.ThumbnailSize = 300
	}
	if c.ThumbnailMaxPix <= 0 {
		c.ThumbnailMaxPix = 50_000_000
	}
	if strings.TrimSpace(c.WorkDir) == "" {
		c.WorkDir = os.TempDir()
	}
	if c.ListMaxLimit <= 0 {
		c.ListMaxLimit = 100
	}
	if c.ListDefaultLimit <= 0 || c.ListDefaultLimit > c.ListMaxLimit {
		c.ListDefaultLimit = min(20, c.ListMaxLimit)
	}

	if c.LocalStoragePath == "" {
		return fmt.Errorf("MEDIA_LOCAL_STORAGE_PATH must not be empty")
	}
	if len(c.AllowedImageMIMEs)+len(c.AllowedVideoMIMEs) == 0 {
		return fmt.Errorf("at least one allowed mime type must be configured")
	}
	if c.CleanupScheduleEnabled && c.CleanupMaxAgeHours < 1 {
		return fmt.Errorf("MEDIA_CLEANUP_MAX_AGE_HOURS must be at least 1 when the cleanup schedule is enabled")
	}
	if c.AuthEnabled {
		if strings.TrimSpace(c.AuthIssuer) == "" {
			return fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(c.AuthJWKSURL) == "" {
			return fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
	}
	return nil
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// GetDatabaseWriteDSN returns the write database connection string.
func (c *Config) GetDatabaseWriteDSN() string {
	return c.DBPostgresqlWriteDSN
}

// GetDatabaseReadDSN returns the read database connection string.
// Falls back to the write DSN when no replica is configured.
func (c *Config) GetDatabaseReadDSN() string {
	if c.DBPostgresqlRead1DSN != "" {
		return c.DBPostgresqlRead1DSN
	}
	return c.GetDatabaseWriteDSN()
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// ObjectStorageConfigured reports whether bucket and credentials are present.
func (c *Config) ObjectStorageConfigured() bool {
	return c.S3Bucket != "" && c.S3AccessKeyID != "" && c.S3SecretKey != ""
}

// MediaPolicy derives the immutable upload policy handed to the media domain.
func (c *Config) MediaPolicy() media.Policy {
	return media.Policy{
		ImageMIMEs:       append([]string(nil), c.AllowedImageMIMEs...),
		VideoMIMEs:       append([]string(nil), c.AllowedVideoMIMEs...),
		MaxBytes:         c.MaxMediaBytes,
		MaxAltLength:     c.MaxAltLength,
		MaxTagLength:     c.MaxTagLength,
		MaxTags:          c.MaxTags,
		BulkDeleteMax:    c.BulkDeleteMax,
		BulkTagsMax:      c.BulkTagsMax,
		ListDefaultLimit: c.ListDefaultLimit,
		ListMaxLimit:     c.ListMaxLimit,
	}
}
