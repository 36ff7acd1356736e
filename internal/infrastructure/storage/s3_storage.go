package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"recipehub/media-api/internal/config"
	"recipehub/media-api/internal/domain/media"
	"recipehub/media-api/internal/infrastructure/metrics"
)

const backendObject = "object"

var errStorageDisabled = errors.New("object storage is not configured; set MEDIA_S3_BUCKET and credentials to enable presigned uploads")

// S3Storage issues presigned POST policies for S3-compatible storage.
type S3Storage struct {
	bucket         string
	region         string
	endpoint       string
	publicEndpoint string
	pathStyle      bool
	ttl            time.Duration
	maxBytes       int64
	client         *s3.Client
	presigner      *s3.PresignClient
	log            zerolog.Logger
	disabled       bool
}

func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	logger := log.With().Str("component", "s3-storage").Logger()
	storage := &S3Storage{
		bucket:         cfg.S3Bucket,
		region:         cfg.S3Region,
		endpoint:       strings.TrimSuffix(cfg.S3Endpoint, "/"),
		publicEndpoint: strings.TrimSuffix(cfg.S3PublicEndpoint, "/"),
		pathStyle:      cfg.S3UsePathStyle,
		ttl:            cfg.S3PresignTTL,
		maxBytes:       cfg.MaxMediaBytes,
		log:            logger,
	}

	if !cfg.ObjectStorageConfigured() {
		logger.Info().Msg("MEDIA_S3_BUCKET or credentials are not set; uploads use local storage")
		storage.disabled = true
		return storage, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
		if storage.endpoint != "" {
			o.BaseEndpoint = aws.String(storage.endpoint)
		}
	})

	storage.client = client
	storage.presigner = s3.NewPresignClient(client)
	logger.Info().Str("bucket", storage.bucket).Str("endpoint", storage.endpoint).Msg("object storage initialized")
	return storage, nil
}

// Enabled reports whether bucket and credentials are configured.
func (s *S3Storage) Enabled() bool {
	return s != nil && !s.disabled
}

func (s *S3Storage) ensureEnabled() error {
	if !s.Enabled() {
		return errStorageDisabled
	}
	return nil
}

// Presign returns a POST policy restricted to key, the exact content type and
// a size between 1 byte and the configured ceiling.
func (s *S3Storage) Presign(ctx context.Context, key, mimeType string) (upload *media.PresignedUpload, err error) {
	if err := s.ensureEnabled(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() {
		elapsed := time.Since(start).Seconds()
		metrics.RecordPresign(elapsed)
		metrics.RecordStorageOperation(backendObject, "presign", metrics.Status(err), elapsed)
	}()

	req, err := s.presigner.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(mimeType),
	}, func(o *s3.PresignPostOptions) {
		o.Expires = s.ttl
		o.Conditions = []interface{}{
			[]interface{}{"content-length-range", 1, s.maxBytes},
			[]interface{}{"eq", "$Content-Type", mimeType},
		}
	})
	if err != nil {
		return nil, fmt.Errorf("presign post object: %w", err)
	}

	fields := make(map[string]string, len(req.Values)+1)
	for k, v := range req.Values {
		fields[k] = v
	}
	if _, ok := fields["Content-Type"]; !ok {
		fields["Content-Type"] = mimeType
	}

	return &media.PresignedUpload{
		UploadURL: s.externalizeURL(req.URL),
		Fields:    fields,
		Key:       key,
		PublicURL: s.PublicURL(key),
		ExpiresAt: time.Now().Add(s.ttl).UTC(),
	}, nil
}

// PublicURL returns the canonical read URL for key.
func (s *S3Storage) PublicURL(key string) string {
	escaped := escapeKey(key)
	if base := s.publicEndpoint; base != "" {
		if s.pathStyle {
			return base + "/" + s.bucket + "/" + escaped
		}
		return base + "/" + escaped
	}
	if s.endpoint != "" {
		if s.pathStyle {
			return s.endpoint + "/" + s.bucket + "/" + escaped
		}
		if u, err := url.Parse(s.endpoint); err == nil && u.Host != "" {
			u.Host = s.bucket + "." + u.Host
			return strings.TrimSuffix(u.String(), "/") + "/" + escaped
		}
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escaped)
}

// Delete removes the object at key.
func (s *S3Storage) Delete(ctx context.Context, key string) (err error) {
	if err := s.ensureEnabled(); err != nil {
		return err
	}
	start := time.Now()
	defer func() {
		metrics.RecordStorageOperation(backendObject, "delete", metrics.Status(err), time.Since(start).Seconds())
	}()

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// Health performs a simple HeadBucket request.
func (s *S3Storage) Health(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

// externalizeURL rewrites an internal endpoint URL to the public endpoint.
func (s *S3Storage) externalizeURL(raw string) string {
	if s.publicEndpoint == "" || strings.TrimSpace(raw) == "" {
		return raw
	}

	target, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	external, err := url.Parse(s.publicEndpoint)
	if err != nil || external.Scheme == "" || external.Host == "" {
		return raw
	}

	target.Scheme = external.Scheme
	target.Host = external.Host

	if p := strings.TrimSpace(external.Path); p != "" && p != "/" {
		target.Path = joinPublicPath(p, target.Path)
	}

	return target.String()
}

func joinPublicPath(basePath, objectPath string) string {
	base := strings.TrimSuffix(basePath, "/")
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	relative := strings.TrimPrefix(objectPath, "/")
	if relative == "" {
		return base
	}
	return base + "/" + relative
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
