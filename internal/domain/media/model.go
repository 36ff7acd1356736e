package media

import "time"

// Kind is the coarse media category governing validation and derivatives.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Backend identifies where the primary bytes of a record live.
type Backend string

const (
	BackendLocal  Backend = "local"
	BackendObject Backend = "object"
)

// Record represents stored media metadata.
type Record struct {
	ID             string     `json:"id"`
	GeneratedName  string     `json:"generated_name"`
	OriginalName   string     `json:"original_name"`
	MimeType       string     `json:"mime_type"`
	SizeBytes      int64      `json:"size_bytes"`
	Kind           Kind       `json:"kind"`
	URL            string     `json:"url"`
	ThumbnailURL   *string    `json:"thumbnail_url"`
	AltText        string     `json:"alt_text"`
	Tags           []string   `json:"tags"`
	UploaderID     string     `json:"uploader_id"`
	StorageBackend Backend    `json:"storage_backend"`
	StorageKey     string     `json:"storage_key"`
	Metadata       *Metadata  `json:"metadata,omitempty"`
	Status         Status     `json:"status"`
	UsageCount     int64      `json:"usage_count"`
	LastUsedAt     *time.Time `json:"last_used_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Metadata holds best-effort properties extracted from the bytes.
type Metadata struct {
	Width    *int     `json:"width,omitempty"`
	Height   *int     `json:"height,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
	Format   string   `json:"format,omitempty"`
}

// UploadInput describes a direct upload through the local backend.
type UploadInput struct {
	Filename          string
	MimeType          string
	Data              []byte
	AltText           *string
	Tags              []string
	ForceLocal        bool
	GenerateThumbnail bool
}

// PresignInput requests an out-of-band upload authorization.
type PresignInput struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
}

// PresignedUpload is the policy-constrained upload grant returned to clients.
type PresignedUpload struct {
	UploadURL string            `json:"upload_url"`
	Fields    map[string]string `json:"upload_fields"`
	Key       string            `json:"storage_key"`
	PublicURL string            `json:"public_url"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// ConfirmInput registers bytes that the client uploaded directly to object storage.
type ConfirmInput struct {
	StorageKey string
	URL        string
	Filename   string
	MimeType   string
	AltText    *string
	Tags       []string
}

// UpdateInput carries the mutable attributes of a record. Nil fields are left unchanged.
type UpdateInput struct {
	AltText *string
	Tags    *[]string
	Status  *Status
	URL     *string
}

// Patch is the validated subset of fields the repository may overwrite.
type Patch struct {
	AltText   *string
	Tags      *[]string
	Status    *Status
	URL       *string
	UpdatedAt time.Time
}

// BulkItem is a successfully processed entry of a bulk operation.
type BulkItem struct {
	ID     string  `json:"id"`
	Record *Record `json:"record,omitempty"`
}

// BulkFailure reports the error type for an entry that could not be processed.
type BulkFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkResult partitions the requested ids into processed and failed entries.
type BulkResult struct {
	Processed []BulkItem    `json:"processed"`
	Failed    []BulkFailure `json:"failed"`
}

// SweepResult summarizes a cleanup pass.
type SweepResult struct {
	DeletedCount int `json:"deleted_count"`
}

// KindStats aggregates usage for one media kind.
type KindStats struct {
	Count    int64   `json:"count"`
	Bytes    int64   `json:"bytes"`
	AvgUsage float64 `json:"avg_usage"`
}

// Stats is the aggregate view of the library.
type Stats struct {
	Total  KindStats          `json:"total"`
	ByKind map[Kind]KindStats `json:"by_kind"`
}
