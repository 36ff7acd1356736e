package responses

import (
	"time"

	"recipehub/media-api/internal/domain/media"
)

// UploadModeResponse tells clients which upload path to use.
type UploadModeResponse struct {
	Mode             media.Backend `json:"mode"`
	PresignAvailable bool          `json:"presign_available"`
	MaxBytes         int64         `json:"max_bytes"`
	AllowedMimeTypes []string      `json:"allowed_mime_types"`
}

// PresignResponse is the grant a client uses to POST bytes to object storage.
type PresignResponse struct {
	UploadURL string            `json:"upload_url"`
	Fields    map[string]string `json:"upload_fields"`
	Key       string            `json:"storage_key"`
	PublicURL string            `json:"public_url"`
	ExpiresAt time.Time         `json:"expires_at"`
	ExpiresIn int64             `json:"expires_in"`
}

func NewPresignResponse(upload *media.PresignedUpload, now time.Time) PresignResponse {
	expiresIn := int64(upload.ExpiresAt.Sub(now).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return PresignResponse{
		UploadURL: upload.UploadURL,
		Fields:    upload.Fields,
		Key:       upload.Key,
		PublicURL: upload.PublicURL,
		ExpiresAt: upload.ExpiresAt,
		ExpiresIn: expiresIn,
	}
}

// PageInfo carries keyset pagination state.
type PageInfo struct {
	NextCursor string `json:"next_cursor,omitempty"`
	HasNext    bool   `json:"has_next"`
}

// ListResponse is one page of media records.
type ListResponse struct {
	Items    []*media.Record `json:"items"`
	PageInfo PageInfo        `json:"page_info"`
	Total    int64           `json:"total"`
}

func NewListResponse(result *media.ListResult) ListResponse {
	items := result.Items
	if items == nil {
		items = []*media.Record{}
	}
	return ListResponse{
		Items:    items,
		PageInfo: PageInfo{NextCursor: result.NextCursor, HasNext: result.HasNext},
		Total:    result.Total,
	}
}

// BulkResponse mirrors media.BulkResult with non-nil lists.
type BulkResponse struct {
	Processed []media.BulkItem    `json:"processed"`
	Failed    []media.BulkFailure `json:"failed"`
}

func NewBulkResponse(result *media.BulkResult) BulkResponse {
	resp := BulkResponse{Processed: result.Processed, Failed: result.Failed}
	if resp.Processed == nil {
		resp.Processed = []media.BulkItem{}
	}
	if resp.Failed == nil {
		resp.Failed = []media.BulkFailure{}
	}
	return resp
}
