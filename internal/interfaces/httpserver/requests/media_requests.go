package requests

import (
	"strings"

	"recipehub/media-api/internal/domain/media"
)

// PresignRequest asks for a direct-to-storage upload grant.
type PresignRequest struct {
	Filename string `json:"filename" binding:"required"`
	MimeType string `json:"mime_type" binding:"required"`
}

func (r PresignRequest) ToDomain() media.PresignInput {
	return media.PresignInput{Filename: r.Filename, MimeType: r.MimeType}
}

// ConfirmRequest registers an object uploaded with a presigned grant.
type ConfirmRequest struct {
	StorageKey string   `json:"storage_key" binding:"required"`
	URL        string   `json:"url"`
	Filename   string   `json:"filename"`
	MimeType   string   `json:"mime_type"`
	Alt        *string  `json:"alt"`
	Tags       []string `json:"tags"`
}

func (r ConfirmRequest) ToDomain() media.ConfirmInput {
	return media.ConfirmInput{
		StorageKey: r.StorageKey,
		URL:        r.URL,
		Filename:   r.Filename,
		MimeType:   r.MimeType,
		AltText:    r.Alt,
		Tags:       r.Tags,
	}
}

// UpdateRequest patches the mutable attributes of a record.
type UpdateRequest struct {
	Alt    *string   `json:"alt"`
	Tags   *[]string `json:"tags"`
	Status *string   `json:"status"`
	URL    *string   `json:"url"`
}

func (r UpdateRequest) ToDomain() media.UpdateInput {
	in := media.UpdateInput{AltText: r.Alt, Tags: r.Tags, URL: r.URL}
	if r.Status != nil {
		status := media.Status(strings.ToLower(strings.TrimSpace(*r.Status)))
		in.Status = &status
	}
	return in
}

// BulkDeleteRequest lists ids to delete.
type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// BulkTagsRequest replaces the tags of every listed record.
type BulkTagsRequest struct {
	IDs  []string `json:"ids" binding:"required"`
	Tags []string `json:"tags"`
}

// CleanupRequest triggers a sweep of stale records.
type CleanupRequest struct {
	MaxAgeHours int `json:"max_age_hours" binding:"required"`
}

// SplitList parses a comma separated query or form value.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
