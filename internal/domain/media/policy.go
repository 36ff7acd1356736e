package media

import (
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Policy is the immutable set of limits applied to uploads and queries.
type Policy struct {
	ImageMIMEs       []string
	VideoMIMEs       []string
	MaxBytes         int64
	MaxAltLength     int
	MaxTagLength     int
	MaxTags          int
	BulkDeleteMax    int
	BulkTagsMax      int
	ListDefaultLimit int
	ListMaxLimit     int
}

// DefaultPolicy returns the stock limits.
func DefaultPolicy() Policy {
	return Policy{
		ImageMIMEs:       []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		VideoMIMEs:       []string{"video/mp4", "video/webm", "video/quicktime"},
		MaxBytes:         50 * 1024 * 1024,
		MaxAltLength:     500,
		MaxTagLength:     50,
		MaxTags:          20,
		BulkDeleteMax:    50,
		BulkTagsMax:      100,
		ListDefaultLimit: 20,
		ListMaxLimit:     100,
	}
}

// fallback extensions for when mimetype has no entry.
var knownExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
}

var extensionAliases = map[string]string{
	".jpeg": "image/jpeg",
	".jpe":  "image/jpeg",
	".m4v":  "video/mp4",
	".qt":   "video/quicktime",
}

// KindOf classifies a normalized mime type against the allow-lists.
func (p Policy) KindOf(mimeType string) (Kind, bool) {
	for _, m := range p.ImageMIMEs {
		if m == mimeType {
			return KindImage, true
		}
	}
	for _, m := range p.VideoMIMEs {
		if m == mimeType {
			return KindVideo, true
		}
	}
	return "", false
}

// MimeForExtension resolves an allowed mime type from a file extension such as ".mp4".
func (p Policy) MimeForExtension(ext string) (string, bool) {
	ext = strings.ToLower(ext)
	if ext == "" {
		return "", false
	}
	if alias, ok := extensionAliases[ext]; ok {
		if _, allowed := p.KindOf(alias); allowed {
			return alias, true
		}
	}
	for _, list := range [][]string{p.ImageMIMEs, p.VideoMIMEs} {
		for _, m := range list {
			if ExtensionFor(m) == ext {
				return m, true
			}
		}
	}
	return "", false
}

// MimeForKey infers the mime type of a storage key from its extension.
func (p Policy) MimeForKey(key string) (string, bool) {
	return p.MimeForExtension(path.Ext(key))
}

// ExtensionFor returns the canonical extension, with leading dot, for a mime type.
func ExtensionFor(mimeType string) string {
	if ext, ok := knownExtensions[mimeType]; ok {
		return ext
	}
	if m := mimetype.Lookup(mimeType); m != nil {
		return m.Extension()
	}
	return ""
}

// NormalizeMIME lowercases a declared content type and strips parameters.
func NormalizeMIME(raw string) string {
	if i := strings.Index(raw, ";"); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToLower(strings.TrimSpace(raw))
}
