package media

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"
)

const maxSlugLength = 40

// GenerateName builds a collision-resistant storage name:
// <unix millis>-<16 hex random>-<slug of original base><ext>.
func GenerateName(original, mimeType string, now time.Time) string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(fmt.Sprintf("read random bytes: %v", err))
	}

	base := path.Base(strings.ReplaceAll(original, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	stem := strings.TrimSuffix(base, path.Ext(base))
	if canonical := ExtensionFor(mimeType); canonical != "" && ext != canonical && extensionAliases[ext] != mimeType {
		ext = canonical
	} else if ext == "" || len(ext) > 6 || !isAlnum(ext[1:]) {
		ext = canonical
	}

	return fmt.Sprintf("%d-%s-%s%s", now.UnixMilli(), hex.EncodeToString(buf[:]), slugify(stem), ext)
}

// LocalKey is the storage key of a locally stored primary file.
func LocalKey(kind Kind, name string) string {
	if kind == KindVideo {
		return "videos/" + name
	}
	return "images/" + name
}

// ObjectKey is the storage key reserved for a presigned upload.
func ObjectKey(name string) string {
	return "media/" + name
}

// ThumbnailKey derives the derivative key from the generated name, so it can be
// located again at delete time.
func ThumbnailKey(name string) string {
	return "thumbnails/" + strings.TrimSuffix(name, path.Ext(name)) + "_thumb.jpg"
}

func slugify(value string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		return "file"
	}
	return slug
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return s != ""
}
