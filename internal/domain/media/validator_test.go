package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(DefaultPolicy())

	tests := []struct {
		name  string
		mime  string
		size  int64
		codes []string
	}{
		{name: "png ok", mime: "image/png", size: 2 * 1024 * 1024},
		{name: "mp4 ok", mime: "video/mp4", size: 1},
		{name: "at ceiling", mime: "image/jpeg", size: 50 * 1024 * 1024},
		{name: "unsupported", mime: "application/x-msdownload", size: 10, codes: []string{CodeUnsupportedMIME}},
		{name: "empty", mime: "image/png", size: 0, codes: []string{CodeEmptyFile}},
		{name: "too large", mime: "video/webm", size: 50*1024*1024 + 1, codes: []string{CodeFileTooLarge}},
		{name: "both", mime: "text/plain", size: 0, codes: []string{CodeUnsupportedMIME, CodeEmptyFile}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := v.Validate(tt.mime, tt.size)
			var codes []string
			for _, violation := range violations {
				codes = append(codes, violation.Code)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestValidator_ValidateAttributes(t *testing.T) {
	v := NewValidator(DefaultPolicy())

	tags, violations := v.ValidateAttributes(nil, []string{" Dessert ", "dessert", "", "VEGAN"})
	assert.Empty(t, violations)
	assert.Equal(t, []string{"dessert", "vegan"}, tags)

	longAlt := strings.Repeat("a", 501)
	_, violations = v.ValidateAttributes(&longAlt, nil)
	require.Len(t, violations, 1)
	assert.Equal(t, CodeAltTooLong, violations[0].Code)

	okAlt := strings.Repeat("é", 500)
	_, violations = v.ValidateAttributes(&okAlt, nil)
	assert.Empty(t, violations)

	_, violations = v.ValidateAttributes(nil, []string{strings.Repeat("t", 51)})
	require.Len(t, violations, 1)
	assert.Equal(t, CodeTagTooLong, violations[0].Code)

	many := make([]string, 21)
	for i := range many {
		many[i] = "tag" + strings.Repeat("x", i)
	}
	_, violations = v.ValidateAttributes(nil, many)
	require.Len(t, violations, 1)
	assert.Equal(t, CodeTooManyTags, violations[0].Code)
}

func TestPolicy_MimeForExtension(t *testing.T) {
	p := DefaultPolicy()

	tests := map[string]string{
		".mp4":  "video/mp4",
		".MOV":  "video/quicktime",
		".jpeg": "image/jpeg",
		".jpg":  "image/jpeg",
		".webp": "image/webp",
	}
	for ext, want := range tests {
		got, ok := p.MimeForExtension(ext)
		assert.True(t, ok, ext)
		assert.Equal(t, want, got, ext)
	}

	_, ok := p.MimeForExtension(".exe")
	assert.False(t, ok)
	_, ok = p.MimeForKey("media/123-clip")
	assert.False(t, ok)
}

func TestNormalizeMIME(t *testing.T) {
	assert.Equal(t, "image/png", NormalizeMIME(" Image/PNG "))
	assert.Equal(t, "video/mp4", NormalizeMIME("video/mp4; codecs=avc1"))
}
