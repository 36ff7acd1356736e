package media

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Violation describes one failed validation rule.
type Violation struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	CodeUnsupportedMIME = "media-upload-unsupported-mime"
	CodeEmptyFile       = "media-upload-empty-file"
	CodeFileTooLarge    = "media-upload-too-large"
	CodeAltTooLong      = "media-alt-too-long"
	CodeTagTooLong      = "media-tag-too-long"
	CodeTooManyTags     = "media-too-many-tags"
)

// Validator checks uploads against the policy before any I/O happens.
type Validator struct {
	policy Policy
}

func NewValidator(policy Policy) *Validator {
	return &Validator{policy: policy}
}

// Validate checks the declared mime type and byte size.
func (v *Validator) Validate(mimeType string, size int64) []Violation {
	var violations []Violation
	if _, ok := v.policy.KindOf(mimeType); !ok {
		violations = append(violations, Violation{
			Field:   "mime_type",
			Code:    CodeUnsupportedMIME,
			Message: fmt.Sprintf("unsupported mime type %q", mimeType),
		})
	}
	violations = append(violations, v.ValidateSize(size)...)
	return violations
}

// ValidateMIME checks the mime type only, for uploads whose bytes never reach the server.
func (v *Validator) ValidateMIME(mimeType string) []Violation {
	if _, ok := v.policy.KindOf(mimeType); ok {
		return nil
	}
	return []Violation{{
		Field:   "mime_type",
		Code:    CodeUnsupportedMIME,
		Message: fmt.Sprintf("unsupported mime type %q", mimeType),
	}}
}

func (v *Validator) ValidateSize(size int64) []Violation {
	switch {
	case size < 1:
		return []Violation{{Field: "size", Code: CodeEmptyFile, Message: "file is empty"}}
	case size > v.policy.MaxBytes:
		return []Violation{{
			Field:   "size",
			Code:    CodeFileTooLarge,
			Message: fmt.Sprintf("file exceeds max size of %d bytes", v.policy.MaxBytes),
		}}
	}
	return nil
}

// ValidateAttributes checks alt text and tags and returns the normalized tag set.
func (v *Validator) ValidateAttributes(alt *string, tags []string) ([]string, []Violation) {
	var violations []Violation
	if alt != nil && utf8.RuneCountInString(*alt) > v.policy.MaxAltLength {
		violations = append(violations, Violation{
			Field:   "alt",
			Code:    CodeAltTooLong,
			Message: fmt.Sprintf("alt text exceeds %d characters", v.policy.MaxAltLength),
		})
	}

	normalized := NormalizeTags(tags)
	for _, tag := range normalized {
		if utf8.RuneCountInString(tag) > v.policy.MaxTagLength {
			violations = append(violations, Violation{
				Field:   "tags",
				Code:    CodeTagTooLong,
				Message: fmt.Sprintf("tag %q exceeds %d characters", tag, v.policy.MaxTagLength),
			})
		}
	}
	if len(normalized) > v.policy.MaxTags {
		violations = append(violations, Violation{
			Field:   "tags",
			Code:    CodeTooManyTags,
			Message: fmt.Sprintf("at most %d tags are allowed", v.policy.MaxTags),
		})
	}
	return normalized, violations
}

// NormalizeTags trims, lowercases and deduplicates tags, preserving first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
