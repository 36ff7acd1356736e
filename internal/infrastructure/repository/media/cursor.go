package media

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "recipehub/media-api/internal/domain/media"
)

type valueKind int

const (
	valueTime valueKind = iota
	valueInt
	valueString
)

// sortKey is one column of a keyset ordering.
type sortKey struct {
	expr string
	desc bool
	kind valueKind
	get  func(*domain.Record) string
}

const recencyExpr = "COALESCE(last_used_at, created_at)"

func createdAt(r *domain.Record) string { return r.CreatedAt.UTC().Format(time.RFC3339Nano) }
func recordID(r *domain.Record) string  { return r.ID }

// sortKeys returns the ordering for a mode. The id is always the final tie-breaker.
func sortKeys(mode domain.SortMode) []sortKey {
	switch mode {
	case domain.SortOldest:
		return []sortKey{
			{expr: "created_at", kind: valueTime, get: createdAt},
			{expr: "id", kind: valueString, get: recordID},
		}
	case domain.SortName:
		return []sortKey{
			{expr: "original_name", kind: valueString, get: func(r *domain.Record) string { return r.OriginalName }},
			{expr: "id", kind: valueString, get: recordID},
		}
	case domain.SortSize:
		return []sortKey{
			{expr: "size_bytes", desc: true, kind: valueInt, get: func(r *domain.Record) string { return strconv.FormatInt(r.SizeBytes, 10) }},
			{expr: "id", desc: true, kind: valueString, get: recordID},
		}
	case domain.SortKind:
		return []sortKey{
			{expr: "media_kind", kind: valueString, get: func(r *domain.Record) string { return string(r.Kind) }},
			{expr: "created_at", desc: true, kind: valueTime, get: createdAt},
			{expr: "id", desc: true, kind: valueString, get: recordID},
		}
	case domain.SortUsage:
		return []sortKey{
			{expr: "usage_count", desc: true, kind: valueInt, get: func(r *domain.Record) string { return strconv.FormatInt(r.UsageCount, 10) }},
			{expr: recencyExpr, desc: true, kind: valueTime, get: func(r *domain.Record) string {
				at := r.CreatedAt
				if r.LastUsedAt != nil {
					at = *r.LastUsedAt
				}
				return at.UTC().Format(time.RFC3339Nano)
			}},
			{expr: "id", desc: true, kind: valueString, get: recordID},
		}
	default:
		return []sortKey{
			{expr: "created_at", desc: true, kind: valueTime, get: createdAt},
			{expr: "id", desc: true, kind: valueString, get: recordID},
		}
	}
}

type cursorPayload struct {
	Sort   domain.SortMode `json:"s"`
	Values []string        `json:"v"`
}

func encodeCursor(mode domain.SortMode, last *domain.Record) string {
	keys := sortKeys(mode)
	payload := cursorPayload{Sort: mode, Values: make([]string, len(keys))}
	for i, k := range keys {
		payload.Values[i] = k.get(last)
	}
	raw, _ := json.Marshal(payload)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// decodeCursor parses the cursor and converts its values to the column types of mode.
func decodeCursor(cursor string, mode domain.SortMode) ([]any, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("cursor is not base64url: %w", err)
	}
	var payload cursorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("cursor is not valid JSON: %w", err)
	}
	if payload.Sort != mode {
		return nil, fmt.Errorf("cursor was issued for sort %q, not %q", payload.Sort, mode)
	}

	keys := sortKeys(mode)
	if len(payload.Values) != len(keys) {
		return nil, fmt.Errorf("cursor carries %d values, want %d", len(payload.Values), len(keys))
	}
	values := make([]any, len(keys))
	for i, k := range keys {
		v := payload.Values[i]
		switch k.kind {
		case valueTime:
			t, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return nil, fmt.Errorf("cursor value %d: %w", i, err)
			}
			values[i] = t.UTC()
		case valueInt:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("cursor value %d: %w", i, err)
			}
			values[i] = n
		default:
			values[i] = v
		}
	}
	return values, nil
}

// afterCursor restricts tx to rows strictly after values in the keyset ordering:
// (k1 > v1) OR (k1 = v1 AND k2 > v2) OR ...
func afterCursor(tx *gorm.DB, keys []sortKey, values []any) *gorm.DB {
	var (
		clauses []string
		args    []any
	)
	for i, k := range keys {
		var parts []string
		for j := 0; j < i; j++ {
			parts = append(parts, keys[j].expr+" = ?")
			args = append(args, values[j])
		}
		op := ">"
		if k.desc {
			op = "<"
		}
		parts = append(parts, k.expr+" "+op+" ?")
		args = append(args, values[i])
		clauses = append(clauses, "("+strings.Join(parts, " AND ")+")")
	}
	return tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func orderBy(tx *gorm.DB, keys []sortKey) *gorm.DB {
	for _, k := range keys {
		dir := " ASC"
		if k.desc {
			dir = " DESC"
		}
		tx = tx.Order(k.expr + dir)
	}
	return tx
}
