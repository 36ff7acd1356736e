package media

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"recipehub/media-api/internal/utils/platformerrors"
)

type memoryRepository struct {
	mu        sync.Mutex
	records   map[string]*Record
	createErr error
	lastList  ListFilter
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{records: make(map[string]*Record)}
}

func (r *memoryRepository) Create(_ context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	clone := *record
	r.records[record.ID] = &clone
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (r *memoryRepository) Update(_ context.Context, id string, patch Patch) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	if patch.AltText != nil {
		rec.AltText = *patch.AltText
	}
	if patch.Tags != nil {
		rec.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.Status != nil {
		rec.Status = *patch.Status
	}
	if patch.URL != nil {
		rec.URL = *patch.URL
	}
	rec.UpdatedAt = patch.UpdatedAt
	clone := *rec
	return &clone, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	delete(r.records, id)
	return rec, nil
}

func (r *memoryRepository) List(_ context.Context, filter ListFilter) (*ListResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = filter
	items := make([]*Record, 0, len(r.records))
	for _, rec := range r.records {
		clone := *rec
		items = append(items, &clone)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	total := int64(len(items))
	hasNext := len(items) > filter.Limit
	if hasNext {
		items = items[:filter.Limit]
	}
	return &ListResult{Items: items, HasNext: hasNext, Total: total}, nil
}

func (r *memoryRepository) IncrementUsage(_ context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return false, nil
	}
	rec.UsageCount++
	rec.LastUsedAt = &at
	return true, nil
}

func (r *memoryRepository) Stats(_ context.Context, _ StatsFilter) (*Stats, error) {
	return &Stats{ByKind: map[Kind]KindStats{}}, nil
}

func (r *memoryRepository) FindStale(_ context.Context, statuses []Status, before time.Time) ([]*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Record
	for _, rec := range r.records {
		for _, st := range statuses {
			if rec.Status == st && rec.CreatedAt.Before(before) {
				clone := *rec
				out = append(out, &clone)
			}
		}
	}
	return out, nil
}

type memoryLocalStore struct {
	mu       sync.Mutex
	files    map[string][]byte
	writeErr error
	deleted  []string
}

func newMemoryLocalStore() *memoryLocalStore {
	return &memoryLocalStore{files: make(map[string][]byte)}
}

func (s *memoryLocalStore) Write(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return "", s.writeErr
	}
	s.files[key] = data
	return "http://files.test/" + key, nil
}

func (s *memoryLocalStore) WriteThumbnail(ctx context.Context, key string, data []byte) (string, error) {
	return s.Write(ctx, key, data, "image/jpeg")
}

func (s *memoryLocalStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	delete(s.files, key)
	return nil
}

func (s *memoryLocalStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type fakeObjectStore struct {
	enabled bool
	deleted []string
}

func (o *fakeObjectStore) Enabled() bool { return o.enabled }

func (o *fakeObjectStore) Presign(_ context.Context, key, mimeType string) (*PresignedUpload, error) {
	if !o.enabled {
		return nil, errors.New("disabled")
	}
	return &PresignedUpload{
		UploadURL: "https://bucket.test/",
		Fields:    map[string]string{"key": key, "Content-Type": mimeType},
		Key:       key,
		PublicURL: o.PublicURL(key),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (o *fakeObjectStore) PublicURL(key string) string { return "https://cdn.test/" + key }

func (o *fakeObjectStore) Delete(_ context.Context, key string) error {
	o.deleted = append(o.deleted, key)
	return nil
}

type fakeThumbnails struct {
	err   error
	calls int
}

func (f *fakeThumbnails) Thumbnail(_ context.Context, _ Kind, _ []byte) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte{0xff, 0xd8, 0xff}, nil
}

type fakeMetadata struct{}

func (fakeMetadata) Extract(kind Kind, _ string, _ []byte) *Metadata {
	if kind != KindImage {
		return &Metadata{Format: "mp4"}
	}
	w, h := 640, 480
	return &Metadata{Width: &w, Height: &h, Format: "png"}
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (a *recordingAudit) Record(_ context.Context, entry AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func (a *recordingAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

func (a *recordingAudit) failures() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := map[string]string{}
	for _, e := range a.entries {
		if e.Err != nil {
			out[e.MediaID] = string(platformerrors.TypeOf(e.Err))
		}
	}
	return out
}
