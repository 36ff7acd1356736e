package media

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domain "recipehub/media-api/internal/domain/media"
	"recipehub/media-api/internal/infrastructure/database"
	"recipehub/media-api/internal/utils/platformerrors"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "media.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(context.Background(), db, zerolog.Nop()))
	return NewRepository(db)
}

func newRecord(i int, kind domain.Kind) *domain.Record {
	created := baseTime.Add(time.Duration(i) * time.Minute)
	return &domain.Record{
		ID:             fmt.Sprintf("med_%02d", i),
		GeneratedName:  fmt.Sprintf("%d-abc-file%02d.png", i, i),
		OriginalName:   fmt.Sprintf("file%02d.png", i),
		MimeType:       "image/png",
		SizeBytes:      int64(100 * (i + 1)),
		Kind:           kind,
		URL:            fmt.Sprintf("http://localhost/v1/files/images/%02d.png", i),
		UploaderID:     "user-1",
		StorageBackend: domain.BackendLocal,
		StorageKey:     fmt.Sprintf("images/%02d.png", i),
		Status:         domain.StatusReady,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func seed(t *testing.T, repo *Repository, records ...*domain.Record) {
	t.Helper()
	for _, r := range records {
		require.NoError(t, repo.Create(context.Background(), r))
	}
}

func ids(items []*domain.Record) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.ID
	}
	return out
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	width, height := 640, 480
	rec := newRecord(1, domain.KindImage)
	rec.Tags = []string{"dessert", "cake"}
	rec.AltText = "chocolate cake"
	rec.Metadata = &domain.Metadata{Width: &width, Height: &height, Format: "png"}
	seed(t, repo, rec)

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"dessert", "cake"}, got.Tags)
	assert.Equal(t, "chocolate cake", got.AltText)
	require.NotNil(t, got.Metadata)
	assert.Equal(t, 640, *got.Metadata.Width)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))

	missing, err := repo.GetByID(ctx, "med_missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_UpdatePatchesOnlyGivenFields(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	rec := newRecord(1, domain.KindImage)
	rec.AltText = "before"
	rec.Tags = []string{"old"}
	seed(t, repo, rec)

	tags := []string{"new", "fresh"}
	status := domain.StatusFailed
	got, err := repo.Update(ctx, rec.ID, domain.Patch{Tags: &tags, Status: &status, UpdatedAt: baseTime.Add(time.Hour)})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "before", got.AltText)
	assert.Equal(t, []string{"new", "fresh"}, got.Tags)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.True(t, baseTime.Add(time.Hour).Equal(got.UpdatedAt))

	missing, err := repo.Update(ctx, "med_missing", domain.Patch{UpdatedAt: baseTime})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_DeleteReturnsSnapshot(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	rec := newRecord(1, domain.KindImage)
	rec.Tags = []string{"salad"}
	seed(t, repo, rec)

	removed, err := repo.Delete(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, rec.StorageKey, removed.StorageKey)
	assert.Equal(t, []string{"salad"}, removed.Tags)

	again, err := repo.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, again)

	page, err := repo.List(ctx, domain.ListFilter{Tags: []string{"salad"}, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestRepository_ListPaginatesWithCursor(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		seed(t, repo, newRecord(i, domain.KindImage))
	}

	page, err := repo.List(ctx, domain.ListFilter{Sort: domain.SortNewest, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"med_04", "med_03"}, ids(page.Items))
	assert.True(t, page.HasNext)
	assert.Equal(t, int64(5), page.Total)
	require.NotEmpty(t, page.NextCursor)

	page, err = repo.List(ctx, domain.ListFilter{Sort: domain.SortNewest, Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Equal(t, []string{"med_02", "med_01"}, ids(page.Items))
	assert.True(t, page.HasNext)

	page, err = repo.List(ctx, domain.ListFilter{Sort: domain.SortNewest, Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Equal(t, []string{"med_00"}, ids(page.Items))
	assert.False(t, page.HasNext)
	assert.Empty(t, page.NextCursor)
	assert.Equal(t, int64(5), page.Total)
}

func TestRepository_ListExactPageHasNoNext(t *testing.T) {
	repo := newTestRepository(t)
	for i := 0; i < 3; i++ {
		seed(t, repo, newRecord(i, domain.KindImage))
	}
	page, err := repo.List(context.Background(), domain.ListFilter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.False(t, page.HasNext)
}

func TestRepository_ListSortModes(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	a := newRecord(0, domain.KindVideo)
	a.OriginalName = "zucchini.mp4"
	b := newRecord(1, domain.KindImage)
	b.OriginalName = "apple.png"
	c := newRecord(2, domain.KindImage)
	c.OriginalName = "mango.png"
	seed(t, repo, a, b, c)

	tests := []struct {
		sort domain.SortMode
		want []string
	}{
		{domain.SortNewest, []string{"med_02", "med_01", "med_00"}},
		{domain.SortOldest, []string{"med_00", "med_01", "med_02"}},
		{domain.SortName, []string{"med_01", "med_02", "med_00"}},
		{domain.SortSize, []string{"med_02", "med_01", "med_00"}},
		{domain.SortKind, []string{"med_02", "med_01", "med_00"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			var got []string
			cursor := ""
			for {
				page, err := repo.List(ctx, domain.ListFilter{Sort: tt.sort, Limit: 1, Cursor: cursor})
				require.NoError(t, err)
				got = append(got, ids(page.Items)...)
				if !page.HasNext {
					break
				}
				cursor = page.NextCursor
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepository_ListUsageSort(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seed(t, repo, newRecord(0, domain.KindImage), newRecord(1, domain.KindImage), newRecord(2, domain.KindImage))

	found, err := repo.IncrementUsage(ctx, "med_00", baseTime.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, found)
	_, err = repo.IncrementUsage(ctx, "med_00", baseTime.Add(2*time.Hour))
	require.NoError(t, err)
	_, err = repo.IncrementUsage(ctx, "med_01", baseTime.Add(3*time.Hour))
	require.NoError(t, err)
	_, err = repo.IncrementUsage(ctx, "med_02", baseTime.Add(30*time.Minute))
	require.NoError(t, err)

	var got []string
	cursor := ""
	for {
		page, err := repo.List(ctx, domain.ListFilter{Sort: domain.SortUsage, Limit: 1, Cursor: cursor})
		require.NoError(t, err)
		got = append(got, ids(page.Items)...)
		if !page.HasNext {
			break
		}
		cursor = page.NextCursor
	}
	assert.Equal(t, []string{"med_00", "med_01", "med_02"}, got)

	rec, err := repo.GetByID(ctx, "med_00")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.UsageCount)
	require.NotNil(t, rec.LastUsedAt)
	assert.True(t, baseTime.Add(2*time.Hour).Equal(*rec.LastUsedAt))

	found, err = repo.IncrementUsage(ctx, "med_missing", baseTime)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRepository_ListFilters(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	cake := newRecord(0, domain.KindImage)
	cake.Tags = []string{"dessert"}
	cake.AltText = "Chocolate Cake"
	soup := newRecord(1, domain.KindImage)
	soup.Tags = []string{"dinner", "soup"}
	soup.UploaderID = "user-2"
	clip := newRecord(2, domain.KindVideo)
	clip.Status = domain.StatusUploading
	clip.OriginalName = "knife_skills.mp4"
	seed(t, repo, cake, soup, clip)

	tests := []struct {
		name   string
		filter domain.ListFilter
		want   []string
	}{
		{"kind", domain.ListFilter{Kind: domain.KindVideo}, []string{"med_02"}},
		{"status", domain.ListFilter{Status: domain.StatusReady}, []string{"med_01", "med_00"}},
		{"uploader", domain.ListFilter{UploaderID: "user-2"}, []string{"med_01"}},
		{"tags any", domain.ListFilter{Tags: []string{"dessert", "soup"}}, []string{"med_01", "med_00"}},
		{"search alt case insensitive", domain.ListFilter{Search: "chocolate"}, []string{"med_00"}},
		{"search underscore literal", domain.ListFilter{Search: "knife_"}, []string{"med_02"}},
		{"search percent literal", domain.ListFilter{Search: "%"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Limit = 10
			page, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(page.Items))
			assert.Equal(t, int64(len(tt.want)), page.Total)
		})
	}
}

func TestRepository_ListRejectsBadCursor(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		seed(t, repo, newRecord(i, domain.KindImage))
	}

	page, err := repo.List(ctx, domain.ListFilter{Sort: domain.SortNewest, Limit: 1})
	require.NoError(t, err)

	_, err = repo.List(ctx, domain.ListFilter{Sort: domain.SortSize, Limit: 1, Cursor: page.NextCursor})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = repo.List(ctx, domain.ListFilter{Limit: 1, Cursor: "!!not-base64!!"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestRepository_Stats(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seed(t, repo, newRecord(0, domain.KindImage), newRecord(1, domain.KindImage), newRecord(2, domain.KindVideo))
	_, err := repo.IncrementUsage(ctx, "med_00", baseTime)
	require.NoError(t, err)

	stats, err := repo.Stats(ctx, domain.StatsFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total.Count)
	assert.Equal(t, int64(600), stats.Total.Bytes)
	assert.InDelta(t, 1.0/3.0, stats.Total.AvgUsage, 1e-9)
	assert.Equal(t, int64(2), stats.ByKind[domain.KindImage].Count)
	assert.Equal(t, int64(300), stats.ByKind[domain.KindImage].Bytes)
	assert.InDelta(t, 0.5, stats.ByKind[domain.KindImage].AvgUsage, 1e-9)
	assert.Equal(t, int64(1), stats.ByKind[domain.KindVideo].Count)

	from := baseTime.Add(90 * time.Second)
	stats, err = repo.Stats(ctx, domain.StatsFilter{From: &from})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total.Count)
	assert.Equal(t, int64(0), stats.ByKind[domain.KindImage].Count)

	stats, err = repo.Stats(ctx, domain.StatsFilter{UploaderID: "nobody"})
	require.NoError(t, err)
	assert.Zero(t, stats.Total.Count)
	assert.Zero(t, stats.Total.AvgUsage)
}

func TestRepository_FindStale(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	old := newRecord(0, domain.KindImage)
	old.Status = domain.StatusUploading
	failed := newRecord(1, domain.KindImage)
	failed.Status = domain.StatusFailed
	fresh := newRecord(30, domain.KindImage)
	fresh.Status = domain.StatusUploading
	ready := newRecord(2, domain.KindImage)
	seed(t, repo, old, failed, fresh, ready)

	stale, err := repo.FindStale(ctx, domain.StaleStatuses(), baseTime.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"med_00", "med_01"}, ids(stale))
}
