package media

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "recipehub/media-api/internal/domain/media"
	"recipehub/media-api/internal/infrastructure/database/entities"
	"recipehub/media-api/internal/utils/platformerrors"
)

const codeInvalidCursor = "media-list-invalid-cursor"

// Repository handles media record persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ domain.Repository = (*Repository)(nil)

func (r *Repository) Create(ctx context.Context, record *domain.Record) error {
	entity, err := toEntity(record)
	if err != nil {
		return dbError(ctx, "failed to encode media metadata", err, "media-repo-encode")
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Create(&entity).Error; err != nil {
			return err
		}
		return replaceTags(tx, record.ID, record.Tags)
	})
	if err != nil {
		return dbError(ctx, "failed to create media record", err, "media-repo-create")
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	entity, err := findByID(r.db.WithContext(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError(ctx, "failed to get media by id", err, "media-repo-get")
	}
	return mapEntity(entity), nil
}

// Update overwrites only the fields present in patch.
func (r *Repository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Record, error) {
	var updated *entities.MediaRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findByID(tx, id); err != nil {
			return err
		}

		columns := map[string]any{"updated_at": patch.UpdatedAt}
		if patch.AltText != nil {
			columns["alt_text"] = *patch.AltText
		}
		if patch.Status != nil {
			columns["status"] = string(*patch.Status)
		}
		if patch.URL != nil {
			columns["url"] = *patch.URL
		}
		if err := tx.Model(&entities.MediaRecord{}).Where("id = ?", id).UpdateColumns(columns).Error; err != nil {
			return err
		}
		if patch.Tags != nil {
			if err := replaceTags(tx, id, *patch.Tags); err != nil {
				return err
			}
		}

		entity, err := findByID(tx, id)
		if err != nil {
			return err
		}
		updated = entity
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError(ctx, "failed to update media record", err, "media-repo-update")
	}
	return mapEntity(updated), nil
}

// Delete removes the row and its tags, returning the removed snapshot.
func (r *Repository) Delete(ctx context.Context, id string) (*domain.Record, error) {
	var removed *entities.MediaRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entity, err := findByID(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("media_id = ?", id).Delete(&entities.MediaTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&entities.MediaRecord{}).Error; err != nil {
			return err
		}
		removed = entity
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError(ctx, "failed to delete media record", err, "media-repo-delete")
	}
	return mapEntity(removed), nil
}

func (r *Repository) List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult, error) {
	mode := filter.Sort
	if mode == "" {
		mode = domain.SortNewest
	}
	keys := sortKeys(mode)

	var total int64
	if err := applyFilters(r.db.WithContext(ctx).Model(&entities.MediaRecord{}), filter).Count(&total).Error; err != nil {
		return nil, dbError(ctx, "failed to count media records", err, "media-repo-count")
	}

	query := applyFilters(r.db.WithContext(ctx).Model(&entities.MediaRecord{}), filter)
	if filter.Cursor != "" {
		values, err := decodeCursor(filter.Cursor, mode)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeValidation,
				"invalid cursor", err, codeInvalidCursor)
		}
		query = afterCursor(query, keys, values)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var rows []entities.MediaRecord
	err := orderBy(query, keys).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, dbError(ctx, "failed to list media records", err, "media-repo-list")
	}

	hasNext := len(rows) > limit
	if hasNext {
		rows = rows[:limit]
	}

	result := &domain.ListResult{Items: make([]*domain.Record, 0, len(rows)), HasNext: hasNext, Total: total}
	for i := range rows {
		result.Items = append(result.Items, mapEntity(&rows[i]))
	}
	if hasNext {
		result.NextCursor = encodeCursor(mode, result.Items[len(result.Items)-1])
	}
	return result, nil
}

// IncrementUsage bumps usage_count atomically in SQL.
func (r *Repository) IncrementUsage(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entities.MediaRecord{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"usage_count":  gorm.Expr("usage_count + ?", 1),
			"last_used_at": at,
		})
	if res.Error != nil {
		return false, dbError(ctx, "failed to increment media usage", res.Error, "media-repo-usage")
	}
	return res.RowsAffected > 0, nil
}

type kindAggregate struct {
	MediaKind string
	Count     int64
	Bytes     int64
	AvgUsage  float64
}

func (r *Repository) Stats(ctx context.Context, filter domain.StatsFilter) (*domain.Stats, error) {
	query := r.db.WithContext(ctx).Model(&entities.MediaRecord{})
	if filter.UploaderID != "" {
		query = query.Where("uploader_id = ?", filter.UploaderID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", filter.To.UTC())
	}

	var rows []kindAggregate
	err := query.
		Select("media_kind, COUNT(*) AS count, COALESCE(SUM(size_bytes), 0) AS bytes, COALESCE(AVG(usage_count), 0) AS avg_usage").
		Group("media_kind").
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(ctx, "failed to aggregate media stats", err, "media-repo-stats")
	}

	stats := &domain.Stats{ByKind: map[domain.Kind]domain.KindStats{
		domain.KindImage: {},
		domain.KindVideo: {},
	}}
	var usageSum float64
	for _, row := range rows {
		stats.ByKind[domain.Kind(row.MediaKind)] = domain.KindStats{Count: row.Count, Bytes: row.Bytes, AvgUsage: row.AvgUsage}
		stats.Total.Count += row.Count
		stats.Total.Bytes += row.Bytes
		usageSum += row.AvgUsage * float64(row.Count)
	}
	if stats.Total.Count > 0 {
		stats.Total.AvgUsage = usageSum / float64(stats.Total.Count)
	}
	return stats, nil
}

func (r *Repository) FindStale(ctx context.Context, statuses []domain.Status, before time.Time) ([]*domain.Record, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	var rows []entities.MediaRecord
	err := r.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?", names, before.UTC()).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, dbError(ctx, "failed to find stale media", err, "media-repo-stale")
	}

	records := make([]*domain.Record, 0, len(rows))
	for i := range rows {
		records = append(records, mapEntity(&rows[i]))
	}
	return records, nil
}

func applyFilters(tx *gorm.DB, filter domain.ListFilter) *gorm.DB {
	if filter.Kind != "" {
		tx = tx.Where("media_kind = ?", string(filter.Kind))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.UploaderID != "" {
		tx = tx.Where("uploader_id = ?", filter.UploaderID)
	}
	if len(filter.Tags) > 0 {
		tx = tx.Where("id IN (?)", tx.Session(&gorm.Session{NewDB: true}).
			Model(&entities.MediaTag{}).Select("media_id").Where("tag IN ?", filter.Tags))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		tx = tx.Where(
			`(LOWER(generated_name) LIKE ? ESCAPE '\' OR LOWER(original_name) LIKE ? ESCAPE '\' OR LOWER(alt_text) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}
	return tx
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func findByID(tx *gorm.DB, id string) (*entities.MediaRecord, error) {
	var entity entities.MediaRecord
	err := tx.Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func replaceTags(tx *gorm.DB, id string, tags []string) error {
	if err := tx.Where("media_id = ?", id).Delete(&entities.MediaTag{}).Error; err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}
	rows := make([]entities.MediaTag, len(tags))
	for i, tag := range tags {
		rows[i] = entities.MediaTag{MediaID: id, Tag: tag, Position: i}
	}
	return tx.Create(&rows).Error
}

func dbError(ctx context.Context, message string, err error, code string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, message, err, code)
}

func toEntity(record *domain.Record) (entities.MediaRecord, error) {
	var meta datatypes.JSON
	if record.Metadata != nil {
		raw, err := json.Marshal(record.Metadata)
		if err != nil {
			return entities.MediaRecord{}, err
		}
		meta = datatypes.JSON(raw)
	}
	return entities.MediaRecord{
		ID:             record.ID,
		GeneratedName:  record.GeneratedName,
		OriginalName:   record.OriginalName,
		MimeType:       record.MimeType,
		SizeBytes:      record.SizeBytes,
		MediaKind:      string(record.Kind),
		URL:            record.URL,
		ThumbnailURL:   record.ThumbnailURL,
		AltText:        record.AltText,
		UploaderID:     record.UploaderID,
		StorageBackend: string(record.StorageBackend),
		StorageKey:     record.StorageKey,
		Metadata:       meta,
		Status:         string(record.Status),
		UsageCount:     record.UsageCount,
		LastUsedAt:     record.LastUsedAt,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}, nil
}

func mapEntity(entity *entities.MediaRecord) *domain.Record {
	record := &domain.Record{
		ID:             entity.ID,
		GeneratedName:  entity.GeneratedName,
		OriginalName:   entity.OriginalName,
		MimeType:       entity.MimeType,
		SizeBytes:      entity.SizeBytes,
		Kind:           domain.Kind(entity.MediaKind),
		URL:            entity.URL,
		ThumbnailURL:   entity.ThumbnailURL,
		AltText:        entity.AltText,
		Tags:           make([]string, 0, len(entity.Tags)),
		UploaderID:     entity.UploaderID,
		StorageBackend: domain.Backend(entity.StorageBackend),
		StorageKey:     entity.StorageKey,
		Status:         domain.Status(entity.Status),
		UsageCount:     entity.UsageCount,
		CreatedAt:      entity.CreatedAt.UTC(),
		UpdatedAt:      entity.UpdatedAt.UTC(),
	}
	if entity.LastUsedAt != nil {
		at := entity.LastUsedAt.UTC()
		record.LastUsedAt = &at
	}
	for _, tag := range entity.Tags {
		record.Tags = append(record.Tags, tag.Tag)
	}
	if len(entity.Metadata) > 0 {
		var meta domain.Metadata
		if err := json.Unmarshal(entity.Metadata, &meta); err == nil {
			record.Metadata = &meta
		}
	}
	return record
}
