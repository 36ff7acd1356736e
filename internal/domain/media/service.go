package media

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"recipehub/media-api/internal/utils/platformerrors"
	"recipehub/media-api/utils/mediaid"
)

const (
	CodeActorMissing       = "media-actor-missing"
	CodeUsePresign         = "media-upload-use-presign"
	CodeStorageWrite       = "media-upload-storage-write"
	CodePresignUnavailable = "media-presign-unavailable"
	CodePresignFailed      = "media-presign-failed"
	CodeConfirmInvalidKey  = "media-confirm-invalid-key"
	CodeConfirmMissingURL  = "media-confirm-missing-url"
	CodeNotFound           = "media-not-found"
	CodeForbidden          = "media-forbidden"
	CodeInvalidStatus      = "media-update-invalid-status"
	CodeInvalidTransition  = "media-update-invalid-transition"
	CodeEmptyURL           = "media-update-empty-url"
	CodeInvalidSort        = "media-list-invalid-sort"
	CodeInvalidKind        = "media-list-invalid-kind"
	CodeInvalidStatsRange  = "media-stats-invalid-range"
	CodeBulkInvalidSize    = "media-bulk-invalid-size"
	CodeSweepForbidden     = "media-sweep-forbidden"
	CodeSweepInvalidMaxAge = "media-sweep-invalid-max-age"
)

const (
	objectKeyPrefix = "media/"
	tracerName      = "recipehub/media-api/media"

	auditActionUpload     = "media.upload"
	auditActionConfirm    = "media.confirm"
	auditActionUpdate     = "media.update"
	auditActionDelete     = "media.delete"
	auditActionSweep      = "media.sweep"
	auditActionBulkTags   = "media.bulk_tags"
	auditActionBulkDelete = "media.bulk_delete"
)

// Service orchestrates media ingestion, lifecycle and cleanup.
type Service struct {
	policy    Policy
	validator *Validator
	repo      Repository
	local     LocalStore
	object    ObjectStore
	thumbs    ThumbnailGenerator
	meta      MetadataExtractor
	audit     AuditLogger
	log       zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

func NewService(
	policy Policy,
	repo Repository,
	local LocalStore,
	object ObjectStore,
	thumbs ThumbnailGenerator,
	meta MetadataExtractor,
	audit AuditLogger,
	log zerolog.Logger,
) *Service {
	return &Service{
		policy:    policy,
		validator: NewValidator(policy),
		repo:      repo,
		local:     local,
		object:    object,
		thumbs:    thumbs,
		meta:      meta,
		audit:     audit,
		log:       log.With().Str("component", "media-service").Logger(),
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}
}

// Policy returns the limits the service enforces.
func (s *Service) Policy() Policy {
	return s.policy
}

// SelectBackend picks the backend for a new upload: object storage when it is
// configured and the caller did not force local storage.
func (s *Service) SelectBackend(forceLocal bool) Backend {
	if !forceLocal && s.object != nil && s.object.Enabled() {
		return BackendObject
	}
	return BackendLocal
}

// UploadLocal validates and stores bytes on the local backend, renders a
// best-effort thumbnail and persists a ready record.
func (s *Service) UploadLocal(ctx context.Context, actor Actor, in UploadInput) (record *Record, err error) {
	ctx, span := s.tracer.Start(ctx, "media.upload_local")
	defer func() { endSpan(span, err) }()

	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}
	if s.SelectBackend(in.ForceLocal) == BackendObject {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"object storage is active; request a presigned upload instead", nil, CodeUsePresign)
	}

	mimeType := NormalizeMIME(in.MimeType)
	if violations := s.validator.Validate(mimeType, int64(len(in.Data))); len(violations) > 0 {
		return nil, validationError(ctx, violations)
	}
	tags, violations := s.validator.ValidateAttributes(in.AltText, in.Tags)
	if len(violations) > 0 {
		return nil, validationError(ctx, violations)
	}

	kind, _ := s.policy.KindOf(mimeType)
	span.SetAttributes(
		attribute.String("media.kind", string(kind)),
		attribute.Int("media.size_bytes", len(in.Data)),
	)
	s.checkContent(mimeType, in.Data)

	now := s.timestamp()
	name := GenerateName(in.Filename, mimeType, now)
	key := LocalKey(kind, name)

	url, err := s.local.Write(ctx, key, in.Data, mimeType)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeStorage,
			"failed to store media bytes", err, CodeStorageWrite)
	}

	var thumbnailURL *string
	if in.GenerateThumbnail {
		thumbnailURL = s.generateThumbnail(ctx, kind, name, in.Data)
	}

	var metadata *Metadata
	if s.meta != nil {
		metadata = s.meta.Extract(kind, mimeType, in.Data)
	}

	record = &Record{
		ID:             mediaid.New(),
		GeneratedName:  name,
		OriginalName:   originalName(in.Filename, name),
		MimeType:       mimeType,
		SizeBytes:      int64(len(in.Data)),
		Kind:           kind,
		URL:            url,
		ThumbnailURL:   thumbnailURL,
		AltText:        deref(in.AltText),
		Tags:           tags,
		UploaderID:     actor.UserID,
		StorageBackend: BackendLocal,
		StorageKey:     key,
		Metadata:       metadata,
		Status:         StatusReady,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.removeArtifacts(ctx, record)
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist media record")
	}

	s.recordAudit(ctx, AuditEntry{
		Action:  auditActionUpload,
		ActorID: actor.UserID,
		MediaID: record.ID,
		Payload: map[string]any{"storage_key": key, "size_bytes": record.SizeBytes, "mime_type": mimeType},
	})
	s.log.Info().
		Str("media_id", record.ID).
		Str("storage_key", key).
		Int64("size_bytes", record.SizeBytes).
		Bool("thumbnail", thumbnailURL != nil).
		Msg("media uploaded")

	return record, nil
}

// Presign issues a policy-constrained upload grant for the object backend.
// Only the mime type is checked here; the size limit is part of the signed policy.
func (s *Service) Presign(ctx context.Context, actor Actor, in PresignInput) (upload *PresignedUpload, err error) {
	ctx, span := s.tracer.Start(ctx, "media.presign")
	defer func() { endSpan(span, err) }()

	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}
	if s.SelectBackend(false) != BackendObject {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotImplemented,
			"presigned uploads require object storage", nil, CodePresignUnavailable)
	}

	mimeType := NormalizeMIME(in.MimeType)
	if violations := s.validator.ValidateMIME(mimeType); len(violations) > 0 {
		return nil, validationError(ctx, violations)
	}

	key := ObjectKey(GenerateName(in.Filename, mimeType, s.timestamp()))
	upload, err = s.object.Presign(ctx, key, mimeType)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeStorage,
			"failed to presign upload", err, CodePresignFailed)
	}
	span.SetAttributes(attribute.String("media.storage_key", key))
	return upload, nil
}

// Confirm records an object-backend upload the client completed out of band.
// The server never sees these bytes, so the record has size 0 and no thumbnail.
func (s *Service) Confirm(ctx context.Context, actor Actor, in ConfirmInput) (record *Record, err error) {
	ctx, span := s.tracer.Start(ctx, "media.confirm")
	defer func() { endSpan(span, err) }()

	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(in.StorageKey)
	if !strings.HasPrefix(key, objectKeyPrefix) || len(key) == len(objectKeyPrefix) || strings.Contains(key, "..") {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"storage_key must reference a presigned upload", nil, CodeConfirmInvalidKey)
	}

	// Confirm skips the byte checks an upload gets, but the record still needs
	// a Kind, and Kind is only defined for mime types on the allow-list.
	mimeType := NormalizeMIME(in.MimeType)
	if mimeType == "" {
		inferred, ok := s.policy.MimeForKey(key)
		if !ok {
			return nil, validationError(ctx, []Violation{{
				Field:   "mime_type",
				Code:    CodeUnsupportedMIME,
				Message: "cannot infer an allowed mime type from storage_key",
			}})
		}
		mimeType = inferred
	}
	if violations := s.validator.ValidateMIME(mimeType); len(violations) > 0 {
		return nil, validationError(ctx, violations)
	}
	tags, violations := s.validator.ValidateAttributes(in.AltText, in.Tags)
	if len(violations) > 0 {
		return nil, validationError(ctx, violations)
	}

	url := strings.TrimSpace(in.URL)
	if url == "" && s.object != nil && s.object.Enabled() {
		url = s.object.PublicURL(key)
	}
	if url == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"url is required", nil, CodeConfirmMissingURL)
	}

	kind, _ := s.policy.KindOf(mimeType)
	name := path.Base(key)
	now := s.timestamp()
	record = &Record{
		ID:             mediaid.New(),
		GeneratedName:  name,
		OriginalName:   originalName(in.Filename, name),
		MimeType:       mimeType,
		Kind:           kind,
		URL:            url,
		AltText:        deref(in.AltText),
		Tags:           tags,
		UploaderID:     actor.UserID,
		StorageBackend: BackendObject,
		StorageKey:     key,
		Status:         StatusReady,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist media record")
	}

	s.recordAudit(ctx, AuditEntry{
		Action:  auditActionConfirm,
		ActorID: actor.UserID,
		MediaID: record.ID,
		Payload: map[string]any{"storage_key": key, "mime_type": mimeType},
	})
	return record, nil
}

// Get returns a record by id.
func (s *Service) Get(ctx context.Context, actor Actor, id string) (*Record, error) {
	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// Update applies alt, tags, status and url changes on behalf of the owner or an admin.
func (s *Service) Update(ctx context.Context, actor Actor, id string, in UpdateInput) (*Record, error) {
	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(existing.UploaderID) {
		return nil, forbidden(ctx, id)
	}

	patch := Patch{UpdatedAt: s.timestamp()}
	if in.AltText != nil || in.Tags != nil {
		var tags []string
		if in.Tags != nil {
			tags = *in.Tags
		}
		normalized, violations := s.validator.ValidateAttributes(in.AltText, tags)
		if len(violations) > 0 {
			return nil, validationError(ctx, violations)
		}
		patch.AltText = in.AltText
		if in.Tags != nil {
			patch.Tags = &normalized
		}
	}
	if in.Status != nil {
		target := *in.Status
		if !target.IsValid() {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"unknown status "+string(target), nil, CodeInvalidStatus)
		}
		if !existing.Status.CanTransitionTo(target) {
			return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
				"status transition not allowed", nil, CodeInvalidTransition,
				map[string]any{"from": existing.Status, "to": target})
		}
		if target != existing.Status {
			patch.Status = &target
		}
	}
	if in.URL != nil {
		url := strings.TrimSpace(*in.URL)
		if url == "" {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"url must not be empty", nil, CodeEmptyURL)
		}
		patch.URL = &url
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update media record")
	}
	if updated == nil {
		return nil, notFound(ctx, id)
	}

	s.recordAudit(ctx, AuditEntry{Action: auditActionUpdate, ActorID: actor.UserID, MediaID: id, Payload: auditPatch(patch)})
	return updated, nil
}

// Delete removes the record first, then its bytes and thumbnail on a best-effort basis.
func (s *Service) Delete(ctx context.Context, actor Actor, id string) (*Record, error) {
	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(existing.UploaderID) {
		return nil, forbidden(ctx, id)
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete media record")
	}
	if removed == nil {
		return nil, notFound(ctx, id)
	}
	s.removeArtifacts(ctx, removed)

	s.recordAudit(ctx, AuditEntry{Action: auditActionDelete, ActorID: actor.UserID, MediaID: id,
		Payload: map[string]any{"storage_key": removed.StorageKey, "storage_backend": removed.StorageBackend}})
	return removed, nil
}

// List returns one page of records under the given filter and sort.
func (s *Service) List(ctx context.Context, actor Actor, filter ListFilter) (*ListResult, error) {
	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}

	if filter.Sort == "" {
		filter.Sort = SortNewest
	}
	if !filter.Sort.IsValid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"unknown sort mode "+string(filter.Sort), nil, CodeInvalidSort)
	}
	if filter.Kind != "" && filter.Kind != KindImage && filter.Kind != KindVideo {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"unknown kind "+string(filter.Kind), nil, CodeInvalidKind)
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"unknown status "+string(filter.Status), nil, CodeInvalidStatus)
	}
	if filter.Limit <= 0 {
		filter.Limit = s.policy.ListDefaultLimit
	}
	if filter.Limit > s.policy.ListMaxLimit {
		filter.Limit = s.policy.ListMaxLimit
	}
	filter.Tags = NormalizeTags(filter.Tags)
	filter.Search = strings.TrimSpace(filter.Search)

	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list media")
	}
	return result, nil
}

// Stats aggregates counts, bytes and usage per kind.
func (s *Service) Stats(ctx context.Context, actor Actor, filter StatsFilter) (*Stats, error) {
	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"from must not be after to", nil, CodeInvalidStatsRange)
	}
	stats, err := s.repo.Stats(ctx, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to compute media stats")
	}
	return stats, nil
}

// IncrementUsage bumps the usage counter. Unknown ids are ignored.
func (s *Service) IncrementUsage(ctx context.Context, id string) error {
	found, err := s.repo.IncrementUsage(ctx, id, s.timestamp())
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to record media usage")
	}
	if !found {
		s.log.Debug().Str("media_id", id).Msg("usage increment for unknown media ignored")
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*Record, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load media record")
	}
	if record == nil {
		return nil, notFound(ctx, id)
	}
	return record, nil
}

func (s *Service) generateThumbnail(ctx context.Context, kind Kind, name string, data []byte) *string {
	if s.thumbs == nil {
		return nil
	}
	jpeg, err := s.thumbs.Thumbnail(ctx, kind, data)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", string(kind)).Str("generated_name", name).Msg("thumbnail generation failed")
		return nil
	}
	url, err := s.local.WriteThumbnail(ctx, ThumbnailKey(name), jpeg)
	if err != nil {
		s.log.Warn().Err(err).Str("generated_name", name).Msg("thumbnail write failed")
		return nil
	}
	return &url
}

// removeArtifacts deletes primary bytes and the thumbnail. Failures are logged only.
func (s *Service) removeArtifacts(ctx context.Context, record *Record) {
	switch record.StorageBackend {
	case BackendObject:
		if s.object == nil {
			s.log.Warn().Str("media_id", record.ID).Msg("object storage not configured; bytes left in place")
			return
		}
		if err := s.object.Delete(ctx, record.StorageKey); err != nil {
			s.log.Warn().Err(err).Str("media_id", record.ID).Str("storage_key", record.StorageKey).Msg("failed to delete object bytes")
		}
	default:
		if err := s.local.Delete(ctx, record.StorageKey); err != nil {
			s.log.Warn().Err(err).Str("media_id", record.ID).Str("storage_key", record.StorageKey).Msg("failed to delete local bytes")
		}
		if record.ThumbnailURL != nil {
			key := ThumbnailKey(record.GeneratedName)
			if err := s.local.Delete(ctx, key); err != nil {
				s.log.Warn().Err(err).Str("media_id", record.ID).Str("storage_key", key).Msg("failed to delete thumbnail")
			}
		}
	}
}

// checkContent logs when the sniffed content disagrees with the declared type.
func (s *Service) checkContent(declared string, data []byte) {
	detected := mimetype.Detect(data)
	if detected.Is(declared) {
		return
	}
	s.log.Warn().
		Str("declared_mime", declared).
		Str("detected_mime", detected.String()).
		Msg("declared mime type does not match content")
}

func (s *Service) requireActor(ctx context.Context, actor Actor) error {
	if strings.TrimSpace(actor.UserID) == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"caller identity is required", nil, CodeActorMissing)
	}
	return nil
}

func (s *Service) recordAudit(ctx context.Context, entry AuditEntry) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, entry)
}

// timestamp is UTC with microsecond precision so values survive a database round trip.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func validationError(ctx context.Context, violations []Violation) error {
	first := violations[0]
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
		first.Message, nil, first.Code, map[string]any{"violations": violations})
}

func notFound(ctx context.Context, id string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
		"media not found", nil, CodeNotFound, map[string]any{"media_id": id})
}

func forbidden(ctx context.Context, id string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
		"only the uploader or an admin may modify this media", nil, CodeForbidden, map[string]any{"media_id": id})
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func auditPatch(p Patch) map[string]any {
	out := map[string]any{}
	if p.AltText != nil {
		out["alt_text"] = *p.AltText
	}
	if p.Tags != nil {
		out["tags"] = *p.Tags
	}
	if p.Status != nil {
		out["status"] = *p.Status
	}
	if p.URL != nil {
		out["url"] = *p.URL
	}
	return out
}

func originalName(filename, fallback string) string {
	name := strings.TrimSpace(path.Base(strings.ReplaceAll(filename, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		return fallback
	}
	return name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
