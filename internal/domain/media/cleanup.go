package media

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"recipehub/media-api/internal/utils/platformerrors"
)

// Sweep reclaims stale records on behalf of an admin.
func (s *Service) Sweep(ctx context.Context, actor Actor, maxAgeHours int) (*SweepResult, error) {
	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"cleanup requires the admin role", nil, CodeSweepForbidden)
	}
	if maxAgeHours < 1 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"max_age_hours must be at least 1", nil, CodeSweepInvalidMaxAge)
	}
	result, err := s.SweepStale(ctx, time.Duration(maxAgeHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, AuditEntry{
		Action:  auditActionSweep,
		ActorID: actor.UserID,
		Payload: map[string]any{"max_age_hours": maxAgeHours, "deleted_count": result.DeletedCount},
	})
	return result, nil
}

// SweepStale deletes records still uploading or failed that were created before
// now - maxAge, removing their bytes first. Running it twice in a row deletes
// nothing the second time.
func (s *Service) SweepStale(ctx context.Context, maxAge time.Duration) (result *SweepResult, err error) {
	ctx, span := s.tracer.Start(ctx, "media.sweep")
	defer func() { endSpan(span, err) }()

	cutoff := s.timestamp().Add(-maxAge)
	stale, err := s.repo.FindStale(ctx, StaleStatuses(), cutoff)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to find stale media")
	}

	result = &SweepResult{}
	for _, record := range stale {
		s.removeArtifacts(ctx, record)
		removed, err := s.repo.Delete(ctx, record.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("media_id", record.ID).Msg("failed to delete stale media record")
			continue
		}
		if removed != nil {
			result.DeletedCount++
		}
	}

	span.SetAttributes(
		attribute.Int("media.sweep.candidates", len(stale)),
		attribute.Int("media.sweep.deleted", result.DeletedCount),
	)
	s.log.Info().
		Time("cutoff", cutoff).
		Int("candidates", len(stale)).
		Int("deleted", result.DeletedCount).
		Msg("stale media swept")
	return result, nil
}
