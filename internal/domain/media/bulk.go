package media

import (
	"context"
	"fmt"

	"recipehub/media-api/internal/utils/platformerrors"
)

// BulkDelete deletes each id in order. Every id ends up in exactly one of the
// result lists; a repeated id is attempted again and reports NOT_FOUND.
// Each failed id gets its own audit entry carrying the error.
func (s *Service) BulkDelete(ctx context.Context, actor Actor, ids []string) (*BulkResult, error) {
	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}
	if err := s.checkBulkSize(ctx, ids, s.policy.BulkDeleteMax); err != nil {
		return nil, err
	}

	result := newBulkResult(len(ids))
	for _, id := range ids {
		removed, err := s.Delete(ctx, actor, id)
		if err != nil {
			result.fail(id, err)
			s.recordAudit(ctx, AuditEntry{Action: auditActionBulkDelete, ActorID: actor.UserID, MediaID: id, Err: err})
			continue
		}
		result.Processed = append(result.Processed, BulkItem{ID: id, Record: removed})
	}

	s.recordAudit(ctx, AuditEntry{
		Action:  auditActionBulkDelete,
		ActorID: actor.UserID,
		Payload: map[string]any{"requested": len(ids), "processed": len(result.Processed), "failed": len(result.Failed)},
	})
	return result, nil
}

// BulkUpdateTags replaces the tag set of each id with the same normalized tags.
func (s *Service) BulkUpdateTags(ctx context.Context, actor Actor, ids []string, tags []string) (*BulkResult, error) {
	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}
	if err := s.checkBulkSize(ctx, ids, s.policy.BulkTagsMax); err != nil {
		return nil, err
	}
	normalized, violations := s.validator.ValidateAttributes(nil, tags)
	if len(violations) > 0 {
		return nil, validationError(ctx, violations)
	}

	result := newBulkResult(len(ids))
	for _, id := range ids {
		updated, err := s.Update(ctx, actor, id, UpdateInput{Tags: &normalized})
		if err != nil {
			result.fail(id, err)
			s.recordAudit(ctx, AuditEntry{Action: auditActionBulkTags, ActorID: actor.UserID, MediaID: id, Err: err})
			continue
		}
		result.Processed = append(result.Processed, BulkItem{ID: id, Record: updated})
	}

	s.recordAudit(ctx, AuditEntry{
		Action:  auditActionBulkTags,
		ActorID: actor.UserID,
		Payload: map[string]any{"tags": normalized, "processed": len(result.Processed), "failed": len(result.Failed)},
	})
	return result, nil
}

func (s *Service) checkBulkSize(ctx context.Context, ids []string, limit int) error {
	if len(ids) == 0 || len(ids) > limit {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("ids must contain between 1 and %d entries", limit), nil, CodeBulkInvalidSize,
			map[string]any{"count": len(ids)})
	}
	return nil
}

func newBulkResult(n int) *BulkResult {
	return &BulkResult{
		Processed: make([]BulkItem, 0, n),
		Failed:    make([]BulkFailure, 0),
	}
}

func (r *BulkResult) fail(id string, err error) {
	r.Failed = append(r.Failed, BulkFailure{ID: id, Error: string(platformerrors.TypeOf(err))})
}
