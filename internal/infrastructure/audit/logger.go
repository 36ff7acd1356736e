package audit

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"recipehub/media-api/internal/domain/media"
	"recipehub/media-api/internal/infrastructure/database/entities"
	"recipehub/media-api/internal/utils/platformerrors"
)

// Logger records media mutations to the audit_logs table.
type Logger struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewLogger(db *gorm.DB, log zerolog.Logger) *Logger {
	return &Logger{db: db, log: log.With().Str("component", "audit").Logger()}
}

var _ media.AuditLogger = (*Logger)(nil)

// Record persists the entry; best-effort (logs warning on failure).
func (l *Logger) Record(ctx context.Context, entry media.AuditEntry) {
	if l == nil || l.db == nil {
		return
	}

	row := entities.AuditLog{
		Action:       entry.Action,
		ActorID:      entry.ActorID,
		MediaID:      entry.MediaID,
		ErrorMessage: errorString(entry.Err),
		RequestID:    platformerrors.RequestIDFromContext(ctx),
	}
	if entry.Payload != nil {
		if b, err := json.Marshal(entry.Payload); err == nil {
			row.Payload = datatypes.JSON(b)
		}
	}

	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		l.log.Warn().Err(err).Str("action", entry.Action).Str("media_id", entry.MediaID).Msg("failed to write audit log")
	}
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
