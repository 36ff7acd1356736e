package entities

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is one recorded mutation.
type AuditLog struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Action       string `gorm:"type:varchar(64);not null;index"`
	ActorID      string `gorm:"type:varchar(64);not null;index"`
	MediaID      string `gorm:"type:varchar(40);index"`
	Payload      datatypes.JSON
	ErrorMessage string    `gorm:"type:text"`
	RequestID    string    `gorm:"type:varchar(64)"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
