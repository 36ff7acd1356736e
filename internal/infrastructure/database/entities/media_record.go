package entities

import (
	"time"

	"gorm.io/datatypes"
)

// MediaRecord represents the persisted media metadata.
type MediaRecord struct {
	ID             string  `gorm:"type:varchar(40);primaryKey"`
	GeneratedName  string  `gorm:"type:varchar(255);not null"`
	OriginalName   string  `gorm:"type:varchar(255);not null;index"`
	MimeType       string  `gorm:"type:varchar(64);not null"`
	SizeBytes      int64   `gorm:"not null;default:0;index"`
	MediaKind      string  `gorm:"type:varchar(16);not null;index"`
	URL            string  `gorm:"type:text;not null"`
	ThumbnailURL   *string `gorm:"type:text"`
	AltText        string  `gorm:"type:text"`
	UploaderID     string  `gorm:"type:varchar(64);not null;index"`
	StorageBackend string  `gorm:"type:varchar(16);not null"`
	StorageKey     string  `gorm:"type:varchar(512);not null"`
	Metadata       datatypes.JSON
	Status         string     `gorm:"type:varchar(16);not null;index"`
	UsageCount     int64      `gorm:"not null;default:0;index"`
	LastUsedAt     *time.Time
	CreatedAt      time.Time  `gorm:"not null;index"`
	UpdatedAt      time.Time  `gorm:"not null"`
	Tags           []MediaTag `gorm:"foreignKey:MediaID;constraint:OnDelete:CASCADE"`
}

func (MediaRecord) TableName() string {
	return "media_records"
}

// MediaTag links a normalized tag to a media record.
type MediaTag struct {
	MediaID  string `gorm:"type:varchar(40);primaryKey"`
	Tag      string `gorm:"type:varchar(64);primaryKey;index"`
	Position int    `gorm:"not null;default:0"`
}

func (MediaTag) TableName() string {
	return "media_tags"
}
