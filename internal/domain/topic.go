package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	TopicNameMaxLen    = 200
	MinDurationMinutes = 1
	MaxDurationMinutes = 1440
)

// Topic is a named subject of study. Deleting it removes its sessions.
type Topic struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"size:200;not null;index"`
	Description *string `gorm:"type:text"`

	// Filled only when a topic is fetched individually.
	Sessions []Session `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time `gorm:"not null"`
}

// Session is a single logged study event belonging to a Topic.
type Session struct {
	ID              int64          `gorm:"primaryKey;autoIncrement"`
	TopicID         int64          `gorm:"not null;index"`
	StudyDate       datatypes.Date `gorm:"not null"`
	DurationMinutes int            `gorm:"not null"`
	Notes           *string        `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
}
