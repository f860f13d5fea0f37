package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimelineEvent is one dated event on a violation's timeline. Position
// preserves the caller-supplied ordering when event dates tie.
type TimelineEvent struct {
	ID          string    `gorm:"type:uuid;primarykey" json:"id"`
	ViolationID string    `gorm:"type:uuid;not null;index" json:"violation_id"`
	CreatedAt   time.Time `json:"created_at"`

	EventDate          time.Time `gorm:"not null;index" json:"event_date"`
	Description        string    `gorm:"type:text;not null" json:"description"`
	SupportingEvidence string    `gorm:"type:text" json:"supporting_evidence"`
	Position           int       `gorm:"not null" json:"position"`
}

// BeforeCreate hook to generate UUID
func (t *TimelineEvent) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for TimelineEvent model
func (TimelineEvent) TableName() string {
	return "violation_timeline"
}
