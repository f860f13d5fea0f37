package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Credibility score bounds (by convention, not enforced by the schema)
const (
	MinCredibilityScore = 1
	MaxCredibilityScore = 10
)

// Evidence is a single item of supporting evidence for a violation.
type Evidence struct {
	ID          string    `gorm:"type:uuid;primarykey" json:"id"`
	ViolationID string    `gorm:"type:uuid;not null;index" json:"violation_id"`
	CreatedAt   time.Time `json:"created_at"`

	EvidenceType     string  `gorm:"not null" json:"evidence_type"`
	Description      string  `gorm:"type:text;not null" json:"description"`
	FilePath         *string `json:"file_path,omitempty"`
	CredibilityScore int     `gorm:"not null;default:5" json:"credibility_score"`
}

// BeforeCreate hook to generate UUID
func (e *Evidence) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Evidence model
func (Evidence) TableName() string {
	return "violation_evidence"
}
