package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Statute source constants: how the applicable statutes were derived.
const (
	StatuteSourceCatalog  = "catalog"
	StatuteSourceModel    = "model"
	StatuteSourceFallback = "fallback"
)

// Violation represents an asserted legal wrong within a case.
type Violation struct {
	ID     string `gorm:"type:uuid;primarykey" json:"id"`
	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`

	ViolationType  string    `gorm:"not null" json:"violation_type"`
	PersonInvolved string    `gorm:"not null" json:"person_involved"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	DateOccurred   time.Time `gorm:"not null;index" json:"date_occurred"`

	SeverityLevel   int     `gorm:"not null;default:3" json:"severity_level"`
	DamagesEstimate float64 `gorm:"not null;default:0" json:"damages_estimate"`

	// StatuteSource records how the statute list was derived, so a
	// model-suggested or placeholder list is never mistaken for a catalog hit.
	StatuteSource string `gorm:"not null;default:catalog" json:"statute_source"`

	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `gorm:"not null" json:"last_updated"`

	Statutes []ViolationStatute `gorm:"foreignKey:ViolationID" json:"statutes,omitempty"`
	Evidence []Evidence         `gorm:"foreignKey:ViolationID" json:"evidence,omitempty"`
	Timeline []TimelineEvent    `gorm:"foreignKey:ViolationID" json:"timeline,omitempty"`
}

// BeforeCreate hook to generate UUID and stamp timestamps
func (v *Violation) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.LastUpdated.IsZero() {
		v.LastUpdated = time.Now()
	}
	return nil
}

// TableName specifies the table name for Violation model
func (Violation) TableName() string {
	return "violations"
}

// StatuteCodes returns the applicable statute citations in stored order.
func (v *Violation) StatuteCodes() []string {
	codes := make([]string, 0, len(v.Statutes))
	for _, s := range v.Statutes {
		codes = append(codes, s.Code)
	}
	return codes
}

// ViolationStatute is one applicable statute citation on a violation,
// ordered by Position. A child table instead of a comma-joined string so
// callers get a typed collection.
type ViolationStatute struct {
	ID          string `gorm:"type:uuid;primarykey" json:"id"`
	ViolationID string `gorm:"type:uuid;not null;index" json:"violation_id"`
	Code        string `gorm:"not null" json:"code"`
	Position    int    `gorm:"not null" json:"position"`
}

// BeforeCreate hook to generate UUID
func (s *ViolationStatute) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ViolationStatute model
func (ViolationStatute) TableName() string {
	return "violation_statutes"
}
