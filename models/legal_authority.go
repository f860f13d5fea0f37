package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Verification status constants
const (
	VerificationPending    = "pending"
	VerificationVerified   = "verified"
	VerificationUnverified = "unverified"
)

// Authority type constants
const (
	AuthorityTypeCaseLaw = "Case Law"
	AuthorityTypeStatute = "Statute"
)

// LegalAuthority is a cached legal citation. Citation is the natural key:
// inserting the same citation again replaces the existing record. Relevance
// is computed per search and is deliberately not a column here.
type LegalAuthority struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Citation string `gorm:"uniqueIndex;not null" json:"citation"`
	Title    string `json:"title"`
	Summary  string `gorm:"type:text" json:"summary"`
	FullText string `gorm:"type:text" json:"full_text,omitempty"`

	SourceURL          string     `json:"source_url,omitempty"`
	VerificationStatus string     `gorm:"not null;default:pending;index" json:"verification_status"`
	AuthorityType      string     `gorm:"not null;index" json:"authority_type"`
	Jurisdiction       string     `json:"jurisdiction"`
	LastVerified       *time.Time `json:"last_verified,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *LegalAuthority) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for LegalAuthority model
func (LegalAuthority) TableName() string {
	return "legal_authorities"
}

// IsVerified checks if the authority passed verification
func (a *LegalAuthority) IsVerified() bool {
	return a.VerificationStatus == VerificationVerified
}
