package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document status constants
const (
	DocumentStatusDraft = "draft"
	DocumentStatusFiled = "filed"
)

// CaseDocument represents a generated legal document belonging to a case.
type CaseDocument struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CaseID    string    `gorm:"type:uuid;not null;index" json:"case_id"`
	CreatedAt time.Time `json:"created_at"`

	DocumentType string `gorm:"not null" json:"document_type"`
	Title        string `gorm:"not null" json:"title"`
	Content      string `gorm:"type:text;not null" json:"content"`

	// Version starts at 1 and is incremented on every content update.
	Version int `gorm:"not null;default:1" json:"version"`

	// LegalAuthorities holds the citations used in the document, as JSON.
	LegalAuthorities string `gorm:"type:text;not null;default:'[]'" json:"-"`

	Status     string     `gorm:"not null;default:draft" json:"status"`
	FilingDate *time.Time `json:"filing_date,omitempty"`
}

// BeforeCreate hook to generate UUID
func (d *CaseDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Version == 0 {
		d.Version = 1
	}
	if d.LegalAuthorities == "" {
		d.LegalAuthorities = "[]"
	}
	return nil
}

// TableName specifies the table name for CaseDocument model
func (CaseDocument) TableName() string {
	return "case_documents"
}

// DecodeAuthorities returns the cited authorities as a list of citations.
func (d *CaseDocument) DecodeAuthorities() []string {
	var citations []string
	if d.LegalAuthorities == "" {
		return citations
	}
	if err := json.Unmarshal([]byte(d.LegalAuthorities), &citations); err != nil {
		return nil
	}
	return citations
}

// EncodeAuthorities serializes a list of citations into the stored column.
func (d *CaseDocument) EncodeAuthorities(citations []string) error {
	if citations == nil {
		citations = []string{}
	}
	encoded, err := json.Marshal(citations)
	if err != nil {
		return err
	}
	d.LegalAuthorities = string(encoded)
	return nil
}

// IsFiled checks if the document has been filed with a court
func (d *CaseDocument) IsFiled() bool {
	return d.Status == DocumentStatusFiled
}
