package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseFile represents an uploaded file attached to a case.
type CaseFile struct {
	ID         string    `gorm:"type:uuid;primarykey" json:"id"`
	CaseID     string    `gorm:"type:uuid;not null;index" json:"case_id"`
	Filename   string    `gorm:"not null" json:"filename"`
	FileType   string    `gorm:"not null" json:"file_type"`
	FileSize   int64     `json:"file_size"`
	UploadDate time.Time `gorm:"not null" json:"upload_date"`
	FilePath   *string   `json:"file_path,omitempty"`

	// AnalysisData is the external analyzer's output, stored opaquely as JSON.
	AnalysisData string `gorm:"type:text;not null;default:'{}'" json:"-"`
}

// BeforeCreate hook to generate UUID and stamp the upload date
func (f *CaseFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.UploadDate.IsZero() {
		f.UploadDate = time.Now()
	}
	if f.AnalysisData == "" {
		f.AnalysisData = "{}"
	}
	return nil
}

// TableName specifies the table name for CaseFile model
func (CaseFile) TableName() string {
	return "case_files"
}

// DecodeAnalysis returns the stored analysis mapping without interpreting it.
func (f *CaseFile) DecodeAnalysis() map[string]interface{} {
	analysis := map[string]interface{}{}
	if f.AnalysisData == "" {
		return analysis
	}
	if err := json.Unmarshal([]byte(f.AnalysisData), &analysis); err != nil {
		return map[string]interface{}{}
	}
	return analysis
}
