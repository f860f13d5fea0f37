package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case status constants
const (
	CaseStatusActive   = "Active"
	CaseStatusOnHold   = "On Hold"
	CaseStatusClosed   = "Closed"
	CaseStatusArchived = "Archived"
)

// Case represents a single legal matter. It owns its files, documents,
// violations and strategies; deleting a case removes all of them.
type Case struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name     string `gorm:"not null" json:"name"`
	CaseType string `gorm:"not null" json:"case_type"`
	Status   string `gorm:"not null;default:Active" json:"status"`

	// LastModified is a derived audit field: it is restamped on every write
	// to anything the case owns, never set directly by callers.
	LastModified time.Time `gorm:"not null;index" json:"last_modified"`

	// Metadata holds free-form key-value data, serialized as JSON. Read
	// paths surface it through DecodedMetadata; the raw column never leaves
	// the store.
	Metadata        string                 `gorm:"type:text;not null;default:'{}'" json:"-"`
	DecodedMetadata map[string]interface{} `gorm:"-" json:"metadata"`

	Files      []CaseFile        `gorm:"foreignKey:CaseID" json:"files,omitempty"`
	Documents  []CaseDocument    `gorm:"foreignKey:CaseID" json:"documents,omitempty"`
	Violations []Violation       `gorm:"foreignKey:CaseID" json:"violations,omitempty"`
	Strategies []NuclearStrategy `gorm:"foreignKey:CaseID" json:"strategies,omitempty"`
}

// BeforeCreate hook to generate UUID and stamp timestamps
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.LastModified.IsZero() {
		c.LastModified = time.Now()
	}
	if c.Metadata == "" {
		c.Metadata = "{}"
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}

// DecodeMetadata returns the metadata mapping, or an empty map when the
// stored value is empty or malformed.
func (c *Case) DecodeMetadata() map[string]interface{} {
	meta := map[string]interface{}{}
	if c.Metadata == "" {
		return meta
	}
	if err := json.Unmarshal([]byte(c.Metadata), &meta); err != nil {
		return map[string]interface{}{}
	}
	return meta
}

// EncodeMetadata serializes the mapping into the stored metadata column.
func (c *Case) EncodeMetadata(meta map[string]interface{}) error {
	if meta == nil {
		meta = map[string]interface{}{}
	}
	encoded, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	c.Metadata = string(encoded)
	return nil
}

// IsActive checks if the case is active
func (c *Case) IsActive() bool {
	return c.Status == CaseStatusActive
}
