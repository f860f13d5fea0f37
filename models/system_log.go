package models

import "time"

// Log level constants
const (
	LogLevelInfo    = "INFO"
	LogLevelWarning = "WARNING"
	LogLevelError   = "ERROR"
)

// SystemLog is one entry in the append-only system log table. Entries are
// only ever inserted, never updated or deleted.
type SystemLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	LogLevel  string    `gorm:"not null;index" json:"log_level"`
	Module    string    `gorm:"not null;index" json:"module"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	CaseID       *string `gorm:"type:uuid" json:"case_id,omitempty"`
	UserAction   *string `json:"user_action,omitempty"`
	ErrorDetails *string `gorm:"type:text" json:"error_details,omitempty"`
}

// TableName specifies the table name for SystemLog model
func (SystemLog) TableName() string {
	return "system_logs"
}
