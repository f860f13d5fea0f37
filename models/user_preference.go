package models

import "time"

// Preference type constants
const (
	PreferenceTypeString = "string"
	PreferenceTypeInt    = "int"
	PreferenceTypeFloat  = "float"
	PreferenceTypeBool   = "bool"
	PreferenceTypeJSON   = "json"
)

// UserPreference is a typed key-value setting. PreferenceKey is unique;
// setting an existing key replaces the stored value.
type UserPreference struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	PreferenceKey   string    `gorm:"uniqueIndex;not null" json:"preference_key"`
	PreferenceValue string    `gorm:"type:text;not null" json:"preference_value"`
	PreferenceType  string    `gorm:"not null" json:"preference_type"`
	CreatedAt       time.Time `json:"created_at"`
	LastModified    time.Time `gorm:"not null" json:"last_modified"`
}

// TableName specifies the table name for UserPreference model
func (UserPreference) TableName() string {
	return "user_preferences"
}
