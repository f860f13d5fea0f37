package models

import "time"

// AIInteraction records one exchange with the generation collaborator.
type AIInteraction struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CaseID    *string   `gorm:"type:uuid;index" json:"case_id,omitempty"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`

	UserQuery       string `gorm:"type:text;not null" json:"user_query"`
	AIResponse      string `gorm:"type:text;not null" json:"ai_response"`
	InteractionType string `gorm:"not null;index" json:"interaction_type"`
	TokensUsed      int    `gorm:"not null;default:0" json:"tokens_used"`
	ModelUsed       string `json:"model_used"`
}

// TableName specifies the table name for AIInteraction model
func (AIInteraction) TableName() string {
	return "ai_interactions"
}
