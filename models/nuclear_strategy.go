package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Strategy status constants
const (
	StrategyStatusDraft    = "draft"
	StrategyStatusReviewed = "reviewed"
	StrategyStatusDeployed = "deployed"
)

// NuclearStrategy is an aggressive litigation strategy generated for a case.
type NuclearStrategy struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CaseID    string    `gorm:"type:uuid;not null;index" json:"case_id"`
	CreatedAt time.Time `json:"created_at"`

	StrategyType         string `gorm:"not null" json:"strategy_type"`
	SituationDescription string `gorm:"type:text;not null" json:"situation_description"`
	StrategyContent      string `gorm:"type:text;not null" json:"strategy_content"`
	RiskAssessment       string `gorm:"type:text;not null" json:"risk_assessment"`

	// PrecedentCases and ImplementationSteps are JSON-encoded string lists.
	PrecedentCases      string `gorm:"type:text;not null;default:'[]'" json:"-"`
	ImplementationSteps string `gorm:"type:text;not null;default:'[]'" json:"-"`

	Status string `gorm:"not null;default:draft" json:"status"`
}

// BeforeCreate hook to generate UUID
func (s *NuclearStrategy) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.PrecedentCases == "" {
		s.PrecedentCases = "[]"
	}
	if s.ImplementationSteps == "" {
		s.ImplementationSteps = "[]"
	}
	return nil
}

// TableName specifies the table name for NuclearStrategy model
func (NuclearStrategy) TableName() string {
	return "nuclear_strategies"
}

// DecodePrecedents returns the precedent citations as a list.
func (s *NuclearStrategy) DecodePrecedents() []string {
	return decodeStringList(s.PrecedentCases)
}

// EncodePrecedents serializes the precedent citations.
func (s *NuclearStrategy) EncodePrecedents(precedents []string) error {
	encoded, err := encodeStringList(precedents)
	if err != nil {
		return err
	}
	s.PrecedentCases = encoded
	return nil
}

// DecodeSteps returns the implementation steps as a list.
func (s *NuclearStrategy) DecodeSteps() []string {
	return decodeStringList(s.ImplementationSteps)
}

// EncodeSteps serializes the implementation steps.
func (s *NuclearStrategy) EncodeSteps(steps []string) error {
	encoded, err := encodeStringList(steps)
	if err != nil {
		return err
	}
	s.ImplementationSteps = encoded
	return nil
}

func decodeStringList(raw string) []string {
	var items []string
	if raw == "" {
		return items
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

func encodeStringList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
