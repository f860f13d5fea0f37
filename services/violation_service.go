package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"proselit_go/db"
	"proselit_go/models"

	"gorm.io/gorm"
)

// ViolationService tracks legal violations, their evidence and timelines,
// and classifies applicable statutes.
type ViolationService struct {
	store *db.Store
	ai    AIClient
}

// NewViolationService creates a new violation service instance
func NewViolationService(store *db.Store, ai AIClient) *ViolationService {
	return &ViolationService{store: store, ai: ai}
}

// ViolationInput carries the caller-supplied fields for a new violation.
type ViolationInput struct {
	ViolationType   string    `json:"violation_type"`
	PersonInvolved  string    `json:"person_involved"`
	Description     string    `json:"description"`
	DateOccurred    time.Time `json:"date_occurred"`
	SeverityLevel   int       `json:"severity_level"`
	DamagesEstimate float64   `json:"damages_estimate"`
}

// AddViolation classifies applicable statutes and records the violation
// with its statute list as ordered child rows. Returns ErrNotFound if the
// case does not exist.
func (s *ViolationService) AddViolation(ctx context.Context, caseID string, input ViolationInput) (string, error) {
	// Classification may call the external collaborator; keep it outside
	// the store lock.
	statutes := ClassifyStatutes(ctx, s.ai, input.ViolationType, input.Description)

	if input.PersonInvolved == "" {
		input.PersonInvolved = "Unknown"
	}
	if input.DateOccurred.IsZero() {
		input.DateOccurred = time.Now()
	}
	if input.SeverityLevel == 0 {
		input.SeverityLevel = 3
	}

	violation := models.Violation{
		CaseID:          caseID,
		ViolationType:   input.ViolationType,
		PersonInvolved:  input.PersonInvolved,
		Description:     input.Description,
		DateOccurred:    input.DateOccurred,
		SeverityLevel:   input.SeverityLevel,
		DamagesEstimate: input.DamagesEstimate,
		StatuteSource:   statutes.Source,
		LastUpdated:     time.Now(),
	}

	err := s.store.Update(func(tx *gorm.DB) error {
		if err := requireCase(tx, caseID); err != nil {
			return err
		}
		if err := tx.Create(&violation).Error; err != nil {
			return err
		}
		for i, code := range statutes.Codes {
			statute := models.ViolationStatute{
				ViolationID: violation.ID,
				Code:        code,
				Position:    i,
			}
			if err := tx.Create(&statute).Error; err != nil {
				return err
			}
		}
		return touchCase(tx, caseID)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to add violation: %w", err)
	}

	LogInfo(s.store, "violation_tracker",
		fmt.Sprintf("Recorded %s violation (statutes: %s)", input.ViolationType, statutes.Source),
		&caseID, "add_violation")
	return violation.ID, nil
}

// GetCaseViolations returns a case's violations most recent first, each with
// its statutes in stored order, evidence, and timeline in chronological
// order.
func (s *ViolationService) GetCaseViolations(caseID string) ([]models.Violation, error) {
	var violations []models.Violation
	err := s.store.View(func(tx *gorm.DB) error {
		return tx.
			Preload("Statutes", func(db *gorm.DB) *gorm.DB {
				return db.Order("position ASC")
			}).
			Preload("Evidence").
			Preload("Timeline", func(db *gorm.DB) *gorm.DB {
				return db.Order("event_date ASC, position ASC")
			}).
			Where("case_id = ?", caseID).
			Order("date_occurred DESC").
			Find(&violations).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch violations: %w", err)
	}
	return violations, nil
}

// EvidenceInput carries the caller-supplied fields for new evidence.
type EvidenceInput struct {
	EvidenceType     string  `json:"evidence_type"`
	Description      string  `json:"description"`
	FilePath         *string `json:"file_path,omitempty"`
	CredibilityScore int     `json:"credibility_score"`
}

// AddEvidence attaches evidence to a violation. Returns ErrNotFound if the
// violation does not exist.
func (s *ViolationService) AddEvidence(violationID string, input EvidenceInput) (string, error) {
	if input.CredibilityScore == 0 {
		input.CredibilityScore = 5
	}

	evidence := models.Evidence{
		ViolationID:      violationID,
		EvidenceType:     input.EvidenceType,
		Description:      input.Description,
		FilePath:         input.FilePath,
		CredibilityScore: input.CredibilityScore,
	}

	err := s.store.Update(func(tx *gorm.DB) error {
		if err := requireViolation(tx, violationID); err != nil {
			return err
		}
		return tx.Create(&evidence).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to add evidence: %w", err)
	}
	return evidence.ID, nil
}

// TimelineEventInput is one caller-supplied timeline event.
type TimelineEventInput struct {
	EventDate          time.Time `json:"event_date"`
	Description        string    `json:"description"`
	SupportingEvidence string    `json:"supporting_evidence"`
}

// TimelineSummary is the aggregate returned after timeline creation.
type TimelineSummary struct {
	ViolationID string                 `json:"violation_id"`
	Timeline    []models.TimelineEvent `json:"timeline"`
	TotalEvents int                    `json:"total_events"`
	CreatedAt   time.Time              `json:"created_date"`
}

// CreateTimeline inserts the supplied events in one transaction, preserving
// caller order when event dates tie, and returns the complete chronological
// timeline. Returns ErrNotFound if the violation does not exist.
func (s *ViolationService) CreateTimeline(violationID string, events []TimelineEventInput) (*TimelineSummary, error) {
	var timeline []models.TimelineEvent
	err := s.store.Update(func(tx *gorm.DB) error {
		if err := requireViolation(tx, violationID); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.TimelineEvent{}).
			Where("violation_id = ?", violationID).
			Count(&existing).Error; err != nil {
			return err
		}

		for i, event := range events {
			eventDate := event.EventDate
			if eventDate.IsZero() {
				eventDate = time.Now()
			}
			record := models.TimelineEvent{
				ViolationID:        violationID,
				EventDate:          eventDate,
				Description:        event.Description,
				SupportingEvidence: event.SupportingEvidence,
				Position:           int(existing) + i,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}

		return tx.Where("violation_id = ?", violationID).
			Order("event_date ASC, position ASC").
			Find(&timeline).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create timeline: %w", err)
	}

	return &TimelineSummary{
		ViolationID: violationID,
		Timeline:    timeline,
		TotalEvents: len(timeline),
		CreatedAt:   time.Now(),
	}, nil
}

// SearchViolations matches the query against description, violation type
// and statute codes, optionally filtered to one case, most recent first.
func (s *ViolationService) SearchViolations(query string, caseID string) ([]models.Violation, error) {
	pattern := "%" + query + "%"
	var violations []models.Violation
	err := s.store.View(func(tx *gorm.DB) error {
		q := tx.
			Preload("Statutes", func(db *gorm.DB) *gorm.DB {
				return db.Order("position ASC")
			}).
			Where(
				`LOWER(description) LIKE LOWER(?)
				 OR LOWER(violation_type) LIKE LOWER(?)
				 OR id IN (SELECT violation_id FROM violation_statutes WHERE LOWER(code) LIKE LOWER(?))`,
				pattern, pattern, pattern,
			)
		if caseID != "" {
			q = q.Where("case_id = ?", caseID)
		}
		return q.Order("date_occurred DESC").Find(&violations).Error
	})
	if err != nil {
		return nil, fmt.Errorf("violation search failed: %w", err)
	}
	return violations, nil
}

// ViolationSummary aggregates a case's violations.
type ViolationSummary struct {
	CaseID         string         `json:"case_id"`
	TotalCount     int            `json:"total_violations"`
	ViolationTypes []string       `json:"violation_types"`
	TotalDamages   float64        `json:"total_damages_claimed"`
	EvidenceCounts map[string]int `json:"evidence_summary"`
	SummaryDate    time.Time      `json:"summary_date"`
}

// GetViolationSummary summarizes all violations for a case.
func (s *ViolationService) GetViolationSummary(caseID string) (*ViolationSummary, error) {
	violations, err := s.GetCaseViolations(caseID)
	if err != nil {
		return nil, err
	}

	summary := &ViolationSummary{
		CaseID:         caseID,
		TotalCount:     len(violations),
		EvidenceCounts: map[string]int{},
		SummaryDate:    time.Now(),
	}

	seenTypes := map[string]bool{}
	for _, v := range violations {
		summary.TotalDamages += v.DamagesEstimate
		if !seenTypes[v.ViolationType] {
			seenTypes[v.ViolationType] = true
			summary.ViolationTypes = append(summary.ViolationTypes, v.ViolationType)
		}
		for _, e := range v.Evidence {
			evType := e.EvidenceType
			if evType == "" {
				evType = "Unknown"
			}
			summary.EvidenceCounts[evType]++
		}
	}
	return summary, nil
}

// DamagesResult is a damages calculation. Degraded marks a failed external
// analysis; the failure reason lives in DegradedReason, never in Analysis,
// so a failure can't be mistaken for a computed result.
type DamagesResult struct {
	ViolationID     string    `json:"violation_id"`
	Analysis        string    `json:"damages_analysis,omitempty"`
	Degraded        bool      `json:"degraded"`
	DegradedReason  string    `json:"degraded_reason,omitempty"`
	CalculationDate time.Time `json:"calculation_date"`
}

// CalculateDamages asks the collaborator for a damages analysis and records
// the claimed total on the violation. A collaborator failure returns a
// degraded result; nothing failure-shaped is ever stored as analysis text.
func (s *ViolationService) CalculateDamages(ctx context.Context, violationID string, totalClaimed float64, damagesContext string) (*DamagesResult, error) {
	err := s.store.Update(func(tx *gorm.DB) error {
		if err := requireViolation(tx, violationID); err != nil {
			return err
		}
		return tx.Model(&models.Violation{}).
			Where("id = ?", violationID).
			Updates(map[string]interface{}{
				"damages_estimate": totalClaimed,
				"last_updated":     time.Now(),
			}).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to record damages estimate: %w", err)
	}

	result := &DamagesResult{
		ViolationID:     violationID,
		CalculationDate: time.Now(),
	}

	prompt := fmt.Sprintf(`Calculate damages for this legal violation:

Claimed Total: %.2f
Context: %s

Calculate and provide:
1. Economic damages (actual losses)
2. Non-economic damages (pain and suffering)
3. Punitive damages (if applicable)
4. Attorney fees (if recoverable)
5. Court costs and expenses
6. Total damages range (low/high estimates)

Provide realistic estimates based on similar cases and applicable law.
Include methodology for calculations.`, totalClaimed, damagesContext)

	analysis, aiErr := s.ai.AnalyzeLegalText(ctx, prompt, "damages_calculation")
	if aiErr != nil {
		result.Degraded = true
		result.DegradedReason = aiErr.Error()
		LogError(s.store, "violation_tracker", "Damages analysis degraded", nil, aiErr.Error())
		return result, nil
	}

	result.Analysis = analysis
	return result, nil
}

// StatuteGuidance is collaborator-produced guidance on one statute.
type StatuteGuidance struct {
	StatuteCode    string    `json:"statute_code"`
	Guidance       string    `json:"guidance,omitempty"`
	Degraded       bool      `json:"degraded"`
	DegradedReason string    `json:"degraded_reason,omitempty"`
	GeneratedDate  time.Time `json:"generated_date"`
}

// GetStatuteGuidance asks the collaborator for practical guidance on a
// statute, degrading explicitly on failure.
func (s *ViolationService) GetStatuteGuidance(ctx context.Context, statuteCode string) *StatuteGuidance {
	guidance := &StatuteGuidance{
		StatuteCode:   statuteCode,
		GeneratedDate: time.Now(),
	}

	prompt := fmt.Sprintf(`Provide comprehensive guidance on %s:

Include:
1. Purpose and scope of the statute
2. Key elements that must be proven
3. Common defenses defendants raise
4. Damages available under this statute
5. Statute of limitations
6. Recent important case law
7. Practical tips for pro se litigants

Focus on actionable guidance for someone using this statute in litigation.`, statuteCode)

	text, err := s.ai.AnalyzeLegalText(ctx, prompt, "statute_guidance")
	if err != nil {
		guidance.Degraded = true
		guidance.DegradedReason = err.Error()
		return guidance
	}
	guidance.Guidance = text
	return guidance
}

// requireViolation returns ErrNotFound unless the violation exists.
func requireViolation(tx *gorm.DB, violationID string) error {
	var count int64
	if err := tx.Model(&models.Violation{}).Where("id = ?", violationID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
