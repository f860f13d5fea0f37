package services

import (
	"context"
	"errors"
	"fmt"

	"proselit_go/db"
)

const (
	maxDocumentSuggestions = 10
	maxMissingElements     = 15
)

// CompanionService is the conversational legal assistant. It enriches every
// exchange with the active case's context and records the interaction.
type CompanionService struct {
	store *db.Store
	ai    AIClient
}

// NewCompanionService creates a new companion service instance
func NewCompanionService(store *db.Store, ai AIClient) *CompanionService {
	return &CompanionService{store: store, ai: ai}
}

// Ask answers a litigant's question. When a case ID is supplied its summary
// is attached as context; an unknown case ID is an error, not silently
// ignored.
func (s *CompanionService) Ask(ctx context.Context, query string, caseID string) (string, error) {
	caseContext := map[string]interface{}{}
	var logCaseID *string

	if caseID != "" {
		c, err := GetCase(s.store, caseID)
		if err != nil {
			return "", err
		}
		caseContext["case_id"] = c.ID
		caseContext["case_name"] = c.Name
		caseContext["case_type"] = c.CaseType
		caseContext["status"] = c.Status
		logCaseID = &caseID
	}

	response, err := s.ai.ProvideLegalAdvice(ctx, query, caseContext)
	if err != nil {
		return "", fmt.Errorf("companion unavailable: %w", err)
	}

	LogAIInteraction(s.store, logCaseID, query, response, "companion_chat", s.ai.ModelName(), 0)
	return response, nil
}

// AnalyzeCaseFacts identifies legal theories and claims for a case.
func (s *CompanionService) AnalyzeCaseFacts(ctx context.Context, caseID string) (string, error) {
	c, err := GetCase(s.store, caseID)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`Analyze the case facts and identify potential legal theories and claims.

Case: %s (%s)

Focus on:
1. Strongest legal claims
2. Required elements for each claim
3. Evidence needed
4. Potential defenses to expect
5. Strategic recommendations

Be specific about Texas law requirements and cite relevant statutes.`, c.Name, c.CaseType)

	analysis, err := s.ai.AnalyzeLegalText(ctx, prompt, "case_analysis")
	if err != nil {
		return "", fmt.Errorf("case analysis unavailable: %w", err)
	}

	LogAIInteraction(s.store, &caseID, "Analyze case facts", analysis, "case_analysis", s.ai.ModelName(), 0)
	return analysis, nil
}

// AssessCaseStrength gives a frank assessment of a case's prospects.
func (s *CompanionService) AssessCaseStrength(ctx context.Context, caseID string) (string, error) {
	c, err := GetCase(s.store, caseID)
	if err != nil {
		return "", err
	}

	prompt := `Provide a realistic assessment of case strength based on:
1. Legal merits
2. Evidence quality
3. Procedural positioning
4. Opponent's likely defenses
5. Settlement vs. trial considerations

Give a frank assessment with specific recommendations for improvement.
Include potential monetary recovery estimates if applicable.`

	assessment, err := s.ai.ProvideLegalAdvice(ctx, prompt, map[string]interface{}{
		"analysis_type": "case_strength",
		"case_name":     c.Name,
		"case_type":     c.CaseType,
	})
	if err != nil {
		return "", fmt.Errorf("case strength assessment unavailable: %w", err)
	}

	LogAIInteraction(s.store, &caseID, "Assess case strength", assessment, "case_strength", s.ai.ModelName(), 0)
	return assessment, nil
}

// LitigationStrategy generates a phase-by-phase litigation plan for a case.
func (s *CompanionService) LitigationStrategy(ctx context.Context, caseID string) (string, error) {
	if _, err := GetCase(s.store, caseID); err != nil {
		return "", err
	}

	prompt := `Generate a comprehensive litigation strategy including:
1. Phase-by-phase approach
2. Key deadlines and milestones
3. Discovery strategy
4. Motion practice recommendations
5. Settlement positioning
6. Trial preparation priorities

Focus on Texas-specific procedures and winning tactics.`

	strategy, err := s.ai.ProvideLegalAdvice(ctx, prompt, map[string]interface{}{
		"strategy_type": "comprehensive",
	})
	if err != nil {
		return "", fmt.Errorf("strategy generation unavailable: %w", err)
	}

	LogAIInteraction(s.store, &caseID, "Generate litigation strategy", strategy, "litigation_strategy", s.ai.ModelName(), 0)
	return strategy, nil
}

// DocumentSuggestions proposes improvements for a document type. The result
// is tagged: unstructured collaborator prose comes back as Raw, never as a
// fake one-item list.
func (s *CompanionService) DocumentSuggestions(ctx context.Context, documentType string, caseContext map[string]interface{}) (Extraction, error) {
	encoded := fmt.Sprintf("%v", caseContext)
	prompt := fmt.Sprintf(`Provide specific suggestions for improving a %s document.
Consider Texas court requirements and best practices.
Case context: %s

Provide actionable suggestions as a numbered list.`, documentType, encoded)

	response, err := s.ai.ProvideLegalAdvice(ctx, prompt, caseContext)
	if err != nil {
		return Extraction{}, fmt.Errorf("document suggestions unavailable: %w", err)
	}
	return ExtractListItems(response, maxDocumentSuggestions), nil
}

// MissingElements flags case gaps that need attention, most urgent first.
func (s *CompanionService) MissingElements(ctx context.Context, caseID string) (Extraction, error) {
	if _, err := GetCase(s.store, caseID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Extraction{}, ErrNotFound
		}
		return Extraction{}, err
	}

	prompt := `Identify missing elements in this case that need immediate attention:
1. Required legal documents
2. Missing evidence
3. Procedural deadlines
4. Strategic weaknesses
5. Compliance issues

Prioritize by urgency and importance.`

	response, err := s.ai.AnalyzeLegalText(ctx, prompt, "missing_elements")
	if err != nil {
		return Extraction{}, fmt.Errorf("missing elements check unavailable: %w", err)
	}
	return ExtractListItems(response, maxMissingElements), nil
}
