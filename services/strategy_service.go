package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"proselit_go/db"
	"proselit_go/models"

	"gorm.io/gorm"
)

const maxPrecedents = 5

// StrategyWarning accompanies every generated strategy.
const StrategyWarning = "NUCLEAR OPTION: Use only when conventional approaches have failed"

// StrategyService generates maximum-leverage litigation strategies backed by
// documented precedents.
type StrategyService struct {
	store *db.Store
	ai    AIClient
}

// NewStrategyService creates a new strategy service instance
func NewStrategyService(store *db.Store, ai AIClient) *StrategyService {
	return &StrategyService{store: store, ai: ai}
}

// StrategyTactic describes one supported strategy type.
type StrategyTactic struct {
	Description    string   `json:"description"`
	RiskLevel      string   `json:"risk_level"`
	PrecedentCases []string `json:"precedent_cases"`
}

// strategyTactics is the fixed catalog of supported strategy types.
var strategyTactics = map[string]StrategyTactic{
	"Corporate Intimidation Counter": {
		Description: "Counter overwhelming corporate legal tactics",
		RiskLevel:   "High",
		PrecedentCases: []string{
			"David vs. Goliath: Pro se plaintiff defeats major corporation",
			"Overwhelming discovery requests backfire on defendant",
		},
	},
	"Sanctions Motion": {
		Description: "Seek sanctions against opposing counsel for frivolous conduct",
		RiskLevel:   "Medium",
		PrecedentCases: []string{
			"Rule 11 sanctions granted against corporate defendant",
			"Attorney fees awarded for bad faith litigation",
		},
	},
	"Publicity Campaign": {
		Description: "Public pressure through media and social channels",
		RiskLevel:   "High",
		PrecedentCases: []string{
			"Public attention forces settlement",
			"Corporate reputation damage leads to resolution",
		},
	},
	"Regulatory Complaint": {
		Description: "File complaints with regulatory agencies",
		RiskLevel:   "Low",
		PrecedentCases: []string{
			"EEOC complaint strengthens lawsuit",
			"SEC investigation supports fraud claims",
		},
	},
	"Class Action Threat": {
		Description: "Threaten or pursue class action certification",
		RiskLevel:   "Medium",
		PrecedentCases: []string{
			"Class certification threat forces early settlement",
			"Similar claims consolidated for maximum impact",
		},
	},
}

// AvailableStrategies lists the supported strategy types alphabetically.
func AvailableStrategies() []string {
	names := make([]string, 0, len(strategyTactics))
	for name := range strategyTactics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StrategyTactics returns the full catalog.
func StrategyTactics() map[string]StrategyTactic {
	return strategyTactics
}

// GeneratedStrategy is a successful strategy generation.
type GeneratedStrategy struct {
	StrategyID          string    `json:"strategy_id"`
	StrategyType        string    `json:"strategy_type"`
	Content             string    `json:"content"`
	RiskAssessment      string    `json:"risk_assessment"`
	ImplementationSteps []string  `json:"implementation_steps"`
	PrecedentCases      []string  `json:"precedent_cases"`
	GeneratedDate       time.Time `json:"generated_date"`
	Warning             string    `json:"warning"`
}

// GenerateStrategy builds a strategy of the given type for a situation:
// precedents first, then content grounded on them, then a risk assessment
// and an implementation plan, persisted as a draft on the case. Unknown
// strategy types and collaborator failures are errors; nothing
// failure-shaped is stored.
func (s *StrategyService) GenerateStrategy(ctx context.Context, caseID, strategyType, situation string) (*GeneratedStrategy, error) {
	tactic, ok := strategyTactics[strategyType]
	if !ok {
		return nil, fmt.Errorf("strategy type %q not available (have: %s)",
			strategyType, strings.Join(AvailableStrategies(), ", "))
	}

	precedents := s.gatherPrecedents(ctx, strategyType, tactic)

	content, err := s.generateContent(ctx, strategyType, situation, precedents)
	if err != nil {
		return nil, fmt.Errorf("strategy generation failed: %w", err)
	}

	riskAssessment, err := s.assessRisks(ctx, strategyType, content)
	if err != nil {
		return nil, fmt.Errorf("risk assessment failed: %w", err)
	}

	steps := s.implementationSteps(ctx, content)

	strategy := models.NuclearStrategy{
		CaseID:               caseID,
		StrategyType:         strategyType,
		SituationDescription: situation,
		StrategyContent:      content,
		RiskAssessment:       riskAssessment,
		Status:               models.StrategyStatusDraft,
	}
	if err := strategy.EncodePrecedents(precedents); err != nil {
		return nil, fmt.Errorf("failed to encode precedents: %w", err)
	}
	if err := strategy.EncodeSteps(steps); err != nil {
		return nil, fmt.Errorf("failed to encode implementation steps: %w", err)
	}

	err = s.store.Update(func(tx *gorm.DB) error {
		if err := requireCase(tx, caseID); err != nil {
			return err
		}
		if err := tx.Create(&strategy).Error; err != nil {
			return err
		}
		return touchCase(tx, caseID)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to store strategy: %w", err)
	}

	LogInfo(s.store, "nuclear_strategies",
		fmt.Sprintf("Generated %s strategy", strategyType), &caseID, "generate_strategy")

	return &GeneratedStrategy{
		StrategyID:          strategy.ID,
		StrategyType:        strategyType,
		Content:             content,
		RiskAssessment:      riskAssessment,
		ImplementationSteps: steps,
		PrecedentCases:      precedents,
		GeneratedDate:       time.Now(),
		Warning:             StrategyWarning,
	}, nil
}

// GetCaseStrategies returns a case's strategies, newest first.
func (s *StrategyService) GetCaseStrategies(caseID string) ([]models.NuclearStrategy, error) {
	var strategies []models.NuclearStrategy
	err := s.store.View(func(tx *gorm.DB) error {
		return tx.Where("case_id = ?", caseID).
			Order("created_at DESC").
			Find(&strategies).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch strategies: %w", err)
	}
	return strategies, nil
}

// gatherPrecedents returns precedents for a strategy type: the catalog's
// documented cases, topped up by collaborator research when available.
func (s *StrategyService) gatherPrecedents(ctx context.Context, strategyType string, tactic StrategyTactic) []string {
	precedents := append([]string{}, tactic.PrecedentCases...)

	prompt := fmt.Sprintf(`Provide 3-5 documented legal precedents for %s litigation strategy.

For each precedent, provide:
- Case citation (if available)
- Brief outcome description
- Key success factors
- Applicability to similar situations

Focus on real cases where this strategy was successfully employed.
If specific cases aren't available, provide general examples of successful tactics.`, strategyType)

	result, err := s.ai.AnalyzeLegalText(ctx, prompt, "precedent_research")
	if err != nil {
		log := fmt.Sprintf("Precedent research degraded for %s", strategyType)
		LogError(s.store, "nuclear_strategies", log, nil, err.Error())
		return precedents
	}

	for _, line := range strings.Split(result, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "v.") || strings.Contains(line, "Case:") {
			precedents = append(precedents, strings.TrimSpace(strings.ReplaceAll(line, "Case:", "")))
		}
		if len(precedents) >= maxPrecedents {
			break
		}
	}
	return precedents
}

func (s *StrategyService) generateContent(ctx context.Context, strategyType, situation string, precedents []string) (string, error) {
	var precedentSummary strings.Builder
	for _, p := range precedents {
		fmt.Fprintf(&precedentSummary, "- %s\n", p)
	}

	prompt := fmt.Sprintf(`Generate a detailed nuclear option litigation strategy for this situation:

STRATEGY TYPE: %s
SITUATION: %s

DOCUMENTED PRECEDENTS:
%s
REQUIREMENTS:
1. Based ONLY on documented successful precedents
2. Maximum leverage tactics within legal bounds
3. Specific step-by-step implementation
4. Psychological warfare elements
5. Timing considerations
6. Evidence requirements
7. Backup plans if strategy fails
8. Settlement leverage creation

CRITICAL: This is a "scorched earth" approach. Strategy must be:
- Legally sound (no frivolous elements)
- Based on verified precedents only
- Designed to overwhelm and pressure opponents
- Maximum psychological impact
- Creates settlement pressure

Generate comprehensive nuclear strategy content.`, strategyType, situation, precedentSummary.String())

	return s.ai.ProvideLegalAdvice(ctx, prompt, map[string]interface{}{
		"strategy_type": strategyType,
		"situation":     situation,
	})
}

func (s *StrategyService) assessRisks(ctx context.Context, strategyType, content string) (string, error) {
	prompt := fmt.Sprintf(`Assess the risks of this nuclear litigation strategy:

STRATEGY TYPE: %s
STRATEGY CONTENT: %s

Provide comprehensive risk assessment including:
1. Sanctions risk (probability and severity)
2. Backfire potential
3. Relationship damage (court, opposing counsel)
4. Cost implications
5. Time investment required
6. Probability of success
7. Potential unintended consequences
8. Exit strategy requirements

Rate overall risk: LOW/MEDIUM/HIGH/EXTREME
Provide specific warnings and mitigation strategies.`, strategyType, content)

	return s.ai.AnalyzeLegalText(ctx, prompt, "risk_assessment")
}

// implementationSteps extracts an ordered plan from the strategy content. A
// degraded extraction yields a single research step rather than an error.
func (s *StrategyService) implementationSteps(ctx context.Context, content string) []string {
	prompt := fmt.Sprintf(`Create a detailed step-by-step implementation plan for this nuclear strategy:

%s

Provide specific steps including:
1. Preparation phase
2. Documentation requirements
3. Execution timeline
4. Monitoring checkpoints
5. Contingency triggers

Present the plan as a numbered list.`, content)

	response, err := s.ai.AnalyzeLegalText(ctx, prompt, "implementation_planning")
	if err != nil {
		return []string{"Manual implementation planning required"}
	}

	extraction := ExtractListItems(response, 0)
	if !extraction.Structured {
		return []string{"Manual implementation planning required"}
	}
	return extraction.Items
}
