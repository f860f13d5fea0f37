package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"proselit_go/db"
)

// DefenseStrategy describes a common defense and its prepared counters.
type DefenseStrategy struct {
	Description     string   `json:"description"`
	Standard        string   `json:"standard"`
	CounterElements []string `json:"counter_elements"`
	KeyCases        []string `json:"key_cases"`
}

// defenseStrategies is the fixed catalog of recognized defenses.
var defenseStrategies = map[string]DefenseStrategy{
	"Qualified Immunity": {
		Description: "Government officials claim protection from civil liability",
		Standard:    "Clearly established law + reasonable official test",
		CounterElements: []string{
			"Constitutional right was clearly established",
			"No reasonable official could believe conduct was lawful",
			"Factual allegations sufficient to overcome immunity",
		},
		KeyCases: []string{
			"Pearson v. Callahan (2009)",
			"Hope v. Pelzer (2002)",
			"Saucier v. Katz (2001)",
		},
	},
	"Statute of Limitations": {
		Description: "Claims time-barred under applicable limitations period",
		Standard:    "Claim must be filed within statutory time period",
		CounterElements: []string{
			"Discovery rule application",
			"Equitable tolling doctrines",
			"Continuing violation theory",
			"Fraudulent concealment",
		},
		KeyCases: []string{
			"TRW Inc. v. Andrews (2001)",
			"Cada v. Baxter Healthcare Corp (1990)",
			"Holmberg v. Armbrecht (1946)",
		},
	},
	"Standing": {
		Description: "Plaintiff lacks Article III standing to sue",
		Standard:    "Injury in fact, causation, redressability",
		CounterElements: []string{
			"Concrete and particularized injury",
			"Traceability to defendant's conduct",
			"Likely redressability by favorable decision",
		},
		KeyCases: []string{
			"Lujan v. Defenders of Wildlife (1992)",
			"Friends of the Earth v. Laidlaw (2000)",
			"Steel Co. v. Citizens for Better Environment (1998)",
		},
	},
	"Sovereign Immunity": {
		Description: "State immunity from federal lawsuits",
		Standard:    "11th Amendment protection",
		CounterElements: []string{
			"Express waiver by state",
			"Valid abrogation by Congress",
			"Ex parte Young exception",
			"Municipal liability under Section 1983",
		},
		KeyCases: []string{
			"Ex parte Young (1908)",
			"Seminole Tribe v. Florida (1996)",
			"Tennessee v. Lane (2004)",
		},
	},
}

// DefenseService builds pre-emptive counter-responses to the defenses a pro
// se plaintiff is most likely to face.
type DefenseService struct {
	store       *db.Store
	ai          AIClient
	authorities *AuthorityService
}

// NewDefenseService creates a new defense service instance
func NewDefenseService(store *db.Store, ai AIClient, authorities *AuthorityService) *DefenseService {
	return &DefenseService{store: store, ai: ai, authorities: authorities}
}

// RecognizedDefenses lists the defenses in the catalog alphabetically.
func RecognizedDefenses() []string {
	names := make([]string, 0, len(defenseStrategies))
	for name := range defenseStrategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefenseStrategies returns the full defense catalog.
func DefenseStrategies() map[string]DefenseStrategy {
	return defenseStrategies
}

// DefenseCounter is a generated counter-response.
type DefenseCounter struct {
	DefenseType     string            `json:"defense_type"`
	Content         string            `json:"content"`
	Authorities     []ScoredAuthority `json:"legal_authorities"`
	CounterElements []string          `json:"counter_elements"`
	KeyCases        []string          `json:"key_cases"`
	GeneratedDate   time.Time         `json:"generated_date"`
	CaseID          string            `json:"case_id,omitempty"`
}

// GenerateCounter produces a counter-response to a recognized defense,
// grounded in the catalog's elements plus cached authorities. Unknown
// defense types are an error carrying the recognized list.
func (s *DefenseService) GenerateCounter(ctx context.Context, defenseType, caseID, caseFacts string) (*DefenseCounter, error) {
	strategy, ok := defenseStrategies[defenseType]
	if !ok {
		return nil, fmt.Errorf("defense type %q not recognized (have: %s)",
			defenseType, strings.Join(RecognizedDefenses(), ", "))
	}

	authorities, err := s.authorities.GetRelevant(ctx, "Response", defenseType, "")
	if err != nil {
		return nil, err
	}

	facts := caseFacts
	if facts == "" {
		facts = fmt.Sprintf("Counter elements to establish: %s. Key cases: %s.",
			strings.Join(strategy.CounterElements, "; "),
			strings.Join(strategy.KeyCases, "; "))
	}

	content, err := s.ai.GenerateDefenseCounter(ctx, defenseType, facts)
	if err != nil {
		return nil, fmt.Errorf("defense counter generation failed: %w", err)
	}

	var logCaseID *string
	if caseID != "" {
		logCaseID = &caseID
	}
	LogAIInteraction(s.store, logCaseID, fmt.Sprintf("Counter %s defense", defenseType),
		content, "defense_counter", s.ai.ModelName(), 0)

	return &DefenseCounter{
		DefenseType:     defenseType,
		Content:         content,
		Authorities:     authorities,
		CounterElements: strategy.CounterElements,
		KeyCases:        strategy.KeyCases,
		GeneratedDate:   time.Now(),
		CaseID:          caseID,
	}, nil
}
