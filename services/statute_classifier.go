package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"proselit_go/models"
)

// ResearchRequiredPlaceholder is stored when no statute could be identified,
// so downstream display code never sees an empty citation list.
const ResearchRequiredPlaceholder = "Research Required"

const maxSuggestedStatutes = 5

// statuteCategory maps a violation category to its known statutes and the
// violation keywords that identify it.
type statuteCategory struct {
	name             string
	federalStatutes  []string
	texasStatutes    []string
	commonViolations []string
}

// violationCategories is the fixed classification table for Texas pro se
// claims. Order matters: the first matching category wins.
var violationCategories = []statuteCategory{
	{
		name:             "Civil Rights",
		federalStatutes:  []string{"42 U.S.C. § 1983", "42 U.S.C. § 1981", "42 U.S.C. § 1985"},
		texasStatutes:    []string{"Texas Civil Practice and Remedies Code Chapter 106"},
		commonViolations: []string{"Due Process", "Equal Protection", "First Amendment", "Fourth Amendment"},
	},
	{
		name:             "Employment",
		federalStatutes:  []string{"Title VII", "ADA", "ADEA", "FLSA"},
		texasStatutes:    []string{"Texas Labor Code", "Texas Commission on Human Rights Act"},
		commonViolations: []string{"Discrimination", "Harassment", "Wage Theft", "Wrongful Termination"},
	},
	{
		name:             "Consumer Protection",
		federalStatutes:  []string{"FDCPA", "FCRA", "TCPA"},
		texasStatutes:    []string{"Texas Deceptive Trade Practices Act", "Texas Finance Code"},
		commonViolations: []string{"Deceptive Practices", "Debt Collection", "Credit Reporting", "Telemarketing"},
	},
	{
		name:             "Property Rights",
		federalStatutes:  []string{"Fair Housing Act", "ADA"},
		texasStatutes:    []string{"Texas Property Code", "Texas Fair Housing Act"},
		commonViolations: []string{"Housing Discrimination", "Landlord-Tenant", "Property Damage", "Trespass"},
	},
	{
		name:             "Government Accountability",
		federalStatutes:  []string{"42 U.S.C. § 1983", "First Amendment"},
		texasStatutes:    []string{"Texas Government Code", "Texas Public Information Act"},
		commonViolations: []string{"Public Records", "Open Meetings", "Government Transparency", "Official Misconduct"},
	},
}

// StatuteResult is a classified statute list tagged with how it was derived.
// A model suggestion or a placeholder is never presented as a catalog hit.
type StatuteResult struct {
	Codes  []string `json:"codes"`
	Source string   `json:"source"`
}

// Degraded reports whether the result is a placeholder rather than an
// actual classification.
func (r StatuteResult) Degraded() bool {
	return r.Source == models.StatuteSourceFallback
}

// ClassifyStatutes derives the applicable statutes for a violation. The
// fixed category table is consulted first and answers without any external
// call; only unmatched types fall through to the model, and a model failure
// degrades to the research placeholder instead of propagating.
func ClassifyStatutes(ctx context.Context, ai AIClient, violationType, description string) StatuteResult {
	if codes := classifyFromCatalog(violationType); len(codes) > 0 {
		return StatuteResult{Codes: codes, Source: models.StatuteSourceCatalog}
	}

	if ai == nil {
		return StatuteResult{Codes: []string{ResearchRequiredPlaceholder}, Source: models.StatuteSourceFallback}
	}

	prompt := fmt.Sprintf(`Identify applicable federal and Texas statutes for this violation:

Type: %s
Description: %s

Provide specific statute citations that would apply to this violation.
Focus on commonly used statutes for this type of legal claim.`, violationType, description)

	analysis, err := ai.AnalyzeLegalText(ctx, prompt, "statute_identification")
	if err != nil {
		log.Printf("[WARNING] Statute identification failed, marking for research: %v", err)
		return StatuteResult{Codes: []string{ResearchRequiredPlaceholder}, Source: models.StatuteSourceFallback}
	}

	codes := extractStatuteLines(analysis)
	if len(codes) == 0 {
		return StatuteResult{Codes: []string{ResearchRequiredPlaceholder}, Source: models.StatuteSourceFallback}
	}
	return StatuteResult{Codes: codes, Source: models.StatuteSourceModel}
}

// classifyFromCatalog matches a violation type against the category table:
// the category name contained in the violation type, or any of the
// category's violation keywords contained in it, case-insensitively.
func classifyFromCatalog(violationType string) []string {
	lowerType := strings.ToLower(violationType)
	if lowerType == "" {
		return nil
	}

	for _, category := range violationCategories {
		matched := strings.Contains(lowerType, strings.ToLower(category.name))
		if !matched {
			for _, keyword := range category.commonViolations {
				if strings.Contains(lowerType, strings.ToLower(keyword)) {
					matched = true
					break
				}
			}
		}
		if matched {
			codes := make([]string, 0, len(category.federalStatutes)+len(category.texasStatutes))
			codes = append(codes, category.federalStatutes...)
			codes = append(codes, category.texasStatutes...)
			return codes
		}
	}
	return nil
}

// extractStatuteLines pulls statute citations out of model prose: lines
// mentioning "U.S.C." or both "Texas" and "Code". Best effort only.
func extractStatuteLines(analysis string) []string {
	var statutes []string
	for _, line := range strings.Split(analysis, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "U.S.C.") ||
			(strings.Contains(line, "Texas") && strings.Contains(line, "Code")) {
			statutes = append(statutes, line)
		}
		if len(statutes) >= maxSuggestedStatutes {
			break
		}
	}
	return statutes
}
