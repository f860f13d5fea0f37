package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"proselit_go/db"
	"proselit_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	localResultsWanted  = 5
	maxSearchResults    = 10
	maxRelevantResults  = 8
	maxSanctionsContent = 2000
	maxRecommendations  = 10
)

// AuthorityService maintains the verified legal authority cache and answers
// authority lookups for document generation.
type AuthorityService struct {
	store *db.Store
	ai    AIClient
}

// NewAuthorityService creates a new authority service instance
func NewAuthorityService(store *db.Store, ai AIClient) *AuthorityService {
	return &AuthorityService{store: store, ai: ai}
}

// AuthorityHit is one search result. Verified hits come from the local
// cache; unverified ones are model suggestions that have not been confirmed.
type AuthorityHit struct {
	Citation           string `json:"citation"`
	Title              string `json:"title,omitempty"`
	Summary            string `json:"summary"`
	SourceURL          string `json:"source_url,omitempty"`
	AuthorityType      string `json:"authority_type"`
	Jurisdiction       string `json:"jurisdiction,omitempty"`
	VerificationStatus string `json:"verification_status"`
}

// ScoredAuthority is a search hit ranked for a document generation query.
type ScoredAuthority struct {
	AuthorityHit
	Relevance float64 `json:"relevance_score"`
}

// Search looks up authorities of the given type, local cache first. When the
// cache has fewer than five matches the collaborator is consulted and its
// suggestions are merged in, local results winning on duplicate citations.
// At most ten results are returned.
func (s *AuthorityService) Search(ctx context.Context, query, authorityType string) ([]AuthorityHit, error) {
	local, err := s.searchLocal(query, authorityType)
	if err != nil {
		return nil, err
	}
	if len(local) >= localResultsWanted {
		return local, nil
	}

	external := s.searchExternal(ctx, query, authorityType)

	seen := map[string]bool{}
	merged := make([]AuthorityHit, 0, len(local)+len(external))
	for _, hit := range append(local, external...) {
		citation := strings.TrimSpace(hit.Citation)
		if citation == "" || seen[citation] {
			continue
		}
		seen[citation] = true
		merged = append(merged, hit)
		if len(merged) >= maxSearchResults {
			break
		}
	}
	return merged, nil
}

// GetRelevant selects authorities to ground a generated document: the union
// of searches built from the document type, case type and jurisdiction,
// deduplicated by citation and ranked by relevance to the combined query.
// At most eight results are returned, most relevant first.
func (s *AuthorityService) GetRelevant(ctx context.Context, docType, caseType, jurisdiction string) ([]ScoredAuthority, error) {
	queries := buildSearchQueries(docType, caseType, jurisdiction)

	seen := map[string]bool{}
	var unique []AuthorityHit
	for _, query := range queries {
		hits, err := s.Search(ctx, query, models.AuthorityTypeCaseLaw)
		if err != nil {
			return nil, err
		}
		for _, hit := range hits {
			if hit.Citation == "" || seen[hit.Citation] {
				continue
			}
			seen[hit.Citation] = true
			unique = append(unique, hit)
		}
	}

	combined := strings.Join(queries, " ")
	scored := make([]ScoredAuthority, 0, len(unique))
	for _, hit := range unique {
		scored = append(scored, ScoredAuthority{
			AuthorityHit: hit,
			Relevance:    RelevanceScore(combined, hit.Summary),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Relevance > scored[j].Relevance
	})
	if len(scored) > maxRelevantResults {
		scored = scored[:maxRelevantResults]
	}
	return scored, nil
}

// VerificationResult is the outcome of a citation check. Verified reports
// the decision; Details carries the collaborator's reasoning when the check
// went external.
type VerificationResult struct {
	Citation   string                 `json:"citation"`
	Verified   bool                   `json:"verified"`
	Source     string                 `json:"source"`
	Details    string                 `json:"verification_details,omitempty"`
	VerifiedAt time.Time              `json:"verification_date"`
	Authority  *models.LegalAuthority `json:"authority_data,omitempty"`
}

// VerifyCitation checks whether a citation is real. A citation already
// verified in the cache answers immediately; otherwise the collaborator is
// asked. Only a positive outcome is upserted by citation, so re-verifying
// refreshes the existing row rather than duplicating it and failed lookups
// never land in the cache.
func (s *AuthorityService) VerifyCitation(ctx context.Context, citation string) (*VerificationResult, error) {
	var cached models.LegalAuthority
	err := s.store.View(func(tx *gorm.DB) error {
		return tx.Where("citation = ? AND verification_status = ?",
			citation, models.VerificationVerified).First(&cached).Error
	})
	if err == nil {
		verifiedAt := cached.CreatedAt
		if cached.LastVerified != nil {
			verifiedAt = *cached.LastVerified
		}
		return &VerificationResult{
			Citation:   citation,
			Verified:   true,
			Source:     "local_database",
			VerifiedAt: verifiedAt,
			Authority:  &cached,
		}, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("citation lookup failed: %w", err)
	}

	prompt := fmt.Sprintf(`Verify this legal citation: %s

Determine if this is a real, accurate citation and provide:
1. Verification status (verified/not found/incorrect format)
2. Correct citation format if different
3. Case summary if verified
4. Court and date information
5. Current legal status (good law/overruled/questioned)`, citation)

	details, aiErr := s.ai.AnalyzeLegalText(ctx, prompt, "citation_verification")
	if aiErr != nil {
		return nil, fmt.Errorf("citation verification failed: %w", aiErr)
	}

	lowered := strings.ToLower(details)
	verified := strings.Contains(lowered, "verified") && !strings.Contains(lowered, "not found")

	now := time.Now()
	result := &VerificationResult{
		Citation:   citation,
		Verified:   verified,
		Source:     "online_verification",
		Details:    details,
		VerifiedAt: now,
	}
	if !verified {
		return result, nil
	}

	authority := models.LegalAuthority{
		Citation:           citation,
		Summary:            details,
		VerificationStatus: models.VerificationVerified,
		AuthorityType:      models.AuthorityTypeCaseLaw,
		Jurisdiction:       "Unknown",
		LastVerified:       &now,
	}
	if err := s.upsertAuthority(&authority); err != nil {
		return nil, err
	}
	result.Authority = &authority
	return result, nil
}

// RelevanceScore measures how much of the query's vocabulary a text covers:
// the fraction of distinct query tokens also present in the text. Always
// within [0, 1]; an empty query or text scores zero.
func RelevanceScore(query, text string) float64 {
	if query == "" || text == "" {
		return 0.0
	}

	queryWords := tokenSet(query)
	if len(queryWords) == 0 {
		return 0.0
	}
	textWords := tokenSet(text)

	common := 0
	for word := range queryWords {
		if textWords[word] {
			common++
		}
	}

	relevance := float64(common) / float64(len(queryWords))
	if relevance > 1.0 {
		relevance = 1.0
	}
	return relevance
}

// SanctionsReview is the result of checking draft content for Rule 11 risk.
type SanctionsReview struct {
	RiskLevel       string    `json:"sanctions_risk"`
	Analysis        string    `json:"analysis"`
	Recommendations []string  `json:"recommendations,omitempty"`
	ReviewDate      time.Time `json:"review_date"`
}

// CheckSanctionsRisk reviews document content for potential sanctions
// exposure before filing. Only the leading portion of long content is sent.
func (s *AuthorityService) CheckSanctionsRisk(ctx context.Context, content string) (*SanctionsReview, error) {
	excerpt := content
	if len(excerpt) > maxSanctionsContent {
		excerpt = excerpt[:maxSanctionsContent]
	}

	prompt := fmt.Sprintf(`Review this legal content for potential sanctions issues under Rule 11 and similar rules:

Content: %s

Check for:
1. Frivolous legal arguments
2. Factual assertions without evidentiary support
3. Improper legal citations
4. Harassment or bad faith elements
5. Compliance with legal and ethical standards

Provide specific warnings about potential sanctions risks and recommendations for improvement.
Rate overall sanctions risk: LOW/MEDIUM/HIGH`, excerpt)

	analysis, err := s.ai.AnalyzeLegalText(ctx, prompt, "sanctions_review")
	if err != nil {
		return nil, fmt.Errorf("sanctions check failed: %w", err)
	}

	riskLevel := "MEDIUM"
	lowered := strings.ToLower(analysis)
	if strings.Contains(lowered, "low") {
		riskLevel = "LOW"
	} else if strings.Contains(lowered, "high") {
		riskLevel = "HIGH"
	}

	extraction := ExtractListItems(analysis, maxRecommendations)

	return &SanctionsReview{
		RiskLevel:       riskLevel,
		Analysis:        analysis,
		Recommendations: extraction.Items,
		ReviewDate:      time.Now(),
	}, nil
}

// searchLocal matches the query against citation, title and summary of
// verified authorities of the requested type.
func (s *AuthorityService) searchLocal(query, authorityType string) ([]AuthorityHit, error) {
	pattern := "%" + query + "%"
	var rows []models.LegalAuthority
	err := s.store.View(func(tx *gorm.DB) error {
		return tx.
			Where("(citation LIKE ? OR title LIKE ? OR summary LIKE ?)", pattern, pattern, pattern).
			Where("authority_type = ?", authorityType).
			Where("verification_status = ?", models.VerificationVerified).
			Order("last_verified DESC").
			Limit(maxSearchResults).
			Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("local authority search failed: %w", err)
	}

	hits := make([]AuthorityHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, AuthorityHit{
			Citation:           row.Citation,
			Title:              row.Title,
			Summary:            row.Summary,
			SourceURL:          row.SourceURL,
			AuthorityType:      row.AuthorityType,
			Jurisdiction:       row.Jurisdiction,
			VerificationStatus: row.VerificationStatus,
		})
	}
	return hits, nil
}

// searchExternal asks the collaborator for authorities and parses its prose
// into citation/summary pairs. Failures yield no results rather than an
// error; the local cache still answers.
func (s *AuthorityService) searchExternal(ctx context.Context, query, authorityType string) []AuthorityHit {
	prompt := fmt.Sprintf(`Find legal authorities for: %s
Search Type: %s

Provide real, verifiable legal authorities including:
1. Accurate case citations
2. Brief case summaries
3. Relevance to the search query
4. Court and jurisdiction information

CRITICAL: Only provide real, verifiable legal authorities. Do not create fictional cases.`, query, authorityType)

	result, err := s.ai.AnalyzeLegalText(ctx, prompt, "legal_research")
	if err != nil {
		LogError(s.store, "legal_authority", "External authority search degraded", nil, err.Error())
		return nil
	}
	return parseAuthorityLines(result, authorityType)
}

// parseAuthorityLines splits model prose into authorities: a line carrying
// "v." or "Citation:" starts a new entry, "Summary:"/"Description:" lines
// fill in the running one.
func parseAuthorityLines(text, authorityType string) []AuthorityHit {
	var hits []AuthorityHit
	var current *AuthorityHit

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.Contains(line, "v.") || strings.Contains(line, "Citation:"):
			if current != nil {
				hits = append(hits, *current)
			}
			current = &AuthorityHit{
				Citation:           strings.TrimSpace(strings.ReplaceAll(line, "Citation:", "")),
				AuthorityType:      authorityType,
				VerificationStatus: models.VerificationUnverified,
			}
		case strings.Contains(line, "Summary:") || strings.Contains(line, "Description:"):
			if current != nil {
				summary := strings.ReplaceAll(line, "Summary:", "")
				summary = strings.ReplaceAll(summary, "Description:", "")
				current.Summary = strings.TrimSpace(summary)
			}
		}
	}
	if current != nil {
		hits = append(hits, *current)
	}
	if len(hits) > maxSearchResults {
		hits = hits[:maxSearchResults]
	}
	return hits
}

// buildSearchQueries assembles the query list for a document type, plus the
// case type and jurisdiction.
func buildSearchQueries(docType, caseType, jurisdiction string) []string {
	baseQueries := map[string][]string{
		"Complaint":                   {"civil rights violations", "section 1983", "constitutional claims"},
		"Motion to Dismiss":           {"motion to dismiss standards", "12(b)(6) motion", "failure to state claim"},
		"Motion for Summary Judgment": {"summary judgment standards", "genuine issue material fact", "Fed Rule 56"},
		"Response":                    {"response brief", "opposition motion", "counter-arguments"},
		"Discovery":                   {"discovery rules", "interrogatories", "document requests"},
	}

	queries, ok := baseQueries[docType]
	if !ok {
		queries = []string{"legal precedent", "case law"}
	}
	queries = append([]string{}, queries...)

	if caseType != "" {
		queries = append(queries, caseType)
	}
	if jurisdiction == "" {
		jurisdiction = "Texas"
	}
	queries = append(queries, jurisdiction+" law")
	return queries
}

// upsertAuthority inserts an authority or, when the citation already exists,
// refreshes the mutable columns of the existing row.
func (s *AuthorityService) upsertAuthority(authority *models.LegalAuthority) error {
	err := s.store.Update(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "citation"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "summary", "full_text", "source_url",
				"verification_status", "authority_type", "jurisdiction", "last_verified",
			}),
		}).Create(authority).Error
	})
	if err != nil {
		return fmt.Errorf("failed to store authority: %w", err)
	}
	return nil
}

func tokenSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		set[word] = true
	}
	return set
}
