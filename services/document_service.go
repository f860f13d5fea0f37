package services

import (
	"context"
	"fmt"
	"time"

	"proselit_go/db"
	"proselit_go/models"
	"proselit_go/services/sambanova"

	"gorm.io/gorm"
)

// DocumentService generates court-ready documents grounded in verified
// legal authorities.
type DocumentService struct {
	store       *db.Store
	ai          AIClient
	authorities *AuthorityService
}

// NewDocumentService creates a new document service instance
func NewDocumentService(store *db.Store, ai AIClient, authorities *AuthorityService) *DocumentService {
	return &DocumentService{store: store, ai: ai, authorities: authorities}
}

// DocumentParams carries the case facts a document is generated from.
type DocumentParams struct {
	PlaintiffName string `json:"plaintiff_name"`
	DefendantName string `json:"defendant_name"`
	CaseNumber    string `json:"case_number"`
	CourtName     string `json:"court_name"`
	CaseFacts     string `json:"case_facts"`
	LegalClaims   string `json:"legal_claims"`
	Jurisdiction  string `json:"jurisdiction"`
}

// GeneratedDocument is a successful generation. A failed generation is an
// error return; failure text is never persisted as document content.
type GeneratedDocument struct {
	DocumentID      string            `json:"document_id"`
	DocumentType    string            `json:"document_type"`
	Content         string            `json:"content"`
	AuthoritiesUsed []ScoredAuthority `json:"authorities_used"`
	GeneratedDate   time.Time         `json:"generated_date"`
}

// GenerateDocument produces a document of the given type for a case: relevant
// authorities are gathered first, the collaborator drafts against them, and
// the result is persisted as a draft attached to the case.
func (s *DocumentService) GenerateDocument(ctx context.Context, docType, caseID string, params DocumentParams) (*GeneratedDocument, error) {
	if missing := ValidateDocumentRequirements(docType, params); len(missing) > 0 {
		return nil, fmt.Errorf("document requirements not met: %v", missing)
	}

	c, err := GetCase(s.store, caseID)
	if err != nil {
		return nil, err
	}

	authorities, err := s.authorities.GetRelevant(ctx, docType, c.CaseType, params.Jurisdiction)
	if err != nil {
		return nil, fmt.Errorf("authority retrieval failed: %w", err)
	}

	grounding := make([]sambanova.Authority, 0, len(authorities))
	for _, auth := range authorities {
		grounding = append(grounding, sambanova.Authority{
			Citation: auth.Citation,
			Summary:  auth.Summary,
		})
	}

	caseDetails := map[string]interface{}{
		"plaintiff_name": params.PlaintiffName,
		"defendant_name": params.DefendantName,
		"case_number":    params.CaseNumber,
		"court_name":     params.CourtName,
		"case_facts":     params.CaseFacts,
		"legal_claims":   params.LegalClaims,
		"formatting":     "Texas court compliance",
	}

	content, err := s.ai.GenerateLegalDocument(ctx, docType, caseDetails, grounding)
	if err != nil {
		LogError(s.store, "document_generator", "Document generation failed", &caseID, err.Error())
		return nil, fmt.Errorf("document generation failed: %w", err)
	}

	title := fmt.Sprintf("%s - %s", docType, time.Now().Format("2006-01-02"))
	docID, err := AddDocumentToCase(s.store, caseID, docType, title, content)
	if err != nil {
		return nil, err
	}

	citations := make([]string, 0, len(authorities))
	for _, auth := range authorities {
		citations = append(citations, auth.Citation)
	}
	if err := s.recordAuthoritiesUsed(docID, citations); err != nil {
		return nil, err
	}

	LogAIInteraction(s.store, &caseID, fmt.Sprintf("Generate %s", docType),
		content, "document_generation", s.ai.ModelName(), 0)

	return &GeneratedDocument{
		DocumentID:      docID,
		DocumentType:    docType,
		Content:         content,
		AuthoritiesUsed: authorities,
		GeneratedDate:   time.Now(),
	}, nil
}

// RenderDocumentPDF renders a stored document to court-formatted PDF bytes.
func (s *DocumentService) RenderDocumentPDF(documentID string, caption FilingCaption) ([]byte, error) {
	doc, err := GetDocument(s.store, documentID)
	if err != nil {
		return nil, err
	}
	html := RenderDocumentHTML(doc.Content, caption)
	return GeneratePDF(html, DefaultPDFOptions())
}

// DocumentTemplate describes one supported document type.
type DocumentTemplate struct {
	Description      string   `json:"description"`
	RequiredElements []string `json:"required_elements"`
	TypicalDefenses  []string `json:"typical_defenses"`
}

// DocumentTemplates lists the supported document types.
func DocumentTemplates() map[string]DocumentTemplate {
	return map[string]DocumentTemplate{
		"Civil Rights Complaint": {
			Description:      "42 USC 1983 civil rights violation complaint",
			RequiredElements: []string{"Constitutional violation", "Color of law", "Damages"},
			TypicalDefenses:  []string{"Qualified immunity", "Statute of limitations"},
		},
		"Motion to Dismiss Response": {
			Description:      "Response to defendant's motion to dismiss",
			RequiredElements: []string{"Facts stated", "Legal sufficiency", "Standard of review"},
			TypicalDefenses:  []string{"Failure to state claim", "Lack of jurisdiction"},
		},
		"Summary Judgment Motion": {
			Description:      "Motion for summary judgment with supporting evidence",
			RequiredElements: []string{"Undisputed facts", "Legal standard", "No genuine issue"},
			TypicalDefenses:  []string{"Disputed facts", "Legal questions remain"},
		},
		"Discovery Requests": {
			Description:      "Interrogatories, requests for production, admissions",
			RequiredElements: []string{"Relevant scope", "Proper format", "Good faith"},
			TypicalDefenses:  []string{"Overly broad", "Privileged", "Burden"},
		},
		"Immunity Defense Response": {
			Description:      "Response to qualified/sovereign immunity claims",
			RequiredElements: []string{"Clearly established law", "Factual allegations", "Good faith"},
			TypicalDefenses:  []string{"No clearly established right", "Reasonable reliance"},
		},
	}
}

// ValidateDocumentRequirements reports what a generation request is missing.
// An empty result means the request is complete.
func ValidateDocumentRequirements(docType string, params DocumentParams) []string {
	var missing []string
	if params.PlaintiffName == "" {
		missing = append(missing, "Plaintiff name required")
	}
	if params.DefendantName == "" {
		missing = append(missing, "Defendant name required")
	}
	if params.CaseFacts == "" {
		missing = append(missing, "Case facts required")
	}
	if params.LegalClaims == "" {
		missing = append(missing, "Legal claims required")
	}
	return missing
}

// DefenseResponse pairs an expected defense with its prepared counter.
type DefenseResponse struct {
	Defense  string `json:"defense"`
	Response string `json:"response"`
}

// PreEmptiveDefenses returns prepared counters to the defenses a document
// type typically draws.
func PreEmptiveDefenses(docType string) []DefenseResponse {
	responses := map[string][]DefenseResponse{
		"Civil Rights Complaint": {
			{
				Defense:  "Qualified Immunity",
				Response: "Plaintiff's constitutional rights were clearly established at the time of violation, and no reasonable officer could have believed their conduct was lawful.",
			},
			{
				Defense:  "Statute of Limitations",
				Response: "Claim filed within applicable limitation period, with continuing violation doctrine applying to ongoing misconduct.",
			},
		},
		"Motion to Dismiss Response": {
			{
				Defense:  "Failure to State Claim",
				Response: "Complaint states plausible claim for relief with sufficient factual allegations to survive motion to dismiss under Twombly/Iqbal standard.",
			},
		},
	}
	return responses[docType]
}

// recordAuthoritiesUsed stores the citation list on the document.
func (s *DocumentService) recordAuthoritiesUsed(documentID string, citations []string) error {
	doc := models.CaseDocument{}
	if err := doc.EncodeAuthorities(citations); err != nil {
		return fmt.Errorf("failed to encode authorities: %w", err)
	}

	err := s.store.Update(func(tx *gorm.DB) error {
		return tx.Model(&models.CaseDocument{}).
			Where("id = ?", documentID).
			Update("legal_authorities", doc.LegalAuthorities).Error
	})
	if err != nil {
		return fmt.Errorf("failed to record authorities used: %w", err)
	}
	return nil
}
