package services

import (
	"context"

	"proselit_go/services/sambanova"
)

// AIClient is the generation/verification collaborator as the services
// consume it. The concrete implementation is sambanova.Client; tests inject
// fakes.
type AIClient interface {
	AnalyzeLegalText(ctx context.Context, text, analysisType string) (string, error)
	GenerateLegalDocument(ctx context.Context, documentType string, caseDetails map[string]interface{}, authorities []sambanova.Authority) (string, error)
	ProvideLegalAdvice(ctx context.Context, query string, caseContext map[string]interface{}) (string, error)
	GenerateDefenseCounter(ctx context.Context, defenseType, caseFacts string) (string, error)
	ModelName() string
}
