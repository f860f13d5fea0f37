// Package sambanova wraps the SambaNova chat-completion API, which speaks
// the OpenAI wire protocol at a custom base URL.
package sambanova

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"proselit_go/config"

	"github.com/sashabaranov/go-openai"
)

const requestTimeout = 30 * time.Second

// Authority is a citation passed to the document writer for grounding.
type Authority struct {
	Citation string
	Summary  string
}

// EvidenceAnalysis is the structured result of an evidence review. When the
// model's response is not valid JSON, Structured is false and Raw carries
// the full prose so a fallback is never mistaken for a parsed result.
type EvidenceAnalysis struct {
	Structured          bool                   `json:"structured"`
	RelevanceScore      interface{}            `json:"relevance_score,omitempty"`
	AdmissibilityIssues interface{}            `json:"admissibility_issues,omitempty"`
	StrategicValue      interface{}            `json:"strategic_value,omitempty"`
	Recommendations     interface{}            `json:"recommendations,omitempty"`
	Extra               map[string]interface{} `json:"-"`
	Raw                 string                 `json:"raw,omitempty"`
}

// Client calls the SambaNova chat-completion endpoint. Construct exactly one
// per process and inject it into every component that needs it.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a client from configuration.
func NewClient(cfg *config.Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.SambanovaAPIKey)
	apiCfg.BaseURL = cfg.SambanovaBaseURL

	return &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: cfg.SambanovaModel,
	}
}

// ModelName returns the configured model identifier.
func (c *Client) ModelName() string {
	return c.model
}

// ChatCompletion sends role-tagged messages and returns the model's text.
// Calls are bounded by a fixed timeout; past it they fail, never hang.
func (c *Client) ChatCompletion(ctx context.Context, messages []openai.ChatCompletionMessage, maxTokens int, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// AnalyzeLegalText runs a free-text legal analysis of the given kind.
func (c *Client) AnalyzeLegalText(ctx context.Context, text, analysisType string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "You are an expert legal analyst specializing in Texas law. Provide thorough, accurate legal analysis with specific citations to Texas statutes and case law when applicable.",
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf("Analyze this legal text for %s analysis:\n\n%s", analysisType, text),
		},
	}
	return c.ChatCompletion(ctx, messages, 2048, 0.7)
}

// GenerateLegalDocument produces court-ready document content for the given
// type, case details and grounding authorities.
func (c *Client) GenerateLegalDocument(ctx context.Context, documentType string, caseDetails map[string]interface{}, authorities []Authority) (string, error) {
	details, err := json.MarshalIndent(caseDetails, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode case details: %w", err)
	}

	var authoritiesText strings.Builder
	if len(authorities) > 0 {
		authoritiesText.WriteString("\n\nRelevant Legal Authorities:\n")
		for _, auth := range authorities {
			fmt.Fprintf(&authoritiesText, "- %s: %s\n", auth.Citation, auth.Summary)
		}
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "You are an expert legal document writer specializing in Texas court documents. Generate Supreme Court-quality legal documents that comply with Texas court formatting requirements. Use proper legal citations and ensure all arguments are supported by verified legal authority.",
		},
		{
			Role: openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(
				"Generate a %s document with the following case details:\n\n%s%s\n\nEnsure the document is court-ready with proper formatting, legal citations, and persuasive arguments.",
				documentType, string(details), authoritiesText.String()),
		},
	}
	return c.ChatCompletion(ctx, messages, 4000, 0.7)
}

// ProvideLegalAdvice answers a pro se litigant's question, with optional
// case context.
func (c *Client) ProvideLegalAdvice(ctx context.Context, query string, caseContext map[string]interface{}) (string, error) {
	contextText := ""
	if len(caseContext) > 0 {
		encoded, err := json.MarshalIndent(caseContext, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode case context: %w", err)
		}
		contextText = fmt.Sprintf("\n\nCase Context:\n%s", string(encoded))
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "You are a sharp, witty AI legal companion with world-class trial preparation skills. You specialize in Texas law and provide top 1% quality legal advice for pro se litigants. Your personality is confident, direct, and focused on winning cases. Provide practical, actionable advice while maintaining professional standards.",
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: query + contextText,
		},
	}
	return c.ChatCompletion(ctx, messages, 2048, 0.7)
}

// AnalyzeEvidence reviews an evidence description for a case type. The model
// is asked for JSON; prose responses come back tagged as unstructured.
func (c *Client) AnalyzeEvidence(ctx context.Context, evidenceDescription, caseType string) (*EvidenceAnalysis, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "You are an expert evidence analyst for legal cases. Analyze evidence for relevance, admissibility, and strategic value. Provide JSON response with analysis.",
		},
		{
			Role: openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(
				"Analyze this evidence for a %s case:\n\n%s\n\nProvide analysis in JSON format with keys: relevance_score, admissibility_issues, strategic_value, recommendations.",
				caseType, evidenceDescription),
		},
	}

	response, err := c.ChatCompletion(ctx, messages, 2048, 0.7)
	if err != nil {
		return nil, err
	}
	return ParseEvidenceAnalysis(response), nil
}

// ParseEvidenceAnalysis attempts to decode a model response as a structured
// evidence analysis, falling back to an unstructured raw result.
func ParseEvidenceAnalysis(response string) *EvidenceAnalysis {
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(response)), &decoded); err != nil {
		return &EvidenceAnalysis{Structured: false, Raw: response}
	}

	analysis := &EvidenceAnalysis{Structured: true, Extra: map[string]interface{}{}}
	for key, value := range decoded {
		switch key {
		case "relevance_score":
			analysis.RelevanceScore = value
		case "admissibility_issues":
			analysis.AdmissibilityIssues = value
		case "strategic_value":
			analysis.StrategicValue = value
		case "recommendations":
			analysis.Recommendations = value
		default:
			analysis.Extra[key] = value
		}
	}
	return analysis
}

// GenerateDefenseCounter produces a counter-response to a common defense.
func (c *Client) GenerateDefenseCounter(ctx context.Context, defenseType, caseFacts string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "You are an expert litigation strategist specializing in defeating common legal defenses. Generate comprehensive counter-arguments with supporting legal authority and tactical approaches specific to Texas law.",
		},
		{
			Role: openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(
				"Generate a comprehensive counter-response to %s defense based on these case facts:\n\n%s\n\nInclude legal citations, tactical approaches, and pre-emptive arguments.",
				defenseType, caseFacts),
		},
	}
	return c.ChatCompletion(ctx, messages, 3000, 0.7)
}

// TestConnection checks that the API is reachable and responding.
func (c *Client) TestConnection(ctx context.Context) bool {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: "Test connection"},
	}
	_, err := c.ChatCompletion(ctx, messages, 16, 0)
	return err == nil
}
