package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"proselit_go/db"
)

const (
	maxKeyFacts       = 10
	maxDetectedIssues = 5
	maxEvidenceGaps   = 20
	maxExcerptLength  = 1000
)

// fileTypeCategories maps extensions to analyzer categories.
var fileTypeCategories = map[string][]string{
	"image":    {".jpg", ".jpeg", ".png", ".gif", ".bmp"},
	"document": {".pdf", ".docx", ".txt"},
	"video":    {".mp4", ".mov", ".avi"},
	"audio":    {".mp3", ".wav", ".m4a"},
}

// FileAnalysis is what the analyzer learned about an evidence file.
type FileAnalysis struct {
	FileType           string   `json:"file_type"`
	Description        string   `json:"description"`
	EvidentiaryValue   string   `json:"evidentiary_value"`
	LegalRelevance     string   `json:"legal_relevance"`
	TextExcerpt        string   `json:"text_content,omitempty"`
	KeyFacts           []string `json:"key_facts,omitempty"`
	ViolationsDetected []string `json:"violations_detected,omitempty"`
	LegalIssues        []string `json:"legal_issues,omitempty"`
	Recommendations    []string `json:"recommendations,omitempty"`
	AnalysisNote       string   `json:"analysis_note,omitempty"`
}

// AnalyzerService examines uploaded evidence files, stores them, and attaches
// the analysis to the case's file record.
type AnalyzerService struct {
	store   *db.Store
	ai      AIClient
	storage StorageProvider
}

// NewAnalyzerService creates a new analyzer service instance
func NewAnalyzerService(store *db.Store, ai AIClient, storage StorageProvider) *AnalyzerService {
	return &AnalyzerService{store: store, ai: ai, storage: storage}
}

// AnalyzeUpload stores an uploaded file, registers it on the case, runs the
// type-appropriate analysis and persists the result on the file record.
// Returns the new file ID and the analysis.
func (s *AnalyzerService) AnalyzeUpload(ctx context.Context, caseID string, file *multipart.FileHeader) (string, *FileAnalysis, error) {
	category := categorizeFile(file.Filename)
	if category == "unknown" {
		return "", nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(file.Filename))
	}

	key := GenerateCaseFileKey(caseID, file.Filename)
	stored, err := s.storage.Upload(ctx, file, key)
	if err != nil {
		return "", nil, fmt.Errorf("failed to store upload: %w", err)
	}

	fileID, err := AddFileToCase(s.store, caseID, file.Filename, category, stored.FileSize, &stored.Key)
	if err != nil {
		return "", nil, err
	}

	analysis := s.analyze(ctx, category, file)

	encoded, err := json.Marshal(analysis)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	if err := SetFileAnalysis(s.store, fileID, string(encoded)); err != nil {
		return "", nil, err
	}

	LogInfo(s.store, "media_analyzer",
		fmt.Sprintf("Analyzed %s evidence %q", category, file.Filename), &caseID, "analyze_file")
	return fileID, analysis, nil
}

func (s *AnalyzerService) analyze(ctx context.Context, category string, file *multipart.FileHeader) *FileAnalysis {
	switch category {
	case "image":
		return imageAnalysis(file.Filename)
	case "document":
		return s.analyzeDocument(ctx, file)
	case "video":
		return videoAnalysis(file.Filename)
	default:
		return audioAnalysis(file.Filename)
	}
}

// analyzeDocument extracts readable text where possible and runs it through
// the collaborator. Binary document formats get preservation guidance
// instead of a failed parse.
func (s *AnalyzerService) analyzeDocument(ctx context.Context, file *multipart.FileHeader) *FileAnalysis {
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".txt") {
		return &FileAnalysis{
			FileType:         "document",
			Description:      fmt.Sprintf("Document file: %s", file.Filename),
			EvidentiaryValue: "medium",
			LegalRelevance:   "Document evidence with potential legal significance",
			AnalysisNote:     "Text extraction for this format requires conversion. Provide a plain text copy for content analysis.",
			Recommendations: []string{
				"Preserve original file with metadata",
				"Export a plain text copy for AI content analysis",
				"Document the source and date of the document",
			},
		}
	}

	src, err := file.Open()
	if err != nil {
		return degradedDocumentAnalysis(file.Filename, err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return degradedDocumentAnalysis(file.Filename, err)
	}
	text := strings.TrimSpace(string(content))
	if text == "" {
		return degradedDocumentAnalysis(file.Filename, fmt.Errorf("no text content found in document"))
	}

	analysisText, err := s.ai.AnalyzeLegalText(ctx, text, "evidence_analysis")
	if err != nil {
		return degradedDocumentAnalysis(file.Filename, err)
	}

	facts, violations, issues := extractAnalysisSections(analysisText)
	excerpt := text
	if len(excerpt) > maxExcerptLength {
		excerpt = excerpt[:maxExcerptLength] + "..."
	}

	return &FileAnalysis{
		FileType:           "document",
		Description:        "Document analyzed for legal relevance",
		EvidentiaryValue:   "medium",
		LegalRelevance:     "Document evidence with potential legal significance",
		TextExcerpt:        excerpt,
		KeyFacts:           facts,
		ViolationsDetected: violations,
		LegalIssues:        issues,
	}
}

// EvidenceGaps lists the evidence still needed to support each claim. A
// failed lookup for one claim degrades to generic requirements for it.
func (s *AnalyzerService) EvidenceGaps(ctx context.Context, legalClaims []string) []string {
	var gaps []string
	for _, claim := range legalClaims {
		prompt := fmt.Sprintf("What evidence is typically needed to prove: %s", claim)
		response, err := s.ai.AnalyzeLegalText(ctx, prompt, "evidence_requirements")
		if err != nil {
			gaps = append(gaps,
				fmt.Sprintf("For '%s': Document evidence needed", claim),
				fmt.Sprintf("For '%s': Witness testimony may be required", claim))
			continue
		}
		extraction := ExtractListItems(response, 0)
		for _, item := range extraction.Items {
			gaps = append(gaps, fmt.Sprintf("For '%s': %s", claim, item))
		}
		if len(gaps) >= maxEvidenceGaps {
			gaps = gaps[:maxEvidenceGaps]
			break
		}
	}
	return gaps
}

func degradedDocumentAnalysis(filename string, cause error) *FileAnalysis {
	return &FileAnalysis{
		FileType:         "document",
		Description:      fmt.Sprintf("Document file: %s", filename),
		EvidentiaryValue: "medium",
		LegalRelevance:   "Document evidence requires review",
		AnalysisNote:     fmt.Sprintf("Automated analysis unavailable: %v", cause),
	}
}

func imageAnalysis(filename string) *FileAnalysis {
	return &FileAnalysis{
		FileType:         "image",
		Description:      fmt.Sprintf("Photographic evidence: %s", filename),
		EvidentiaryValue: "high",
		LegalRelevance:   "Strong documentary evidence",
		Recommendations: []string{
			"Preserve original file with metadata intact",
			"Document when, where, and how the image was taken",
			"Identify all people and objects visible in the image",
			"Note any timestamps or location data embedded in file",
			"Consider professional forensic analysis if image quality is crucial",
			"Prepare witness testimony about image authenticity",
		},
		AnalysisNote: "Chain of custody documentation and authentication are required for court admission.",
	}
}

func videoAnalysis(filename string) *FileAnalysis {
	return &FileAnalysis{
		FileType:         "video",
		Description:      fmt.Sprintf("Video file: %s", filename),
		EvidentiaryValue: "high",
		LegalRelevance:   "Video evidence - requires detailed review",
		AnalysisNote:     "Video content analysis requires specialized tools. Consider professional forensic analysis for critical evidence.",
		Recommendations: []string{
			"Preserve original file with metadata",
			"Create detailed written description of video content",
			"Identify all persons visible in video",
			"Note timestamps and duration",
			"Consider professional video analysis if crucial to case",
		},
	}
}

func audioAnalysis(filename string) *FileAnalysis {
	return &FileAnalysis{
		FileType:         "audio",
		Description:      fmt.Sprintf("Audio file: %s", filename),
		EvidentiaryValue: "high",
		LegalRelevance:   "Audio evidence - requires transcription",
		AnalysisNote:     "Audio evidence requires careful handling and transcription for court use.",
		Recommendations: []string{
			"Preserve original file with metadata",
			"Create professional transcription",
			"Identify all speakers if possible",
			"Note audio quality and clarity",
			"Consider expert audio analysis if needed",
			"Prepare authentication testimony",
		},
	}
}

// extractAnalysisSections splits sectioned model prose into key facts,
// detected violations and legal issues. Section headers are matched loosely;
// list items under a header land in its bucket.
func extractAnalysisSections(analysisText string) (facts, violations, issues []string) {
	section := ""
	for _, line := range strings.Split(analysisText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lowered := strings.ToLower(line)
		switch {
		case isListItem(line):
			switch section {
			case "facts":
				if len(facts) < maxKeyFacts {
					facts = append(facts, line)
				}
			case "violations":
				if len(violations) < maxDetectedIssues {
					violations = append(violations, line)
				}
			case "issues":
				if len(issues) < maxDetectedIssues {
					issues = append(issues, line)
				}
			}
		case strings.Contains(lowered, "key facts") || strings.Contains(lowered, "facts"):
			section = "facts"
		case strings.Contains(lowered, "violation"):
			section = "violations"
		case strings.Contains(lowered, "legal issues") || strings.Contains(lowered, "issues"):
			section = "issues"
		}
	}
	return facts, violations, issues
}

func categorizeFile(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	for category, extensions := range fileTypeCategories {
		for _, candidate := range extensions {
			if ext == candidate {
				return category
			}
		}
	}
	return "unknown"
}
