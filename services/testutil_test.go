package services

import (
	"context"
	"testing"

	"proselit_go/db"
	"proselit_go/models"
	"proselit_go/services/sambanova"
)

// setupTestStore opens an in-memory store with the full schema migrated.
func setupTestStore(t *testing.T) *db.Store {
	t.Helper()

	store, err := db.Open(":memory:", "test")
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	err = store.Migrate(
		&models.Case{},
		&models.CaseFile{},
		&models.CaseDocument{},
		&models.Violation{},
		&models.ViolationStatute{},
		&models.Evidence{},
		&models.TimelineEvent{},
		&models.LegalAuthority{},
		&models.NuclearStrategy{},
		&models.SystemLog{},
		&models.AIInteraction{},
		&models.UserPreference{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// fakeAI is a canned collaborator. Responses are served per method; a
// non-nil err makes every call fail. Calls counts total invocations.
type fakeAI struct {
	analyzeResponse  string
	documentResponse string
	adviceResponse   string
	counterResponse  string
	err              error
	calls            int
}

func (f *fakeAI) AnalyzeLegalText(ctx context.Context, text, analysisType string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.analyzeResponse, nil
}

func (f *fakeAI) GenerateLegalDocument(ctx context.Context, documentType string, caseDetails map[string]interface{}, authorities []sambanova.Authority) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.documentResponse, nil
}

func (f *fakeAI) ProvideLegalAdvice(ctx context.Context, query string, caseContext map[string]interface{}) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.adviceResponse, nil
}

func (f *fakeAI) GenerateDefenseCounter(ctx context.Context, defenseType, caseFacts string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.counterResponse, nil
}

func (f *fakeAI) ModelName() string {
	return "test-model"
}

func strPtr(s string) *string {
	return &s
}
