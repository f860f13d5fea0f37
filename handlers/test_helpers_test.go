package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"proselit_go/db"
	"proselit_go/models"
	"proselit_go/services"
	"proselit_go/services/sambanova"
)

// fakeAI is a canned collaborator for handler tests.
type fakeAI struct {
	response string
	err      error
}

func (f *fakeAI) AnalyzeLegalText(ctx context.Context, text, analysisType string) (string, error) {
	return f.response, f.err
}

func (f *fakeAI) GenerateLegalDocument(ctx context.Context, documentType string, caseDetails map[string]interface{}, authorities []sambanova.Authority) (string, error) {
	return f.response, f.err
}

func (f *fakeAI) ProvideLegalAdvice(ctx context.Context, query string, caseContext map[string]interface{}) (string, error) {
	return f.response, f.err
}

func (f *fakeAI) GenerateDefenseCounter(ctx context.Context, defenseType, caseFacts string) (string, error) {
	return f.response, f.err
}

func (f *fakeAI) ModelName() string {
	return "test-model"
}

func setupHandler(t *testing.T, ai services.AIClient) (*Handler, *db.Store) {
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

	storage := services.NewLocalStorage(t.TempDir())
	return New(store, ai, storage), store
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return e, c, rec
}
