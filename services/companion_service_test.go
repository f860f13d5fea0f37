package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"proselit_go/models"

	"gorm.io/gorm"
)

func TestAskWithoutCase(t *testing.T) {
	store := setupTestStore(t)
	svc := NewCompanionService(store, &fakeAI{adviceResponse: "File in the district where the events occurred."})

	response, err := svc.Ask(t.Context(), "Where do I file?", "")
	assert.NoError(t, err)
	assert.Equal(t, "File in the district where the events occurred.", response)

	// The exchange is recorded even without a case.
	var count int64
	err = store.View(func(tx *gorm.DB) error {
		return tx.Model(&models.AIInteraction{}).Count(&count).Error
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAskUnknownCaseIsAnError(t *testing.T) {
	store := setupTestStore(t)
	ai := &fakeAI{adviceResponse: "answer"}
	svc := NewCompanionService(store, ai)

	_, err := svc.Ask(t.Context(), "question", "missing-case")
	assert.ErrorIs(t, err, ErrNotFound)
	// The collaborator is never consulted with a bogus case.
	assert.Equal(t, 0, ai.calls)
}

func TestAskRecordsCaseScopedInteraction(t *testing.T) {
	store := setupTestStore(t)
	svc := NewCompanionService(store, &fakeAI{adviceResponse: "answer"})

	caseID, err := CreateCase(store, "Chat Case", "Civil Rights")
	assert.NoError(t, err)

	_, err = svc.Ask(t.Context(), "What is my deadline?", caseID)
	assert.NoError(t, err)

	var interactions []models.AIInteraction
	err = store.View(func(tx *gorm.DB) error {
		return tx.Find(&interactions).Error
	})
	assert.NoError(t, err)
	assert.Len(t, interactions, 1)
	assert.NotNil(t, interactions[0].CaseID)
	assert.Equal(t, caseID, *interactions[0].CaseID)
	assert.Equal(t, "companion_chat", interactions[0].InteractionType)
	assert.Equal(t, "test-model", interactions[0].ModelUsed)
}

func TestAskFailurePropagates(t *testing.T) {
	store := setupTestStore(t)
	svc := NewCompanionService(store, &fakeAI{err: assert.AnError})

	_, err := svc.Ask(t.Context(), "question", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "companion unavailable")
}

func TestMissingElementsTagsUnstructuredOutput(t *testing.T) {
	store := setupTestStore(t)

	caseID, err := CreateCase(store, "Gap Case", "Civil Rights")
	assert.NoError(t, err)

	structured := NewCompanionService(store, &fakeAI{
		analyzeResponse: "1. Serve the defendant\n2. Calendar the answer deadline",
	})
	extraction, err := structured.MissingElements(t.Context(), caseID)
	assert.NoError(t, err)
	assert.True(t, extraction.Structured)
	assert.Len(t, extraction.Items, 2)

	prose := NewCompanionService(store, &fakeAI{
		analyzeResponse: "The case looks complete overall, though service should be confirmed.",
	})
	extraction, err = prose.MissingElements(t.Context(), caseID)
	assert.NoError(t, err)
	assert.False(t, extraction.Structured)
	assert.Empty(t, extraction.Items)
	assert.NotEmpty(t, extraction.Raw)

	_, err = structured.MissingElements(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentSuggestions(t *testing.T) {
	store := setupTestStore(t)
	svc := NewCompanionService(store, &fakeAI{
		adviceResponse: "- Cite the controlling standard\n- Attach the exhibit list",
	})

	extraction, err := svc.DocumentSuggestions(t.Context(), "Complaint", map[string]interface{}{"case_type": "civil rights"})
	assert.NoError(t, err)
	assert.True(t, extraction.Structured)
	assert.Equal(t, []string{"Cite the controlling standard", "Attach the exhibit list"}, extraction.Items)
}

func TestAssessCaseStrengthRequiresCase(t *testing.T) {
	store := setupTestStore(t)
	svc := NewCompanionService(store, &fakeAI{adviceResponse: "Moderate prospects."})

	_, err := svc.AssessCaseStrength(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	caseID, err := CreateCase(store, "Strength Case", "Civil Rights")
	assert.NoError(t, err)

	assessment, err := svc.AssessCaseStrength(t.Context(), caseID)
	assert.NoError(t, err)
	assert.Equal(t, "Moderate prospects.", assessment)
}
