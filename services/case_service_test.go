package services

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"proselit_go/models"

	"gorm.io/gorm"
)

func TestCreateAndGetCase(t *testing.T) {
	store := setupTestStore(t)

	caseID, err := CreateCase(store, "Smith v. City of Austin", "Civil Rights")
	assert.NoError(t, err)
	assert.NotEmpty(t, caseID)

	c, err := GetCase(store, caseID)
	assert.NoError(t, err)
	assert.Equal(t, "Smith v. City of Austin", c.Name)
	assert.Equal(t, "Civil Rights", c.CaseType)
	assert.Equal(t, models.CaseStatusActive, c.Status)
}

func TestGetCaseNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := GetCase(store, "nonexistent-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCasesOrdering(t *testing.T) {
	store := setupTestStore(t)

	// Create two cases, then touch the first so it becomes the most
	// recently modified.
	firstID, err := CreateCase(store, "First Case", "Employment")
	assert.NoError(t, err)
	secondID, err := CreateCase(store, "Second Case", "Civil Rights")
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	updated, err := UpdateCase(store, firstID, CaseUpdates{Status: strPtr(models.CaseStatusClosed)})
	assert.NoError(t, err)
	assert.True(t, updated)

	cases, err := ListCases(store)
	assert.NoError(t, err)
	assert.Len(t, cases, 2)
	assert.Equal(t, firstID, cases[0].ID)
	assert.Equal(t, secondID, cases[1].ID)
}

func TestUpdateCaseRestampsLastModified(t *testing.T) {
	store := setupTestStore(t)

	caseID, err := CreateCase(store, "Timestamp Case", "Consumer Protection")
	assert.NoError(t, err)

	before, err := GetCase(store, caseID)
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	updated, err := UpdateCase(store, caseID, CaseUpdates{Name: strPtr("Renamed Case")})
	assert.NoError(t, err)
	assert.True(t, updated)

	after, err := GetCase(store, caseID)
	assert.NoError(t, err)
	assert.Equal(t, "Renamed Case", after.Name)
	assert.True(t, after.LastModified.After(before.LastModified))
}

func TestUpdateCaseNotFound(t *testing.T) {
	store := setupTestStore(t)

	updated, err := UpdateCase(store, "missing", CaseUpdates{Name: strPtr("x")})
	assert.NoError(t, err)
	assert.False(t, updated)
}

func TestAddFileRestampsCase(t *testing.T) {
	store := setupTestStore(t)

	caseID, err := CreateCase(store, "File Case", "Property Rights")
	assert.NoError(t, err)

	before, err := GetCase(store, caseID)
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	fileID, err := AddFileToCase(store, caseID, "lease.pdf", "pdf", 2048, strPtr("/tmp/lease.pdf"))
	assert.NoError(t, err)
	assert.NotEmpty(t, fileID)

	after, err := GetCase(store, caseID)
	assert.NoError(t, err)
	assert.True(t, after.LastModified.After(before.LastModified))
	assert.Len(t, after.Files, 1)
	assert.Equal(t, "lease.pdf", after.Files[0].Filename)
}

func TestAddFileToMissingCase(t *testing.T) {
	store := setupTestStore(t)

	_, err := AddFileToCase(store, "missing", "a.txt", "txt", 10, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentFileAdds(t *testing.T) {
	store := setupTestStore(t)

	caseID, err := CreateCase(store, "Concurrent Case", "Civil Rights")
	assert.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = AddFileToCase(store, caseID, "evidence.txt", "txt", 128, nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	files, err := GetCaseFiles(store, caseID)
	assert.NoError(t, err)
	assert.Len(t, files, workers)
}

func TestDeleteCaseRemovesEverything(t *testing.T) {
	store := setupTestStore(t)
	ai := &fakeAI{}
	violations := NewViolationService(store, ai)

	caseID, err := CreateCase(store, "Doomed Case", "Civil Rights")
	assert.NoError(t, err)

	violationID, err := violations.AddViolation(t.Context(), caseID, ViolationInput{
		ViolationType: "Fourth Amendment Violation",
		Description:   "Warrantless search of apartment",
		DateOccurred:  time.Now(),
	})
	assert.NoError(t, err)

	_, err = violations.AddEvidence(violationID, EvidenceInput{
		EvidenceType: "Photo",
		Description:  "Door damage",
	})
	assert.NoError(t, err)

	_, err = violations.CreateTimeline(violationID, []TimelineEventInput{
		{EventDate: time.Now(), Description: "Police arrived"},
	})
	assert.NoError(t, err)

	_, err = AddFileToCase(store, caseID, "report.pdf", "pdf", 512, nil)
	assert.NoError(t, err)
	_, err = AddDocumentToCase(store, caseID, "Complaint", "Draft Complaint", "content")
	assert.NoError(t, err)

	deleted, err := DeleteCase(store, caseID)
	assert.NoError(t, err)
	assert.True(t, deleted)

	// Nothing the case owned remains addressable.
	_, err = GetCase(store, caseID)
	assert.ErrorIs(t, err, ErrNotFound)

	var counts = map[string]int64{}
	err = store.View(func(tx *gorm.DB) error {
		for name, model := range map[string]interface{}{
			"violations": &models.Violation{},
			"statutes":   &models.ViolationStatute{},
			"evidence":   &models.Evidence{},
			"timeline":   &models.TimelineEvent{},
			"files":      &models.CaseFile{},
			"documents":  &models.CaseDocument{},
		} {
			var n int64
			if err := tx.Model(model).Count(&n).Error; err != nil {
				return err
			}
			counts[name] = n
		}
		return nil
	})
	assert.NoError(t, err)
	for name, n := range counts {
		assert.Zero(t, n, "leftover %s after case delete", name)
	}
}

func TestDeleteCaseNotFound(t *testing.T) {
	store := setupTestStore(t)

	deleted, err := DeleteCase(store, "missing")
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestUpdateDocumentContentIncrementsVersion(t *testing.T) {
	store := setupTestStore(t)

	caseID, err := CreateCase(store, "Doc Case", "Employment")
	assert.NoError(t, err)

	docID, err := AddDocumentToCase(store, caseID, "Complaint", "Draft", "first draft")
	assert.NoError(t, err)

	err = UpdateDocumentContent(store, docID, "second draft")
	assert.NoError(t, err)

	doc, err := GetDocument(store, docID)
	assert.NoError(t, err)
	assert.Equal(t, "second draft", doc.Content)
	assert.Equal(t, 2, doc.Version)
}

func TestMarkDocumentFiled(t *testing.T) {
	store := setupTestStore(t)

	caseID, err := CreateCase(store, "Filing Case", "Civil Rights")
	assert.NoError(t, err)

	docID, err := AddDocumentToCase(store, caseID, "Motion to Dismiss", "Motion", "content")
	assert.NoError(t, err)

	filingDate := time.Now()
	err = MarkDocumentFiled(store, docID, filingDate)
	assert.NoError(t, err)

	doc, err := GetDocument(store, docID)
	assert.NoError(t, err)
	assert.Equal(t, models.DocumentStatusFiled, doc.Status)
	assert.NotNil(t, doc.FilingDate)
}

func TestSearchCasesMatchesNameAndTypeOnly(t *testing.T) {
	store := setupTestStore(t)

	matchID, err := CreateCase(store, "Housing Dispute", "Property Rights")
	assert.NoError(t, err)
	otherID, err := CreateCase(store, "Wage Claim", "Employment")
	assert.NoError(t, err)

	// Document content never matches.
	_, err = AddDocumentToCase(store, otherID, "Complaint", "Draft", "housing housing housing")
	assert.NoError(t, err)

	results, err := SearchCases(store, "housing")
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, matchID, results[0].ID)

	// Case-insensitive against the type column too.
	results, err = SearchCases(store, "EMPLOY")
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, otherID, results[0].ID)
}

func TestGetCaseStatistics(t *testing.T) {
	store := setupTestStore(t)

	caseID, err := CreateCase(store, "Stats Case", "Civil Rights")
	assert.NoError(t, err)

	_, err = AddFileToCase(store, caseID, "a.txt", "txt", 1, nil)
	assert.NoError(t, err)
	_, err = AddFileToCase(store, caseID, "b.txt", "txt", 1, nil)
	assert.NoError(t, err)
	_, err = AddDocumentToCase(store, caseID, "Complaint", "Draft", "content")
	assert.NoError(t, err)

	stats, err := GetCaseStatistics(store, caseID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.FileCount)
	assert.Equal(t, int64(1), stats.DocumentCount)

	_, err = GetCaseStatistics(store, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCaseMetadataRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	caseID, err := CreateCase(store, "Meta Case", "Civil Rights")
	assert.NoError(t, err)

	// A fresh case reads back an empty mapping, not a nil one.
	c, err := GetCase(store, caseID)
	assert.NoError(t, err)
	assert.NotNil(t, c.DecodedMetadata)
	assert.Empty(t, c.DecodedMetadata)

	updated, err := UpdateCase(store, caseID, CaseUpdates{
		Metadata: map[string]interface{}{
			"court":      "Fifth District",
			"filing_fee": 402.0,
		},
	})
	assert.NoError(t, err)
	assert.True(t, updated)

	c, err = GetCase(store, caseID)
	assert.NoError(t, err)
	assert.Equal(t, "Fifth District", c.DecodedMetadata["court"])
	assert.Equal(t, 402.0, c.DecodedMetadata["filing_fee"])

	// List and search surface the decoded mapping as well.
	cases, err := ListCases(store)
	assert.NoError(t, err)
	assert.Len(t, cases, 1)
	assert.Equal(t, "Fifth District", cases[0].DecodedMetadata["court"])

	results, err := SearchCases(store, "meta")
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "Fifth District", results[0].DecodedMetadata["court"])
}

func TestRemoveFileFromCase(t *testing.T) {
	store := setupTestStore(t)
	storage := NewLocalStorage(t.TempDir())

	caseID, err := CreateCase(store, "File Case", "Civil Rights")
	assert.NoError(t, err)

	key := GenerateCaseFileKey(caseID, "notes.txt")
	_, err = storage.UploadReader(t.Context(), strings.NewReader("witness notes"), key, "text/plain", 13)
	assert.NoError(t, err)

	fileID, err := AddFileToCase(store, caseID, "notes.txt", "document", 13, &key)
	assert.NoError(t, err)

	err = RemoveFileFromCase(t.Context(), store, storage, fileID)
	assert.NoError(t, err)

	_, err = GetFile(store, fileID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The stored content is gone too.
	_, _, err = storage.Get(t.Context(), key)
	assert.Error(t, err)
}

func TestRemoveFileFromCaseNotFound(t *testing.T) {
	store := setupTestStore(t)
	storage := NewLocalStorage(t.TempDir())

	err := RemoveFileFromCase(t.Context(), store, storage, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
