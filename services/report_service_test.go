package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestGenerateViolationReport(t *testing.T) {
	store := setupTestStore(t)
	ai := &fakeAI{}
	violations := NewViolationService(store, ai)

	caseID, err := CreateCase(store, "Report Case", "Civil Rights")
	assert.NoError(t, err)

	violationID, err := violations.AddViolation(t.Context(), caseID, ViolationInput{
		ViolationType:   "Fourth Amendment Violation",
		PersonInvolved:  "Officer Doe",
		Description:     "Warrantless search",
		DateOccurred:    time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
		DamagesEstimate: 15000,
	})
	assert.NoError(t, err)

	_, err = violations.AddEvidence(violationID, EvidenceInput{
		EvidenceType: "Photo",
		Description:  "Broken door frame",
	})
	assert.NoError(t, err)

	_, err = violations.CreateTimeline(violationID, []TimelineEventInput{
		{EventDate: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), Description: "Entry without warrant"},
	})
	assert.NoError(t, err)

	buf, err := GenerateViolationReport(store, ai, caseID)
	assert.NoError(t, err)
	assert.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Violations", "Evidence", "Timeline"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "A1")
	assert.NoError(t, err)
	assert.Equal(t, "Violation Report: Report Case", title)

	total, err := f.GetCellValue("Summary", "B5")
	assert.NoError(t, err)
	assert.Equal(t, "1", total)

	violationType, err := f.GetCellValue("Violations", "B2")
	assert.NoError(t, err)
	assert.Equal(t, "Fourth Amendment Violation", violationType)

	statutes, err := f.GetCellValue("Violations", "F2")
	assert.NoError(t, err)
	assert.Contains(t, statutes, "42 U.S.C. § 1983")

	evidenceType, err := f.GetCellValue("Evidence", "B2")
	assert.NoError(t, err)
	assert.Equal(t, "Photo", evidenceType)

	eventDesc, err := f.GetCellValue("Timeline", "C2")
	assert.NoError(t, err)
	assert.Equal(t, "Entry without warrant", eventDesc)
}

func TestGenerateViolationReportMissingCase(t *testing.T) {
	store := setupTestStore(t)

	_, err := GenerateViolationReport(store, &fakeAI{}, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
