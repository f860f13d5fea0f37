package services

import (
	"bytes"
	"fmt"
	"time"

	"proselit_go/db"

	"github.com/xuri/excelize/v2"
)

// GenerateViolationReport exports a case's violations, evidence and timelines
// to an Excel workbook: a summary sheet plus one sheet per record type.
func GenerateViolationReport(store *db.Store, ai AIClient, caseID string) (*bytes.Buffer, error) {
	c, err := GetCase(store, caseID)
	if err != nil {
		return nil, err
	}

	violations := NewViolationService(store, ai)
	records, err := violations.GetCaseViolations(caseID)
	if err != nil {
		return nil, err
	}
	summary, err := violations.GetViolationSummary(caseID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	// --- Summary Sheet ---
	sheetSummary := "Summary"
	f.SetSheetName("Sheet1", sheetSummary)

	f.SetCellValue(sheetSummary, "A1", fmt.Sprintf("Violation Report: %s", c.Name))
	f.SetCellStyle(sheetSummary, "A1", "A1", titleStyle)
	f.SetCellValue(sheetSummary, "A3", "Case Type")
	f.SetCellValue(sheetSummary, "B3", c.CaseType)
	f.SetCellValue(sheetSummary, "A4", "Status")
	f.SetCellValue(sheetSummary, "B4", c.Status)
	f.SetCellValue(sheetSummary, "A5", "Total Violations")
	f.SetCellValue(sheetSummary, "B5", summary.TotalCount)
	f.SetCellValue(sheetSummary, "A6", "Total Damages Claimed")
	f.SetCellValue(sheetSummary, "B6", summary.TotalDamages)
	f.SetCellValue(sheetSummary, "A7", "Report Generated")
	f.SetCellValue(sheetSummary, "B7", time.Now().Format("2006-01-02 15:04"))

	row := 9
	f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", row), "Evidence by Type")
	f.SetCellStyle(sheetSummary, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headerStyle)
	row++
	for evType, count := range summary.EvidenceCounts {
		f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", row), evType)
		f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", row), count)
		row++
	}
	f.SetColWidth(sheetSummary, "A", "B", 30)

	// --- Violations Sheet ---
	sheetViolations := "Violations"
	f.NewSheet(sheetViolations)
	violationHeaders := []string{
		"Date Occurred", "Violation Type", "Person Involved",
		"Severity", "Damages Estimate", "Statutes", "Statute Source", "Description",
	}
	for i, header := range violationHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetViolations, cell, header)
	}
	f.SetCellStyle(sheetViolations, "A1", "H1", headerStyle)
	f.SetColWidth(sheetViolations, "A", "H", 22)

	for i, v := range records {
		rowNum := i + 2
		f.SetCellValue(sheetViolations, fmt.Sprintf("A%d", rowNum), v.DateOccurred.Format("2006-01-02"))
		f.SetCellValue(sheetViolations, fmt.Sprintf("B%d", rowNum), v.ViolationType)
		f.SetCellValue(sheetViolations, fmt.Sprintf("C%d", rowNum), v.PersonInvolved)
		f.SetCellValue(sheetViolations, fmt.Sprintf("D%d", rowNum), v.SeverityLevel)
		f.SetCellValue(sheetViolations, fmt.Sprintf("E%d", rowNum), v.DamagesEstimate)
		statutes := ""
		for j, code := range v.StatuteCodes() {
			if j > 0 {
				statutes += "; "
			}
			statutes += code
		}
		f.SetCellValue(sheetViolations, fmt.Sprintf("F%d", rowNum), statutes)
		f.SetCellValue(sheetViolations, fmt.Sprintf("G%d", rowNum), v.StatuteSource)
		f.SetCellValue(sheetViolations, fmt.Sprintf("H%d", rowNum), v.Description)
	}

	// --- Evidence Sheet ---
	sheetEvidence := "Evidence"
	f.NewSheet(sheetEvidence)
	evidenceHeaders := []string{"Violation Type", "Evidence Type", "Credibility", "Description"}
	for i, header := range evidenceHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetEvidence, cell, header)
	}
	f.SetCellStyle(sheetEvidence, "A1", "D1", headerStyle)
	f.SetColWidth(sheetEvidence, "A", "D", 28)

	evRow := 2
	for _, v := range records {
		for _, e := range v.Evidence {
			f.SetCellValue(sheetEvidence, fmt.Sprintf("A%d", evRow), v.ViolationType)
			f.SetCellValue(sheetEvidence, fmt.Sprintf("B%d", evRow), e.EvidenceType)
			f.SetCellValue(sheetEvidence, fmt.Sprintf("C%d", evRow), e.CredibilityScore)
			f.SetCellValue(sheetEvidence, fmt.Sprintf("D%d", evRow), e.Description)
			evRow++
		}
	}

	// --- Timeline Sheet ---
	sheetTimeline := "Timeline"
	f.NewSheet(sheetTimeline)
	timelineHeaders := []string{"Event Date", "Violation Type", "Description", "Supporting Evidence"}
	for i, header := range timelineHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetTimeline, cell, header)
	}
	f.SetCellStyle(sheetTimeline, "A1", "D1", headerStyle)
	f.SetColWidth(sheetTimeline, "A", "D", 28)

	tlRow := 2
	for _, v := range records {
		for _, event := range v.Timeline {
			f.SetCellValue(sheetTimeline, fmt.Sprintf("A%d", tlRow), event.EventDate.Format("2006-01-02"))
			f.SetCellValue(sheetTimeline, fmt.Sprintf("B%d", tlRow), v.ViolationType)
			f.SetCellValue(sheetTimeline, fmt.Sprintf("C%d", tlRow), event.Description)
			f.SetCellValue(sheetTimeline, fmt.Sprintf("D%d", tlRow), event.SupportingEvidence)
			tlRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}
