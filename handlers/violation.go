package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"proselit_go/services"
)

// AddViolation records a violation on a case
// POST /api/cases/:id/violations
func (h *Handler) AddViolation(c echo.Context) error {
	var req struct {
		ViolationType   string    `json:"violation_type"`
		PersonInvolved  string    `json:"person_involved"`
		Description     string    `json:"description"`
		DateOccurred    time.Time `json:"date_occurred"`
		SeverityLevel   int       `json:"severity_level"`
		DamagesEstimate float64   `json:"damages_estimate"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.ViolationType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "violation_type is required")
	}

	violationID, err := h.violations.AddViolation(c.Request().Context(), c.Param("id"), services.ViolationInput{
		ViolationType:   req.ViolationType,
		PersonInvolved:  req.PersonInvolved,
		Description:     req.Description,
		DateOccurred:    req.DateOccurred,
		SeverityLevel:   req.SeverityLevel,
		DamagesEstimate: req.DamagesEstimate,
	})
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	if err != nil {
		c.Logger().Error("Failed to add violation:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add violation")
	}
	return c.JSON(http.StatusCreated, map[string]string{"violation_id": violationID})
}

// GetCaseViolations returns a case's violations with statutes, evidence and
// timelines
// GET /api/cases/:id/violations
func (h *Handler) GetCaseViolations(c echo.Context) error {
	violations, err := h.violations.GetCaseViolations(c.Param("id"))
	if err != nil {
		c.Logger().Error("Failed to fetch violations:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch violations")
	}
	return c.JSON(http.StatusOK, violations)
}

// GetViolationSummary aggregates a case's violations
// GET /api/cases/:id/violations/summary
func (h *Handler) GetViolationSummary(c echo.Context) error {
	summary, err := h.violations.GetViolationSummary(c.Param("id"))
	if err != nil {
		c.Logger().Error("Failed to summarize violations:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to summarize violations")
	}
	return c.JSON(http.StatusOK, summary)
}

// DownloadViolationReport exports a case's violations as an Excel workbook
// GET /api/cases/:id/violations/report
func (h *Handler) DownloadViolationReport(c echo.Context) error {
	buf, err := services.GenerateViolationReport(h.store, h.ai, c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	if err != nil {
		c.Logger().Error("Report generation failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Report generation failed")
	}

	c.Response().Header().Set("Content-Disposition", "attachment; filename=violation_report.xlsx")
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// SearchViolations matches violations by description, type or statute code
// GET /api/violations/search?q=keyword&case_id=...
func (h *Handler) SearchViolations(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	violations, err := h.violations.SearchViolations(query, c.QueryParam("case_id"))
	if err != nil {
		c.Logger().Error("Violation search failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Search failed")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"results": violations,
		"query":   query,
		"count":   len(violations),
	})
}

// AddEvidence attaches evidence to a violation
// POST /api/violations/:id/evidence
func (h *Handler) AddEvidence(c echo.Context) error {
	var req struct {
		EvidenceType     string  `json:"evidence_type"`
		Description      string  `json:"description"`
		FilePath         *string `json:"file_path"`
		CredibilityScore int     `json:"credibility_score"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	evidenceID, err := h.violations.AddEvidence(c.Param("id"), services.EvidenceInput{
		EvidenceType:     req.EvidenceType,
		Description:      req.Description,
		FilePath:         req.FilePath,
		CredibilityScore: req.CredibilityScore,
	})
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Violation not found")
	}
	if err != nil {
		c.Logger().Error("Failed to add evidence:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add evidence")
	}
	return c.JSON(http.StatusCreated, map[string]string{"evidence_id": evidenceID})
}

// CreateTimeline records a batch of timeline events on a violation
// POST /api/violations/:id/timeline
func (h *Handler) CreateTimeline(c echo.Context) error {
	var req struct {
		Events []services.TimelineEventInput `json:"events"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if len(req.Events) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "events is required")
	}

	summary, err := h.violations.CreateTimeline(c.Param("id"), req.Events)
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Violation not found")
	}
	if err != nil {
		c.Logger().Error("Failed to create timeline:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create timeline")
	}
	return c.JSON(http.StatusCreated, summary)
}

// CalculateDamages records the claimed total and runs a damages analysis
// POST /api/violations/:id/damages
func (h *Handler) CalculateDamages(c echo.Context) error {
	var req struct {
		TotalClaimed float64 `json:"total_claimed"`
		Context      string  `json:"context"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	result, err := h.violations.CalculateDamages(c.Request().Context(), c.Param("id"), req.TotalClaimed, req.Context)
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Violation not found")
	}
	if err != nil {
		c.Logger().Error("Damages calculation failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Damages calculation failed")
	}
	return c.JSON(http.StatusOK, result)
}

// GetStatuteGuidance returns collaborator guidance on one statute
// GET /api/statutes/guidance?code=...
func (h *Handler) GetStatuteGuidance(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}
	return c.JSON(http.StatusOK, h.violations.GetStatuteGuidance(c.Request().Context(), code))
}
