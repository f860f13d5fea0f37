package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"proselit_go/services"
)

// AskCompanion answers a litigant's question, optionally case-scoped
// POST /api/companion/ask
func (h *Handler) AskCompanion(c echo.Context) error {
	var req struct {
		Query  string `json:"query"`
		CaseID string `json:"case_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	response, err := h.companion.Ask(c.Request().Context(), req.Query, req.CaseID)
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	if err != nil {
		c.Logger().Error("Companion request failed:", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Companion unavailable")
	}
	return c.JSON(http.StatusOK, map[string]string{"response": response})
}

// AnalyzeCaseFacts identifies legal theories for a case
// POST /api/cases/:id/analyze
func (h *Handler) AnalyzeCaseFacts(c echo.Context) error {
	analysis, err := h.companion.AnalyzeCaseFacts(c.Request().Context(), c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	if err != nil {
		c.Logger().Error("Case analysis failed:", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Case analysis unavailable")
	}
	return c.JSON(http.StatusOK, map[string]string{"analysis": analysis})
}

// AssessCaseStrength gives a frank assessment of a case's prospects
// GET /api/cases/:id/strength
func (h *Handler) AssessCaseStrength(c echo.Context) error {
	assessment, err := h.companion.AssessCaseStrength(c.Request().Context(), c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	if err != nil {
		c.Logger().Error("Strength assessment failed:", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Assessment unavailable")
	}
	return c.JSON(http.StatusOK, map[string]string{"assessment": assessment})
}

// GetLitigationStrategy generates a phase-by-phase plan for a case
// GET /api/cases/:id/litigation-strategy
func (h *Handler) GetLitigationStrategy(c echo.Context) error {
	strategy, err := h.companion.LitigationStrategy(c.Request().Context(), c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	if err != nil {
		c.Logger().Error("Litigation strategy failed:", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Strategy unavailable")
	}
	return c.JSON(http.StatusOK, map[string]string{"strategy": strategy})
}

// GetMissingElements flags case gaps that need attention
// GET /api/cases/:id/missing-elements
func (h *Handler) GetMissingElements(c echo.Context) error {
	extraction, err := h.companion.MissingElements(c.Request().Context(), c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	if err != nil {
		c.Logger().Error("Missing elements check failed:", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Check unavailable")
	}
	return c.JSON(http.StatusOK, extraction)
}

// GetDocumentSuggestions proposes improvements for a document type
// POST /api/companion/document-suggestions
func (h *Handler) GetDocumentSuggestions(c echo.Context) error {
	var req struct {
		DocumentType string                 `json:"document_type"`
		CaseContext  map[string]interface{} `json:"case_context"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.DocumentType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "document_type is required")
	}

	extraction, err := h.companion.DocumentSuggestions(c.Request().Context(), req.DocumentType, req.CaseContext)
	if err != nil {
		c.Logger().Error("Document suggestions failed:", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Suggestions unavailable")
	}
	return c.JSON(http.StatusOK, extraction)
}

// GetEvidenceGaps lists the evidence still needed per claim
// POST /api/evidence/gaps
func (h *Handler) GetEvidenceGaps(c echo.Context) error {
	var req struct {
		LegalClaims []string `json:"legal_claims"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if len(req.LegalClaims) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "legal_claims is required")
	}

	gaps := h.analyzer.EvidenceGaps(c.Request().Context(), req.LegalClaims)
	return c.JSON(http.StatusOK, map[string]interface{}{"gaps": gaps})
}
