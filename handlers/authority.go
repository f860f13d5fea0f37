package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"proselit_go/models"
)

// SearchAuthorities looks up legal authorities, local cache first
// GET /api/authorities/search?q=keyword&type=Case%20Law
func (h *Handler) SearchAuthorities(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	authorityType := c.QueryParam("type")
	if authorityType == "" {
		authorityType = models.AuthorityTypeCaseLaw
	}

	hits, err := h.authorities.Search(c.Request().Context(), query, authorityType)
	if err != nil {
		c.Logger().Error("Authority search failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Authority search failed")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"results": hits,
		"query":   query,
		"count":   len(hits),
	})
}

// GetRelevantAuthorities ranks authorities for a document generation query
// GET /api/authorities/relevant?doc_type=Complaint&case_type=...&jurisdiction=...
func (h *Handler) GetRelevantAuthorities(c echo.Context) error {
	docType := c.QueryParam("doc_type")
	if docType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "doc_type is required")
	}

	authorities, err := h.authorities.GetRelevant(c.Request().Context(),
		docType, c.QueryParam("case_type"), c.QueryParam("jurisdiction"))
	if err != nil {
		c.Logger().Error("Authority retrieval failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Authority retrieval failed")
	}
	return c.JSON(http.StatusOK, authorities)
}

// VerifyCitation checks whether a citation is real and caches the outcome
// POST /api/authorities/verify
func (h *Handler) VerifyCitation(c echo.Context) error {
	var req struct {
		Citation string `json:"citation"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Citation == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "citation is required")
	}

	result, err := h.authorities.VerifyCitation(c.Request().Context(), req.Citation)
	if err != nil {
		c.Logger().Error("Citation verification failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Citation verification failed")
	}
	return c.JSON(http.StatusOK, result)
}

// CheckSanctionsRisk reviews draft content for Rule 11 exposure
// POST /api/authorities/sanctions-check
func (h *Handler) CheckSanctionsRisk(c echo.Context) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}

	review, err := h.authorities.CheckSanctionsRisk(c.Request().Context(), req.Content)
	if err != nil {
		c.Logger().Error("Sanctions check failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Sanctions check failed")
	}
	return c.JSON(http.StatusOK, review)
}
