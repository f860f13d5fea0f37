package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"proselit_go/services"
)

// GetDocumentTemplates lists the supported document types
// GET /api/documents/templates
func (h *Handler) GetDocumentTemplates(c echo.Context) error {
	return c.JSON(http.StatusOK, services.DocumentTemplates())
}

// GenerateDocument drafts a court-ready document for a case
// POST /api/cases/:id/documents/generate
func (h *Handler) GenerateDocument(c echo.Context) error {
	var req struct {
		DocumentType string                  `json:"document_type"`
		Params       services.DocumentParams `json:"params"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.DocumentType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "document_type is required")
	}
	if missing := services.ValidateDocumentRequirements(req.DocumentType, req.Params); len(missing) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"message": "Document requirements not met",
			"missing": missing,
		})
	}

	doc, err := h.documents.GenerateDocument(c.Request().Context(), req.DocumentType, c.Param("id"), req.Params)
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	if err != nil {
		c.Logger().Error("Document generation failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Document generation failed")
	}
	return c.JSON(http.StatusCreated, doc)
}

// GetDefenseStrategies returns the defense catalog with prepared counters
// GET /api/defenses
func (h *Handler) GetDefenseStrategies(c echo.Context) error {
	return c.JSON(http.StatusOK, services.DefenseStrategies())
}

// GenerateDefenseCounter builds a counter-response to a recognized defense
// POST /api/defenses/counter
func (h *Handler) GenerateDefenseCounter(c echo.Context) error {
	var req struct {
		DefenseType string `json:"defense_type"`
		CaseID      string `json:"case_id"`
		CaseFacts   string `json:"case_facts"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.DefenseType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "defense_type is required")
	}

	counter, err := h.defenses.GenerateCounter(c.Request().Context(), req.DefenseType, req.CaseID, req.CaseFacts)
	if err != nil {
		c.Logger().Error("Defense counter failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Defense counter generation failed")
	}
	return c.JSON(http.StatusOK, counter)
}

// GetAvailableStrategies lists the supported strategy types
// GET /api/strategies/available
func (h *Handler) GetAvailableStrategies(c echo.Context) error {
	return c.JSON(http.StatusOK, services.StrategyTactics())
}

// GenerateStrategy builds an aggressive litigation strategy for a case
// POST /api/cases/:id/strategies
func (h *Handler) GenerateStrategy(c echo.Context) error {
	var req struct {
		StrategyType string `json:"strategy_type"`
		Situation    string `json:"situation"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.StrategyType == "" || req.Situation == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "strategy_type and situation are required")
	}

	strategy, err := h.strategies.GenerateStrategy(c.Request().Context(), c.Param("id"), req.StrategyType, req.Situation)
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	if err != nil {
		c.Logger().Error("Strategy generation failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Strategy generation failed")
	}
	return c.JSON(http.StatusCreated, strategy)
}

// GetCaseStrategies returns a case's strategies, newest first
// GET /api/cases/:id/strategies
func (h *Handler) GetCaseStrategies(c echo.Context) error {
	strategies, err := h.strategies.GetCaseStrategies(c.Param("id"))
	if err != nil {
		c.Logger().Error("Failed to fetch strategies:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch strategies")
	}
	return c.JSON(http.StatusOK, strategies)
}
