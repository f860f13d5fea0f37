package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"proselit_go/services"
)

// CreateCase handles new case creation
// POST /api/cases
func (h *Handler) CreateCase(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		CaseType string `json:"case_type"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" || req.CaseType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and case_type are required")
	}

	caseID, err := services.CreateCase(h.store, req.Name, req.CaseType)
	if err != nil {
		c.Logger().Error("Failed to create case:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create case")
	}
	return c.JSON(http.StatusCreated, map[string]string{"case_id": caseID})
}

// ListCases returns all cases, most recently touched first
// GET /api/cases
func (h *Handler) ListCases(c echo.Context) error {
	cases, err := services.ListCases(h.store)
	if err != nil {
		c.Logger().Error("Failed to list cases:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list cases")
	}
	return c.JSON(http.StatusOK, cases)
}

// SearchCases matches cases by name or type
// GET /api/cases/search?q=keyword
func (h *Handler) SearchCases(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	cases, err := services.SearchCases(h.store, query)
	if err != nil {
		c.Logger().Error("Case search failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Search failed")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"results": cases,
		"query":   query,
		"count":   len(cases),
	})
}

// GetCase returns one case with its files and documents
// GET /api/cases/:id
func (h *Handler) GetCase(c echo.Context) error {
	result, err := services.GetCase(h.store, c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	if err != nil {
		c.Logger().Error("Failed to fetch case:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case")
	}
	return c.JSON(http.StatusOK, result)
}

// UpdateCase applies partial updates to a case
// PUT /api/cases/:id
func (h *Handler) UpdateCase(c echo.Context) error {
	var req struct {
		Name     *string                `json:"name"`
		CaseType *string                `json:"case_type"`
		Status   *string                `json:"status"`
		Metadata map[string]interface{} `json:"metadata"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	updated, err := services.UpdateCase(h.store, c.Param("id"), services.CaseUpdates{
		Name:     req.Name,
		CaseType: req.CaseType,
		Status:   req.Status,
		Metadata: req.Metadata,
	})
	if err != nil {
		c.Logger().Error("Failed to update case:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update case")
	}
	if !updated {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteCase removes a case and everything it owns
// DELETE /api/cases/:id
func (h *Handler) DeleteCase(c echo.Context) error {
	deleted, err := services.DeleteCase(h.store, c.Param("id"))
	if err != nil {
		c.Logger().Error("Failed to delete case:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete case")
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetCaseStatistics summarizes a case's contents
// GET /api/cases/:id/statistics
func (h *Handler) GetCaseStatistics(c echo.Context) error {
	stats, err := services.GetCaseStatistics(h.store, c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	if err != nil {
		c.Logger().Error("Failed to compute statistics:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute statistics")
	}
	return c.JSON(http.StatusOK, stats)
}

// UploadCaseFile stores an uploaded evidence file and runs analysis on it
// POST /api/cases/:id/files (multipart)
func (h *Handler) UploadCaseFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	fileID, analysis, err := h.analyzer.AnalyzeUpload(c.Request().Context(), c.Param("id"), file)
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	if err != nil {
		c.Logger().Error("File upload failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "File upload failed")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"file_id":  fileID,
		"analysis": analysis,
	})
}

// GetCaseFiles returns a case's files, newest upload first
// GET /api/cases/:id/files
func (h *Handler) GetCaseFiles(c echo.Context) error {
	files, err := services.GetCaseFiles(h.store, c.Param("id"))
	if err != nil {
		c.Logger().Error("Failed to fetch files:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch files")
	}
	return c.JSON(http.StatusOK, files)
}

// DownloadFile streams a stored file back to the caller
// GET /api/files/:id
func (h *Handler) DownloadFile(c echo.Context) error {
	file, err := services.GetFile(h.store, c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch file")
	}
	if file.FilePath == nil {
		return echo.NewHTTPError(http.StatusNotFound, "File has no stored content")
	}

	reader, contentType, err := h.storage.Get(c.Request().Context(), *file.FilePath)
	if err != nil {
		c.Logger().Error("Failed to read stored file:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read stored file")
	}
	defer reader.Close()

	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Stream(http.StatusOK, contentType, reader)
}

// GetFileURL returns a short-lived download URL for a stored file
// GET /api/files/:id/url
func (h *Handler) GetFileURL(c echo.Context) error {
	file, err := services.GetFile(h.store, c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch file")
	}
	if file.FilePath == nil {
		return echo.NewHTTPError(http.StatusNotFound, "File has no stored content")
	}

	const expiry = 15 * time.Minute
	url, err := h.storage.GetSignedURL(c.Request().Context(), *file.FilePath, expiry)
	if err != nil {
		c.Logger().Error("Failed to sign file URL:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sign file URL")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"url":                url,
		"expires_in_seconds": int(expiry.Seconds()),
	})
}

// DeleteFile removes a file record and its stored content
// DELETE /api/files/:id
func (h *Handler) DeleteFile(c echo.Context) error {
	err := services.RemoveFileFromCase(c.Request().Context(), h.store, h.storage, c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	if err != nil {
		c.Logger().Error("Failed to delete file:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete file")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetCaseDocuments returns a case's documents, newest first
// GET /api/cases/:id/documents
func (h *Handler) GetCaseDocuments(c echo.Context) error {
	docs, err := services.GetCaseDocuments(h.store, c.Param("id"))
	if err != nil {
		c.Logger().Error("Failed to fetch documents:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch documents")
	}
	return c.JSON(http.StatusOK, docs)
}

// GetDocument returns one document
// GET /api/documents/:id
func (h *Handler) GetDocument(c echo.Context) error {
	doc, err := services.GetDocument(h.store, c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch document")
	}
	return c.JSON(http.StatusOK, doc)
}

// UpdateDocumentContent replaces document content and bumps the version
// PUT /api/documents/:id/content
func (h *Handler) UpdateDocumentContent(c echo.Context) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}

	err := services.UpdateDocumentContent(h.store, c.Param("id"), req.Content)
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update document")
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkDocumentFiled transitions a document from draft to filed
// POST /api/documents/:id/file
func (h *Handler) MarkDocumentFiled(c echo.Context) error {
	var req struct {
		FilingDate *time.Time `json:"filing_date"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	filingDate := time.Now()
	if req.FilingDate != nil {
		filingDate = *req.FilingDate
	}

	err := services.MarkDocumentFiled(h.store, c.Param("id"), filingDate)
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark document filed")
	}
	return c.NoContent(http.StatusNoContent)
}

// DownloadDocumentPDF renders a document as a court-formatted PDF
// GET /api/documents/:id/pdf
func (h *Handler) DownloadDocumentPDF(c echo.Context) error {
	caption := services.FilingCaption{
		CaseNumber:    c.QueryParam("case_number"),
		CourtName:     c.QueryParam("court_name"),
		PlaintiffName: c.QueryParam("plaintiff_name"),
		DefendantName: c.QueryParam("defendant_name"),
	}

	pdf, err := h.documents.RenderDocumentPDF(c.Param("id"), caption)
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}
	if err != nil {
		c.Logger().Error("PDF generation failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "PDF generation failed")
	}

	c.Response().Header().Set("Content-Disposition", "attachment; filename=document.pdf")
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
