// Package handlers exposes the case, violation, authority and collaborator
// operations as a JSON API.
package handlers

import (
	"github.com/labstack/echo/v4"

	"proselit_go/db"
	"proselit_go/services"
)

// Handler carries the shared dependencies for all endpoints. Everything is
// injected; there is no package-level state.
type Handler struct {
	store       *db.Store
	ai          services.AIClient
	storage     services.StorageProvider
	violations  *services.ViolationService
	authorities *services.AuthorityService
	documents   *services.DocumentService
	strategies  *services.StrategyService
	companion   *services.CompanionService
	defenses    *services.DefenseService
	analyzer    *services.AnalyzerService
}

// New wires a handler from the store, collaborator client and storage.
func New(store *db.Store, ai services.AIClient, storage services.StorageProvider) *Handler {
	authorities := services.NewAuthorityService(store, ai)
	return &Handler{
		store:       store,
		ai:          ai,
		storage:     storage,
		violations:  services.NewViolationService(store, ai),
		authorities: authorities,
		documents:   services.NewDocumentService(store, ai, authorities),
		strategies:  services.NewStrategyService(store, ai),
		companion:   services.NewCompanionService(store, ai),
		defenses:    services.NewDefenseService(store, ai, authorities),
		analyzer:    services.NewAnalyzerService(store, ai, storage),
	}
}

// RegisterRoutes attaches every endpoint to the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")

	// Cases
	api.POST("/cases", h.CreateCase)
	api.GET("/cases", h.ListCases)
	api.GET("/cases/search", h.SearchCases)
	api.GET("/cases/:id", h.GetCase)
	api.PUT("/cases/:id", h.UpdateCase)
	api.DELETE("/cases/:id", h.DeleteCase)
	api.GET("/cases/:id/statistics", h.GetCaseStatistics)

	// Case files and documents
	api.POST("/cases/:id/files", h.UploadCaseFile)
	api.GET("/cases/:id/files", h.GetCaseFiles)
	api.GET("/files/:id", h.DownloadFile)
	api.GET("/files/:id/url", h.GetFileURL)
	api.DELETE("/files/:id", h.DeleteFile)
	api.GET("/cases/:id/documents", h.GetCaseDocuments)
	api.GET("/documents/:id", h.GetDocument)
	api.PUT("/documents/:id/content", h.UpdateDocumentContent)
	api.POST("/documents/:id/file", h.MarkDocumentFiled)
	api.GET("/documents/:id/pdf", h.DownloadDocumentPDF)

	// Violations
	api.POST("/cases/:id/violations", h.AddViolation)
	api.GET("/cases/:id/violations", h.GetCaseViolations)
	api.GET("/cases/:id/violations/summary", h.GetViolationSummary)
	api.GET("/cases/:id/violations/report", h.DownloadViolationReport)
	api.GET("/violations/search", h.SearchViolations)
	api.POST("/violations/:id/evidence", h.AddEvidence)
	api.POST("/violations/:id/timeline", h.CreateTimeline)
	api.POST("/violations/:id/damages", h.CalculateDamages)
	api.GET("/statutes/guidance", h.GetStatuteGuidance)

	// Legal authorities
	api.GET("/authorities/search", h.SearchAuthorities)
	api.GET("/authorities/relevant", h.GetRelevantAuthorities)
	api.POST("/authorities/verify", h.VerifyCitation)
	api.POST("/authorities/sanctions-check", h.CheckSanctionsRisk)

	// Document generation
	api.GET("/documents/templates", h.GetDocumentTemplates)
	api.POST("/cases/:id/documents/generate", h.GenerateDocument)
	api.GET("/defenses", h.GetDefenseStrategies)
	api.POST("/defenses/counter", h.GenerateDefenseCounter)

	// Strategies
	api.GET("/strategies/available", h.GetAvailableStrategies)
	api.POST("/cases/:id/strategies", h.GenerateStrategy)
	api.GET("/cases/:id/strategies", h.GetCaseStrategies)

	// Companion
	api.POST("/companion/ask", h.AskCompanion)
	api.POST("/cases/:id/analyze", h.AnalyzeCaseFacts)
	api.GET("/cases/:id/strength", h.AssessCaseStrength)
	api.GET("/cases/:id/litigation-strategy", h.GetLitigationStrategy)
	api.GET("/cases/:id/missing-elements", h.GetMissingElements)
	api.POST("/companion/document-suggestions", h.GetDocumentSuggestions)
	api.POST("/evidence/gaps", h.GetEvidenceGaps)

	// Administration
	api.GET("/preferences", h.ListPreferences)
	api.PUT("/preferences/:key", h.SetPreference)
	api.DELETE("/preferences/:key", h.DeletePreference)
	api.GET("/logs", h.GetRecentLogs)
	api.POST("/backup", h.BackupDatabase)
	api.POST("/restore", h.RestoreDatabase)
}
