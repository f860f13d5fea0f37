package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"proselit_go/services"
)

// ListPreferences returns all settings
// GET /api/preferences
func (h *Handler) ListPreferences(c echo.Context) error {
	prefs, err := services.ListPreferences(h.store)
	if err != nil {
		c.Logger().Error("Failed to list preferences:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list preferences")
	}
	return c.JSON(http.StatusOK, prefs)
}

// SetPreference stores a typed setting
// PUT /api/preferences/:key
func (h *Handler) SetPreference(c echo.Context) error {
	var req struct {
		Value interface{} `json:"value"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Value == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "value is required")
	}

	if err := services.SetPreference(h.store, c.Param("key"), req.Value); err != nil {
		c.Logger().Error("Failed to store preference:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store preference")
	}
	return c.NoContent(http.StatusNoContent)
}

// DeletePreference removes a setting
// DELETE /api/preferences/:key
func (h *Handler) DeletePreference(c echo.Context) error {
	deleted, err := services.DeletePreference(h.store, c.Param("key"))
	if err != nil {
		c.Logger().Error("Failed to delete preference:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete preference")
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "Preference not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetRecentLogs returns the newest system log entries
// GET /api/logs?level=ERROR&limit=100
func (h *Handler) GetRecentLogs(c echo.Context) error {
	limit := 100
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
			limit = l
		}
	}

	logs, err := services.GetRecentLogs(h.store, c.QueryParam("level"), limit)
	if err != nil {
		c.Logger().Error("Failed to fetch logs:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch logs")
	}
	return c.JSON(http.StatusOK, logs)
}

// BackupDatabase writes a consistent snapshot of the store to a file
// POST /api/backup
func (h *Handler) BackupDatabase(c echo.Context) error {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path is required")
	}

	if err := h.store.Backup(req.Path); err != nil {
		c.Logger().Error("Backup failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Backup failed")
	}
	return c.JSON(http.StatusOK, map[string]string{"backup_path": req.Path})
}

// RestoreDatabase replaces the store contents from a backup file
// POST /api/restore
func (h *Handler) RestoreDatabase(c echo.Context) error {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path is required")
	}

	if err := h.store.Restore(req.Path); err != nil {
		c.Logger().Error("Restore failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Restore failed")
	}
	return c.NoContent(http.StatusNoContent)
}
