package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestPreferenceHandlers(t *testing.T) {
	h, _ := setupHandler(t, &fakeAI{})

	t.Run("Set and list", func(t *testing.T) {
		body := strings.NewReader(`{"value": "dark"}`)
		_, c, rec := setupEcho(http.MethodPut, "/api/preferences/theme", body)
		c.SetParamNames("key")
		c.SetParamValues("theme")

		assert.NoError(t, h.SetPreference(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, c, rec = setupEcho(http.MethodGet, "/api/preferences", nil)
		assert.NoError(t, h.ListPreferences(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var prefs map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &prefs)
		assert.Equal(t, "dark", prefs["theme"])
	})

	t.Run("Missing value", func(t *testing.T) {
		body := strings.NewReader(`{}`)
		_, c, _ := setupEcho(http.MethodPut, "/api/preferences/theme", body)
		c.SetParamNames("key")
		c.SetParamValues("theme")

		err := h.SetPreference(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("Delete absent key", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodDelete, "/api/preferences/never-set", nil)
		c.SetParamNames("key")
		c.SetParamValues("never-set")

		err := h.DeletePreference(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestBackupHandler(t *testing.T) {
	h, _ := setupHandler(t, &fakeAI{})

	t.Run("Missing path", func(t *testing.T) {
		body := strings.NewReader(`{}`)
		_, c, _ := setupEcho(http.MethodPost, "/api/backup", body)

		err := h.BackupDatabase(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("Success", func(t *testing.T) {
		backupPath := filepath.Join(t.TempDir(), "backup.db")
		body := strings.NewReader(`{"path": "` + backupPath + `"}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/backup", body)

		err := h.BackupDatabase(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		_, err = os.Stat(backupPath)
		assert.NoError(t, err)
	})
}

func TestGetRecentLogsHandler(t *testing.T) {
	h, _ := setupHandler(t, &fakeAI{})

	// Creating a case writes a system log entry.
	_, c, _ := setupEcho(http.MethodPost, "/api/cases", strings.NewReader(`{"name": "Log Case", "case_type": "x"}`))
	assert.NoError(t, h.CreateCase(c))

	_, c, rec := setupEcho(http.MethodGet, "/api/logs?limit=10", nil)
	assert.NoError(t, h.GetRecentLogs(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "case_manager")
}
