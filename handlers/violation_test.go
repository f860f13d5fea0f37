package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"proselit_go/services"
)

func TestAddViolationHandler(t *testing.T) {
	h, store := setupHandler(t, &fakeAI{})

	caseID, err := services.CreateCase(store, "Violation Case", "Civil Rights")
	assert.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		body := strings.NewReader(`{
			"violation_type": "Fourth Amendment Violation",
			"description": "Warrantless search",
			"damages_estimate": 10000
		}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/cases/"+caseID+"/violations", body)
		c.SetParamNames("id")
		c.SetParamValues(caseID)

		err := h.AddViolation(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]string
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NotEmpty(t, resp["violation_id"])
	})

	t.Run("Missing type", func(t *testing.T) {
		body := strings.NewReader(`{"description": "no type"}`)
		_, c, _ := setupEcho(http.MethodPost, "/api/cases/"+caseID+"/violations", body)
		c.SetParamNames("id")
		c.SetParamValues(caseID)

		err := h.AddViolation(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("Unknown case", func(t *testing.T) {
		body := strings.NewReader(`{"violation_type": "Fourth Amendment Violation"}`)
		_, c, _ := setupEcho(http.MethodPost, "/api/cases/missing/violations", body)
		c.SetParamNames("id")
		c.SetParamValues("missing")

		err := h.AddViolation(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestCreateTimelineHandler(t *testing.T) {
	h, store := setupHandler(t, &fakeAI{})

	caseID, err := services.CreateCase(store, "Timeline Case", "Civil Rights")
	assert.NoError(t, err)
	violationID, err := services.NewViolationService(store, &fakeAI{}).
		AddViolation(t.Context(), caseID, services.ViolationInput{
			ViolationType: "Fourth Amendment Violation",
			Description:   "x",
		})
	assert.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		body := strings.NewReader(`{"events": [
			{"event_date": "2025-02-03T00:00:00Z", "description": "Entry without warrant"}
		]}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/violations/"+violationID+"/timeline", body)
		c.SetParamNames("id")
		c.SetParamValues(violationID)

		err := h.CreateTimeline(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "Entry without warrant")
	})

	t.Run("Empty events", func(t *testing.T) {
		body := strings.NewReader(`{"events": []}`)
		_, c, _ := setupEcho(http.MethodPost, "/api/violations/"+violationID+"/timeline", body)
		c.SetParamNames("id")
		c.SetParamValues(violationID)

		err := h.CreateTimeline(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestSearchViolationsHandler(t *testing.T) {
	h, store := setupHandler(t, &fakeAI{})

	caseID, err := services.CreateCase(store, "Search Case", "Civil Rights")
	assert.NoError(t, err)
	_, err = services.NewViolationService(store, &fakeAI{}).
		AddViolation(t.Context(), caseID, services.ViolationInput{
			ViolationType: "Fourth Amendment Violation",
			Description:   "warrantless entry",
		})
	assert.NoError(t, err)

	_, c, rec := setupEcho(http.MethodGet, "/api/violations/search?q=warrantless", nil)

	err = h.SearchViolations(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, float64(1), resp["count"])
}

func TestDownloadViolationReportHandler(t *testing.T) {
	h, store := setupHandler(t, &fakeAI{})

	caseID, err := services.CreateCase(store, "Report Case", "Civil Rights")
	assert.NoError(t, err)

	_, c, rec := setupEcho(http.MethodGet, "/api/cases/"+caseID+"/violations/report", nil)
	c.SetParamNames("id")
	c.SetParamValues(caseID)

	err = h.DownloadViolationReport(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "violation_report.xlsx")
	assert.NotZero(t, rec.Body.Len())
}
