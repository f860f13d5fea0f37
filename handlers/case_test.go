package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"proselit_go/services"
)

func TestCreateCaseHandler(t *testing.T) {
	h, _ := setupHandler(t, &fakeAI{})

	t.Run("Success", func(t *testing.T) {
		body := strings.NewReader(`{"name": "Smith v. City", "case_type": "Civil Rights"}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/cases", body)

		err := h.CreateCase(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]string
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NotEmpty(t, resp["case_id"])
	})

	t.Run("Missing fields", func(t *testing.T) {
		body := strings.NewReader(`{"name": "Incomplete"}`)
		_, c, _ := setupEcho(http.MethodPost, "/api/cases", body)

		err := h.CreateCase(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestGetCaseHandler(t *testing.T) {
	h, store := setupHandler(t, &fakeAI{})

	caseID, err := services.CreateCase(store, "Lookup Case", "Employment")
	assert.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases/"+caseID, nil)
		c.SetParamNames("id")
		c.SetParamValues(caseID)

		err := h.GetCase(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Lookup Case")
	})

	t.Run("Not found", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodGet, "/api/cases/missing", nil)
		c.SetParamNames("id")
		c.SetParamValues("missing")

		err := h.GetCase(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestUpdateCaseHandler(t *testing.T) {
	h, store := setupHandler(t, &fakeAI{})

	caseID, err := services.CreateCase(store, "Old Name", "Employment")
	assert.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		body := strings.NewReader(`{"name": "New Name"}`)
		_, c, rec := setupEcho(http.MethodPut, "/api/cases/"+caseID, body)
		c.SetParamNames("id")
		c.SetParamValues(caseID)

		err := h.UpdateCase(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		updated, err := services.GetCase(store, caseID)
		assert.NoError(t, err)
		assert.Equal(t, "New Name", updated.Name)
	})

	t.Run("Not found", func(t *testing.T) {
		body := strings.NewReader(`{"name": "x"}`)
		_, c, _ := setupEcho(http.MethodPut, "/api/cases/missing", body)
		c.SetParamNames("id")
		c.SetParamValues("missing")

		err := h.UpdateCase(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestCaseMetadataRoundTripHandler(t *testing.T) {
	h, store := setupHandler(t, &fakeAI{})

	caseID, err := services.CreateCase(store, "Meta Case", "Civil Rights")
	assert.NoError(t, err)

	body := strings.NewReader(`{"metadata": {"court": "Fifth District"}}`)
	_, c, rec := setupEcho(http.MethodPut, "/api/cases/"+caseID, body)
	c.SetParamNames("id")
	c.SetParamValues(caseID)

	assert.NoError(t, h.UpdateCase(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, c, rec = setupEcho(http.MethodGet, "/api/cases/"+caseID, nil)
	c.SetParamNames("id")
	c.SetParamValues(caseID)

	assert.NoError(t, h.GetCase(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	meta, ok := resp["metadata"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "Fifth District", meta["court"])
}

func TestDeleteCaseHandler(t *testing.T) {
	h, store := setupHandler(t, &fakeAI{})

	caseID, err := services.CreateCase(store, "Doomed", "Employment")
	assert.NoError(t, err)

	_, c, rec := setupEcho(http.MethodDelete, "/api/cases/"+caseID, nil)
	c.SetParamNames("id")
	c.SetParamValues(caseID)

	assert.NoError(t, h.DeleteCase(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err = services.GetCase(store, caseID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestSearchCasesHandler(t *testing.T) {
	h, store := setupHandler(t, &fakeAI{})

	_, err := services.CreateCase(store, "Housing Dispute", "Property Rights")
	assert.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases/search?q=housing", nil)

		err := h.SearchCases(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(1), resp["count"])
	})

	t.Run("Missing query", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodGet, "/api/cases/search", nil)

		err := h.SearchCases(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestUpdateDocumentContentHandler(t *testing.T) {
	h, store := setupHandler(t, &fakeAI{})

	caseID, err := services.CreateCase(store, "Doc Case", "Civil Rights")
	assert.NoError(t, err)
	docID, err := services.AddDocumentToCase(store, caseID, "Complaint", "Draft", "v1")
	assert.NoError(t, err)

	body := strings.NewReader(`{"content": "v2"}`)
	_, c, rec := setupEcho(http.MethodPut, "/api/documents/"+docID+"/content", body)
	c.SetParamNames("id")
	c.SetParamValues(docID)

	assert.NoError(t, h.UpdateDocumentContent(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	doc, err := services.GetDocument(store, docID)
	assert.NoError(t, err)
	assert.Equal(t, "v2", doc.Content)
	assert.Equal(t, 2, doc.Version)
}

func TestFileLifecycleHandlers(t *testing.T) {
	h, store := setupHandler(t, &fakeAI{response: "Analysis of the notes."})

	caseID, err := services.CreateCase(store, "File Case", "Civil Rights")
	assert.NoError(t, err)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "notes.txt")
	assert.NoError(t, err)
	_, err = fw.Write([]byte("officer entered without a warrant"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/cases/"+caseID+"/files", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(caseID)

	assert.NoError(t, h.UploadCaseFile(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var uploaded map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	fileID, _ := uploaded["file_id"].(string)
	assert.NotEmpty(t, fileID)

	t.Run("Signed URL", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/files/"+fileID+"/url", nil)
		c.SetParamNames("id")
		c.SetParamValues(fileID)

		assert.NoError(t, h.GetFileURL(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["url"])
	})

	t.Run("Delete", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodDelete, "/api/files/"+fileID, nil)
		c.SetParamNames("id")
		c.SetParamValues(fileID)

		assert.NoError(t, h.DeleteFile(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err := services.GetFile(store, fileID)
		assert.ErrorIs(t, err, services.ErrNotFound)
	})

	t.Run("Delete missing", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodDelete, "/api/files/"+fileID, nil)
		c.SetParamNames("id")
		c.SetParamValues(fileID)

		err := h.DeleteFile(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}
