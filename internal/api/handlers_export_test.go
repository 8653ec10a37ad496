// handlers_export_test.go - Tests for export handlers
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cnc-post/backend/internal/gcode"
	"github.com/cnc-post/backend/internal/models"
	"github.com/cnc-post/backend/internal/testutil"
)

func newTestDeps() (*Handlers, *testutil.MockStorage, *testutil.MockJobs) {
	store := testutil.NewMockStorage()
	jobs := testutil.NewMockJobs()
	handlers := NewHandlers(&Dependencies{
		Registry: gcode.NewRegistry(),
		Store:    store,
		Jobs:     jobs,
		Version:  "test",
	})
	return handlers, store, jobs
}

func pathDocument() []*models.Container {
	return []*models.Container{
		{
			Kind:  models.ContainerLeaf,
			Label: "Contour",
			Path: &models.Path{Commands: []models.Command{
				{Name: "G0", Parameters: map[string]float64{"X": 0, "Y": 0}},
				{Name: "G1", Parameters: map[string]float64{"X": 10, "F": 300}},
			}},
		},
	}
}

func postJSON(e *echo.Echo, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandleExport(t *testing.T) {
	t.Run("valid request produces a program and a job record", func(t *testing.T) {
		handlers, store, jobs := newTestDeps()
		e := echo.New()

		c, rec := postJSON(e, "/api/export", exportRequest{
			Processor:  "wincnc",
			Args:       "--no-show-editor",
			Name:       "part.tap",
			Containers: pathDocument(),
		})

		if assert.NoError(t, handlers.Export.HandleExport(c)) {
			assert.Equal(t, http.StatusCreated, rec.Code)

			var resp exportResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, models.JobStatusComplete, resp.Job.Status)
			assert.Contains(t, resp.Program, "[Exported by cnc-post]")
			assert.Contains(t, resp.Program, "G1 ")
			assert.Greater(t, resp.Job.LineCount, 0)

			// Program is persisted under the job's output ID.
			data, err := store.GetFileData(resp.Job.OutputID)
			assert.NoError(t, err)
			assert.Equal(t, resp.Program, string(data))

			assert.Equal(t, 1, jobs.Count())
		}
	})

	t.Run("default output name is derived from the job", func(t *testing.T) {
		handlers, store, _ := newTestDeps()
		e := echo.New()

		c, rec := postJSON(e, "/api/export", exportRequest{
			Processor:  "wincnc",
			Containers: pathDocument(),
		})

		if assert.NoError(t, handlers.Export.HandleExport(c)) {
			var resp exportResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			info, err := store.Get(resp.Job.OutputID)
			assert.NoError(t, err)
			assert.Contains(t, info.Name, "wincnc-")
		}
	})

	t.Run("missing processor", func(t *testing.T) {
		handlers, _, _ := newTestDeps()
		e := echo.New()

		c, _ := postJSON(e, "/api/export", exportRequest{Containers: pathDocument()})

		err := handlers.Export.HandleExport(c)
		apiErr, ok := err.(*APIError)
		if assert.True(t, ok, "expected APIError, got %T", err) {
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
		}
	})

	t.Run("unknown processor", func(t *testing.T) {
		handlers, _, _ := newTestDeps()
		e := echo.New()

		c, _ := postJSON(e, "/api/export", exportRequest{
			Processor:  "linuxcnc",
			Containers: pathDocument(),
		})

		err := handlers.Export.HandleExport(c)
		apiErr, ok := err.(*APIError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusNotFound, apiErr.Status)
		}
	})

	t.Run("malformed argument string fails the job", func(t *testing.T) {
		handlers, _, jobs := newTestDeps()
		e := echo.New()

		c, _ := postJSON(e, "/api/export", exportRequest{
			Processor:  "wincnc",
			Args:       "--not-a-real-flag",
			Containers: pathDocument(),
		})

		err := handlers.Export.HandleExport(c)
		apiErr, ok := err.(*APIError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		}

		// The failed run still lands in the history.
		recent, _ := jobs.Recent(c.Request().Context(), 10)
		if assert.Len(t, recent, 1) {
			assert.Equal(t, models.JobStatusError, recent[0].Status)
			assert.NotEmpty(t, recent[0].Error)
		}
	})

	t.Run("top-level non-path container", func(t *testing.T) {
		handlers, _, _ := newTestDeps()
		e := echo.New()

		c, _ := postJSON(e, "/api/export", exportRequest{
			Processor: "wincnc",
			Containers: []*models.Container{
				{Kind: models.ContainerLeaf, Label: "Stock"},
			},
		})

		err := handlers.Export.HandleExport(c)
		apiErr, ok := err.(*APIError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Contains(t, apiErr.Details, "Stock")
		}
	})
}

func TestHandleExportMsgpack(t *testing.T) {
	t.Run("msgpack round trip", func(t *testing.T) {
		handlers, _, _ := newTestDeps()
		e := echo.New()

		body, err := msgpack.Marshal(exportRequest{
			Processor:  "wincnc",
			Args:       "--no-header",
			Containers: pathDocument(),
		})
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/export/msgpack", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, "application/x-msgpack")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if assert.NoError(t, handlers.Export.HandleExportMsgpack(c)) {
			assert.Equal(t, http.StatusCreated, rec.Code)

			var resp exportResponse
			assert.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, models.JobStatusComplete, resp.Job.Status)
			assert.NotContains(t, resp.Program, "[Exported by cnc-post]")
			assert.Contains(t, resp.Program, "G1 ")
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		handlers, _, _ := newTestDeps()
		e := echo.New()

		req := httptest.NewRequest(http.MethodPost, "/api/export/msgpack", bytes.NewReader([]byte("not msgpack")))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handlers.Export.HandleExportMsgpack(c)
		apiErr, ok := err.(*APIError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		}
	})
}

func TestHandleListProcessors(t *testing.T) {
	handlers, _, _ := newTestDeps()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/processors", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if assert.NoError(t, handlers.Export.HandleListProcessors(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "wincnc")
	}
}
