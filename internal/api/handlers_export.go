// handlers_export.go - Post-processing operation handlers
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cnc-post/backend/internal/gcode"
	"github.com/cnc-post/backend/internal/models"
	"github.com/cnc-post/backend/internal/storage"
)

// exportRequest is the body of an export call. Containers follow the path
// document shape; Args is the shell-quoted override string.
type exportRequest struct {
	Processor  string              `json:"processor" msgpack:"processor"`
	Args       string              `json:"args" msgpack:"args"`
	Name       string              `json:"name" msgpack:"name"`
	Containers []*models.Container `json:"containers" msgpack:"containers"`
}

// exportResponse carries the generated program and its job record.
type exportResponse struct {
	Job     *models.ExportJob `json:"job" msgpack:"job"`
	Program string            `json:"program" msgpack:"program"`
}

// ExportHandlerImpl implements the ExportHandler interface
type ExportHandlerImpl struct {
	registry *gcode.Registry
	store    storage.Store
	jobs     JobRecorder
}

// NewExportHandler creates a new export handler instance
func NewExportHandler(registry *gcode.Registry, store storage.Store, jobs JobRecorder) ExportHandler {
	return &ExportHandlerImpl{
		registry: registry,
		store:    store,
		jobs:     jobs,
	}
}

// HandleExport runs one post-processing job and returns the program text
// with its job record.
func (h *ExportHandlerImpl) HandleExport(c echo.Context) error {
	var req exportRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	return h.export(c, &req, func(status int, resp *exportResponse) error {
		return c.JSON(status, resp)
	})
}

// HandleExportMsgpack is HandleExport with a MessagePack body and response.
// Large path documents are noticeably smaller on the wire this way.
func (h *ExportHandlerImpl) HandleExportMsgpack(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return NewBadRequestError("reading request body", err)
	}
	var req exportRequest
	if err := msgpack.Unmarshal(body, &req); err != nil {
		return NewBadRequestError("invalid msgpack body", err)
	}
	return h.export(c, &req, func(status int, resp *exportResponse) error {
		data, err := msgpack.Marshal(resp)
		if err != nil {
			return NewInternalError("encoding response", err)
		}
		return c.Blob(status, "application/x-msgpack", data)
	})
}

func (h *ExportHandlerImpl) export(c echo.Context, req *exportRequest, respond func(int, *exportResponse) error) error {
	if req.Processor == "" {
		return NewValidationError("processor")
	}

	proc, err := h.registry.Find(req.Processor)
	if err != nil {
		return NewNotFoundError("processor", req.Processor)
	}

	job := &models.ExportJob{
		ID:        uuid.New().String(),
		Processor: proc.Name(),
		Args:      req.Args,
		CreatedAt: time.Now(),
	}

	start := time.Now()
	program, err := proc.Export(req.Containers, req.Args, "-")
	job.DurationMs = time.Since(start).Milliseconds()

	if err != nil {
		job.Status = models.JobStatusError
		job.Error = err.Error()
		h.recordJob(c, job)

		var npe *gcode.NotAPathError
		if errors.As(err, &npe) {
			return NewBadRequestError("container is not a path", err)
		}
		return NewBadRequestError("export failed", err)
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("%s-%s.tap", proc.Name(), job.ID[:8])
	}
	info, err := h.store.SaveBytes(name, []byte(program))
	if err != nil {
		return NewInternalError("failed to save program", err)
	}

	job.Status = models.JobStatusComplete
	job.OutputID = info.ID
	job.OutputSize = info.Size
	job.LineCount = strings.Count(program, "\n")
	h.recordJob(c, job)

	return respond(http.StatusCreated, &exportResponse{Job: job, Program: program})
}

// recordJob writes the job history entry. History failures don't fail the
// export itself.
func (h *ExportHandlerImpl) recordJob(c echo.Context, job *models.ExportJob) {
	if err := h.jobs.Record(c.Request().Context(), job); err != nil {
		fmt.Printf("[API] Failed to record job %s: %v\n", job.ID, err)
	}
}

// HandleListProcessors returns the registered processor names.
func (h *ExportHandlerImpl) HandleListProcessors(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"processors": h.registry.Names(),
	})
}
