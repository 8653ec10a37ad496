// handlers_jobs.go - Export job history handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cnc-post/backend/internal/storage"
)

// JobsHandlerImpl implements the JobsHandler interface
type JobsHandlerImpl struct {
	jobs  JobRecorder
	store storage.Store
}

// NewJobsHandler creates a new jobs handler instance
func NewJobsHandler(jobs JobRecorder, store storage.Store) JobsHandler {
	return &JobsHandlerImpl{
		jobs:  jobs,
		store: store,
	}
}

// HandleRecentJobs returns the most recent export jobs.
func (h *JobsHandlerImpl) HandleRecentJobs(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	jobs, err := h.jobs.Recent(c.Request().Context(), limit)
	if err != nil {
		return NewInternalError("failed to list jobs", err)
	}
	return c.JSON(http.StatusOK, jobs)
}

// HandleGetJob returns a single job by ID.
func (h *JobsHandlerImpl) HandleGetJob(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	job, err := h.jobs.Get(c.Request().Context(), id)
	if err != nil {
		return NewNotFoundError("job", id)
	}
	return c.JSON(http.StatusOK, job)
}

// HandleGetJobOutput downloads the generated program of a completed job.
func (h *JobsHandlerImpl) HandleGetJobOutput(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	job, err := h.jobs.Get(c.Request().Context(), id)
	if err != nil {
		return NewNotFoundError("job", id)
	}
	if job.OutputID == "" {
		return NewNotFoundError("job output", id)
	}

	info, err := h.store.Get(job.OutputID)
	if err != nil {
		return NewNotFoundError("program", job.OutputID)
	}
	path, err := h.store.GetFilePath(job.OutputID)
	if err != nil {
		return NewNotFoundError("program", job.OutputID)
	}

	return c.Attachment(path, info.Name)
}
