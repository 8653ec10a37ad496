// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/cnc-post/backend/internal/models"
)

// ExportHandler handles post-processing operations
type ExportHandler interface {
	HandleExport(c echo.Context) error
	HandleExportMsgpack(c echo.Context) error
	HandleListProcessors(c echo.Context) error
}

// JobsHandler handles the export job history
type JobsHandler interface {
	HandleRecentJobs(c echo.Context) error
	HandleGetJob(c echo.Context) error
	HandleGetJobOutput(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// JobRecorder defines the job history operations the handlers need.
// This allows mocking in tests.
type JobRecorder interface {
	Record(ctx context.Context, job *models.ExportJob) error
	Get(ctx context.Context, id string) (*models.ExportJob, error)
	Recent(ctx context.Context, limit int) ([]*models.ExportJob, error)
}
