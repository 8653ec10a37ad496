// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/cnc-post/backend/internal/gcode"
	"github.com/cnc-post/backend/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Registry *gcode.Registry
	Store    storage.Store
	Jobs     JobRecorder
	Version  string
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	Export ExportHandler
	Jobs   JobsHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version),
		Export: NewExportHandler(deps.Registry, deps.Store, deps.Jobs),
		Jobs:   NewJobsHandler(deps.Jobs, deps.Store),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check
	e.GET("/api/health", handlers.Health.HandleHealth)

	// Post-processing routes
	e.POST("/api/export", handlers.Export.HandleExport)
	e.POST("/api/export/msgpack", handlers.Export.HandleExportMsgpack)
	e.GET("/api/processors", handlers.Export.HandleListProcessors)

	// Job history routes
	jobsGroup := e.Group("/api/jobs")
	jobsGroup.GET("", handlers.Jobs.HandleRecentJobs)
	jobsGroup.GET("/:id", handlers.Jobs.HandleGetJob)
	jobsGroup.GET("/:id/output", handlers.Jobs.HandleGetJobOutput)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler
}
