package models

import "time"

// JobStatus is the terminal state of an export job.
type JobStatus string

const (
	JobStatusComplete JobStatus = "complete"
	JobStatusError    JobStatus = "error"
)

// ExportJob records one post-processing run for the job history.
type ExportJob struct {
	ID         string    `json:"id"`
	Processor  string    `json:"processor"`
	Args       string    `json:"args"`
	Status     JobStatus `json:"status"`
	OutputID   string    `json:"outputId,omitempty"`
	OutputSize int64     `json:"outputSize"`
	LineCount  int       `json:"lineCount"`
	DurationMs int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
	Error      string    `json:"error,omitempty"`
}
