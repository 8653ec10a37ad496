// store_test.go - Tests for DuckDB-backed job history
package jobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cnc-post/backend/internal/models"
)

func createTestStore(t *testing.T) *Store {
	dbPath := filepath.Join(t.TempDir(), "jobs.duckdb")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open job store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testJob(status models.JobStatus) *models.ExportJob {
	return &models.ExportJob{
		ID:         uuid.New().String(),
		Processor:  "wincnc",
		Args:       "--no-show-editor",
		Status:     status,
		OutputID:   uuid.New().String(),
		OutputSize: 1024,
		LineCount:  42,
		DurationMs: 7,
		CreatedAt:  time.Now(),
	}
}

func TestOpen(t *testing.T) {
	t.Run("creates database file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "jobs.duckdb")
		store, err := Open(dbPath)
		if err != nil {
			t.Fatalf("Failed to open job store: %v", err)
		}
		defer store.Close()

		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("Expected database file to be created")
		}
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "jobs.duckdb")
		store, err := Open(dbPath)
		if err != nil {
			t.Fatalf("Failed to open job store: %v", err)
		}

		job := testJob(models.JobStatusComplete)
		if err := store.Record(context.Background(), job); err != nil {
			t.Fatalf("Failed to record job: %v", err)
		}
		store.Close()

		reopened, err := Open(dbPath)
		if err != nil {
			t.Fatalf("Failed to reopen job store: %v", err)
		}
		defer reopened.Close()

		got, err := reopened.Get(context.Background(), job.ID)
		if err != nil {
			t.Fatalf("Failed to get job after reopen: %v", err)
		}
		if got.Processor != "wincnc" {
			t.Errorf("Expected processor wincnc, got %s", got.Processor)
		}
	})
}

func TestStore_Record(t *testing.T) {
	t.Run("records and retrieves a job", func(t *testing.T) {
		store := createTestStore(t)
		ctx := context.Background()

		job := testJob(models.JobStatusComplete)
		if err := store.Record(ctx, job); err != nil {
			t.Fatalf("Failed to record job: %v", err)
		}

		got, err := store.Get(ctx, job.ID)
		if err != nil {
			t.Fatalf("Failed to get job: %v", err)
		}

		if got.ID != job.ID {
			t.Errorf("Expected ID %s, got %s", job.ID, got.ID)
		}
		if got.Args != job.Args {
			t.Errorf("Expected args %q, got %q", job.Args, got.Args)
		}
		if got.Status != models.JobStatusComplete {
			t.Errorf("Expected status complete, got %s", got.Status)
		}
		if got.OutputSize != 1024 {
			t.Errorf("Expected output size 1024, got %d", got.OutputSize)
		}
		if got.LineCount != 42 {
			t.Errorf("Expected line count 42, got %d", got.LineCount)
		}
		// Timestamps round-trip at millisecond precision.
		if got.CreatedAt.UnixMilli() != job.CreatedAt.UnixMilli() {
			t.Errorf("Expected created at %v, got %v", job.CreatedAt, got.CreatedAt)
		}
	})

	t.Run("records failed jobs with error text", func(t *testing.T) {
		store := createTestStore(t)
		ctx := context.Background()

		job := testJob(models.JobStatusError)
		job.OutputID = ""
		job.Error = `container "Stock" is not a path; select only paths and compounds`
		if err := store.Record(ctx, job); err != nil {
			t.Fatalf("Failed to record job: %v", err)
		}

		got, err := store.Get(ctx, job.ID)
		if err != nil {
			t.Fatalf("Failed to get job: %v", err)
		}
		if got.Status != models.JobStatusError {
			t.Errorf("Expected status error, got %s", got.Status)
		}
		if got.Error != job.Error {
			t.Errorf("Expected error text %q, got %q", job.Error, got.Error)
		}
		if got.OutputID != "" {
			t.Errorf("Failed job should have no output, got %q", got.OutputID)
		}
	})
}

func TestStore_Get(t *testing.T) {
	t.Run("returns error for unknown job", func(t *testing.T) {
		store := createTestStore(t)

		if _, err := store.Get(context.Background(), "no-such-job"); err == nil {
			t.Error("Expected error for unknown job")
		}
	})
}

func TestStore_Recent(t *testing.T) {
	t.Run("returns newest first", func(t *testing.T) {
		store := createTestStore(t)
		ctx := context.Background()

		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		ids := make([]string, 3)
		for i := 0; i < 3; i++ {
			job := testJob(models.JobStatusComplete)
			job.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			ids[i] = job.ID
			if err := store.Record(ctx, job); err != nil {
				t.Fatalf("Failed to record job: %v", err)
			}
		}

		jobs, err := store.Recent(ctx, 10)
		if err != nil {
			t.Fatalf("Failed to list jobs: %v", err)
		}

		if len(jobs) != 3 {
			t.Fatalf("Expected 3 jobs, got %d", len(jobs))
		}
		if jobs[0].ID != ids[2] || jobs[2].ID != ids[0] {
			t.Error("Expected jobs sorted by creation time descending")
		}
	})

	t.Run("limits results", func(t *testing.T) {
		store := createTestStore(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			if err := store.Record(ctx, testJob(models.JobStatusComplete)); err != nil {
				t.Fatalf("Failed to record job: %v", err)
			}
		}

		jobs, err := store.Recent(ctx, 2)
		if err != nil {
			t.Fatalf("Failed to list jobs: %v", err)
		}
		if len(jobs) != 2 {
			t.Errorf("Expected 2 jobs, got %d", len(jobs))
		}
	})

	t.Run("empty history", func(t *testing.T) {
		store := createTestStore(t)

		jobs, err := store.Recent(context.Background(), 10)
		if err != nil {
			t.Fatalf("Failed to list jobs: %v", err)
		}
		if len(jobs) != 0 {
			t.Errorf("Expected no jobs, got %d", len(jobs))
		}
	})
}
