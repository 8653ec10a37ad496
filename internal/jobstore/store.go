// Package jobstore persists the export job history in a DuckDB file so the
// run log survives server restarts.
package jobstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/marcboeker/go-duckdb"

	"github.com/cnc-post/backend/internal/models"
)

// Store records finished export jobs and serves the history queries.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates or opens the job database at dbPath.
func Open(dbPath string) (*Store, error) {
	fmt.Printf("[JobStore] Opening database at: %s\n", dbPath)

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		// The job log is tiny; keep DuckDB's footprint small.
		pragmas := []string{
			"PRAGMA memory_limit='256MB'",
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				fmt.Printf("[JobStore] Pragma error: %v\n", err)
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			id          VARCHAR PRIMARY KEY,
			processor   VARCHAR NOT NULL,
			args        VARCHAR,
			status      VARCHAR NOT NULL,
			output_id   VARCHAR,
			output_size BIGINT,
			line_count  INTEGER,
			duration_ms BIGINT,
			created_at  BIGINT NOT NULL,
			error       VARCHAR
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create jobs table: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Record inserts one finished job into the history.
func (s *Store) Record(ctx context.Context, job *models.ExportJob) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, processor, args, status, output_id, output_size, line_count, duration_ms, created_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		job.ID,
		job.Processor,
		job.Args,
		string(job.Status),
		job.OutputID,
		job.OutputSize,
		job.LineCount,
		job.DurationMs,
		job.CreatedAt.UnixMilli(),
		job.Error,
	)
	if err != nil {
		return fmt.Errorf("recording job: %w", err)
	}
	return nil
}

// Get returns one job by ID.
func (s *Store) Get(ctx context.Context, id string) (*models.ExportJob, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, processor, args, status, output_id, output_size, line_count, duration_ms, created_at, error
		FROM jobs WHERE id = ?
	`, id)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading job: %w", err)
	}
	return job, nil
}

// Recent returns the newest jobs, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*models.ExportJob, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, processor, args, status, output_id, output_size, line_count, duration_ms, created_at, error
		FROM jobs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.ExportJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("reading job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Close closes the database. The file is kept: the history is persistent.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row scanner) (*models.ExportJob, error) {
	var job models.ExportJob
	var status string
	var outputID sql.NullString
	var outputSize sql.NullInt64
	var lineCount sql.NullInt32
	var durationMs sql.NullInt64
	var createdMs int64
	var jobErr sql.NullString

	err := row.Scan(&job.ID, &job.Processor, &job.Args, &status, &outputID,
		&outputSize, &lineCount, &durationMs, &createdMs, &jobErr)
	if err != nil {
		return nil, err
	}

	job.Status = models.JobStatus(status)
	job.OutputID = outputID.String
	job.OutputSize = outputSize.Int64
	job.LineCount = int(lineCount.Int32)
	job.DurationMs = durationMs.Int64
	job.CreatedAt = time.UnixMilli(createdMs)
	job.Error = jobErr.String
	return &job, nil
}
