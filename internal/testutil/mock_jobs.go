// mock_jobs.go - In-memory job recorder for testing
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/cnc-post/backend/internal/models"
)

// MockJobs implements the api.JobRecorder interface in memory.
type MockJobs struct {
	mu   sync.RWMutex
	jobs map[string]*models.ExportJob

	// RecordErr, when set, makes Record fail.
	RecordErr error
}

// NewMockJobs creates a new in-memory job recorder.
func NewMockJobs() *MockJobs {
	return &MockJobs{jobs: make(map[string]*models.ExportJob)}
}

func (m *MockJobs) Record(_ context.Context, job *models.ExportJob) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
	return nil
}

func (m *MockJobs) Get(_ context.Context, id string) (*models.ExportJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, errors.New("job not found")
	}
	return job, nil
}

func (m *MockJobs) Recent(_ context.Context, limit int) ([]*models.ExportJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var jobs []*models.ExportJob
	for _, j := range m.jobs {
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, k int) bool {
		return jobs[i].CreatedAt.After(jobs[k].CreatedAt)
	})
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

// Count returns the number of recorded jobs.
func (m *MockJobs) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}
