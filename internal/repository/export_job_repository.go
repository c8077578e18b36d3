package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/noah-isme/talleres-api/internal/models"
)

// ErrExportJobNotFound is returned for unknown export job ids.
var ErrExportJobNotFound = errors.New("export job not found")

// UpdateExportJobParams describes partial job updates; nil fields are left alone.
type UpdateExportJobParams struct {
	Status       *models.ExportStatus
	RowCount     *int
	ResultURL    *string
	RelativePath *string
	ErrorMessage *string
	FinishedAt   *time.Time
}

// ExportJobRepository keeps export job metadata in memory. Jobs do not survive a restart;
// neither do the queue's buffered jobs, so there is nothing to recover.
type ExportJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]models.ExportJob
}

// NewExportJobRepository builds an empty repository.
func NewExportJobRepository() *ExportJobRepository {
	return &ExportJobRepository{jobs: make(map[string]models.ExportJob)}
}

// Create stores a new job.
func (r *ExportJobRepository) Create(ctx context.Context, job *models.ExportJob) error {
	r.mu.Lock()
	r.jobs[job.ID] = *job
	r.mu.Unlock()
	return nil
}

// GetByID returns a copy of the job.
func (r *ExportJobRepository) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	r.mu.RLock()
	job, ok := r.jobs[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrExportJobNotFound
	}
	return &job, nil
}

// Update applies the non-nil fields of params.
func (r *ExportJobRepository) Update(ctx context.Context, id string, params UpdateExportJobParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return ErrExportJobNotFound
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.RowCount != nil {
		job.RowCount = *params.RowCount
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.RelativePath != nil {
		job.RelativePath = *params.RelativePath
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	r.jobs[id] = job
	return nil
}

// DeleteFinishedBefore drops finished or failed jobs older than cutoff and returns them.
func (r *ExportJobRepository) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) ([]models.ExportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := make([]models.ExportJob, 0)
	for id, job := range r.jobs {
		if job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			removed = append(removed, job)
			delete(r.jobs, id)
		}
	}
	return removed, nil
}
