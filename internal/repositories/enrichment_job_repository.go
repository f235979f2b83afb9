package repositories

import (
	"database/sql"
	"sync"

	"github.com/gitkudos/gitkudos/internal/models"
)

// EnrichmentJobRepository handles database operations for enrichment jobs
type EnrichmentJobRepository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewEnrichmentJobRepository creates a new EnrichmentJobRepository
func NewEnrichmentJobRepository(db *sql.DB) *EnrichmentJobRepository {
	return &EnrichmentJobRepository{db: db}
}

// Create creates a new enrichment job
func (r *EnrichmentJobRepository) Create(job *models.EnrichmentJob) error {
	query := `
		INSERT INTO enrichment_jobs (
			id, pull_request_id, html_url, status, attempts, error_message,
			started_at, completed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		job.ID, job.PullRequestID, job.HTMLURL, job.Status, job.Attempts,
		job.ErrorMessage, job.StartedAt, job.CompletedAt, job.CreatedAt, job.UpdatedAt,
	)
	return err
}

// Update persists the job's current state
func (r *EnrichmentJobRepository) Update(job *models.EnrichmentJob) error {
	query := `
		UPDATE enrichment_jobs SET
			status = ?, attempts = ?, error_message = ?,
			started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query,
		job.Status, job.Attempts, job.ErrorMessage,
		job.StartedAt, job.CompletedAt, job.UpdatedAt, job.ID,
	)
	return err
}

// GetNextPending claims the oldest pending job and marks it in-progress.
// Returns nil when no job is available. The mutex keeps two workers from
// claiming the same job.
func (r *EnrichmentJobRepository) GetNextPending() (*models.EnrichmentJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		SELECT id, pull_request_id, html_url, status, attempts, error_message,
		       started_at, completed_at, created_at, updated_at
		FROM enrichment_jobs
		WHERE status = ?
		ORDER BY created_at
		LIMIT 1
	`

	job := &models.EnrichmentJob{}
	err := r.db.QueryRow(query, models.JobStatusPending).Scan(
		&job.ID, &job.PullRequestID, &job.HTMLURL, &job.Status, &job.Attempts,
		&job.ErrorMessage, &job.StartedAt, &job.CompletedAt, &job.CreatedAt, &job.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	job.MarkStarted()
	if err := r.Update(job); err != nil {
		return nil, err
	}

	return job, nil
}
