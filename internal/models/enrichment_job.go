package models

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of an enrichment job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in-progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// EnrichmentJob represents a queued linked-issue resolution for a pull
// request. Jobs are best effort: a failed job stays in the table and a
// later delivery of the same pull request enqueues a fresh one.
type EnrichmentJob struct {
	ID            string     `json:"id"`
	PullRequestID int64      `json:"pull_request_id"`
	HTMLURL       string     `json:"html_url"`
	Status        JobStatus  `json:"status"`
	Attempts      int        `json:"attempts"`
	ErrorMessage  *string    `json:"error_message"`
	StartedAt     *time.Time `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewEnrichmentJob creates a pending job with a generated UUID
func NewEnrichmentJob(pullRequestID int64, htmlURL string) *EnrichmentJob {
	now := time.Now()
	return &EnrichmentJob{
		ID:            uuid.New().String(),
		PullRequestID: pullRequestID,
		HTMLURL:       htmlURL,
		Status:        JobStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// MarkStarted marks the job as started
func (j *EnrichmentJob) MarkStarted() {
	now := time.Now()
	j.Status = JobStatusInProgress
	j.Attempts++
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkCompleted marks the job as completed
func (j *EnrichmentJob) MarkCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkFailed marks the job as failed with an error message
func (j *EnrichmentJob) MarkFailed(message string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.ErrorMessage = &message
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// IsPending checks if the job is pending
func (j *EnrichmentJob) IsPending() bool {
	return j.Status == JobStatusPending
}
