package models

import (
	"time"
)

// PullRequest represents a GitHub pull request.
type PullRequest struct {
	ID           int64      `json:"id"`
	URL          string     `json:"url"`
	HTMLURL      string     `json:"html_url"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	State        string     `json:"state"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ClosedAt     *time.Time `json:"closed_at"`
	MergedAt     *time.Time `json:"merged_at"`
	Merged       bool       `json:"merged"`
	UserID       int64      `json:"user_id"`
	RepositoryID int64      `json:"repository_id"`
	MergePoints  int        `json:"merge_points"`

	// Labels are loaded by the repository layer when requested.
	Labels []*Label `json:"labels,omitempty"`
}
