package models

import (
	"time"
)

// Issue represents a GitHub issue.
type Issue struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Locked        bool       `json:"locked"`
	State         string     `json:"state"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ClosedAt      *time.Time `json:"closed_at"`
	UserID        int64      `json:"user_id"`
	AssigneeID    *int64     `json:"assignee_id"`
	RepositoryID  int64      `json:"repository_id"`
	PullRequestID *int64     `json:"pull_request_id"`
	OpeningPoints int        `json:"opening_points"`

	// Labels are loaded by the repository layer when requested.
	Labels []*Label `json:"labels,omitempty"`
}

// FeatureLabels returns the attached labels with positive points.
func (i *Issue) FeatureLabels() []*Label {
	var feature []*Label
	for _, label := range i.Labels {
		if label.IsFeature() {
			feature = append(feature, label)
		}
	}
	return feature
}

// LabelPoints is the sum of positive label points attached to the issue.
func (i *Issue) LabelPoints() int {
	sum := 0
	for _, label := range i.Labels {
		if label.IsFeature() {
			sum += label.Points
		}
	}
	return sum
}
