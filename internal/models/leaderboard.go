package models

import (
	"time"
)

// RepositoryRef is the short repository form embedded in leaderboard entries.
type RepositoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LabelView is the label form embedded in leaderboard issue entries.
type LabelView struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	Points int    `json:"points"`
}

// IssueView is a scored issue as returned by the contributors endpoint.
type IssueView struct {
	ID         int64         `json:"id"`
	Title      string        `json:"title"`
	URL        string        `json:"url"`
	Labels     []LabelView   `json:"labels"`
	Locked     bool          `json:"locked"`
	State      string        `json:"state"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	ClosedAt   *time.Time    `json:"closed_at"`
	Points     int           `json:"points"`
	Repository RepositoryRef `json:"repository"`
}

// PullRequestView is a scored pull request as returned by the contributors
// endpoint.
type PullRequestView struct {
	ID         int64         `json:"id"`
	Title      string        `json:"title"`
	URL        string        `json:"url"`
	State      string        `json:"state"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	ClosedAt   *time.Time    `json:"closed_at"`
	Points     int           `json:"points"`
	Repository RepositoryRef `json:"repository"`
}

// Contributor is one leaderboard row. The listing is ordered ascending by
// TotalPoints so that contributors who need encouragement come first.
type Contributor struct {
	ID           int64             `json:"id"`
	Username     string            `json:"username"`
	AvatarURL    string            `json:"avatar_url"`
	TotalPoints  int               `json:"total_points"`
	Issues       []IssueView       `json:"issues"`
	PullRequests []PullRequestView `json:"pull_requests"`
}
