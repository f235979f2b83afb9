package repositories

import (
	"database/sql"

	"github.com/gitkudos/gitkudos/internal/models"
)

// IssueRepository handles database operations for issues
type IssueRepository struct {
	db *sql.DB
}

// NewIssueRepository creates a new IssueRepository
func NewIssueRepository(db *sql.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

// Upsert inserts the issue or updates it in place, keyed by the GitHub ID.
// The originating pull request link is owned by enrichment and is not
// overwritten here.
func (r *IssueRepository) Upsert(issue *models.Issue) error {
	query := `
		INSERT INTO issues (
			id, title, url, locked, state, created_at, updated_at, closed_at,
			user_id, assignee_id, repository_id, pull_request_id, opening_points
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			url = excluded.url,
			locked = excluded.locked,
			state = excluded.state,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			closed_at = excluded.closed_at,
			user_id = excluded.user_id,
			assignee_id = excluded.assignee_id,
			repository_id = excluded.repository_id,
			opening_points = excluded.opening_points
	`

	_, err := r.db.Exec(query,
		issue.ID, issue.Title, issue.URL, issue.Locked, issue.State,
		issue.CreatedAt, issue.UpdatedAt, issue.ClosedAt,
		issue.UserID, issue.AssigneeID, issue.RepositoryID,
		issue.PullRequestID, issue.OpeningPoints,
	)
	return err
}

// ReplaceLabels replaces the issue's label set inside a transaction.
func (r *IssueRepository) ReplaceLabels(issueID int64, names []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM issue_labels WHERE issue_id = ?`, issueID); err != nil {
		return err
	}

	for _, name := range names {
		if _, err := tx.Exec(`INSERT INTO issue_labels (issue_id, label_name) VALUES (?, ?)`, issueID, name); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves an issue by its GitHub ID, with labels loaded
func (r *IssueRepository) GetByID(id int64) (*models.Issue, error) {
	query := `
		SELECT id, title, url, locked, state, created_at, updated_at, closed_at,
		       user_id, assignee_id, repository_id, pull_request_id, opening_points
		FROM issues WHERE id = ?
	`

	issue := &models.Issue{}
	err := r.db.QueryRow(query, id).Scan(
		&issue.ID, &issue.Title, &issue.URL, &issue.Locked, &issue.State,
		&issue.CreatedAt, &issue.UpdatedAt, &issue.ClosedAt,
		&issue.UserID, &issue.AssigneeID, &issue.RepositoryID,
		&issue.PullRequestID, &issue.OpeningPoints,
	)
	if err != nil {
		return nil, err
	}

	if issue.Labels, err = r.loadLabels(issue.ID); err != nil {
		return nil, err
	}

	return issue, nil
}

// GetByURL retrieves an issue by its API URL, with labels loaded
func (r *IssueRepository) GetByURL(url string) (*models.Issue, error) {
	var id int64
	err := r.db.QueryRow(`SELECT id FROM issues WHERE url = ?`, url).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetQualifyingByUser retrieves the user's issues that count toward the
// leaderboard: the repository is considered and at least one attached label
// carries positive points. Labels are loaded.
func (r *IssueRepository) GetQualifyingByUser(userID int64) ([]*models.Issue, error) {
	query := `
		SELECT i.id, i.title, i.url, i.locked, i.state, i.created_at, i.updated_at,
		       i.closed_at, i.user_id, i.assignee_id, i.repository_id,
		       i.pull_request_id, i.opening_points
		FROM issues i
		JOIN repositories r ON r.id = i.repository_id
		WHERE i.user_id = ?
		  AND r.consider_contributions = 1
		  AND EXISTS (
			SELECT 1 FROM issue_labels il
			JOIN labels l ON l.name = il.label_name
			WHERE il.issue_id = i.id AND l.points > 0
		  )
		ORDER BY i.created_at
	`

	return r.queryIssues(query, userID)
}

// GetLinkedByPullRequest retrieves the issues linked to a pull request,
// with labels loaded
func (r *IssueRepository) GetLinkedByPullRequest(pullRequestID int64) ([]*models.Issue, error) {
	query := `
		SELECT i.id, i.title, i.url, i.locked, i.state, i.created_at, i.updated_at,
		       i.closed_at, i.user_id, i.assignee_id, i.repository_id,
		       i.pull_request_id, i.opening_points
		FROM issues i
		JOIN pull_request_issues pi ON pi.issue_id = i.id
		WHERE pi.pull_request_id = ?
		ORDER BY i.id
	`

	return r.queryIssues(query, pullRequestID)
}

func (r *IssueRepository) queryIssues(query string, args ...interface{}) ([]*models.Issue, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []*models.Issue
	for rows.Next() {
		issue := &models.Issue{}
		err := rows.Scan(
			&issue.ID, &issue.Title, &issue.URL, &issue.Locked, &issue.State,
			&issue.CreatedAt, &issue.UpdatedAt, &issue.ClosedAt,
			&issue.UserID, &issue.AssigneeID, &issue.RepositoryID,
			&issue.PullRequestID, &issue.OpeningPoints,
		)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, issue := range issues {
		if issue.Labels, err = r.loadLabels(issue.ID); err != nil {
			return nil, err
		}
	}

	return issues, nil
}

func (r *IssueRepository) loadLabels(issueID int64) ([]*models.Label, error) {
	query := `
		SELECT l.name, l.color, l.points
		FROM labels l
		JOIN issue_labels il ON il.label_name = l.name
		WHERE il.issue_id = ?
		ORDER BY l.name
	`

	rows, err := r.db.Query(query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []*models.Label
	for rows.Next() {
		label := &models.Label{}
		if err := rows.Scan(&label.Name, &label.Color, &label.Points); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}

	return labels, rows.Err()
}
