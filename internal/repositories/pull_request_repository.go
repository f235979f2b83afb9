package repositories

import (
	"database/sql"

	"github.com/gitkudos/gitkudos/internal/models"
)

// PullRequestRepository handles database operations for pull requests
type PullRequestRepository struct {
	db *sql.DB
}

// NewPullRequestRepository creates a new PullRequestRepository
func NewPullRequestRepository(db *sql.DB) *PullRequestRepository {
	return &PullRequestRepository{db: db}
}

// Upsert inserts the pull request or updates it in place, keyed by the
// GitHub ID.
func (r *PullRequestRepository) Upsert(pr *models.PullRequest) error {
	query := `
		INSERT INTO pull_requests (
			id, url, html_url, title, body, state, created_at, updated_at,
			closed_at, merged_at, merged, user_id, repository_id, merge_points
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			html_url = excluded.html_url,
			title = excluded.title,
			body = excluded.body,
			state = excluded.state,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			closed_at = excluded.closed_at,
			merged_at = excluded.merged_at,
			merged = excluded.merged,
			user_id = excluded.user_id,
			repository_id = excluded.repository_id,
			merge_points = excluded.merge_points
	`

	_, err := r.db.Exec(query,
		pr.ID, pr.URL, pr.HTMLURL, pr.Title, pr.Body, pr.State,
		pr.CreatedAt, pr.UpdatedAt, pr.ClosedAt, pr.MergedAt, pr.Merged,
		pr.UserID, pr.RepositoryID, pr.MergePoints,
	)
	return err
}

// ReplaceLabels replaces the pull request's label set inside a transaction.
func (r *PullRequestRepository) ReplaceLabels(pullRequestID int64, names []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM pull_request_labels WHERE pull_request_id = ?`, pullRequestID); err != nil {
		return err
	}

	for _, name := range names {
		if _, err := tx.Exec(`INSERT INTO pull_request_labels (pull_request_id, label_name) VALUES (?, ?)`, pullRequestID, name); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ReplaceLinkedIssues replaces the pull request's linked-issue set inside a
// transaction, keeping the issues' back reference in step with the join
// table.
func (r *PullRequestRepository) ReplaceLinkedIssues(pullRequestID int64, issueIDs []int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE issues SET pull_request_id = NULL WHERE pull_request_id = ?`, pullRequestID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM pull_request_issues WHERE pull_request_id = ?`, pullRequestID); err != nil {
		return err
	}

	for _, issueID := range issueIDs {
		if _, err := tx.Exec(`INSERT INTO pull_request_issues (pull_request_id, issue_id) VALUES (?, ?)`, pullRequestID, issueID); err != nil {
			return err
		}
		if _, err := tx.Exec(`UPDATE issues SET pull_request_id = ? WHERE id = ?`, pullRequestID, issueID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a pull request by its GitHub ID, with labels loaded
func (r *PullRequestRepository) GetByID(id int64) (*models.PullRequest, error) {
	query := `
		SELECT id, url, html_url, title, body, state, created_at, updated_at,
		       closed_at, merged_at, merged, user_id, repository_id, merge_points
		FROM pull_requests WHERE id = ?
	`

	pr := &models.PullRequest{}
	err := r.db.QueryRow(query, id).Scan(
		&pr.ID, &pr.URL, &pr.HTMLURL, &pr.Title, &pr.Body, &pr.State,
		&pr.CreatedAt, &pr.UpdatedAt, &pr.ClosedAt, &pr.MergedAt, &pr.Merged,
		&pr.UserID, &pr.RepositoryID, &pr.MergePoints,
	)
	if err != nil {
		return nil, err
	}

	if pr.Labels, err = r.loadLabels(pr.ID); err != nil {
		return nil, err
	}

	return pr, nil
}

// GetMergedQualifyingByUser retrieves the user's merged pull requests in
// considered repositories, with labels loaded
func (r *PullRequestRepository) GetMergedQualifyingByUser(userID int64) ([]*models.PullRequest, error) {
	query := `
		SELECT p.id, p.url, p.html_url, p.title, p.body, p.state, p.created_at,
		       p.updated_at, p.closed_at, p.merged_at, p.merged, p.user_id,
		       p.repository_id, p.merge_points
		FROM pull_requests p
		JOIN repositories r ON r.id = p.repository_id
		WHERE p.user_id = ? AND p.merged = 1 AND r.consider_contributions = 1
		ORDER BY p.created_at
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pullRequests []*models.PullRequest
	for rows.Next() {
		pr := &models.PullRequest{}
		err := rows.Scan(
			&pr.ID, &pr.URL, &pr.HTMLURL, &pr.Title, &pr.Body, &pr.State,
			&pr.CreatedAt, &pr.UpdatedAt, &pr.ClosedAt, &pr.MergedAt, &pr.Merged,
			&pr.UserID, &pr.RepositoryID, &pr.MergePoints,
		)
		if err != nil {
			return nil, err
		}
		pullRequests = append(pullRequests, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, pr := range pullRequests {
		if pr.Labels, err = r.loadLabels(pr.ID); err != nil {
			return nil, err
		}
	}

	return pullRequests, nil
}

func (r *PullRequestRepository) loadLabels(pullRequestID int64) ([]*models.Label, error) {
	query := `
		SELECT l.name, l.color, l.points
		FROM labels l
		JOIN pull_request_labels pl ON pl.label_name = l.name
		WHERE pl.pull_request_id = ?
		ORDER BY l.name
	`

	rows, err := r.db.Query(query, pullRequestID)
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
