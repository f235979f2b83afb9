package services

import (
	"database/sql"

	"github.com/gitkudos/gitkudos/internal/models"
	"github.com/gitkudos/gitkudos/internal/repositories"
)

// PointsService computes point totals from persisted state. It never mutates
// source data; everything is derived at query time.
//
// Scoring rules:
//   - an issue is worth its opening points once it carries at least one
//     feature label, regardless of how many it has;
//   - an unmerged pull request is worth nothing;
//   - a merged pull request is worth its merge points plus the label points
//     of every linked issue. The merge bonus is granted unconditionally on
//     merge, even when no linked issue qualifies.
type PointsService struct{}

// NewPointsService creates a new PointsService
func NewPointsService() *PointsService {
	return &PointsService{}
}

// IssuePoints returns the issue's contribution to its author's total.
func (s *PointsService) IssuePoints(issue *models.Issue) int {
	if issue.LabelPoints() > 0 {
		return issue.OpeningPoints
	}
	return 0
}

// PullRequestPoints returns the pull request's contribution to its author's
// total, given its linked issues.
func (s *PointsService) PullRequestPoints(pr *models.PullRequest, linked []*models.Issue) int {
	if !pr.Merged {
		return 0
	}

	points := pr.MergePoints
	for _, issue := range linked {
		points += issue.LabelPoints()
	}
	return points
}

// PointsStrategy computes per-user point totals. The two implementations are
// interchangeable and must produce identical totals; one walks entity rows,
// the other pushes the aggregation into a single SQL query.
type PointsStrategy interface {
	TotalsByUser() (map[int64]int, error)
}

// IterativeStrategy loads each user's qualifying entities and sums their
// points row by row.
type IterativeStrategy struct {
	points    *PointsService
	userRepo  *repositories.UserRepository
	issueRepo *repositories.IssueRepository
	prRepo    *repositories.PullRequestRepository
}

// NewIterativeStrategy creates a new IterativeStrategy
func NewIterativeStrategy(
	points *PointsService,
	userRepo *repositories.UserRepository,
	issueRepo *repositories.IssueRepository,
	prRepo *repositories.PullRequestRepository,
) *IterativeStrategy {
	return &IterativeStrategy{
		points:    points,
		userRepo:  userRepo,
		issueRepo: issueRepo,
		prRepo:    prRepo,
	}
}

// TotalsByUser computes every user's total by iterating their issues and
// merged pull requests.
func (s *IterativeStrategy) TotalsByUser() (map[int64]int, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, err
	}

	totals := make(map[int64]int, len(users))
	for _, user := range users {
		total := 0

		issues, err := s.issueRepo.GetQualifyingByUser(user.ID)
		if err != nil {
			return nil, err
		}
		for _, issue := range issues {
			total += s.points.IssuePoints(issue)
		}

		pullRequests, err := s.prRepo.GetMergedQualifyingByUser(user.ID)
		if err != nil {
			return nil, err
		}
		for _, pr := range pullRequests {
			linked, err := s.issueRepo.GetLinkedByPullRequest(pr.ID)
			if err != nil {
				return nil, err
			}
			total += s.points.PullRequestPoints(pr, linked)
		}

		totals[user.ID] = total
	}

	return totals, nil
}

// AggregateStrategy computes every user's total with a single SQL statement
// built from per-user subquery sums.
type AggregateStrategy struct {
	db *sql.DB
}

// NewAggregateStrategy creates a new AggregateStrategy
func NewAggregateStrategy(db *sql.DB) *AggregateStrategy {
	return &AggregateStrategy{db: db}
}

// TotalsByUser computes every user's total in one aggregate query.
func (s *AggregateStrategy) TotalsByUser() (map[int64]int, error) {
	query := `
		SELECT u.id,
			COALESCE((
				SELECT SUM(i.opening_points)
				FROM issues i
				JOIN repositories r ON r.id = i.repository_id
				WHERE i.user_id = u.id
				  AND r.consider_contributions = 1
				  AND EXISTS (
					SELECT 1 FROM issue_labels il
					JOIN labels l ON l.name = il.label_name
					WHERE il.issue_id = i.id AND l.points > 0
				  )
			), 0)
			+
			COALESCE((
				SELECT SUM(p.merge_points + COALESCE((
					SELECT SUM(l2.points)
					FROM pull_request_issues pi
					JOIN issue_labels il2 ON il2.issue_id = pi.issue_id
					JOIN labels l2 ON l2.name = il2.label_name
					WHERE pi.pull_request_id = p.id AND l2.points > 0
				), 0))
				FROM pull_requests p
				JOIN repositories r2 ON r2.id = p.repository_id
				WHERE p.user_id = u.id
				  AND p.merged = 1
				  AND r2.consider_contributions = 1
			), 0) AS total
		FROM users u
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[int64]int)
	for rows.Next() {
		var userID int64
		var total int
		if err := rows.Scan(&userID, &total); err != nil {
			return nil, err
		}
		totals[userID] = total
	}

	return totals, rows.Err()
}
