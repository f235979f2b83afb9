package services

import (
	"sort"

	"github.com/gitkudos/gitkudos/internal/models"
	"github.com/gitkudos/gitkudos/internal/repositories"
)

// LeaderboardService assembles the contributors listing from persisted state.
type LeaderboardService struct {
	strategy  PointsStrategy
	points    *PointsService
	userRepo  *repositories.UserRepository
	issueRepo *repositories.IssueRepository
	prRepo    *repositories.PullRequestRepository
	repoRepo  *repositories.GithubRepoRepository
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(
	strategy PointsStrategy,
	points *PointsService,
	userRepo *repositories.UserRepository,
	issueRepo *repositories.IssueRepository,
	prRepo *repositories.PullRequestRepository,
	repoRepo *repositories.GithubRepoRepository,
) *LeaderboardService {
	return &LeaderboardService{
		strategy:  strategy,
		points:    points,
		userRepo:  userRepo,
		issueRepo: issueRepo,
		prRepo:    prRepo,
		repoRepo:  repoRepo,
	}
}

// Contributors returns every user annotated with total points and their
// scored issues and pull requests, ordered ascending by total so the users
// who need encouragement come first.
func (s *LeaderboardService) Contributors() ([]*models.Contributor, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, err
	}

	totals, err := s.strategy.TotalsByUser()
	if err != nil {
		return nil, err
	}

	repoRefs := make(map[int64]models.RepositoryRef)

	contributors := make([]*models.Contributor, 0, len(users))
	for _, user := range users {
		contributor := &models.Contributor{
			ID:           user.ID,
			Username:     user.Username,
			AvatarURL:    user.AvatarURL,
			TotalPoints:  totals[user.ID],
			Issues:       []models.IssueView{},
			PullRequests: []models.PullRequestView{},
		}

		issues, err := s.issueRepo.GetQualifyingByUser(user.ID)
		if err != nil {
			return nil, err
		}
		for _, issue := range issues {
			ref, err := s.repositoryRef(repoRefs, issue.RepositoryID)
			if err != nil {
				return nil, err
			}

			labels := issue.FeatureLabels()
			labelViews := make([]models.LabelView, 0, len(labels))
			for _, label := range labels {
				labelViews = append(labelViews, models.LabelView{
					Name:   label.Name,
					Color:  label.Color,
					Points: label.Points,
				})
			}

			contributor.Issues = append(contributor.Issues, models.IssueView{
				ID:         issue.ID,
				Title:      issue.Title,
				URL:        issue.URL,
				Labels:     labelViews,
				Locked:     issue.Locked,
				State:      issue.State,
				CreatedAt:  issue.CreatedAt,
				UpdatedAt:  issue.UpdatedAt,
				ClosedAt:   issue.ClosedAt,
				Points:     s.points.IssuePoints(issue),
				Repository: ref,
			})
		}

		pullRequests, err := s.prRepo.GetMergedQualifyingByUser(user.ID)
		if err != nil {
			return nil, err
		}
		for _, pr := range pullRequests {
			ref, err := s.repositoryRef(repoRefs, pr.RepositoryID)
			if err != nil {
				return nil, err
			}

			linked, err := s.issueRepo.GetLinkedByPullRequest(pr.ID)
			if err != nil {
				return nil, err
			}

			contributor.PullRequests = append(contributor.PullRequests, models.PullRequestView{
				ID:         pr.ID,
				Title:      pr.Title,
				URL:        pr.URL,
				State:      pr.State,
				CreatedAt:  pr.CreatedAt,
				UpdatedAt:  pr.UpdatedAt,
				ClosedAt:   pr.ClosedAt,
				Points:     s.points.PullRequestPoints(pr, linked),
				Repository: ref,
			})
		}

		contributors = append(contributors, contributor)
	}

	sort.SliceStable(contributors, func(i, j int) bool {
		if contributors[i].TotalPoints != contributors[j].TotalPoints {
			return contributors[i].TotalPoints < contributors[j].TotalPoints
		}
		return contributors[i].ID < contributors[j].ID
	})

	return contributors, nil
}

func (s *LeaderboardService) repositoryRef(cache map[int64]models.RepositoryRef, repositoryID int64) (models.RepositoryRef, error) {
	if ref, ok := cache[repositoryID]; ok {
		return ref, nil
	}

	repo, err := s.repoRepo.GetByID(repositoryID)
	if err != nil {
		return models.RepositoryRef{}, err
	}

	ref := models.RepositoryRef{ID: repo.ID, Name: repo.Name}
	cache[repositoryID] = ref
	return ref, nil
}
