package services

import (
	"github.com/gitkudos/gitkudos/internal/models"
	"github.com/gitkudos/gitkudos/internal/payload"
	"github.com/gitkudos/gitkudos/internal/repositories"
	"github.com/gitkudos/gitkudos/pkg/config"
	"github.com/gitkudos/gitkudos/pkg/logger"
)

// WebhookService runs the persistence sequence for each webhook event type.
// Every write is an upsert keyed by GitHub's own IDs, so redelivered events
// are idempotent. Dependencies (user, repository, labels) are always
// persisted before the entity that references them.
type WebhookService struct {
	cfg        config.LeaderboardConfig
	userRepo   *repositories.UserRepository
	labelRepo  *repositories.LabelRepository
	repoRepo   *repositories.GithubRepoRepository
	issueRepo  *repositories.IssueRepository
	prRepo     *repositories.PullRequestRepository
	jobRepo    *repositories.EnrichmentJobRepository
	acceptance *AcceptanceService
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(
	cfg config.LeaderboardConfig,
	userRepo *repositories.UserRepository,
	labelRepo *repositories.LabelRepository,
	repoRepo *repositories.GithubRepoRepository,
	issueRepo *repositories.IssueRepository,
	prRepo *repositories.PullRequestRepository,
	jobRepo *repositories.EnrichmentJobRepository,
	acceptance *AcceptanceService,
) *WebhookService {
	return &WebhookService{
		cfg:        cfg,
		userRepo:   userRepo,
		labelRepo:  labelRepo,
		repoRepo:   repoRepo,
		issueRepo:  issueRepo,
		prRepo:     prRepo,
		jobRepo:    jobRepo,
		acceptance: acceptance,
	}
}

// HandleIssues is the fallback handler for every "issues" action: it keeps
// the issue and its dependencies up to date without acceptance checks.
func (s *WebhookService) HandleIssues(body []byte) error {
	set, err := payload.Extract(body, payload.KindIssue)
	if err != nil {
		return err
	}

	return s.persistIssue(set.Issue)
}

// HandleIssuesLabeled handles "issues" events with the "labeled" action:
// the repository must carry the acceptance topic, then the label and the
// issue are persisted.
func (s *WebhookService) HandleIssuesLabeled(body []byte) error {
	set, err := payload.Extract(body, payload.KindLabel, payload.KindIssue)
	if err != nil {
		return err
	}

	if err := s.acceptance.CheckRepository(&set.Issue.Repository); err != nil {
		return err
	}

	if err := s.labelRepo.Upsert(set.Label.Model()); err != nil {
		return err
	}

	return s.persistIssue(set.Issue)
}

// HandleLabel handles "label" events (created, edited): the label's name and
// color are upserted. Point values stay administrator-controlled.
func (s *WebhookService) HandleLabel(body []byte) error {
	set, err := payload.Extract(body, payload.KindLabel)
	if err != nil {
		return err
	}

	return s.labelRepo.Upsert(set.Label.Model())
}

// HandlePullRequest handles every "pull_request" action: the repository must
// carry the acceptance topic, then the pull request is persisted and a
// linked-issue enrichment job is queued. Enrichment is best effort and never
// fails the delivery.
func (s *WebhookService) HandlePullRequest(body []byte) error {
	set, err := payload.Extract(body, payload.KindPullRequest)
	if err != nil {
		return err
	}
	pr := set.PullRequest

	if err := s.acceptance.CheckRepository(&pr.Repository); err != nil {
		return err
	}

	if err := s.userRepo.Upsert(pr.User.Model()); err != nil {
		return err
	}
	if err := s.repoRepo.Upsert(pr.Repository.Model(s.cfg.AcceptanceTopic)); err != nil {
		return err
	}
	for i := range pr.Labels {
		if err := s.labelRepo.Upsert(pr.Labels[i].Model()); err != nil {
			return err
		}
	}

	if err := s.prRepo.Upsert(pr.Model(s.cfg.MergePoints)); err != nil {
		return err
	}
	if err := s.prRepo.ReplaceLabels(pr.ID, pr.LabelNames()); err != nil {
		return err
	}

	if pr.HTMLURL != "" {
		job := models.NewEnrichmentJob(pr.ID, pr.HTMLURL)
		if err := s.jobRepo.Create(job); err != nil {
			logger.WithError(err).Warnf("failed to queue enrichment for pull request %d", pr.ID)
		}
	}

	return nil
}

func (s *WebhookService) persistIssue(issue *payload.Issue) error {
	if err := s.userRepo.Upsert(issue.User.Model()); err != nil {
		return err
	}
	if issue.Assignee != nil {
		if err := s.userRepo.Upsert(issue.Assignee.Model()); err != nil {
			return err
		}
	}
	if err := s.repoRepo.Upsert(issue.Repository.Model(s.cfg.AcceptanceTopic)); err != nil {
		return err
	}
	for i := range issue.Labels {
		if err := s.labelRepo.Upsert(issue.Labels[i].Model()); err != nil {
			return err
		}
	}

	if err := s.issueRepo.Upsert(issue.Model(s.cfg.IssueOpeningPoints)); err != nil {
		return err
	}

	return s.issueRepo.ReplaceLabels(issue.ID, issue.LabelNames())
}
