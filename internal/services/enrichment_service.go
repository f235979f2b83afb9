package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/gitkudos/gitkudos/internal/models"
	"github.com/gitkudos/gitkudos/internal/repositories"
	"github.com/gitkudos/gitkudos/pkg/config"
	"github.com/gitkudos/gitkudos/pkg/logger"
)

// linkedIssueHref matches issue links inside the pull request page's
// "Link issues" development form.
var linkedIssueHref = regexp.MustCompile(`href="(?:https://github\.com)?/([^/"]+)/([^/"]+)/issues/(\d+)"`)

// IssueRef identifies an issue by its repository coordinates.
type IssueRef struct {
	Owner  string
	Repo   string
	Number int
}

// APIURL returns the canonical REST URL for the referenced issue.
func (ref IssueRef) APIURL() string {
	return fmt.Sprintf("https://api.github.com/repos/%s/%s/issues/%d", ref.Owner, ref.Repo, ref.Number)
}

// EnrichmentService resolves a pull request's linked issues. The linked-issue
// set is not part of the webhook payload: it is scraped from the pull
// request's rendered page, and issues the store has never seen are fetched
// through the GitHub REST API. Every step is best effort; the pull request
// itself is already persisted by the time a job runs.
type EnrichmentService struct {
	cfg        config.LeaderboardConfig
	httpClient *http.Client
	gh         *github.Client
	userRepo   *repositories.UserRepository
	labelRepo  *repositories.LabelRepository
	repoRepo   *repositories.GithubRepoRepository
	issueRepo  *repositories.IssueRepository
	prRepo     *repositories.PullRequestRepository
}

// NewEnrichmentService creates a new EnrichmentService
func NewEnrichmentService(
	githubCfg config.GitHubConfig,
	enrichCfg config.EnrichmentConfig,
	leaderboardCfg config.LeaderboardConfig,
	userRepo *repositories.UserRepository,
	labelRepo *repositories.LabelRepository,
	repoRepo *repositories.GithubRepoRepository,
	issueRepo *repositories.IssueRepository,
	prRepo *repositories.PullRequestRepository,
) *EnrichmentService {
	timeout := time.Duration(enrichCfg.TimeoutSeconds) * time.Second

	var apiClient *http.Client
	if githubCfg.Token != "" {
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: githubCfg.Token})
		apiClient = oauth2.NewClient(context.Background(), tokenSource)
		apiClient.Timeout = timeout
	}

	return &EnrichmentService{
		cfg:        leaderboardCfg,
		httpClient: &http.Client{Timeout: timeout},
		gh:         github.NewClient(apiClient),
		userRepo:   userRepo,
		labelRepo:  labelRepo,
		repoRepo:   repoRepo,
		issueRepo:  issueRepo,
		prRepo:     prRepo,
	}
}

// Resolve fetches the pull request's rendered page, extracts the linked
// issue references and replaces the pull request's linked-issue set.
func (s *EnrichmentService) Resolve(ctx context.Context, job *models.EnrichmentJob) error {
	page, err := s.fetchPage(ctx, job.HTMLURL)
	if err != nil {
		return fmt.Errorf("fetch pull request page: %w", err)
	}

	refs := ExtractLinkedIssueRefs(page)
	if len(refs) == 0 {
		return s.prRepo.ReplaceLinkedIssues(job.PullRequestID, nil)
	}

	var issueIDs []int64
	for _, ref := range refs {
		issueID, err := s.resolveIssue(ctx, ref)
		if err != nil {
			// Best effort per reference: a later delivery re-resolves.
			logger.WithError(err).Warnf("could not resolve linked issue %s/%s#%d", ref.Owner, ref.Repo, ref.Number)
			continue
		}
		issueIDs = append(issueIDs, issueID)
	}

	return s.prRepo.ReplaceLinkedIssues(job.PullRequestID, issueIDs)
}

// ExtractLinkedIssueRefs scrapes the linked-issue references out of a pull
// request page. Only the "Link issues" development form is considered;
// ordinary issue links elsewhere on the page are ignored.
func ExtractLinkedIssueRefs(page string) []IssueRef {
	start := strings.Index(page, `aria-label="Link issues"`)
	if start < 0 {
		return nil
	}
	section := page[start:]
	if end := strings.Index(section, "</form>"); end >= 0 {
		section = section[:end]
	}

	var refs []IssueRef
	seen := make(map[string]bool)
	for _, match := range linkedIssueHref.FindAllStringSubmatch(section, -1) {
		number, err := strconv.Atoi(match[3])
		if err != nil {
			continue
		}
		ref := IssueRef{Owner: match[1], Repo: match[2], Number: number}
		if seen[ref.APIURL()] {
			continue
		}
		seen[ref.APIURL()] = true
		refs = append(refs, ref)
	}
	return refs
}

func (s *EnrichmentService) fetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// resolveIssue returns the store ID of the referenced issue, fetching and
// persisting it through the REST API when it has never been seen.
func (s *EnrichmentService) resolveIssue(ctx context.Context, ref IssueRef) (int64, error) {
	existing, err := s.issueRepo.GetByURL(ref.APIURL())
	if err == nil {
		return existing.ID, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	ghIssue, _, err := s.gh.Issues.Get(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return 0, fmt.Errorf("github issue lookup: %w", err)
	}
	ghRepo, _, err := s.gh.Repositories.Get(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return 0, fmt.Errorf("github repository lookup: %w", err)
	}

	author := ghIssue.GetUser()
	if err := s.userRepo.Upsert(&models.User{
		ID:        author.GetID(),
		Username:  author.GetLogin(),
		AvatarURL: author.GetAvatarURL(),
	}); err != nil {
		return 0, err
	}

	considered := false
	for _, topic := range ghRepo.Topics {
		if topic == s.cfg.AcceptanceTopic {
			considered = true
			break
		}
	}
	if err := s.repoRepo.Upsert(&models.Repository{
		ID:                    ghRepo.GetID(),
		Name:                  ghRepo.GetName(),
		ConsiderContributions: considered,
	}); err != nil {
		return 0, err
	}

	labelNames := make([]string, 0, len(ghIssue.Labels))
	for _, ghLabel := range ghIssue.Labels {
		if err := s.labelRepo.Upsert(&models.Label{
			Name:  ghLabel.GetName(),
			Color: ghLabel.GetColor(),
		}); err != nil {
			return 0, err
		}
		labelNames = append(labelNames, ghLabel.GetName())
	}

	issue := &models.Issue{
		ID:            ghIssue.GetID(),
		Title:         ghIssue.GetTitle(),
		URL:           ghIssue.GetURL(),
		Locked:        ghIssue.GetLocked(),
		State:         ghIssue.GetState(),
		CreatedAt:     ghIssue.GetCreatedAt().Time,
		UpdatedAt:     ghIssue.GetUpdatedAt().Time,
		UserID:        author.GetID(),
		RepositoryID:  ghRepo.GetID(),
		OpeningPoints: s.cfg.IssueOpeningPoints,
	}
	if ghIssue.ClosedAt != nil {
		closedAt := ghIssue.ClosedAt.Time
		issue.ClosedAt = &closedAt
	}

	if err := s.issueRepo.Upsert(issue); err != nil {
		return 0, err
	}
	if err := s.issueRepo.ReplaceLabels(issue.ID, labelNames); err != nil {
		return 0, err
	}

	return issue.ID, nil
}
