package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/gitkudos/gitkudos/internal/payload"
	"github.com/gitkudos/gitkudos/internal/repositories"
	"github.com/gitkudos/gitkudos/pkg/config"
)

// ErrNotAcceptable signals that an event is out of scope for the
// leaderboard. Handlers map it to a 406 response.
var ErrNotAcceptable = errors.New("not acceptable for contribution")

// AcceptanceService decides whether repositories, issues and labels are in
// scope for leaderboard scoring.
type AcceptanceService struct {
	labelRepo       *repositories.LabelRepository
	acceptanceTopic string
}

// NewAcceptanceService creates a new AcceptanceService
func NewAcceptanceService(labelRepo *repositories.LabelRepository, cfg config.LeaderboardConfig) *AcceptanceService {
	return &AcceptanceService{
		labelRepo:       labelRepo,
		acceptanceTopic: cfg.AcceptanceTopic,
	}
}

// RepositoryAccepted reports whether the repository's topic list carries the
// acceptance topic.
func (s *AcceptanceService) RepositoryAccepted(repo *payload.Repository) bool {
	for _, topic := range repo.Topics {
		if topic == s.acceptanceTopic {
			return true
		}
	}
	return false
}

// CheckRepository rejects repositories without the acceptance topic.
func (s *AcceptanceService) CheckRepository(repo *payload.Repository) error {
	if !s.RepositoryAccepted(repo) {
		return fmt.Errorf("repository %q: %w", repo.Name, ErrNotAcceptable)
	}
	return nil
}

// IssueAccepted reports whether at least one of the issue's label names is a
// known label with positive points. Unknown labels never qualify.
func (s *AcceptanceService) IssueAccepted(labelNames []string) (bool, error) {
	return s.labelRepo.AnyFeature(labelNames)
}

// CheckIssue rejects issues without a single feature label.
func (s *AcceptanceService) CheckIssue(labelNames []string) error {
	accepted, err := s.IssueAccepted(labelNames)
	if err != nil {
		return err
	}
	if !accepted {
		return fmt.Errorf("issue without feature label: %w", ErrNotAcceptable)
	}
	return nil
}

// LabelAccepted reports whether a label of that name exists with positive
// points. A not-yet-known label is a rejection, never an implicit creation.
func (s *AcceptanceService) LabelAccepted(name string) (bool, error) {
	label, err := s.labelRepo.GetByName(name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return label.IsFeature(), nil
}

// CheckLabel rejects unknown and zero-point labels.
func (s *AcceptanceService) CheckLabel(name string) error {
	accepted, err := s.LabelAccepted(name)
	if err != nil {
		return err
	}
	if !accepted {
		return fmt.Errorf("label %q: %w", name, ErrNotAcceptable)
	}
	return nil
}
