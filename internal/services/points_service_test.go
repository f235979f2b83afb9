package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitkudos/gitkudos/internal/models"
	"github.com/gitkudos/gitkudos/internal/repositories"
)

func TestIssuePoints(t *testing.T) {
	points := NewPointsService()

	testCases := []struct {
		name     string
		labels   []*models.Label
		expected int
	}{
		{
			name:     "one feature label grants opening points",
			labels:   []*models.Label{{Name: "enhancement", Points: 3}},
			expected: 10,
		},
		{
			name: "multiple feature labels grant the bonus once",
			labels: []*models.Label{
				{Name: "enhancement", Points: 3},
				{Name: "feature", Points: 7},
			},
			expected: 10,
		},
		{
			name:     "zero-point labels only",
			labels:   []*models.Label{{Name: "wontfix"}, {Name: "duplicate"}},
			expected: 0,
		},
		{
			name:     "no labels",
			labels:   nil,
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			issue := &models.Issue{OpeningPoints: 10, Labels: tc.labels}
			assert.Equal(t, tc.expected, points.IssuePoints(issue))
		})
	}
}

func TestPullRequestPoints(t *testing.T) {
	points := NewPointsService()
	mergedAt := time.Date(2024, 5, 4, 9, 0, 0, 0, time.UTC)

	linkedWithThreePoints := []*models.Issue{
		{ID: 1, Labels: []*models.Label{{Name: "easy", Points: 3}, {Name: "wontfix"}}},
	}

	testCases := []struct {
		name     string
		pr       *models.PullRequest
		linked   []*models.Issue
		expected int
	}{
		{
			name:     "unmerged pull request is worth nothing",
			pr:       &models.PullRequest{MergePoints: 10},
			linked:   linkedWithThreePoints,
			expected: 0,
		},
		{
			name:     "merged with one linked issue worth 3",
			pr:       &models.PullRequest{Merged: true, MergedAt: &mergedAt, MergePoints: 10},
			linked:   linkedWithThreePoints,
			expected: 13,
		},
		{
			// The merge bonus is granted unconditionally on merge.
			name:     "merged without qualifying linked work still earns the bonus",
			pr:       &models.PullRequest{Merged: true, MergedAt: &mergedAt, MergePoints: 10},
			linked:   nil,
			expected: 10,
		},
		{
			name: "merged with several linked issues",
			pr:   &models.PullRequest{Merged: true, MergedAt: &mergedAt, MergePoints: 10},
			linked: []*models.Issue{
				{ID: 1, Labels: []*models.Label{{Name: "easy", Points: 3}}},
				{ID: 2, Labels: []*models.Label{{Name: "hard", Points: 8}}},
				{ID: 3, Labels: []*models.Label{{Name: "wontfix"}}},
			},
			expected: 21,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, points.PullRequestPoints(tc.pr, tc.linked))
		})
	}
}

func TestStrategiesAgree(t *testing.T) {
	db := newTestDB(t)
	seedLeaderboardFixture(t, db)

	points := NewPointsService()
	userRepo := repositories.NewUserRepository(db)
	issueRepo := repositories.NewIssueRepository(db)
	prRepo := repositories.NewPullRequestRepository(db)

	iterative := NewIterativeStrategy(points, userRepo, issueRepo, prRepo)
	aggregate := NewAggregateStrategy(db)

	iterativeTotals, err := iterative.TotalsByUser()
	require.NoError(t, err)
	aggregateTotals, err := aggregate.TotalsByUser()
	require.NoError(t, err)

	expected := map[int64]int{11: 5, 12: 0, 13: 12}
	assert.Equal(t, expected, iterativeTotals)
	assert.Equal(t, expected, aggregateTotals)
}

func TestStrategiesAgreeOnEmptyStore(t *testing.T) {
	db := newTestDB(t)

	iterative := NewIterativeStrategy(
		NewPointsService(),
		repositories.NewUserRepository(db),
		repositories.NewIssueRepository(db),
		repositories.NewPullRequestRepository(db),
	)
	aggregate := NewAggregateStrategy(db)

	iterativeTotals, err := iterative.TotalsByUser()
	require.NoError(t, err)
	aggregateTotals, err := aggregate.TotalsByUser()
	require.NoError(t, err)

	assert.Empty(t, iterativeTotals)
	assert.Empty(t, aggregateTotals)
}
