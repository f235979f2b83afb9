package services

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/gitkudos/gitkudos/internal/models"
	"github.com/gitkudos/gitkudos/internal/repositories"
	"github.com/gitkudos/gitkudos/pkg/config"
	"github.com/gitkudos/gitkudos/pkg/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db, "../../migrations"))

	t.Cleanup(func() { db.Close() })
	return db
}

func testLeaderboardConfig() config.LeaderboardConfig {
	return config.LeaderboardConfig{
		AcceptanceTopic:    "contributions-accepted",
		IssueOpeningPoints: 10,
		MergePoints:        10,
	}
}

// seedLeaderboardFixture builds the canonical three-user fixture:
//   - ada (11): one issue with a 3-point label and opening points 5 → 5
//   - lin (12): one issue with only a zero-point label → 0
//   - grace (13): one merged pull request, merge points 10, linked to an
//     issue whose feature labels sum to 2 → 12
//
// The linked issue lives in a non-considered repository and is authored by
// lin, so it contributes to grace's pull request but not to lin's total.
func seedLeaderboardFixture(t *testing.T, db *sql.DB) {
	t.Helper()

	userRepo := repositories.NewUserRepository(db)
	labelRepo := repositories.NewLabelRepository(db)
	repoRepo := repositories.NewGithubRepoRepository(db)
	issueRepo := repositories.NewIssueRepository(db)
	prRepo := repositories.NewPullRequestRepository(db)

	require.NoError(t, userRepo.Upsert(&models.User{ID: 11, Username: "ada"}))
	require.NoError(t, userRepo.Upsert(&models.User{ID: 12, Username: "lin"}))
	require.NoError(t, userRepo.Upsert(&models.User{ID: 13, Username: "grace"}))

	require.NoError(t, repoRepo.Upsert(&models.Repository{ID: 555, Name: "widgets", ConsiderContributions: true}))
	require.NoError(t, repoRepo.Upsert(&models.Repository{ID: 556, Name: "attic", ConsiderContributions: false}))

	require.NoError(t, labelRepo.Upsert(&models.Label{Name: "enhancement", Color: "a2eeef"}))
	require.NoError(t, labelRepo.SetPoints("enhancement", 3))
	require.NoError(t, labelRepo.Upsert(&models.Label{Name: "feature", Color: "00ff00"}))
	require.NoError(t, labelRepo.SetPoints("feature", 2))
	require.NoError(t, labelRepo.Upsert(&models.Label{Name: "wontfix", Color: "ffffff"}))

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	adaIssue := &models.Issue{
		ID: 301, Title: "ada issue", URL: "https://api.github.com/repos/acme/widgets/issues/1",
		State: "open", CreatedAt: created, UpdatedAt: created,
		UserID: 11, RepositoryID: 555, OpeningPoints: 5,
	}
	require.NoError(t, issueRepo.Upsert(adaIssue))
	require.NoError(t, issueRepo.ReplaceLabels(301, []string{"enhancement"}))

	linIssue := &models.Issue{
		ID: 302, Title: "lin issue", URL: "https://api.github.com/repos/acme/widgets/issues/2",
		State: "open", CreatedAt: created, UpdatedAt: created,
		UserID: 12, RepositoryID: 555, OpeningPoints: 10,
	}
	require.NoError(t, issueRepo.Upsert(linIssue))
	require.NoError(t, issueRepo.ReplaceLabels(302, []string{"wontfix"}))

	linkedIssue := &models.Issue{
		ID: 303, Title: "linked issue", URL: "https://api.github.com/repos/acme/attic/issues/3",
		State: "closed", CreatedAt: created, UpdatedAt: created,
		UserID: 12, RepositoryID: 556, OpeningPoints: 10,
	}
	require.NoError(t, issueRepo.Upsert(linkedIssue))
	require.NoError(t, issueRepo.ReplaceLabels(303, []string{"feature"}))

	mergedAt := created.Add(48 * time.Hour)
	gracePR := &models.PullRequest{
		ID: 401, URL: "https://api.github.com/repos/acme/widgets/pulls/8",
		HTMLURL: "https://github.com/acme/widgets/pull/8", Title: "grace pr",
		State: "closed", CreatedAt: created, UpdatedAt: mergedAt,
		MergedAt: &mergedAt, Merged: true,
		UserID: 13, RepositoryID: 555, MergePoints: 10,
	}
	require.NoError(t, prRepo.Upsert(gracePR))
	require.NoError(t, prRepo.ReplaceLinkedIssues(401, []int64{303}))
}
