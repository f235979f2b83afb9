package repositories

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/gitkudos/gitkudos/internal/models"
	"github.com/gitkudos/gitkudos/pkg/database"
)

// newTestDB opens an in-memory SQLite database with the real schema.
// A single connection keeps every query on the same in-memory database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db, "../../migrations"))

	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *sql.DB, id int64, username string) {
	t.Helper()
	require.NoError(t, NewUserRepository(db).Upsert(&models.User{ID: id, Username: username}))
}

func seedRepository(t *testing.T, db *sql.DB, id int64, name string, considered bool) {
	t.Helper()
	require.NoError(t, NewGithubRepoRepository(db).Upsert(&models.Repository{
		ID: id, Name: name, ConsiderContributions: considered,
	}))
}

func seedLabel(t *testing.T, db *sql.DB, name string, points int) {
	t.Helper()
	labelRepo := NewLabelRepository(db)
	require.NoError(t, labelRepo.Upsert(&models.Label{Name: name, Color: "ededed"}))
	if points != 0 {
		require.NoError(t, labelRepo.SetPoints(name, points))
	}
}

func testIssue(id, userID, repositoryID int64) *models.Issue {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &models.Issue{
		ID:            id,
		Title:         "test issue",
		URL:           "https://api.github.com/repos/acme/widgets/issues/1",
		State:         "open",
		CreatedAt:     created,
		UpdatedAt:     created,
		UserID:        userID,
		RepositoryID:  repositoryID,
		OpeningPoints: 10,
	}
}

func testPullRequest(id, userID, repositoryID int64, merged bool) *models.PullRequest {
	created := time.Date(2024, 5, 3, 8, 0, 0, 0, time.UTC)
	pr := &models.PullRequest{
		ID:           id,
		URL:          "https://api.github.com/repos/acme/widgets/pulls/8",
		HTMLURL:      "https://github.com/acme/widgets/pull/8",
		Title:        "test pull request",
		State:        "open",
		CreatedAt:    created,
		UpdatedAt:    created,
		UserID:       userID,
		RepositoryID: repositoryID,
		MergePoints:  10,
	}
	if merged {
		mergedAt := created.Add(24 * time.Hour)
		pr.Merged = true
		pr.MergedAt = &mergedAt
		pr.State = "closed"
	}
	return pr
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&count))
	return count
}
