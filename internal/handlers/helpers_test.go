package handlers

import (
	"crypto/hmac"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/gitkudos/gitkudos/internal/repositories"
	"github.com/gitkudos/gitkudos/internal/services"
	"github.com/gitkudos/gitkudos/pkg/config"
	"github.com/gitkudos/gitkudos/pkg/database"
)

const testSecret = "hook-secret"

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db, "../../migrations"))

	t.Cleanup(func() { db.Close() })
	return db
}

// newTestRouter wires the real stack against an in-memory database, the same
// way cmd/server does, minus the enrichment workers.
func newTestRouter(t *testing.T, db *sql.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.LeaderboardConfig{
		AcceptanceTopic:    "contributions-accepted",
		IssueOpeningPoints: 10,
		MergePoints:        10,
	}

	userRepo := repositories.NewUserRepository(db)
	labelRepo := repositories.NewLabelRepository(db)
	repoRepo := repositories.NewGithubRepoRepository(db)
	issueRepo := repositories.NewIssueRepository(db)
	prRepo := repositories.NewPullRequestRepository(db)
	jobRepo := repositories.NewEnrichmentJobRepository(db)

	acceptance := services.NewAcceptanceService(labelRepo, cfg)
	webhookService := services.NewWebhookService(cfg, userRepo, labelRepo, repoRepo, issueRepo, prRepo, jobRepo, acceptance)
	pointsService := services.NewPointsService()
	strategy := services.NewAggregateStrategy(db)
	leaderboardService := services.NewLeaderboardService(strategy, pointsService, userRepo, issueRepo, prRepo, repoRepo)
	exportService := services.NewExportService()

	webhookHandler := NewWebhookHandler(config.GitHubConfig{WebhookSecret: testSecret}, webhookService)
	contributorsHandler := NewContributorsHandler(leaderboardService, exportService)
	healthHandler := NewHealthHandler()

	router := gin.New()
	router.POST("/webhook/github/", webhookHandler.Handle)
	router.GET("/contributors/", contributorsHandler.List)
	router.GET("/contributors/export", contributorsHandler.Export)
	router.GET("/health", healthHandler.Health)
	return router
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return "sha1=" + hex.EncodeToString(mac.Sum(nil))
}
