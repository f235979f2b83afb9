package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gitkudos/gitkudos/internal/handlers"
	"github.com/gitkudos/gitkudos/internal/repositories"
	"github.com/gitkudos/gitkudos/internal/services"
	"github.com/gitkudos/gitkudos/internal/workers"
	"github.com/gitkudos/gitkudos/pkg/config"
	"github.com/gitkudos/gitkudos/pkg/database"
	"github.com/gitkudos/gitkudos/pkg/logger"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.AppConfig

	logger.Init()
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	if err := database.Init(cfg.Database.Path); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(database.DB)
	labelRepo := repositories.NewLabelRepository(database.DB)
	repoRepo := repositories.NewGithubRepoRepository(database.DB)
	issueRepo := repositories.NewIssueRepository(database.DB)
	prRepo := repositories.NewPullRequestRepository(database.DB)
	jobRepo := repositories.NewEnrichmentJobRepository(database.DB)

	// Initialize services
	acceptanceService := services.NewAcceptanceService(labelRepo, cfg.Leaderboard)
	webhookService := services.NewWebhookService(cfg.Leaderboard, userRepo, labelRepo, repoRepo, issueRepo, prRepo, jobRepo, acceptanceService)
	pointsService := services.NewPointsService()
	strategy := services.NewAggregateStrategy(database.DB)
	leaderboardService := services.NewLeaderboardService(strategy, pointsService, userRepo, issueRepo, prRepo, repoRepo)
	exportService := services.NewExportService()
	enrichmentService := services.NewEnrichmentService(cfg.GitHub, cfg.Enrichment, cfg.Leaderboard, userRepo, labelRepo, repoRepo, issueRepo, prRepo)

	// Start background enrichment workers
	workerManager := workers.NewWorkerManager(cfg.Enrichment, jobRepo, enrichmentService)
	workerManager.StartAll()
	defer workerManager.StopAll()

	// Initialize router
	router := gin.Default()
	setupRoutes(router, cfg, webhookService, leaderboardService, exportService)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Infof("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Errorf("Server shutdown failed")
	}
	logger.Infof("Server stopped")
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	webhookService *services.WebhookService,
	leaderboardService *services.LeaderboardService,
	exportService *services.ExportService,
) {
	webhookHandler := handlers.NewWebhookHandler(cfg.GitHub, webhookService)
	contributorsHandler := handlers.NewContributorsHandler(leaderboardService, exportService)
	healthHandler := handlers.NewHealthHandler()

	router.POST("/webhook/github/", webhookHandler.Handle)
	router.GET("/contributors/", contributorsHandler.List)
	router.GET("/contributors/export", contributorsHandler.Export)
	router.GET("/health", healthHandler.Health)
}
