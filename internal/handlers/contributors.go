package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gitkudos/gitkudos/internal/services"
	"github.com/gitkudos/gitkudos/pkg/logger"
)

// ContributorsHandler serves the leaderboard read API
type ContributorsHandler struct {
	leaderboardService *services.LeaderboardService
	exportService      *services.ExportService
}

// NewContributorsHandler creates a new ContributorsHandler
func NewContributorsHandler(leaderboardService *services.LeaderboardService, exportService *services.ExportService) *ContributorsHandler {
	return &ContributorsHandler{
		leaderboardService: leaderboardService,
		exportService:      exportService,
	}
}

// List returns the leaderboard, ordered ascending by total points
func (h *ContributorsHandler) List(c *gin.Context) {
	contributors, err := h.leaderboardService.Contributors()
	if err != nil {
		logger.WithError(err).Errorf("failed to build leaderboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, contributors)
}

// Export streams the leaderboard as an Excel workbook
func (h *ContributorsHandler) Export(c *gin.Context) {
	contributors, err := h.leaderboardService.Contributors()
	if err != nil {
		logger.WithError(err).Errorf("failed to build leaderboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	workbook, err := h.exportService.Workbook(contributors)
	if err != nil {
		logger.WithError(err).Errorf("failed to build leaderboard workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	defer workbook.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+h.exportService.Filename(len(contributors))+`"`)

	if err := workbook.Write(c.Writer); err != nil {
		logger.WithError(err).Errorf("failed to stream leaderboard workbook")
	}
}
