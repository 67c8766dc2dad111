package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/dto"
	"github.com/yukikurage/project-tracker-api/internal/services"
	"github.com/yukikurage/project-tracker-api/internal/utils"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
	logger             *slog.Logger
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		logger:             defaultLogger(logger),
	}
}

// GetLeaderboard returns users ranked by total score
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	var page *utils.PaginationParams
	if params, ok := utils.GetPaginationParams(c); ok {
		page = &params
	}

	standings, err := h.leaderboardService.GetLeaderboard(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, h.logger, "Failed to fetch leaderboard", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLeaderboardDTO(standings))
}
