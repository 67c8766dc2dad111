package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

type ProgressHandler struct {
	progressService *services.ProgressService
	logger          *slog.Logger
}

func NewProgressHandler(progressService *services.ProgressService, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		logger:          defaultLogger(logger),
	}
}

// UpdateProgress records the candidate's progress and score
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	type UpdateProgressRequest struct {
		ProjectID   uint64 `json:"project_id" binding:"required"`
		CandidateID string `json:"candidate_id"`
		Progress    *int   `json:"progress" binding:"required"`
		Score       *int   `json:"score" binding:"required"`
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	row, err := h.progressService.UpdateProgress(c.Request.Context(), services.UpdateProgressInput{
		ProjectID:   req.ProjectID,
		CandidateID: resolveCandidate(c, req.CandidateID),
		Progress:    *req.Progress,
		Score:       *req.Score,
	})
	if err != nil {
		respondServiceError(c, h.logger, "Failed to update progress", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProgressDTO(*row))
}
