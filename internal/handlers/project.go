package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/services"
	"github.com/yukikurage/project-tracker-api/internal/utils"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	logger         *slog.Logger
}

func NewProjectHandler(projectService *services.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         defaultLogger(logger),
	}
}

// ListProjects returns every project that is not completed, annotated with
// the caller's progress. The caller is the userId query or the session user.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID := resolveCandidate(c, c.Query("userId"))
	if userID == "" {
		apierrors.BadRequest(c, "userId is required")
		return
	}

	projects, err := h.projectService.ListActiveProjects(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.logger, "Failed to fetch projects", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectWithProgressDTOs(projects))
}

// GetProject returns the project loaded by RequireProject
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		middleware.InternalError(c, h.logger, "Project not found in context", nil)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(project))
}

// CreateProject creates a new project
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Status      string `json:"status"`
		Deadline    string `json:"deadline" binding:"required"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	deadline, err := utils.ParseTimestamp(req.Deadline)
	if err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid deadline", err.Error())
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      models.ProjectStatus(req.Status),
		Deadline:    deadline,
	})
	if err != nil {
		respondServiceError(c, h.logger, "Failed to create project", err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// AcceptProject accepts a project on behalf of a candidate
func (h *ProjectHandler) AcceptProject(c *gin.Context) {
	type AcceptProjectRequest struct {
		ProjectID   uint64 `json:"project_id" binding:"required"`
		CandidateID string `json:"candidate_id"`
	}

	var req AcceptProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	candidateID := resolveCandidate(c, req.CandidateID)
	if err := h.projectService.AcceptProject(c.Request.Context(), req.ProjectID, candidateID); err != nil {
		respondServiceError(c, h.logger, "Failed to accept project", err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Project accepted successfully"})
}

// AddSampleProjects seeds the demo projects
func (h *ProjectHandler) AddSampleProjects(c *gin.Context) {
	if _, err := h.projectService.SeedSampleProjects(c.Request.Context()); err != nil {
		respondServiceError(c, h.logger, "Failed to add sample projects", err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Sample projects added successfully"})
}
