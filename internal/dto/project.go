package dto

import (
	"time"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	Deadline    time.Time            `json:"deadline"`
	AcceptedBy  *string              `json:"accepted_by"`
	AcceptedAt  *time.Time           `json:"accepted_at"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ProjectWithProgressDTO is a project annotated with the caller's own progress
type ProjectWithProgressDTO struct {
	ProjectDTO
	Progress   int  `json:"progress"`
	Score      int  `json:"score"`
	IsAccepted bool `json:"is_accepted"`
}

// ProgressDTO represents a progress row in API responses
type ProgressDTO struct {
	ProjectID   uint64    `json:"project_id"`
	CandidateID string    `json:"candidate_id"`
	Progress    int       `json:"progress"`
	Score       int       `json:"score"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MessageResponse is the body of endpoints that only acknowledge
type MessageResponse struct {
	Message string `json:"message"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		Deadline:    project.Deadline,
		AcceptedBy:  project.AcceptedBy,
		AcceptedAt:  project.AcceptedAt,
		CreatedAt:   project.CreatedAt,
	}
}

// ToProjectWithProgressDTOs converts the active list for one candidate
func ToProjectWithProgressDTOs(projects []services.ActiveProject) []ProjectWithProgressDTO {
	items := make([]ProjectWithProgressDTO, len(projects))
	for i, p := range projects {
		items[i] = ProjectWithProgressDTO{
			ProjectDTO: ToProjectDTO(p.Project),
			Progress:   p.Progress,
			Score:      p.Score,
			IsAccepted: p.IsAccepted,
		}
	}
	return items
}

// ToProgressDTO converts a Progress model to ProgressDTO
func ToProgressDTO(progress models.Progress) ProgressDTO {
	return ProgressDTO{
		ProjectID:   progress.ProjectID,
		CandidateID: progress.CandidateID,
		Progress:    progress.Progress,
		Score:       progress.Score,
		UpdatedAt:   progress.UpdatedAt,
	}
}
