package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectCompleted    = errors.New("project is already completed")
	ErrProjectNameRequired = errors.New("project name is required")
	ErrDeadlineRequired    = errors.New("deadline is required")
	ErrInvalidStatus       = errors.New("status must be one of Pending, Accepted, Completed")
	ErrCandidateRequired   = errors.New("candidate id is required")
)

// ProjectService handles the project side of the progress engine.
type ProjectService struct {
	projectRepo  repository.ProjectRepository
	progressRepo repository.ProgressRepository
	now          func() time.Time
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, progressRepo repository.ProgressRepository) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		progressRepo: progressRepo,
		now:          time.Now,
	}
}

// ActiveProject is a project seen through one candidate's eyes.
type ActiveProject struct {
	Project    models.Project
	Progress   int
	Score      int
	IsAccepted bool
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
	Status      models.ProjectStatus
	Deadline    time.Time
}

// ListActiveProjects returns every project that is not completed, annotated
// with the candidate's own progress and score.
func (s *ProjectService) ListActiveProjects(ctx context.Context, candidateID string) ([]ActiveProject, error) {
	if strings.TrimSpace(candidateID) == "" {
		return nil, ErrCandidateRequired
	}

	projects, err := s.projectRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	ids := make([]uint64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	rows, err := s.progressRepo.ListByCandidate(ctx, candidateID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	byProject := make(map[uint64]models.Progress, len(rows))
	for _, row := range rows {
		byProject[row.ProjectID] = row
	}

	result := make([]ActiveProject, len(projects))
	for i, p := range projects {
		row := byProject[p.ID]
		result[i] = ActiveProject{
			Project:    p,
			Progress:   row.Progress,
			Score:      row.Score,
			IsAccepted: p.AcceptedBy != nil && *p.AcceptedBy == candidateID,
		}
	}

	return result, nil
}

// CreateProject creates a new project. Duplicate names are allowed.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameRequired
	}
	if input.Deadline.IsZero() {
		return nil, ErrDeadlineRequired
	}

	if input.Status == "" {
		input.Status = models.ProjectStatusPending
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		Deadline:    input.Deadline,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// AcceptProject marks the project accepted by the candidate and initializes
// the candidate's progress row. Re-accepting keeps existing progress.
func (s *ProjectService) AcceptProject(ctx context.Context, projectID uint64, candidateID string) error {
	if strings.TrimSpace(candidateID) == "" {
		return ErrCandidateRequired
	}

	if err := s.projectRepo.Accept(ctx, projectID, candidateID, s.now()); err != nil {
		switch {
		case errors.Is(err, repository.ErrProjectMissing):
			return ErrProjectNotFound
		case errors.Is(err, repository.ErrProjectClosed):
			return ErrProjectCompleted
		default:
			return fmt.Errorf("failed to accept project: %w", err)
		}
	}

	return nil
}

// GetProject returns a project by ID
func (s *ProjectService) GetProject(ctx context.Context, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// SeedSampleProjects inserts the demo projects. Calling it twice inserts them twice.
func (s *ProjectService) SeedSampleProjects(ctx context.Context) ([]models.Project, error) {
	now := s.now()
	samples := []models.Project{
		{
			Name:        "Mobile App Development",
			Description: "Create a cross-platform mobile application using React Native. Features include user authentication, real-time data sync, and offline functionality.",
			Status:      models.ProjectStatusPending,
			Deadline:    now.Add(21 * 24 * time.Hour),
		},
		{
			Name:        "Data Analytics Dashboard",
			Description: "Build an interactive dashboard for visualizing business metrics. Implement charts, filters, and export functionality using D3.js and React.",
			Status:      models.ProjectStatusPending,
			Deadline:    now.Add(14 * 24 * time.Hour),
		},
		{
			Name:        "E-commerce Platform",
			Description: "Develop a full-stack e-commerce solution with features like product catalog, shopping cart, payment integration, and order management.",
			Status:      models.ProjectStatusPending,
			Deadline:    now.Add(30 * 24 * time.Hour),
		},
	}

	if err := s.projectRepo.CreateBatch(ctx, samples); err != nil {
		return nil, fmt.Errorf("failed to add sample projects: %w", err)
	}

	return samples, nil
}
