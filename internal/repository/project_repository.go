package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/project-tracker-api/internal/database"
	"github.com/yukikurage/project-tracker-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// CreateBatch creates several projects in one transaction
func (r *GormProjectRepository) CreateBatch(ctx context.Context, projects []models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range projects {
			if err := tx.Create(&projects[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListActive lists every project that is not completed, earliest deadline first
func (r *GormProjectRepository) ListActive(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).Scopes(database.ActiveProjects).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Accept stamps the project and seeds the candidate's progress row atomically.
// An existing progress row is left untouched.
func (r *GormProjectRepository) Accept(ctx context.Context, projectID uint64, candidateID string, acceptedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Project{}).
			Where("id = ? AND status <> ?", projectID, models.ProjectStatusCompleted).
			Updates(map[string]interface{}{
				"status":      models.ProjectStatusAccepted,
				"accepted_by": candidateID,
				"accepted_at": acceptedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("%w: %v", ErrAcceptProject, result.Error)
		}
		if result.RowsAffected == 0 {
			return missingOrClosed(tx, projectID)
		}

		progress := &models.Progress{
			ProjectID:   projectID,
			CandidateID: candidateID,
			UpdatedAt:   acceptedAt,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(progress).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrInitProgress, err)
		}

		return nil
	})
}

// missingOrClosed explains why a guarded update touched no rows.
func missingOrClosed(tx *gorm.DB, projectID uint64) error {
	var project models.Project
	if err := tx.Select("id", "status").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectMissing
		}
		return fmt.Errorf("%w: %v", ErrAcceptProject, err)
	}
	return ErrProjectClosed
}
