package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/project-tracker-api/internal/constants"
	"github.com/yukikurage/project-tracker-api/internal/models"
)

// GormProgressRepository is a GORM implementation of ProgressRepository
type GormProgressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &GormProgressRepository{db: db}
}

// Find finds the progress row for a project and candidate
func (r *GormProgressRepository) Find(ctx context.Context, projectID uint64, candidateID string) (*models.Progress, error) {
	var progress models.Progress
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND candidate_id = ?", projectID, candidateID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// ListByCandidate lists a candidate's rows restricted to the given projects
func (r *GormProgressRepository) ListByCandidate(ctx context.Context, candidateID string, projectIDs []uint64) ([]models.Progress, error) {
	if len(projectIDs) == 0 {
		return []models.Progress{}, nil
	}

	var rows []models.Progress
	if err := r.db.WithContext(ctx).
		Where("candidate_id = ? AND project_id IN ?", candidateID, projectIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll lists every progress row
func (r *GormProgressRepository) ListAll(ctx context.Context) ([]models.Progress, error) {
	var rows []models.Progress
	if err := r.db.WithContext(ctx).
		Order("project_id ASC").
		Order("candidate_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Record upserts the row last-write-wins and completes the project at full progress.
func (r *GormProgressRepository) Record(ctx context.Context, row *models.Progress) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Project{}).Where("id = ?", row.ProjectID).Count(&count).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrUpsertProgress, err)
		}
		if count == 0 {
			return ErrProjectMissing
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "candidate_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"progress", "score", "updated_at"}),
		}).Create(row).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrUpsertProgress, err)
		}

		if row.Progress == constants.MaxProgress {
			if err := tx.Model(&models.Project{}).
				Where("id = ?", row.ProjectID).
				Update("status", models.ProjectStatusCompleted).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrCompleteProject, err)
			}
		}

		return nil
	})
}
