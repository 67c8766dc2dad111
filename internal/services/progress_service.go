package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-tracker-api/internal/constants"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
)

var (
	ErrInvalidProgress = fmt.Errorf("progress must be between %d and %d", constants.MinProgress, constants.MaxProgress)
	ErrInvalidScore    = errors.New("score must not be negative")
)

// ProgressService records candidate progress. The caller is the source of
// truth for both numbers; nothing is recomputed here.
type ProgressService struct {
	progressRepo repository.ProgressRepository
	now          func() time.Time
}

// NewProgressService creates a new ProgressService
func NewProgressService(progressRepo repository.ProgressRepository) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		now:          time.Now,
	}
}

// UpdateProgressInput represents input for recording progress
type UpdateProgressInput struct {
	ProjectID   uint64
	CandidateID string
	Progress    int
	Score       int
}

// UpdateProgress upserts the candidate's row. Reaching 100 completes the
// project within the same transaction.
func (s *ProgressService) UpdateProgress(ctx context.Context, input UpdateProgressInput) (*models.Progress, error) {
	if strings.TrimSpace(input.CandidateID) == "" {
		return nil, ErrCandidateRequired
	}
	if input.Progress < constants.MinProgress || input.Progress > constants.MaxProgress {
		return nil, ErrInvalidProgress
	}
	if input.Score < 0 {
		return nil, ErrInvalidScore
	}

	row := &models.Progress{
		ProjectID:   input.ProjectID,
		CandidateID: input.CandidateID,
		Progress:    input.Progress,
		Score:       input.Score,
		UpdatedAt:   s.now(),
	}

	if err := s.progressRepo.Record(ctx, row); err != nil {
		if errors.Is(err, repository.ErrProjectMissing) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	return row, nil
}
