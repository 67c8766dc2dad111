package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/project-tracker-api/internal/models"
)

var (
	// ErrProjectMissing is returned when a transactional write targets a project that does not exist.
	ErrProjectMissing = errors.New("project repository: project does not exist")
	// ErrProjectClosed is returned when accepting a project that is already completed.
	ErrProjectClosed = errors.New("project repository: project is completed")
	// ErrAcceptProject is returned when stamping the project as accepted fails.
	ErrAcceptProject = errors.New("project repository: accept project failed")
	// ErrInitProgress is returned when the zero progress row cannot be inserted during acceptance.
	ErrInitProgress = errors.New("project repository: initialize progress failed")
	// ErrUpsertProgress is returned when writing a progress row fails.
	ErrUpsertProgress = errors.New("progress repository: upsert progress failed")
	// ErrCompleteProject is returned when flipping a project to completed fails.
	ErrCompleteProject = errors.New("progress repository: complete project failed")
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// CreateBatch creates several projects in one transaction
	CreateBatch(ctx context.Context, projects []models.Project) error

	// FindByID finds a project by ID
	FindByID(ctx context.Context, id uint64) (*models.Project, error)

	// ListActive lists every project that is not completed, earliest deadline first
	ListActive(ctx context.Context) ([]models.Project, error)

	// Accept marks the project accepted by the candidate and initializes the
	// candidate's progress row if absent, atomically.
	Accept(ctx context.Context, projectID uint64, candidateID string, acceptedAt time.Time) error
}

// ProgressRepository defines the interface for progress data access
type ProgressRepository interface {
	// Find finds the progress row for a project and candidate
	Find(ctx context.Context, projectID uint64, candidateID string) (*models.Progress, error)

	// ListByCandidate lists a candidate's rows restricted to the given projects
	ListByCandidate(ctx context.Context, candidateID string, projectIDs []uint64) ([]models.Progress, error)

	// ListAll lists every progress row
	ListAll(ctx context.Context) ([]models.Progress, error)

	// Record upserts the row and, when it reaches full progress, completes the
	// owning project in the same transaction.
	Record(ctx context.Context, row *models.Progress) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Upsert inserts the user or refreshes its profile fields by uid
	Upsert(ctx context.Context, user *models.User) error

	// FindByUID finds a user by uid
	FindByUID(ctx context.Context, uid string) (*models.User, error)

	// List lists every user in storage order
	List(ctx context.Context) ([]models.User, error)
}
