package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"github.com/yukikurage/project-tracker-api/internal/utils"
)

// LeaderboardService folds progress rows into per-user standings.
type LeaderboardService struct {
	userRepo     repository.UserRepository
	progressRepo repository.ProgressRepository
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(userRepo repository.UserRepository, progressRepo repository.ProgressRepository) *LeaderboardService {
	return &LeaderboardService{
		userRepo:     userRepo,
		progressRepo: progressRepo,
	}
}

// Standing is one user's aggregate.
type Standing struct {
	Rank              int
	User              models.User
	TotalScore        int64
	ProjectsCompleted int
	LastActivity      *time.Time
}

// GetLeaderboard ranks every user by total score, highest first. Users with
// no progress rows are included with zero totals. Ties keep storage order.
// A nil page returns the full ranking.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, page *utils.PaginationParams) ([]Standing, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	rows, err := s.progressRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	standings := Fold(users, rows)
	if page == nil {
		return standings, nil
	}

	start, end := page.Window(len(standings))
	return standings[start:end], nil
}

// Fold aggregates rows per user and sorts the result. Rows whose candidate
// is not among users are ignored.
func Fold(users []models.User, rows []models.Progress) []Standing {
	index := make(map[string]int, len(users))
	standings := make([]Standing, len(users))
	projects := make([]map[uint64]struct{}, len(users))
	for i, u := range users {
		index[u.UID] = i
		standings[i] = Standing{User: u}
		projects[i] = make(map[uint64]struct{})
	}

	for _, row := range rows {
		i, ok := index[row.CandidateID]
		if !ok {
			continue
		}
		st := &standings[i]
		st.TotalScore += int64(row.Score)
		projects[i][row.ProjectID] = struct{}{}
		if st.LastActivity == nil || row.UpdatedAt.After(*st.LastActivity) {
			ts := row.UpdatedAt
			st.LastActivity = &ts
		}
	}

	for i := range standings {
		standings[i].ProjectsCompleted = len(projects[i])
	}

	sort.SliceStable(standings, func(a, b int) bool {
		return standings[a].TotalScore > standings[b].TotalScore
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}

	return standings
}
