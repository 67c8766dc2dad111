package dto

import (
	"time"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

// LeaderboardEntryDTO is one ranked user
type LeaderboardEntryDTO struct {
	Rank              int        `json:"rank"`
	CandidateID       string     `json:"candidate_id"`
	DisplayName       string     `json:"display_name"`
	Email             string     `json:"email"`
	PhotoURL          string     `json:"photo_url"`
	TotalScore        int64      `json:"total_score"`
	ProjectsCompleted int        `json:"projects_completed"`
	LastActivity      *time.Time `json:"last_activity"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
	}
}

// ToLeaderboardDTO converts standings into the response list
func ToLeaderboardDTO(standings []services.Standing) []LeaderboardEntryDTO {
	entries := make([]LeaderboardEntryDTO, len(standings))
	for i, st := range standings {
		entries[i] = LeaderboardEntryDTO{
			Rank:              st.Rank,
			CandidateID:       st.User.UID,
			DisplayName:       st.User.DisplayName,
			Email:             st.User.Email,
			PhotoURL:          st.User.PhotoURL,
			TotalScore:        st.TotalScore,
			ProjectsCompleted: st.ProjectsCompleted,
			LastActivity:      st.LastActivity,
		}
	}
	return entries
}
