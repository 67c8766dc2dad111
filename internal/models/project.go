package models

import "time"

type ProjectStatus string

const (
	ProjectStatusPending   ProjectStatus = "Pending"
	ProjectStatusAccepted  ProjectStatus = "Accepted"
	ProjectStatusCompleted ProjectStatus = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPending, ProjectStatusAccepted, ProjectStatusCompleted:
		return true
	}
	return false
}

type Project struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Name        string        `gorm:"type:varchar(255);not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	Deadline    time.Time     `gorm:"not null" json:"deadline"`
	AcceptedBy  *string       `gorm:"type:varchar(128)" json:"accepted_by"`
	AcceptedAt  *time.Time    `json:"accepted_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
