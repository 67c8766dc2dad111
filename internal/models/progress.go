package models

import "time"

// Progress is the per-(project, candidate) work record.
type Progress struct {
	ProjectID   uint64    `gorm:"primarykey;autoIncrement:false" json:"project_id"`
	CandidateID string    `gorm:"primarykey;type:varchar(128)" json:"candidate_id"`
	Progress    int       `gorm:"not null" json:"progress"`
	Score       int       `gorm:"not null" json:"score"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Progress) TableName() string {
	return "progress"
}
