package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/project-tracker-api/internal/models"
)

// ActiveProjects restricts a project query to everything not yet completed,
// earliest deadline first.
func ActiveProjects(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ?", models.ProjectStatusCompleted).
		Order("deadline ASC").
		Order("id ASC")
}
