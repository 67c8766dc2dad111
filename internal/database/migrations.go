package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/yukikurage/project-tracker-api/internal/models"
)

// AddIndexes adds the indexes used by the active-project scan and the leaderboard fold.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		{&models.Project{}, "projects", "idx_projects_status", "status"},
		{&models.Project{}, "projects", "idx_projects_deadline", "deadline"},
		{&models.Progress{}, "progress", "idx_progress_candidate_id", "candidate_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			slog.Debug("index already exists, skipping", slog.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("created index", slog.String("index", idx.name), slog.String("table", idx.table))
	}

	return nil
}
