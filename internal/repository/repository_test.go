package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/project-tracker-api/internal/database"
	"github.com/yukikurage/project-tracker-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestProject(t *testing.T, db *gorm.DB, name string, status models.ProjectStatus, deadline time.Time) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:        name,
		Description: name + " description",
		Status:      status,
		Deadline:    deadline,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func loadProject(t *testing.T, db *gorm.DB, id uint64) models.Project {
	t.Helper()

	var project models.Project
	require.NoError(t, db.First(&project, id).Error)
	return project
}

func countProgress(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Progress{}).Count(&count).Error)
	return count
}

var bg = context.Background()
