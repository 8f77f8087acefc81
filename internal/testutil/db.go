// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"ai-pulse/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database. The pool is held to
// one connection so every query sees the same in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// CreateSource inserts an enabled source
func CreateSource(t *testing.T, db *gorm.DB, name, url string, sourceType models.SourceType) *models.Source {
	t.Helper()

	source := &models.Source{Name: name, URL: url, Type: sourceType, Enabled: true}
	if err := db.Create(source).Error; err != nil {
		t.Fatalf("Failed to create source: %v", err)
	}
	return source
}
