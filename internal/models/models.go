// Package models contains all data models for the ai-pulse pipeline
package models

import (
	"gorm.io/gorm"
)

// AllModels returns a slice of all model types for database migrations
func AllModels() []interface{} {
	return []interface{}{
		&Source{},
		&RawArticle{},
		&ProcessedArticle{},
		&TrendingTopic{},
		&OnboardingSuggestedInterest{},
		&ConfigSynonym{},
		&ConfigGenericTerm{},
		&ConfigUserType{},
		&ConfigContentPreference{},
		&Profile{},
	}
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
