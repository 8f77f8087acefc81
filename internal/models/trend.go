package models

import (
	"time"
)

// TrendingTopic holds the buzz of a canonical tag from the latest aggregation run
type TrendingTopic struct {
	TopicText     string    `json:"topic_text" db:"topic_text" gorm:"primaryKey"`
	BuzzScore     float64   `json:"buzz_score" db:"buzz_score" gorm:"index"`
	SourceCount   int       `json:"source_count" db:"source_count"`
	LastUpdatedAt time.Time `json:"last_updated_at" db:"last_updated_at"`
}

// TableName sets the table name for the TrendingTopic model
func (TrendingTopic) TableName() string {
	return "trending_topics"
}

// OnboardingSuggestedInterest is a ranked interest suggestion. The whole table is
// replaced on every aggregation run.
type OnboardingSuggestedInterest struct {
	ID           uint      `json:"-" db:"id" gorm:"primaryKey;autoIncrement"`
	InterestText string    `json:"interest_text" db:"interest_text" gorm:"not null"`
	Rank         int       `json:"rank" db:"rank" gorm:"not null;index"`
	LastUpdated  time.Time `json:"last_updated" db:"last_updated" gorm:"autoCreateTime"`
}

// TableName sets the table name for the OnboardingSuggestedInterest model
func (OnboardingSuggestedInterest) TableName() string {
	return "onboarding_suggested_interests"
}

// ConfigSynonym folds a synonym tag into its canonical term
type ConfigSynonym struct {
	ID            uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Synonym       string `json:"synonym" db:"synonym" gorm:"uniqueIndex;not null"`
	CanonicalTerm string `json:"canonical_term" db:"canonical_term" gorm:"not null"`
	IsEnabled     bool   `json:"is_enabled" db:"is_enabled"`
}

// TableName sets the table name for the ConfigSynonym model
func (ConfigSynonym) TableName() string {
	return "config_synonyms"
}

// ConfigGenericTerm is a tag too generic to trend
type ConfigGenericTerm struct {
	ID        uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Term      string `json:"term" db:"term" gorm:"uniqueIndex;not null"`
	IsEnabled bool   `json:"is_enabled" db:"is_enabled"`
}

// TableName sets the table name for the ConfigGenericTerm model
func (ConfigGenericTerm) TableName() string {
	return "config_generic_terms"
}
