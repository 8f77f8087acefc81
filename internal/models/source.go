package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SourceType identifies how a source is fetched
type SourceType string

const (
	SourceTypeRSS    SourceType = "RSS"
	SourceTypeAPI    SourceType = "API"
	SourceTypeScrape SourceType = "SCRAPE"
)

// DefaultSourceCredibility is used when a source has no configured credibility
const DefaultSourceCredibility = 0.5

// Source is a configured feed, API or scrape target
type Source struct {
	ID               uuid.UUID      `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Name             string         `json:"name" db:"name" gorm:"not null"`
	URL              string         `json:"url" db:"url" gorm:"not null"`
	Type             SourceType     `json:"type" db:"type" gorm:"type:varchar(16);not null"`
	Enabled          bool           `json:"is_enabled" db:"is_enabled" gorm:"column:is_enabled;index"`
	CredibilityScore *float64       `json:"source_credibility_score" db:"source_credibility_score" gorm:"column:source_credibility_score"`
	LastFetchedAt    *time.Time     `json:"last_fetched_at" db:"last_fetched_at"`
	Config           datatypes.JSON `json:"specific_config,omitempty" db:"specific_config" gorm:"column:specific_config"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the Source model
func (Source) TableName() string {
	return "sources"
}

// BeforeCreate assigns an ID when one is not set
func (s *Source) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Credibility returns the configured credibility or the default
func (s *Source) Credibility() float64 {
	if s == nil || s.CredibilityScore == nil {
		return DefaultSourceCredibility
	}
	return *s.CredibilityScore
}
