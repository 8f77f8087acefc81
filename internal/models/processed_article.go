package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProcessedArticle is the enriched, scored form of a RawArticle. Created once, never updated.
type ProcessedArticle struct {
	ID               uuid.UUID  `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	RawArticleID     uuid.UUID  `json:"raw_article_id" db:"raw_article_id" gorm:"type:uuid;uniqueIndex;not null"`
	OriginalURL      string     `json:"original_url" db:"original_url"`
	Title            string     `json:"title" db:"title" gorm:"not null"`
	SourceName       string     `json:"source_name" db:"source_name"`
	PublicationDate  *time.Time `json:"publication_date" db:"publication_date" gorm:"index"`
	SummaryExecutive string     `json:"summary_executive" db:"summary_executive" gorm:"type:text"`
	SummaryTechnical string     `json:"summary_technical" db:"summary_technical" gorm:"type:text"`
	SummarySimple    string     `json:"summary_simple" db:"summary_simple" gorm:"type:text"`
	Tags             StringList `json:"tags" db:"tags"`
	KeywordsForPulse StringList `json:"keywords_for_pulse" db:"keywords_for_pulse"`
	Language         string     `json:"language,omitempty" db:"language" gorm:"type:varchar(8)"`

	// Score components
	SourceCredibility     float64 `json:"source_credibility" db:"source_credibility"`
	FreshnessScore        float64 `json:"freshness_score" db:"freshness_score"`
	KeywordRelevanceScore float64 `json:"keyword_relevance_score" db:"keyword_relevance_score"`
	TrendContribution     float64 `json:"ai_pulse_contribution_score" db:"ai_pulse_contribution_score" gorm:"column:ai_pulse_contribution_score"`
	InitialScore          float64 `json:"initial_article_score" db:"initial_article_score" gorm:"column:initial_article_score;index"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime;index"`
}

// TableName sets the table name for the ProcessedArticle model
func (ProcessedArticle) TableName() string {
	return "processed_articles"
}

// BeforeCreate assigns an ID when one is not set
func (a *ProcessedArticle) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
