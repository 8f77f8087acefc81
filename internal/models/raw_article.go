package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleStatus is the processing state of a RawArticle
type ArticleStatus string

const (
	StatusPendingProcessing ArticleStatus = "pending_processing"
	StatusProcessing        ArticleStatus = "processing"
	StatusProcessed         ArticleStatus = "processed"
	StatusFailed            ArticleStatus = "failed"
)

// ErrIllegalTransition is returned for any status change outside
// pending_processing -> processing -> processed|failed
var ErrIllegalTransition = errors.New("illegal article status transition")

var statusTransitions = map[ArticleStatus][]ArticleStatus{
	StatusPendingProcessing: {StatusProcessing},
	StatusProcessing:        {StatusProcessed, StatusFailed},
}

// Valid reports whether s is one of the known statuses
func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusPendingProcessing, StatusProcessing, StatusProcessed, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed
func (s ArticleStatus) Terminal() bool {
	return s == StatusProcessed || s == StatusFailed
}

// CanTransitionTo reports whether s may move to next
func (s ArticleStatus) CanTransitionTo(next ArticleStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrIllegalTransition unless from -> to is allowed
func ValidateTransition(from, to ArticleStatus) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return nil
}

// RawArticle is an ingested feed entry waiting for, or done with, processing.
// Rows are never deleted; source_url is the dedup key.
type RawArticle struct {
	ID              uuid.UUID     `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	SourceID        uuid.UUID     `json:"source_id" db:"source_id" gorm:"type:uuid;not null;index"`
	SourceURL       string        `json:"source_url" db:"source_url" gorm:"uniqueIndex;not null"`
	Title           string        `json:"title_raw" db:"title_raw" gorm:"column:title_raw"`
	RawText         string        `json:"raw_content_text" db:"raw_content_text" gorm:"column:raw_content_text;type:text"`
	PublicationDate *time.Time    `json:"publication_date_raw" db:"publication_date_raw" gorm:"column:publication_date_raw"`
	Status          ArticleStatus `json:"status" db:"status" gorm:"type:varchar(32);not null;index"`
	ProcessingError string        `json:"processing_error,omitempty" db:"processing_error" gorm:"type:text"`
	FetchedAt       time.Time     `json:"fetched_at" db:"fetched_at" gorm:"index"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Source *Source `json:"source,omitempty" gorm:"foreignKey:SourceID;references:ID"`
}

// TableName sets the table name for the RawArticle model
func (RawArticle) TableName() string {
	return "raw_articles"
}

// BeforeCreate assigns an ID, the initial status and the fetch time
func (a *RawArticle) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusPendingProcessing
	}
	if !a.Status.Valid() {
		return fmt.Errorf("invalid article status %q", a.Status)
	}
	if a.FetchedAt.IsZero() {
		a.FetchedAt = time.Now()
	}
	return nil
}

// AnalysisText returns the body, or the title when the body is empty
func (a *RawArticle) AnalysisText() string {
	if a.RawText != "" {
		return a.RawText
	}
	return a.Title
}
