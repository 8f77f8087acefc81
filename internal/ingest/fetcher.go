// Package ingest pulls configured sources and stores new entries as pending raw articles.
package ingest

import (
	"context"
	"time"

	"ai-pulse/internal/models"
)

// Entry is one item returned by a source
type Entry struct {
	URL       string
	Title     string
	Body      string
	Published *time.Time
}

// Fetcher retrieves the current entries of a source
type Fetcher interface {
	Fetch(ctx context.Context, source *models.Source) ([]Entry, error)
}
