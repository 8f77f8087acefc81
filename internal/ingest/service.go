package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ai-pulse/internal/config"
	"ai-pulse/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUnsupportedSource is returned for source types without a fetcher
var ErrUnsupportedSource = errors.New("source type not yet implemented")

// Result summarizes one ingestion run
type Result struct {
	Ingested         int `json:"ingested_count"`
	SourcesProcessed int `json:"sources_processed"`
	SourcesFailed    int `json:"sources_failed"`
	SourcesSkipped   int `json:"sources_skipped"`
}

// Service ingests entries from every enabled source
type Service struct {
	db            *gorm.DB
	fetchers      map[models.SourceType]Fetcher
	recencyMonths int
	now           func() time.Time
}

// NewService creates an ingestion service with the RSS and SCRAPE fetchers
func NewService(db *gorm.DB, cfg config.IngestConfig) *Service {
	client := &http.Client{
		Timeout: cfg.HTTPTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("stopped after 10 redirects")
			}
			return nil
		},
	}

	recency := cfg.RecencyMonths
	if recency <= 0 {
		recency = 3
	}

	return &Service{
		db: db,
		fetchers: map[models.SourceType]Fetcher{
			models.SourceTypeRSS:    NewRSSFetcher(client, cfg.UserAgent),
			models.SourceTypeScrape: NewScrapeFetcher(client, cfg.UserAgent),
		},
		recencyMonths: recency,
		now:           time.Now,
	}
}

// RegisterFetcher sets the fetcher used for a source type
func (s *Service) RegisterFetcher(sourceType models.SourceType, fetcher Fetcher) {
	s.fetchers[sourceType] = fetcher
}

// Run ingests every enabled source. A failing source is logged and skipped.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	var sources []models.Source
	if err := s.db.WithContext(ctx).Where("is_enabled = ?", true).Order("name").Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}

	result := &Result{}
	if len(sources) == 0 {
		log.Info().Msg("No enabled sources found")
		return result, nil
	}

	for i := range sources {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		source := &sources[i]
		count, err := s.IngestSource(ctx, source)
		switch {
		case errors.Is(err, ErrUnsupportedSource):
			result.SourcesSkipped++
		case err != nil:
			result.SourcesFailed++
			log.Error().Err(err).Str("source", source.Name).Msg("Source ingestion failed")
		default:
			result.SourcesProcessed++
		}
		result.Ingested += count
	}

	log.Info().
		Int("ingested", result.Ingested).
		Int("sources_processed", result.SourcesProcessed).
		Int("sources_failed", result.SourcesFailed).
		Int("sources_skipped", result.SourcesSkipped).
		Msg("Ingestion complete")
	return result, nil
}

// IngestSource fetches one source and inserts its new, recent entries.
// last_fetched_at is stamped whenever the fetch itself succeeded.
func (s *Service) IngestSource(ctx context.Context, source *models.Source) (int, error) {
	logger := log.With().Str("source", source.Name).Str("type", string(source.Type)).Logger()

	fetcher, ok := s.fetchers[source.Type]
	if !ok {
		logger.Warn().Msg("Fetching for this source type is not yet implemented, skipping")
		if err := s.stampFetched(ctx, source); err != nil {
			logger.Error().Err(err).Msg("Failed to update last_fetched_at")
		}
		return 0, ErrUnsupportedSource
	}

	entries, err := fetcher.Fetch(ctx, source)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().AddDate(0, -s.recencyMonths, 0)
	ingested := 0
	for _, entry := range entries {
		articleURL, ok := NormalizeURL(entry.URL)
		if !ok {
			logger.Warn().Str("title", entry.Title).Str("url", entry.URL).Msg("Skipping entry with invalid or missing URL")
			continue
		}
		if entry.Published == nil {
			logger.Warn().Str("title", entry.Title).Msg("Skipping entry with no publication date")
			continue
		}
		if entry.Published.Before(cutoff) {
			logger.Debug().Str("url", articleURL).Time("published", *entry.Published).Msg("Skipping old entry")
			continue
		}

		inserted, err := s.insertRawArticle(ctx, source, entry, articleURL)
		if err != nil {
			logger.Error().Err(err).Str("url", articleURL).Msg("Error inserting article")
			continue
		}
		if inserted {
			ingested++
			logger.Debug().Str("url", articleURL).Msg("Ingested")
		}
	}

	if err := s.stampFetched(ctx, source); err != nil {
		logger.Error().Err(err).Msg("Failed to update last_fetched_at")
	}

	logger.Info().Int("entries", len(entries)).Int("ingested", ingested).Msg("Source processed")
	return ingested, nil
}

// insertRawArticle relies on the unique source_url to ignore duplicates,
// including ones raced in by a concurrent run
func (s *Service) insertRawArticle(ctx context.Context, source *models.Source, entry Entry, articleURL string) (bool, error) {
	published := entry.Published.UTC()
	raw := models.RawArticle{
		SourceID:        source.ID,
		SourceURL:       articleURL,
		Title:           entry.Title,
		RawText:         entry.Body,
		PublicationDate: &published,
		Status:          models.StatusPendingProcessing,
		FetchedAt:       s.now(),
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "source_url"}}, DoNothing: true}).
		Create(&raw)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Service) stampFetched(ctx context.Context, source *models.Source) error {
	now := s.now()
	if err := s.db.WithContext(ctx).Model(&models.Source{}).
		Where("id = ?", source.ID).
		Update("last_fetched_at", now).Error; err != nil {
		return err
	}
	source.LastFetchedAt = &now
	return nil
}
