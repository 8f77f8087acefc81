// Package pipeline moves raw articles through
// pending_processing -> processing -> processed | failed.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"ai-pulse/internal/config"
	"ai-pulse/internal/insights"
	"ai-pulse/internal/models"
	"ai-pulse/internal/scoring"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrAlreadyClaimed is returned when another run moved the article out of
// pending_processing first
var ErrAlreadyClaimed = errors.New("article already claimed")

// ErrNoExtractor is returned by processing calls on a read-only processor
var ErrNoExtractor = errors.New("no insight extractor configured")

const maxErrorLength = 2000

// LanguageDetector guesses the language of article text
type LanguageDetector interface {
	Detect(text string) string
}

// BatchResult summarizes one ProcessBatch call
type BatchResult struct {
	Selected  int `json:"selected"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Stats counts raw articles by status
type Stats struct {
	Pending           int64 `json:"pending_processing"`
	Processing        int64 `json:"processing"`
	Processed         int64 `json:"processed"`
	Failed            int64 `json:"failed"`
	ProcessedArticles int64 `json:"processed_articles"`
}

// Processor enriches and scores pending raw articles
type Processor struct {
	db             *gorm.DB
	extractor      insights.Extractor
	scorer         *scoring.Scorer
	detector       LanguageDetector
	batchSize      int
	trendingTopics int
}

// NewProcessor creates a processor. detector may be nil.
func NewProcessor(db *gorm.DB, extractor insights.Extractor, scorer *scoring.Scorer, detector LanguageDetector, cfg config.PipelineConfig) *Processor {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 3
	}
	topics := cfg.TrendingTopics
	if topics <= 0 {
		topics = 10
	}
	return &Processor{
		db:             db,
		extractor:      extractor,
		scorer:         scorer,
		detector:       detector,
		batchSize:      batchSize,
		trendingTopics: topics,
	}
}

// CanProcess reports whether the processor has an extractor
func (p *Processor) CanProcess() bool {
	return p.extractor != nil
}

// ProcessBatch processes the oldest pending articles, one at a time.
// A failing article is marked failed and does not stop the batch.
func (p *Processor) ProcessBatch(ctx context.Context) (*BatchResult, error) {
	if p.extractor == nil {
		return nil, ErrNoExtractor
	}

	var pending []models.RawArticle
	if err := p.db.WithContext(ctx).
		Preload("Source").
		Where("status = ?", models.StatusPendingProcessing).
		Order("fetched_at asc").
		Limit(p.batchSize).
		Find(&pending).Error; err != nil {
		return nil, fmt.Errorf("failed to load pending articles: %w", err)
	}

	result := &BatchResult{Selected: len(pending)}
	if len(pending) == 0 {
		log.Debug().Msg("No pending articles to process")
		return result, nil
	}

	trending, err := p.loadTrendingTopics(ctx)
	if err != nil {
		return nil, err
	}

	for i := range pending {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		err := p.process(ctx, &pending[i], trending)
		switch {
		case errors.Is(err, ErrAlreadyClaimed):
			result.Skipped++
		case err != nil:
			result.Failed++
		default:
			result.Processed++
		}
	}

	log.Info().
		Int("selected", result.Selected).
		Int("processed", result.Processed).
		Int("failed", result.Failed).
		Int("skipped", result.Skipped).
		Msg("Processing batch complete")
	return result, nil
}

// ProcessArticle processes one pending article by id
func (p *Processor) ProcessArticle(ctx context.Context, id uuid.UUID) (*models.ProcessedArticle, error) {
	if p.extractor == nil {
		return nil, ErrNoExtractor
	}

	var article models.RawArticle
	if err := p.db.WithContext(ctx).Preload("Source").First(&article, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load article %s: %w", id, err)
	}
	if err := models.ValidateTransition(article.Status, models.StatusProcessing); err != nil {
		return nil, err
	}

	trending, err := p.loadTrendingTopics(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.process(ctx, &article, trending); err != nil {
		return nil, err
	}

	var processed models.ProcessedArticle
	if err := p.db.WithContext(ctx).First(&processed, "raw_article_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &processed, nil
}

// FailedArticles lists failed raw articles, most recent first
func (p *Processor) FailedArticles(ctx context.Context, limit int) ([]models.RawArticle, error) {
	if limit <= 0 {
		limit = 50
	}
	var failed []models.RawArticle
	err := p.db.WithContext(ctx).
		Preload("Source").
		Where("status = ?", models.StatusFailed).
		Order("updated_at desc").
		Limit(limit).
		Find(&failed).Error
	return failed, err
}

// Stats counts raw articles by status
func (p *Processor) Stats(ctx context.Context) (*Stats, error) {
	var rows []struct {
		Status models.ArticleStatus
		Count  int64
	}
	if err := p.db.WithContext(ctx).Model(&models.RawArticle{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	stats := &Stats{}
	for _, row := range rows {
		switch row.Status {
		case models.StatusPendingProcessing:
			stats.Pending = row.Count
		case models.StatusProcessing:
			stats.Processing = row.Count
		case models.StatusProcessed:
			stats.Processed = row.Count
		case models.StatusFailed:
			stats.Failed = row.Count
		}
	}

	if err := p.db.WithContext(ctx).Model(&models.ProcessedArticle{}).Count(&stats.ProcessedArticles).Error; err != nil {
		return nil, fmt.Errorf("failed to count processed articles: %w", err)
	}
	return stats, nil
}

func (p *Processor) loadTrendingTopics(ctx context.Context) ([]models.TrendingTopic, error) {
	var topics []models.TrendingTopic
	if err := p.db.WithContext(ctx).
		Order("buzz_score desc").
		Limit(p.trendingTopics).
		Find(&topics).Error; err != nil {
		return nil, fmt.Errorf("failed to load trending topics: %w", err)
	}
	return topics, nil
}

// process claims the article and resolves it to processed or failed.
// Once claimed, the article never stays in processing on return.
func (p *Processor) process(ctx context.Context, article *models.RawArticle, trending []models.TrendingTopic) (err error) {
	logger := log.With().Str("article_id", article.ID.String()).Str("url", article.SourceURL).Logger()

	if err := p.claim(ctx, article); err != nil {
		if errors.Is(err, ErrAlreadyClaimed) {
			logger.Debug().Msg("Article claimed by another run, skipping")
		}
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing: %v", r)
		}
		if err != nil {
			logger.Error().Err(err).Msg("Article processing failed")
			p.markFailed(ctx, article, err)
		}
	}()

	logger.Info().Str("title", article.Title).Msg("Processing article")

	found, err := p.extractor.Extract(ctx, article.AnalysisText())
	if err != nil {
		return fmt.Errorf("insight extraction failed: %w", err)
	}

	scored := p.scorer.Score(scoring.Input{
		Credibility:     article.Source.Credibility(),
		Relevance:       found.RelevanceScore,
		PublicationDate: article.PublicationDate,
		Keywords:        found.ExtractedKeywords,
	}, trending)

	processed := p.buildProcessedArticle(article, found, scored)

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(processed).Error; err != nil {
			return fmt.Errorf("failed to save processed article: %w", err)
		}
		return updateStatus(tx, article.ID, models.StatusProcessing, models.StatusProcessed, "")
	})
	if err != nil {
		return err
	}

	article.Status = models.StatusProcessed
	logger.Info().Float64("score", processed.InitialScore).Msg("Article processed")
	return nil
}

// claim is a conditional update so two concurrent runs cannot both take the row
func (p *Processor) claim(ctx context.Context, article *models.RawArticle) error {
	if err := updateStatus(p.db.WithContext(ctx), article.ID, models.StatusPendingProcessing, models.StatusProcessing, ""); err != nil {
		return err
	}
	article.Status = models.StatusProcessing
	return nil
}

// markFailed uses a context detached from cancellation so a shutdown or
// timeout still resolves the row
func (p *Processor) markFailed(ctx context.Context, article *models.RawArticle, cause error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	message := truncateRunes(cause.Error(), maxErrorLength)

	if err := updateStatus(p.db.WithContext(ctx), article.ID, models.StatusProcessing, models.StatusFailed, message); err != nil {
		log.Error().Err(err).Str("article_id", article.ID.String()).Msg("Failed to mark article as failed")
		return
	}
	article.Status = models.StatusFailed
	article.ProcessingError = message
}

func updateStatus(db *gorm.DB, id uuid.UUID, from, to models.ArticleStatus, message string) error {
	if err := models.ValidateTransition(from, to); err != nil {
		return err
	}

	res := db.Model(&models.RawArticle{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":           to,
			"processing_error": message,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to set status %s: %w", to, res.Error)
	}
	if res.RowsAffected == 0 {
		if from == models.StatusPendingProcessing {
			return ErrAlreadyClaimed
		}
		return fmt.Errorf("%w: article %s is no longer %s", models.ErrIllegalTransition, id, from)
	}
	return nil
}

func (p *Processor) buildProcessedArticle(article *models.RawArticle, found insights.Insights, scored scoring.Result) *models.ProcessedArticle {
	processed := &models.ProcessedArticle{
		RawArticleID:          article.ID,
		OriginalURL:           article.SourceURL,
		Title:                 article.Title,
		PublicationDate:       article.PublicationDate,
		SummaryExecutive:      found.ExecutiveSummary,
		SummaryTechnical:      found.TechnicalSummary,
		SummarySimple:         found.SimpleSummary,
		Tags:                  models.StringList(found.GeneratedTags),
		KeywordsForPulse:      models.StringList(scored.PulseKeywords),
		SourceCredibility:     scored.SourceCredibility,
		FreshnessScore:        scored.Freshness,
		KeywordRelevanceScore: scored.KeywordRelevance,
		TrendContribution:     scored.TrendContribution,
		InitialScore:          scored.InitialScore,
	}
	if processed.Title == "" {
		processed.Title = "Untitled"
	}
	if article.Source != nil {
		processed.SourceName = article.Source.Name
	}
	if p.detector != nil {
		processed.Language = p.detector.Detect(article.Title + ". " + article.RawText)
	}
	return processed
}

// truncateRunes cuts s to at most limit runes without splitting a character
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
