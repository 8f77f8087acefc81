package trends

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-pulse/internal/cache"
	"ai-pulse/internal/config"
	"ai-pulse/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RunResult summarizes one aggregation run
type RunResult struct {
	ArticlesScanned int        `json:"articles_scanned"`
	DistinctTags    int        `json:"distinct_tags"`
	Interests       int        `json:"onboarding_interests"`
	Topics          int        `json:"trending_topics"`
	Top             []TagCount `json:"top,omitempty"`
}

// Aggregator recomputes trend state from recent processed articles
type Aggregator struct {
	db            *gorm.DB
	cache         cache.Cache
	lookback      time.Duration
	onboardingTop int
	trendingTop   int
	now           func() time.Time
}

// NewAggregator creates an aggregator. A nil cache is treated as Noop.
func NewAggregator(db *gorm.DB, c cache.Cache, cfg config.TrendsConfig) *Aggregator {
	if c == nil {
		c = cache.Noop{}
	}
	a := &Aggregator{
		db:            db,
		cache:         c,
		lookback:      cfg.Lookback,
		onboardingTop: cfg.OnboardingTop,
		trendingTop:   cfg.TrendingTop,
		now:           time.Now,
	}
	if a.lookback <= 0 {
		a.lookback = 48 * time.Hour
	}
	if a.onboardingTop <= 0 {
		a.onboardingTop = 15
	}
	if a.trendingTop <= 0 {
		a.trendingTop = 10
	}
	return a
}

// Run aggregates tags of articles processed within the lookback window.
// When nothing remains to rank the previous trend state is left untouched.
func (a *Aggregator) Run(ctx context.Context) (*RunResult, error) {
	synonyms, generic, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("synonyms", len(synonyms)).Int("generic_terms", len(generic)).Msg("Loaded trend configuration")

	var articles []models.ProcessedArticle
	since := a.now().Add(-a.lookback)
	if err := a.db.WithContext(ctx).
		Select("id", "tags").
		Where("created_at >= ?", since).
		Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent articles: %w", err)
	}

	result := &RunResult{ArticlesScanned: len(articles)}
	if len(articles) == 0 {
		log.Info().Msg("No recent articles found to calculate trends")
		return result, nil
	}

	tagLists := make([][]string, 0, len(articles))
	for _, article := range articles {
		tagLists = append(tagLists, article.Tags)
	}
	ranked := Aggregate(tagLists, synonyms, generic)
	result.DistinctTags = len(ranked)
	if len(ranked) == 0 {
		log.Info().Msg("No specific tags remaining after filtering generic terms")
		return result, nil
	}

	interests := a.buildInterests(ranked)
	topics := a.buildTopics(ranked)

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.OnboardingSuggestedInterest{}).Error; err != nil {
			return fmt.Errorf("failed to clear onboarding interests: %w", err)
		}
		if err := tx.CreateInBatches(interests, 50).Error; err != nil {
			return fmt.Errorf("failed to insert onboarding interests: %w", err)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "topic_text"}},
			DoUpdates: clause.AssignmentColumns([]string{"buzz_score", "source_count", "last_updated_at"}),
		}).Create(&topics).Error; err != nil {
			return fmt.Errorf("failed to upsert trending topics: %w", err)
		}

		names := make([]string, 0, len(topics))
		for _, topic := range topics {
			names = append(names, topic.TopicText)
		}
		if err := tx.Where("topic_text NOT IN ?", names).Delete(&models.TrendingTopic{}).Error; err != nil {
			return fmt.Errorf("failed to remove stale trending topics: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := a.cache.Delete(ctx, cache.KeyPulse, cache.KeyOnboarding); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate trend caches")
	}

	result.Interests = len(interests)
	result.Topics = len(topics)
	if len(ranked) > 5 {
		result.Top = ranked[:5]
	} else {
		result.Top = ranked
	}

	log.Info().
		Int("articles", result.ArticlesScanned).
		Int("distinct_tags", result.DistinctTags).
		Int("interests", result.Interests).
		Int("topics", result.Topics).
		Msg("Trend aggregation complete")
	return result, nil
}

func (a *Aggregator) loadConfig(ctx context.Context) (map[string]string, map[string]struct{}, error) {
	var synonymRows []models.ConfigSynonym
	if err := a.db.WithContext(ctx).Where("is_enabled = ?", true).Find(&synonymRows).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to fetch synonyms: %w", err)
	}
	var genericRows []models.ConfigGenericTerm
	if err := a.db.WithContext(ctx).Where("is_enabled = ?", true).Find(&genericRows).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to fetch generic terms: %w", err)
	}

	synonyms := make(map[string]string, len(synonymRows))
	for _, row := range synonymRows {
		synonyms[strings.ToLower(strings.TrimSpace(row.Synonym))] = strings.ToLower(strings.TrimSpace(row.CanonicalTerm))
	}
	generic := make(map[string]struct{}, len(genericRows))
	for _, row := range genericRows {
		generic[strings.ToLower(strings.TrimSpace(row.Term))] = struct{}{}
	}
	return synonyms, generic, nil
}

func (a *Aggregator) buildInterests(ranked []TagCount) []models.OnboardingSuggestedInterest {
	n := min(a.onboardingTop, len(ranked))
	now := a.now()
	interests := make([]models.OnboardingSuggestedInterest, 0, n)
	for i := 0; i < n; i++ {
		interests = append(interests, models.OnboardingSuggestedInterest{
			InterestText: ranked[i].Tag,
			Rank:         i + 1,
			LastUpdated:  now,
		})
	}
	return interests
}

func (a *Aggregator) buildTopics(ranked []TagCount) []models.TrendingTopic {
	n := min(a.trendingTop, len(ranked))
	maxCount := ranked[0].Count
	now := a.now()
	topics := make([]models.TrendingTopic, 0, n)
	for i := 0; i < n; i++ {
		topics = append(topics, models.TrendingTopic{
			TopicText:     ranked[i].Tag,
			BuzzScore:     BuzzScore(ranked[i].Count, maxCount),
			SourceCount:   ranked[i].Count,
			LastUpdatedAt: now,
		})
	}
	return topics
}
