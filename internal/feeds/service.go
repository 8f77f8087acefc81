// Package feeds serves the personalized feed and the public read APIs.
package feeds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-pulse/internal/cache"
	"ai-pulse/internal/config"
	"ai-pulse/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProfileGetter loads a user's profile
type ProfileGetter interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// FeedResponse represents the structure returned by the feed endpoint
type FeedResponse struct {
	Items []FeedArticle `json:"items"`
	Meta  FeedMeta      `json:"meta"`
}

// FeedMeta contains metadata about the feed
type FeedMeta struct {
	TotalItems     int       `json:"total_items"`
	Candidates     int       `json:"candidates"`
	DefaultProfile bool      `json:"default_profile"`
	SummaryStyle   string    `json:"summary_style"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// SearchResult is one article matched by Search
type SearchResult struct {
	ID              uuid.UUID         `json:"id" gorm:"column:id"`
	Title           string            `json:"title" gorm:"column:title"`
	SourceName      string            `json:"source_name" gorm:"column:source_name"`
	PublicationDate *time.Time        `json:"publication_date" gorm:"column:publication_date"`
	SummarySimple   string            `json:"summary_simple" gorm:"column:summary_simple"`
	Tags            models.StringList `json:"tags" gorm:"column:tags"`
	OriginalURL     string            `json:"original_url" gorm:"column:original_url"`
	InitialScore    float64           `json:"initial_article_score" gorm:"column:initial_article_score"`
}

// FeedService handles feed operations
type FeedService struct {
	db       *gorm.DB
	cache    cache.Cache
	profiles ProfileGetter
	cfg      config.FeedConfig
	cacheTTL time.Duration
	trending int
	onboard  int
}

// NewFeedService creates a new feed service. A nil cache disables caching.
func NewFeedService(db *gorm.DB, c cache.Cache, profiles ProfileGetter, cfg *config.Config) *FeedService {
	if c == nil {
		c = cache.Noop{}
	}
	return &FeedService{
		db:       db,
		cache:    c,
		profiles: profiles,
		cfg:      cfg.Feed,
		cacheTTL: cfg.Redis.TTL,
		trending: cfg.Trends.TrendingTop,
		onboard:  cfg.Trends.OnboardingTop,
	}
}

// ClampLimit bounds a requested page size to [1, MaxLimit], using the
// default for values below 1
func (fs *FeedService) ClampLimit(limit int) int {
	if limit < 1 {
		return fs.cfg.Limit
	}
	if limit > fs.cfg.MaxLimit {
		return fs.cfg.MaxLimit
	}
	return limit
}

// PersonalizedFeed ranks the most recent articles for userID. A profile that
// cannot be loaded falls back to the default profile.
func (fs *FeedService) PersonalizedFeed(ctx context.Context, userID uuid.UUID, limit int) (*FeedResponse, error) {
	limit = fs.ClampLimit(limit)

	usedDefault := false
	profile, err := fs.profiles.Get(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Using default profile for feed")
		profile = models.DefaultProfile(userID)
		usedDefault = true
	}

	var candidates []models.ProcessedArticle
	if err := fs.db.WithContext(ctx).
		Order("publication_date IS NULL, publication_date desc").
		Limit(fs.cfg.CandidateWindow).
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}

	items := Rank(candidates, profile, limit)
	return &FeedResponse{
		Items: items,
		Meta: FeedMeta{
			TotalItems:     len(items),
			Candidates:     len(candidates),
			DefaultProfile: usedDefault,
			SummaryStyle:   profile.SummaryStyle(),
			GeneratedAt:    time.Now(),
		},
	}, nil
}

// TrendingTopics returns the current trending topics, highest buzz first
func (fs *FeedService) TrendingTopics(ctx context.Context) ([]models.TrendingTopic, error) {
	return cache.GetOrLoad(ctx, fs.cache, cache.KeyPulse, fs.cacheTTL, func(ctx context.Context) ([]models.TrendingTopic, error) {
		topics := []models.TrendingTopic{}
		err := fs.db.WithContext(ctx).
			Order("buzz_score desc, last_updated_at desc").
			Limit(fs.trending).
			Find(&topics).Error
		if err != nil {
			return nil, fmt.Errorf("failed to fetch trending topics: %w", err)
		}
		return topics, nil
	})
}

// OnboardingInterests returns the suggested interests in rank order
func (fs *FeedService) OnboardingInterests(ctx context.Context) ([]models.OnboardingSuggestedInterest, error) {
	return cache.GetOrLoad(ctx, fs.cache, cache.KeyOnboarding, fs.cacheTTL, func(ctx context.Context) ([]models.OnboardingSuggestedInterest, error) {
		interests := []models.OnboardingSuggestedInterest{}
		err := fs.db.WithContext(ctx).
			Order("rank asc").
			Limit(fs.onboard).
			Find(&interests).Error
		if err != nil {
			return nil, fmt.Errorf("failed to fetch onboarding interests: %w", err)
		}
		return interests, nil
	})
}

// Search matches query against titles and summaries. PostgreSQL uses full
// text search; other dialects fall back to a case-insensitive LIKE.
func (fs *FeedService) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}
	if limit < 1 || limit > fs.cfg.SearchLimit {
		limit = fs.cfg.SearchLimit
	}

	sqlStr, args, err := fs.searchQuery(query, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	results := []SearchResult{}
	if err := fs.db.WithContext(ctx).Raw(sqlStr, args...).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return results, nil
}

const searchDocument = "coalesce(title, '') || ' ' || coalesce(summary_executive, '') || ' ' || coalesce(summary_simple, '')"

// likeEscaper makes LIKE wildcards in user input match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (fs *FeedService) searchQuery(query string, limit int) sq.SelectBuilder {
	builder := sq.Select(
		"id", "title", "source_name", "publication_date", "summary_simple",
		"tags", "original_url", "initial_article_score",
	).From("processed_articles")

	if fs.db.Dialector.Name() == "postgres" {
		builder = builder.Where(sq.Expr("to_tsvector('english', "+searchDocument+") @@ plainto_tsquery('english', ?)", query))
	} else {
		for _, term := range strings.Fields(strings.ToLower(query)) {
			like := "%" + likeEscaper.Replace(term) + "%"
			builder = builder.Where(sq.Or{
				sq.Expr(`LOWER(title) LIKE ? ESCAPE '\'`, like),
				sq.Expr(`LOWER(summary_executive) LIKE ? ESCAPE '\'`, like),
				sq.Expr(`LOWER(summary_simple) LIKE ? ESCAPE '\'`, like),
			})
		}
	}

	return builder.OrderBy("initial_article_score DESC").Limit(uint64(limit))
}
