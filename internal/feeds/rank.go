package feeds

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"ai-pulse/internal/models"
	"ai-pulse/internal/scoring"

	"github.com/google/uuid"
)

// Personalization boosts
const (
	InterestBoost     = 0.1
	UserTypeBoost     = 0.05
	minSummaryForType = 50
)

// SummaryNotAvailable is shown when an article has no usable summary
const SummaryNotAvailable = "Summary not available."

// FeedArticle is a processed article as shown in a user's feed
type FeedArticle struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	SourceName        string     `json:"source_name"`
	OriginalURL       string     `json:"original_url"`
	PublicationDate   *time.Time `json:"publication_date"`
	Tags              []string   `json:"tags"`
	DisplaySummary    string     `json:"display_summary"`
	InitialScore      float64    `json:"initial_article_score"`
	PersonalizedScore float64    `json:"personalized_score"`
}

// PersonalizedScore starts from the article's initial score, adds a boost per
// interest matching a tag and a user-type affinity boost, then clamps to [0,1]
func PersonalizedScore(article *models.ProcessedArticle, profile *models.Profile) float64 {
	score := article.InitialScore

	if len(profile.AIInterests) > 0 && len(article.Tags) > 0 {
		tags := make(map[string]bool, len(article.Tags))
		for _, tag := range article.Tags {
			tags[strings.ToLower(strings.TrimSpace(tag))] = true
		}
		for _, interest := range profile.AIInterests {
			if tags[strings.ToLower(strings.TrimSpace(interest))] {
				score += InterestBoost
			}
		}
	}

	switch profile.Type() {
	case models.UserTypeTechnical:
		if utf8.RuneCountInString(article.SummaryTechnical) > minSummaryForType {
			score += UserTypeBoost
		}
	case models.UserTypeExecutive:
		if utf8.RuneCountInString(article.SummaryExecutive) > minSummaryForType {
			score += UserTypeBoost
		}
	}

	return scoring.Clamp(score, 0, 1)
}

// DisplaySummary returns the summary for the preferred style when present,
// otherwise the executive summary, then the simple one. Brief maps to
// executive and detailed to technical.
func DisplaySummary(article *models.ProcessedArticle, style string) string {
	var preferred string
	switch strings.ToLower(style) {
	case models.SummaryStyleExecutive, models.SummaryStyleBrief:
		preferred = article.SummaryExecutive
	case models.SummaryStyleTechnical, models.SummaryStyleDetailed:
		preferred = article.SummaryTechnical
	case models.SummaryStyleSimple:
		preferred = article.SummarySimple
	}

	for _, summary := range []string{preferred, article.SummaryExecutive, article.SummarySimple} {
		if strings.TrimSpace(summary) != "" {
			return summary
		}
	}
	return SummaryNotAvailable
}

// Rank scores candidates for the profile, sorts them by personalized score
// and keeps the first limit. Equal scores keep candidate order.
func Rank(candidates []models.ProcessedArticle, profile *models.Profile, limit int) []FeedArticle {
	style := profile.SummaryStyle()
	ranked := make([]FeedArticle, 0, len(candidates))
	for i := range candidates {
		article := &candidates[i]
		ranked = append(ranked, toFeedArticle(article, PersonalizedScore(article, profile), DisplaySummary(article, style)))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PersonalizedScore > ranked[j].PersonalizedScore
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func toFeedArticle(article *models.ProcessedArticle, score float64, summary string) FeedArticle {
	item := FeedArticle{
		ID:                article.ID,
		Title:             article.Title,
		SourceName:        article.SourceName,
		OriginalURL:       article.OriginalURL,
		PublicationDate:   article.PublicationDate,
		Tags:              []string(article.Tags),
		DisplaySummary:    summary,
		InitialScore:      article.InitialScore,
		PersonalizedScore: scoring.Round(score, 4),
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return item
}
