// Package scoring computes the composite initial score of a processed article.
package scoring

import (
	"math"
	"strings"
	"time"

	"ai-pulse/internal/models"
)

// Component weights of the initial score
const (
	WeightCredibility = 0.4
	WeightRelevance   = 0.3
	WeightFreshness   = 0.2
	WeightTrend       = 0.1
)

// MaxPulseKeywords caps the lemmatized keywords kept per article
const MaxPulseKeywords = 10

// trendNormalizer divides the summed buzz of matched topics
const trendNormalizer = 3.0

// Lemmatizer reduces a keyword to its base form
type Lemmatizer interface {
	Lemma(text string) string
}

// Components are the four normalized inputs of the initial score
type Components struct {
	SourceCredibility float64 `json:"source_credibility"`
	KeywordRelevance  float64 `json:"keyword_relevance"`
	Freshness         float64 `json:"freshness"`
	TrendContribution float64 `json:"trend_contribution"`
}

// Topic is a trending topic with lemmatized text
type Topic struct {
	Text string
	Buzz float64
}

// Input is what the pipeline knows about an article before scoring
type Input struct {
	Credibility     float64
	Relevance       float64
	PublicationDate *time.Time
	Keywords        []string
}

// Result is the scored article
type Result struct {
	Components
	PulseKeywords []string
	InitialScore  float64
}

// Scorer scores articles against the current trending topics
type Scorer struct {
	lemmatizer Lemmatizer
	now        func() time.Time
}

// NewScorer creates a scorer. now defaults to time.Now.
func NewScorer(lemmatizer Lemmatizer, now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{lemmatizer: lemmatizer, now: now}
}

// Score computes every component and the composite for one article
func (s *Scorer) Score(in Input, trending []models.TrendingTopic) Result {
	keywords := PulseKeywords(in.Keywords, s.lemmatizer)
	components := Components{
		SourceCredibility: Clamp(sanitize(in.Credibility), 0, 1),
		KeywordRelevance:  Clamp(sanitize(in.Relevance), 0, 1),
		Freshness:         Freshness(in.PublicationDate, s.now()),
		TrendContribution: TrendContribution(keywords, LemmatizeTopics(trending, s.lemmatizer)),
	}
	return Result{
		Components:    components,
		PulseKeywords: keywords,
		InitialScore:  InitialScore(components),
	}
}

// Freshness is a step function of article age in days. Missing dates score 0.1.
func Freshness(published *time.Time, now time.Time) float64 {
	if published == nil || published.IsZero() {
		return 0.1
	}
	ageDays := now.Sub(*published).Hours() / 24
	switch {
	case ageDays < 1:
		return 1.0
	case ageDays <= 2:
		return 0.9
	case ageDays <= 7:
		return 0.7
	case ageDays <= 14:
		return 0.5
	case ageDays <= 30:
		return 0.3
	default:
		return 0.1
	}
}

// PulseKeywords lower-cases and lemmatizes LLM keywords, dropping blanks
func PulseKeywords(keywords []string, lemmatizer Lemmatizer) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if lemmatizer != nil {
			kw = lemmatizer.Lemma(kw)
		}
		out = append(out, kw)
		if len(out) == MaxPulseKeywords {
			break
		}
	}
	return out
}

// LemmatizeTopics prepares trending topics for keyword matching
func LemmatizeTopics(trending []models.TrendingTopic, lemmatizer Lemmatizer) []Topic {
	topics := make([]Topic, 0, len(trending))
	for _, tt := range trending {
		text := strings.ToLower(strings.TrimSpace(tt.TopicText))
		if lemmatizer != nil {
			text = lemmatizer.Lemma(text)
		}
		topics = append(topics, Topic{Text: text, Buzz: tt.BuzzScore})
	}
	return topics
}

// TrendContribution sums the buzz of the first topic matching each keyword,
// divides by 3, clamps to [0,1] and rounds to one decimal
func TrendContribution(keywords []string, topics []Topic) float64 {
	var sum float64
	for _, kw := range keywords {
		for _, topic := range topics {
			if topic.Text == kw {
				sum += sanitize(topic.Buzz)
				break
			}
		}
	}
	return Round(Clamp(sum/trendNormalizer, 0, 1), 1)
}

// InitialScore is the weighted composite, rounded to two decimals and clamped
// to [0,1]. NaN or infinite components count as 0.
func InitialScore(c Components) float64 {
	raw := WeightCredibility*sanitize(c.SourceCredibility) +
		WeightRelevance*sanitize(c.KeywordRelevance) +
		WeightFreshness*sanitize(c.Freshness) +
		WeightTrend*sanitize(c.TrendContribution)
	return Clamp(Round(raw, 2), 0, 1)
}

// Clamp bounds v to [lo, hi]; NaN becomes lo
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Round rounds v to the given number of decimals
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
