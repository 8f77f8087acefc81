package scoring

import (
	"math"
	"strings"
	"testing"
	"time"

	"ai-pulse/internal/models"

	"github.com/stretchr/testify/assert"
)

// suffixLemmatizer strips a plural "s" from the last word
type suffixLemmatizer struct{}

func (suffixLemmatizer) Lemma(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if strings.HasSuffix(text, "s") {
		return strings.TrimSuffix(text, "s")
	}
	return text
}

func TestFreshness(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name     string
		date     *time.Time
		expected float64
	}{
		{"nil date", nil, 0.1},
		{"zero date", &time.Time{}, 0.1},
		{"one hour", ago(time.Hour), 1.0},
		{"future date", ago(-time.Hour), 1.0},
		{"exactly one day", ago(24 * time.Hour), 0.9},
		{"two days", ago(48 * time.Hour), 0.9},
		{"three days", ago(72 * time.Hour), 0.7},
		{"seven days", ago(7 * 24 * time.Hour), 0.7},
		{"ten days", ago(10 * 24 * time.Hour), 0.5},
		{"fourteen days", ago(14 * 24 * time.Hour), 0.5},
		{"twenty days", ago(20 * 24 * time.Hour), 0.3},
		{"thirty days", ago(30 * 24 * time.Hour), 0.3},
		{"sixty days", ago(60 * 24 * time.Hour), 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Freshness(tt.date, now))
		})
	}
}

func TestPulseKeywords(t *testing.T) {
	keywords := []string{" Transformers ", "", "GPUs", "RLHF"}
	assert.Equal(t, []string{"transformer", "gpu", "rlhf"}, PulseKeywords(keywords, suffixLemmatizer{}))

	many := make([]string, 15)
	for i := range many {
		many[i] = "kw"
	}
	assert.Len(t, PulseKeywords(many, nil), MaxPulseKeywords)
}

func TestTrendContribution(t *testing.T) {
	topics := []Topic{
		{Text: "transformer", Buzz: 1.0},
		{Text: "gpu", Buzz: 0.6},
		{Text: "robotics", Buzz: 0.9},
	}

	tests := []struct {
		name     string
		keywords []string
		expected float64
	}{
		{"no match", []string{"blockchain"}, 0},
		{"single match", []string{"transformer"}, 0.3},
		{"two matches", []string{"transformer", "gpu"}, 0.5},
		{"clamped at one", []string{"transformer", "gpu", "robotics", "transformer"}, 1.0},
		{"empty keywords", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TrendContribution(tt.keywords, topics))
		})
	}
}

func TestLemmatizeTopics(t *testing.T) {
	topics := LemmatizeTopics([]models.TrendingTopic{
		{TopicText: "Transformers", BuzzScore: 0.8},
	}, suffixLemmatizer{})

	assert.Equal(t, []Topic{{Text: "transformer", Buzz: 0.8}}, topics)
}

func TestInitialScore(t *testing.T) {
	t.Run("weighted sum", func(t *testing.T) {
		score := InitialScore(Components{
			SourceCredibility: 0.5,
			KeywordRelevance:  0.8,
			Freshness:         1.0,
			TrendContribution: 0.3,
		})
		// 0.2 + 0.24 + 0.2 + 0.03
		assert.Equal(t, 0.67, score)
	})

	t.Run("NaN component counts as zero", func(t *testing.T) {
		score := InitialScore(Components{
			SourceCredibility: 0.5,
			KeywordRelevance:  math.NaN(),
			Freshness:         1.0,
		})
		assert.Equal(t, 0.4, score)
	})

	t.Run("clamped for out of range inputs", func(t *testing.T) {
		assert.Equal(t, 1.0, InitialScore(Components{SourceCredibility: 5, KeywordRelevance: 5, Freshness: 5, TrendContribution: 5}))
		assert.Equal(t, 0.0, InitialScore(Components{SourceCredibility: -5, KeywordRelevance: -5}))
	})

	t.Run("always within unit interval", func(t *testing.T) {
		values := []float64{-1, 0, 0.1, 0.5, 0.9, 1, 2, math.NaN(), math.Inf(1), math.Inf(-1)}
		for _, a := range values {
			for _, b := range values {
				for _, c := range values {
					score := InitialScore(Components{SourceCredibility: a, KeywordRelevance: b, Freshness: c, TrendContribution: a})
					assert.GreaterOrEqual(t, score, 0.0)
					assert.LessOrEqual(t, score, 1.0)
				}
			}
		}
	})
}

func TestScorer_Score(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	published := now.Add(-3 * time.Hour)
	scorer := NewScorer(suffixLemmatizer{}, func() time.Time { return now })

	result := scorer.Score(Input{
		Credibility:     0.8,
		Relevance:       0.9,
		PublicationDate: &published,
		Keywords:        []string{"Agents", "GPUs"},
	}, []models.TrendingTopic{
		{TopicText: "agents", BuzzScore: 0.9},
	})

	assert.Equal(t, []string{"agent", "gpu"}, result.PulseKeywords)
	assert.Equal(t, 1.0, result.Freshness)
	assert.Equal(t, 0.3, result.TrendContribution)
	// 0.32 + 0.27 + 0.2 + 0.03
	assert.Equal(t, 0.82, result.InitialScore)
}

func TestClampAndRound(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(math.NaN(), 0, 1))
	assert.Equal(t, 1.0, Clamp(3, 0, 1))
	assert.Equal(t, 0.1, Clamp(0.05, 0.1, 1))
	assert.Equal(t, 0.67, Round(0.6666, 2))
	assert.Equal(t, 0.3, Round(0.3333, 1))
}
