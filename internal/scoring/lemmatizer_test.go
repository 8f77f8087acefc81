package scoring

import (
	"testing"
	"time"

	"ai-pulse/internal/models"
	"ai-pulse/internal/nlp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorer_WithDictionaryLemmatizer(t *testing.T) {
	lemmatizer, err := nlp.NewLemmatizer()
	require.NoError(t, err)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	scorer := NewScorer(lemmatizer, func() time.Time { return now })

	t.Run("AI vocabulary survives lemmatization", func(t *testing.T) {
		keywords := PulseKeywords([]string{"AI", "Generative AI", "OpenAI", "Training Data", "LLM", "AI Agents"}, lemmatizer)
		assert.Equal(t, []string{"ai", "generative ai", "openai", "training data", "llm", "ai agent"}, keywords)
		assert.NotContains(t, keywords, "be")
	})

	t.Run("keywords match trending topics", func(t *testing.T) {
		trending := []models.TrendingTopic{
			{TopicText: "ai", BuzzScore: 1.0},
			{TopicText: "ai agents", BuzzScore: 0.5},
			{TopicText: "be", BuzzScore: 0.9},
		}
		result := scorer.Score(Input{
			Credibility: 0.5,
			Relevance:   0.5,
			Keywords:    []string{"AI", "AI Agent"},
		}, trending)

		// 1.0 + 0.5 = 1.5, / 3 = 0.5; the "be" topic must not match
		assert.InDelta(t, 0.5, result.TrendContribution, 1e-9)
		assert.Equal(t, []string{"ai", "ai agent"}, result.PulseKeywords)
	})

	t.Run("unrelated keyword does not match ai", func(t *testing.T) {
		trending := []models.TrendingTopic{{TopicText: "ai", BuzzScore: 1.0}}
		result := scorer.Score(Input{Keywords: []string{"is", "are", "being"}}, trending)
		assert.Zero(t, result.TrendContribution)
	})
}
