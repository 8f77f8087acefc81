package insights

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-pulse/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCompleter is a mock implementation of Completer
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Name() string { return "mock" }

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

const articleText = "OpenAI released a new reasoning model that improves benchmark results across math and coding tasks."

func TestLLMExtractor_DegenerateInput(t *testing.T) {
	completer := &MockCompleter{}
	extractor := NewLLMExtractor(completer, Options{})

	for _, text := range []string{"", "   ", "Too short to analyze."} {
		insights, err := extractor.Extract(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, DefaultInsights(), insights)
	}

	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestLLMExtractor_Success(t *testing.T) {
	completer := &MockCompleter{}
	response := "```json\n" + `{
		"executive_summary": "Exec.",
		"technical_summary": "Tech.",
		"simple_summary": "Simple.",
		"extracted_keywords": ["reasoning model", "benchmarks"],
		"ai_relevance_score": 0.85,
		"generated_tags": ["Generative AI", "NLP"]
	}` + "\n```"
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, articleText)
	})).Return(response, nil)

	insights, err := NewLLMExtractor(completer, Options{}).Extract(context.Background(), articleText)
	require.NoError(t, err)

	assert.Equal(t, "Exec.", insights.ExecutiveSummary)
	assert.Equal(t, "Tech.", insights.TechnicalSummary)
	assert.Equal(t, "Simple.", insights.SimpleSummary)
	assert.Equal(t, []string{"reasoning model", "benchmarks"}, insights.ExtractedKeywords)
	assert.Equal(t, 0.85, insights.RelevanceScore)
	assert.Equal(t, []string{"Generative AI", "NLP"}, insights.GeneratedTags)
	completer.AssertExpectations(t)
}

func TestLLMExtractor_TruncatesInput(t *testing.T) {
	completer := &MockCompleter{}
	long := strings.Repeat("a", 200)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, strings.Repeat("a", 100)) && !strings.Contains(prompt, strings.Repeat("a", 101))
	})).Return(`{}`, nil)

	_, err := NewLLMExtractor(completer, Options{MaxInputChars: 100}).Extract(context.Background(), long)
	require.NoError(t, err)
	completer.AssertExpectations(t)
}

func TestLLMExtractor_CompletionError(t *testing.T) {
	completer := &MockCompleter{}
	completer.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("status 503"))

	_, err := NewLLMExtractor(completer, Options{}).Extract(context.Background(), articleText)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestLLMExtractor_TimeoutApplied(t *testing.T) {
	completer := &MockCompleter{}
	completer.On("Complete", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= time.Second
	}), mock.Anything).Return("", context.DeadlineExceeded)

	_, err := NewLLMExtractor(completer, Options{Timeout: time.Second}).Extract(context.Background(), articleText)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	completer.AssertExpectations(t)
}

func TestParseInsights(t *testing.T) {
	t.Run("invalid JSON falls back", func(t *testing.T) {
		insights := ParseInsights("not json at all")
		assert.Equal(t, parseFailedSummary, insights.ExecutiveSummary)
		assert.Equal(t, degenerateSummary, insights.SimpleSummary)
		assert.Empty(t, insights.GeneratedTags)
	})

	t.Run("empty response", func(t *testing.T) {
		insights := ParseInsights("")
		assert.Equal(t, emptyResultSummary, insights.ExecutiveSummary)
	})

	t.Run("missing fields keep defaults", func(t *testing.T) {
		insights := ParseInsights(`{"executive_summary": "Only this."}`)
		assert.Equal(t, "Only this.", insights.ExecutiveSummary)
		assert.Equal(t, degenerateSummary, insights.TechnicalSummary)
		assert.Equal(t, 0.0, insights.RelevanceScore)
	})

	t.Run("lists are capped", func(t *testing.T) {
		insights := ParseInsights(`{
			"extracted_keywords": ["a","b","c","d","e","f","g","h","i"],
			"generated_tags": ["1","2","3","4","5","6"]
		}`)
		assert.Len(t, insights.ExtractedKeywords, MaxKeywords)
		assert.Len(t, insights.GeneratedTags, MaxTags)
	})

	t.Run("out of range score is rejected", func(t *testing.T) {
		assert.Equal(t, 0.0, ParseInsights(`{"ai_relevance_score": 1.7}`).RelevanceScore)
		assert.Equal(t, 0.0, ParseInsights(`{"ai_relevance_score": -0.2}`).RelevanceScore)
		assert.Equal(t, 0.0, ParseInsights(`{"ai_relevance_score": "0.9"}`).RelevanceScore)
	})

	t.Run("wrong list type keeps default", func(t *testing.T) {
		insights := ParseInsights(`{"generated_tags": "NLP"}`)
		assert.Empty(t, insights.GeneratedTags)
	})

	t.Run("non-string list items are skipped", func(t *testing.T) {
		insights := ParseInsights(`{"generated_tags": ["NLP", 3, " ", "Robotics"]}`)
		assert.Equal(t, []string{"NLP", "Robotics"}, insights.GeneratedTags)
	})

	t.Run("prose around JSON", func(t *testing.T) {
		insights := ParseInsights(`Here you go: {"simple_summary": "Plain."} Hope this helps.`)
		assert.Equal(t, "Plain.", insights.SimpleSummary)
	})
}

func TestNewCompleter(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		for _, provider := range []string{"openai", "anthropic", "gemini"} {
			_, err := NewCompleter(context.Background(), config.LLMConfig{Provider: provider})
			assert.ErrorIs(t, err, ErrMissingCredentials, provider)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewCompleter(context.Background(), config.LLMConfig{Provider: "llama", APIKey: "x"})
		assert.Error(t, err)
	})

	t.Run("openai", func(t *testing.T) {
		completer, err := NewCompleter(context.Background(), config.LLMConfig{Provider: "OpenAI", APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, "openai", completer.Name())
	})
}
