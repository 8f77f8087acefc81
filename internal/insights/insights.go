// Package insights turns article text into summaries, keywords, tags and a
// relevance score using a text-completion model.
package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

const (
	MaxKeywords = 7
	MaxTags     = 5

	defaultMinInputChars = 50
	defaultMaxInputChars = 15000

	degenerateSummary = "Content was empty or too short for analysis."
)

// ErrMissingCredentials is returned when a provider has no API key
var ErrMissingCredentials = errors.New("llm credentials are not configured")

// Insights is the structured result of analyzing one article
type Insights struct {
	ExecutiveSummary  string   `json:"executive_summary"`
	TechnicalSummary  string   `json:"technical_summary"`
	SimpleSummary     string   `json:"simple_summary"`
	ExtractedKeywords []string `json:"extracted_keywords"`
	RelevanceScore    float64  `json:"ai_relevance_score"`
	GeneratedTags     []string `json:"generated_tags"`
}

// DefaultInsights is the result for input too short to analyze
func DefaultInsights() Insights {
	return Insights{
		ExecutiveSummary:  degenerateSummary,
		TechnicalSummary:  degenerateSummary,
		SimpleSummary:     degenerateSummary,
		ExtractedKeywords: []string{},
		RelevanceScore:    0,
		GeneratedTags:     []string{},
	}
}

// Extractor analyzes article text
type Extractor interface {
	Extract(ctx context.Context, text string) (Insights, error)
}

// Completer sends a prompt to a model and returns its raw text answer
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options tunes an LLMExtractor
type Options struct {
	MinInputChars int
	MaxInputChars int
	Timeout       time.Duration
}

// LLMExtractor implements Extractor on top of any Completer
type LLMExtractor struct {
	completer Completer
	opts      Options
}

// NewLLMExtractor wraps a completer. Zero options take the defaults.
func NewLLMExtractor(completer Completer, opts Options) *LLMExtractor {
	if opts.MinInputChars <= 0 {
		opts.MinInputChars = defaultMinInputChars
	}
	if opts.MaxInputChars <= 0 {
		opts.MaxInputChars = defaultMaxInputChars
	}
	return &LLMExtractor{completer: completer, opts: opts}
}

// Extract returns DefaultInsights for degenerate input without calling the
// model. Transport failures and timeouts are returned as errors; malformed
// model output falls back to defaults field by field.
func (e *LLMExtractor) Extract(ctx context.Context, text string) (Insights, error) {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < e.opts.MinInputChars {
		log.Warn().Int("chars", len(text)).Msg("Text to analyze is too short, returning default insights")
		return DefaultInsights(), nil
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	raw, err := e.completer.Complete(ctx, buildPrompt(truncate(text, e.opts.MaxInputChars)))
	if err != nil {
		return Insights{}, fmt.Errorf("%s completion failed: %w", e.completer.Name(), err)
	}

	return ParseInsights(raw), nil
}

func truncate(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes])
}
