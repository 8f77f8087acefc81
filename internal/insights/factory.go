package insights

import (
	"context"
	"fmt"
	"strings"

	"ai-pulse/internal/config"
)

var defaultModels = map[string]string{
	"gemini":    "gemini-2.0-flash",
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-haiku-4-5",
}

// NewCompleter builds the configured provider client
func NewCompleter(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	provider := strings.ToLower(cfg.Provider)
	model := cfg.Model
	if model == "" {
		model = defaultModels[provider]
	}

	switch provider {
	case "gemini":
		return NewGeminiCompleter(ctx, cfg.APIKey, model, cfg.Temperature, cfg.MaxOutputTokens)
	case "openai":
		return NewOpenAICompleter(cfg.APIKey, model, cfg.Temperature, cfg.MaxOutputTokens)
	case "anthropic":
		return NewAnthropicCompleter(cfg.APIKey, model, cfg.Temperature, cfg.MaxOutputTokens)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// NewExtractor builds an LLMExtractor for the configured provider
func NewExtractor(ctx context.Context, cfg config.LLMConfig) (*LLMExtractor, error) {
	completer, err := NewCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewLLMExtractor(completer, Options{
		MinInputChars: cfg.MinInputChars,
		MaxInputChars: cfg.MaxInputChars,
		Timeout:       cfg.Timeout,
	}), nil
}
