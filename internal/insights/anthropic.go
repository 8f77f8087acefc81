package insights

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicCompleter calls the messages API
type AnthropicCompleter struct {
	client      *anthropic.Client
	model       anthropic.Model
	temperature float64
	maxTokens   int64
}

// NewAnthropicCompleter creates an Anthropic client
func NewAnthropicCompleter(apiKey, model string, temperature float32, maxTokens int) (*AnthropicCompleter, error) {
	if apiKey == "" {
		return nil, ErrMissingCredentials
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicCompleter{
		client:      &client,
		model:       anthropic.Model(model),
		temperature: float64(temperature),
		maxTokens:   int64(maxTokens),
	}, nil
}

func (c *AnthropicCompleter) Name() string { return "anthropic" }

// Complete returns the first text block
func (c *AnthropicCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", nil
	}
	return resp.Content[0].Text, nil
}
