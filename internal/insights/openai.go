package insights

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAICompleter calls the chat completions API
type OpenAICompleter struct {
	client      *openai.Client
	model       openai.ChatModel
	temperature float64
	maxTokens   int64
}

// NewOpenAICompleter creates an OpenAI client
func NewOpenAICompleter(apiKey, model string, temperature float32, maxTokens int) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, ErrMissingCredentials
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAICompleter{
		client:      &client,
		model:       openai.ChatModel(model),
		temperature: float64(temperature),
		maxTokens:   int64(maxTokens),
	}, nil
}

func (c *OpenAICompleter) Name() string { return "openai" }

// Complete returns the first choice's content
func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature:         openai.Float(c.temperature),
		MaxCompletionTokens: openai.Int(c.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
