package insights

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiCompleter calls the Gemini API with a JSON response schema
type GeminiCompleter struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// NewGeminiCompleter creates a Gemini client
func NewGeminiCompleter(ctx context.Context, apiKey, model string, temperature float32, maxTokens int) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, ErrMissingCredentials
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiCompleter{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   int32(maxTokens),
	}, nil
}

func (g *GeminiCompleter) Name() string { return "gemini" }

// Complete returns the response text
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.temperature),
		MaxOutputTokens:  g.maxTokens,
		ResponseMIMEType: "application/json",
		ResponseSchema:   insightsSchema(),
	})
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	return resp.Text(), nil
}

func insightsSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"executive_summary": {
				Type:        genai.TypeString,
				Description: "2-3 sentence summary for a business leader",
			},
			"technical_summary": {
				Type:        genai.TypeString,
				Description: "2-3 sentence abstract for a technical audience",
			},
			"simple_summary": {
				Type:        genai.TypeString,
				Description: "2-3 sentence explanation for a non-technical reader",
			},
			"extracted_keywords": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"ai_relevance_score": {
				Type:        genai.TypeNumber,
				Description: "Relevance to strategic AI developments, 0.0 to 1.0",
			},
			"generated_tags": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{
			"executive_summary", "technical_summary", "simple_summary",
			"extracted_keywords", "ai_relevance_score", "generated_tags",
		},
	}
}
