package generatefinancialplan

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// TextModel turns one prompt into one completion.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ModelFactory builds a TextModel bound to a single request's API key.
type ModelFactory func(ctx context.Context, apiKey string) (TextModel, error)

var errEmptyCompletion = errors.New("model returned no text")

type genaiModel struct {
	client *genai.Client
	model  string
}

// NewGenAIFactory returns a factory for Gemini models. baseURL may be empty.
func NewGenAIFactory(model, baseURL string) ModelFactory {
	return func(ctx context.Context, apiKey string) (TextModel, error) {
		cfg := &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
		}

		client, err := genai.NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create GenAI client: %w", err)
		}
		return &genaiModel{client: client, model: model}, nil
	}
}

func (m *genaiModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errEmptyCompletion
	}
	return text, nil
}
