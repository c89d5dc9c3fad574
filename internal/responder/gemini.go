package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type geminiResponder struct {
	client *genai.Client
	model  string
}

// NewGemini creates a responder backed by the Gemini API.
// The returned responder implements io.Closer and must be closed to release
// the client.
func NewGemini(ctx context.Context, cfg *Config) (Responder, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &geminiResponder{
		client: client,
		model:  cfg.Model,
	}, nil
}

func (r *geminiResponder) Complete(ctx context.Context, prompt string) (string, error) {
	model := r.client.GenerativeModel(r.model)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %w", ErrResponder, err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}

		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		return sb.String(), nil
	}

	return "", fmt.Errorf("%w: gemini returned no candidates", ErrResponder)
}

func (r *geminiResponder) Close() error {
	return r.client.Close()
}
