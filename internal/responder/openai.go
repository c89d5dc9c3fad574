package responder

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type openAIResponder struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a responder backed by an OpenAI-compatible chat
// completions endpoint.
func NewOpenAI(cfg *Config) Responder {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	return &openAIResponder{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
	}
}

func (r *openAIResponder) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %w", ErrResponder, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", ErrResponder)
	}

	return resp.Choices[0].Message.Content, nil
}
