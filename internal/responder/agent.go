package responder

import (
	"context"
	"fmt"
	"maps"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

type agentResponder struct {
	cfg gaconfig.AgentConfig
}

// NewAgent creates a responder that sends each prompt as a go-agents chat
// call. A non-empty apiKey is passed to the provider as its token option.
func NewAgent(cfg gaconfig.AgentConfig, apiKey string) Responder {
	if apiKey != "" {
		provider := gaconfig.ProviderConfig{}
		if cfg.Provider != nil {
			provider = *cfg.Provider
		}
		provider.Options = maps.Clone(provider.Options)
		if provider.Options == nil {
			provider.Options = make(map[string]any)
		}
		provider.Options["token"] = apiKey
		cfg.Provider = &provider
	}

	return &agentResponder{cfg: cfg}
}

func (r *agentResponder) Complete(ctx context.Context, prompt string) (string, error) {
	a, err := agent.New(&r.cfg)
	if err != nil {
		return "", fmt.Errorf("%w: create agent: %w", ErrResponder, err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: chat call: %w", ErrResponder, err)
	}

	return resp.Content(), nil
}
