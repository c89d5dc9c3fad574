package responder

import (
	"context"
	"fmt"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// New creates the responder selected by cfg.Backend. The agent backend uses
// agentCfg; the other backends use cfg alone. Responders holding network
// clients implement io.Closer.
func New(ctx context.Context, cfg *Config, agentCfg gaconfig.AgentConfig) (Responder, error) {
	switch cfg.Backend {
	case BackendAgent:
		return NewAgent(agentCfg, cfg.APIKey), nil
	case BackendGemini:
		return NewGemini(ctx, cfg)
	case BackendOpenAI:
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}
