// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies (logging, search, responder, providers) that
// the research workflow and its outer surfaces require.
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/courier/internal/config"
	"github.com/JaimeStill/courier/internal/providers"
	"github.com/JaimeStill/courier/internal/responder"
	"github.com/JaimeStill/courier/internal/workflow"
	"github.com/JaimeStill/courier/pkg/lifecycle"
	"github.com/JaimeStill/courier/pkg/serpapi"
)

// Infrastructure holds the core systems shared by the CLI and the HTTP server.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Search    serpapi.System
	Responder responder.Responder
	Weather   providers.Weather
	News      providers.News
	Location  providers.Location
}

// New creates an Infrastructure from the application configuration, logging
// to stderr. It initializes all systems but does not start them; call Start
// separately.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	return NewWithLogger(ctx, cfg, logger)
}

// NewWithLogger creates an Infrastructure that logs through logger.
func NewWithLogger(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	search := serpapi.New(&cfg.Search, logger)

	resp, err := responder.New(ctx, &cfg.Responder, cfg.Agent)
	if err != nil {
		return nil, fmt.Errorf("responder init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Search:    search,
		Responder: resp,
		Weather:   providers.NewWeather(search, &cfg.Providers, logger),
		News:      providers.NewNews(search, &cfg.Providers, logger),
		Location:  providers.NewLocation(),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Responders holding network clients are closed on shutdown.
func (i *Infrastructure) Start() error {
	if err := i.Search.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("search start failed: %w", err)
	}

	if closer, ok := i.Responder.(io.Closer); ok {
		lc := i.Lifecycle
		lc.OnShutdown(func() {
			<-lc.Context().Done()
			if err := closer.Close(); err != nil {
				i.Logger.Error("responder close failed", "error", err)
			}
		})
	}

	return nil
}

// Runtime returns the collaborators of a research run.
func (i *Infrastructure) Runtime() *workflow.Runtime {
	return &workflow.Runtime{
		Responder: i.Responder,
		Weather:   i.Weather,
		News:      i.News,
		Location:  i.Location,
		Logger:    i.Logger.With("system", "workflow"),
	}
}
