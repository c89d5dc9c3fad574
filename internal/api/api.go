// Package api assembles the API module with the research and prompt handlers.
package api

import (
	"net/http"

	"github.com/JaimeStill/courier/internal/config"
	"github.com/JaimeStill/courier/internal/infrastructure"
	"github.com/JaimeStill/courier/internal/prompts"
	"github.com/JaimeStill/courier/pkg/middleware"
	"github.com/JaimeStill/courier/pkg/module"
)

// Domain holds the handlers that comprise the API.
type Domain struct {
	Research *ResearchHandler
	Prompts  *prompts.Handler
}

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	logger := infra.Logger.With("module", "api")

	domain := &Domain{
		Research: NewResearchHandler(infra.Runtime(), cfg.API.MaxRequestSizeBytes(), logger),
		Prompts:  prompts.NewHandler(logger),
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m, err := module.New(cfg.API.BasePath, mux)
	if err != nil {
		return nil, err
	}
	m.Use(middleware.Recover(logger))
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(logger))

	return m, nil
}
