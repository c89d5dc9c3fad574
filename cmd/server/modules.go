package main

import (
	"net/http"

	"github.com/JaimeStill/courier/internal/api"
	"github.com/JaimeStill/courier/internal/config"
	"github.com/JaimeStill/courier/internal/infrastructure"
	"github.com/JaimeStill/courier/pkg/handlers"
	"github.com/JaimeStill/courier/pkg/module"
)

// Modules holds the mounted HTTP modules.
type Modules struct {
	API *module.Module
}

// NewModules creates every HTTP module.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

// Mount registers the modules on router.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}

		status := map[string]string{"status": "ready", "search": "configured"}
		if !infra.Search.Configured() {
			status["search"] = "degraded"
		}
		handlers.RespondJSON(w, http.StatusOK, status)
	})

	return router
}
