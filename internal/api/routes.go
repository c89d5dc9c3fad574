package api

import (
	"net/http"

	"github.com/JaimeStill/courier/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Research.Routes(),
		domain.Prompts.Routes(),
	)
}
