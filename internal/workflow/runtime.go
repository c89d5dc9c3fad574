package workflow

import (
	"log/slog"

	"github.com/JaimeStill/courier/internal/providers"
	"github.com/JaimeStill/courier/internal/responder"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure.
type Runtime struct {
	Responder responder.Responder
	Weather   providers.Weather
	News      providers.News
	Location  providers.Location
	Logger    *slog.Logger
}
