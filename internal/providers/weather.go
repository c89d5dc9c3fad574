package providers

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/JaimeStill/courier/pkg/serpapi"
)

// SearchWeather answers weather lookups from Google search results.
type SearchWeather struct {
	search serpapi.System
	cfg    Config
	logger *slog.Logger
}

// NewWeather creates a weather provider backed by search.
func NewWeather(search serpapi.System, cfg *Config, logger *slog.Logger) *SearchWeather {
	return &SearchWeather{
		search: search,
		cfg:    *cfg,
		logger: logger.With("provider", "weather"),
	}
}

// Lookup searches for the weather at location. The weather box is preferred;
// the first organic result is the fallback.
func (w *SearchWeather) Lookup(ctx context.Context, query, location string) string {
	params := url.Values{}
	params.Set("q", weatherQuery(query, location))
	params.Set("location", cmp.Or(location, w.cfg.DefaultLocation))

	resp, err := w.search.Search(ctx, params)
	if err != nil {
		if errors.Is(err, serpapi.ErrMissingAPIKey) {
			return w.cfg.MissingKey()
		}
		w.logger.WarnContext(ctx, "weather search failed", "error", err)
		return fmt.Sprintf("Error fetching weather data: %v", err)
	}

	return formatWeather(resp, location)
}

func weatherQuery(query, location string) string {
	if location != "" {
		return fmt.Sprintf("%s weather %s", location, query)
	}
	return fmt.Sprintf("%s weather", query)
}

func formatWeather(resp *serpapi.Response, location string) string {
	if weather, ok := resp.Weather(); ok {
		return fmt.Sprintf(
			"Current weather in %s: %s, %s",
			weather.Location.Or(location),
			weather.Temperature.Or("N/A"),
			weather.Weather.Or("N/A"),
		)
	}

	if len(resp.OrganicResults) > 0 {
		first := resp.OrganicResults[0]
		return fmt.Sprintf("Weather for %s: %s\n%s", location, first.Title, first.Snippet)
	}

	return fmt.Sprintf("No weather information found for %s", location)
}
