package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/JaimeStill/courier/pkg/serpapi"
)

// SearchNews answers news lookups from Google News search results.
type SearchNews struct {
	search serpapi.System
	cfg    Config
	logger *slog.Logger
}

// NewNews creates a news provider backed by search.
func NewNews(search serpapi.System, cfg *Config, logger *slog.Logger) *SearchNews {
	return &SearchNews{
		search: search,
		cfg:    *cfg,
		logger: logger.With("provider", "news"),
	}
}

// Lookup searches recent news for location, listing up to NewsCount items.
// News results are preferred; organic results are the fallback.
func (n *SearchNews) Lookup(ctx context.Context, query, location string) string {
	params := url.Values{}
	params.Set("q", newsQuery(query, location))
	params.Set("tbm", "nws")
	params.Set("num", strconv.Itoa(n.cfg.NewsCount))

	resp, err := n.search.Search(ctx, params)
	if err != nil {
		if errors.Is(err, serpapi.ErrMissingAPIKey) {
			return n.cfg.MissingKey()
		}
		n.logger.WarnContext(ctx, "news search failed", "error", err)
		return fmt.Sprintf("Error fetching news data: %v", err)
	}

	return formatNews(resp, location, n.cfg.NewsCount)
}

func newsQuery(query, location string) string {
	if location != "" {
		return fmt.Sprintf("%s news %s", location, query)
	}
	return fmt.Sprintf("%s news", query)
}

func formatNews(resp *serpapi.Response, location string, count int) string {
	if len(resp.NewsResults) > 0 {
		items := make([]string, 0, count)
		for _, item := range resp.NewsResults[:min(count, len(resp.NewsResults))] {
			items = append(items, fmt.Sprintf("• %s (%s)\n  %s", item.Title, item.Source, item.Snippet))
		}
		return fmt.Sprintf("Recent news for %s:\n\n", location) + strings.Join(items, "\n\n")
	}

	if len(resp.OrganicResults) > 0 {
		items := make([]string, 0, count)
		for _, item := range resp.OrganicResults[:min(count, len(resp.OrganicResults))] {
			items = append(items, fmt.Sprintf("• %s\n  %s", item.Title, item.Snippet))
		}
		return fmt.Sprintf("News for %s:\n\n", location) + strings.Join(items, "\n\n")
	}

	return fmt.Sprintf("No recent news found for %s", location)
}
