// Package serpapi provides a rate-limited client for the SerpAPI Google
// search endpoint.
package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/JaimeStill/courier/pkg/lifecycle"
)

// System manages SerpAPI search requests and lifecycle coordination.
type System interface {
	// Start registers a startup hook that reports whether searches are available.
	Start(lc *lifecycle.Coordinator) error
	// Configured reports whether an API key is present.
	Configured() bool
	// Search runs a query with the given parameters. The api_key, hl and engine
	// parameters are filled from configuration when absent. Returns
	// ErrMissingAPIKey without a network call when no key is configured.
	Search(ctx context.Context, params url.Values) (*Response, error)
}

type client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a SerpAPI system from the given configuration.
func New(cfg *Config, logger *slog.Logger) System {
	return NewWithClient(cfg, &http.Client{Timeout: cfg.TimeoutDuration()}, logger)
}

// NewWithClient creates a SerpAPI system that issues requests through hc.
func NewWithClient(cfg *Config, hc *http.Client, logger *slog.Logger) System {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &client{
		cfg:     *cfg,
		http:    hc,
		limiter: rate.NewLimiter(limit, max(cfg.Burst, 1)),
		logger:  logger.With("system", "serpapi"),
	}
}

func (c *client) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting search system")

	lc.OnStartup(func() {
		if !c.Configured() {
			c.logger.Warn("search api key not configured, providers will return placeholder text")
			return
		}
		c.logger.Info("search system ready", "base_url", c.cfg.BaseURL)
	})

	return nil
}

func (c *client) Configured() bool {
	return c.cfg.APIKey != ""
}

func (c *client) Search(ctx context.Context, params url.Values) (*Response, error) {
	if !c.Configured() {
		return nil, ErrMissingAPIKey
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint, err := c.endpoint(params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error carries the full URL, which includes the api key.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var result Response
	decodeErr := json.Unmarshal(body, &result)

	if resp.StatusCode != http.StatusOK {
		msg := result.Error
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, msg)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}

	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, result.Error)
	}

	c.logger.DebugContext(
		ctx, "search complete",
		"q", params.Get("q"),
		"organic", len(result.OrganicResults),
		"news", len(result.NewsResults),
	)

	return &result, nil
}

func (c *client) endpoint(params url.Values) (string, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if q.Get("engine") == "" {
		q.Set("engine", "google")
	}
	if q.Get("hl") == "" && c.cfg.Language != "" {
		q.Set("hl", c.cfg.Language)
	}
	q.Set("api_key", c.cfg.APIKey)

	u.RawQuery = q.Encode()
	return u.String(), nil
}
