package serpapi

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultBaseURL is the SerpAPI JSON search endpoint.
const DefaultBaseURL = "https://serpapi.com/search.json"

// Config holds SerpAPI connection parameters.
type Config struct {
	APIKey    string  `toml:"api_key"`
	BaseURL   string  `toml:"base_url"`
	Timeout   string  `toml:"timeout"`
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
	Language  string  `toml:"language"`
}

// Env maps config fields to environment variable names for override injection.
// APIKeyFallback is consulted only when APIKey is unset in the environment.
type Env struct {
	APIKey         string
	APIKeyFallback string
	BaseURL        string
	Timeout        string
	RateLimit      string
	Burst          string
	Language       string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
// A missing API key is valid: the client then runs in degraded mode.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.RateLimit != 0 {
		c.RateLimit = overlay.RateLimit
	}
	if overlay.Burst != 0 {
		c.Burst = overlay.Burst
	}
	if overlay.Language != "" {
		c.Language = overlay.Language
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.RateLimit == 0 {
		c.RateLimit = 5
	}
	if c.Burst == 0 {
		c.Burst = 1
	}
	if c.Language == "" {
		c.Language = "en"
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := getenv(env.APIKey); v != "" {
		c.APIKey = v
	} else if c.APIKey == "" {
		if v := getenv(env.APIKeyFallback); v != "" {
			c.APIKey = v
		}
	}
	if v := getenv(env.BaseURL); v != "" {
		c.BaseURL = v
	}
	if v := getenv(env.Timeout); v != "" {
		c.Timeout = v
	}
	if v := getenv(env.RateLimit); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil && rps > 0 {
			c.RateLimit = rps
		}
	}
	if v := getenv(env.Burst); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Burst = n
		}
	}
	if v := getenv(env.Language); v != "" {
		c.Language = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("invalid rate_limit: %v", c.RateLimit)
	}
	if c.Burst < 1 {
		return fmt.Errorf("invalid burst: %d", c.Burst)
	}
	return nil
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
