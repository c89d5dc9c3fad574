package providers

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds search parameters shared by the weather and news providers.
type Config struct {
	DefaultLocation string `toml:"default_location"`
	NewsCount       int    `toml:"news_count"`
	KeyHint         string `toml:"key_hint"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	DefaultLocation string
	NewsCount       string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.DefaultLocation != "" {
		c.DefaultLocation = overlay.DefaultLocation
	}
	if overlay.NewsCount != 0 {
		c.NewsCount = overlay.NewsCount
	}
	if overlay.KeyHint != "" {
		c.KeyHint = overlay.KeyHint
	}
}

func (c *Config) loadDefaults() {
	if c.DefaultLocation == "" {
		c.DefaultLocation = "United States"
	}
	if c.NewsCount == 0 {
		c.NewsCount = 3
	}
	if c.KeyHint == "" {
		c.KeyHint = "COURIER_SEARCH_API_KEY"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.DefaultLocation != "" {
		if v := os.Getenv(env.DefaultLocation); v != "" {
			c.DefaultLocation = v
		}
	}
	if env.NewsCount != "" {
		if v := os.Getenv(env.NewsCount); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.NewsCount = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.NewsCount < 1 {
		return fmt.Errorf("invalid news_count: %d", c.NewsCount)
	}
	return nil
}

// MissingKey is the placeholder text returned when no search key is configured.
func (c *Config) MissingKey() string {
	return fmt.Sprintf("Search API key not found. Please set %s in your environment or .env file.", c.KeyHint)
}
