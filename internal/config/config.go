// Package config loads courier configuration from TOML files, a .env file,
// and COURIER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/courier/internal/providers"
	"github.com/JaimeStill/courier/internal/responder"
	"github.com/JaimeStill/courier/pkg/serpapi"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotenvFile           = ".env"

	EnvCourierEnv             = "COURIER_ENV"
	EnvCourierShutdownTimeout = "COURIER_SHUTDOWN_TIMEOUT"
	EnvCourierVersion         = "COURIER_VERSION"
	EnvCourierLogLevel        = "COURIER_LOG_LEVEL"
)

// ErrMissingResponderKey indicates the selected responder backend needs an
// API key and none was configured or entered.
var ErrMissingResponderKey = errors.New("responder api key not configured")

var responderEnv = &responder.Env{
	Backend: "COURIER_RESPONDER_BACKEND",
	Model:   "COURIER_RESPONDER_MODEL",
	APIKey:  "COURIER_RESPONDER_API_KEY",
	BaseURL: "COURIER_RESPONDER_BASE_URL",
}

var searchEnv = &serpapi.Env{
	APIKey:         "COURIER_SEARCH_API_KEY",
	APIKeyFallback: "SERPAPI_API_KEY",
	BaseURL:        "COURIER_SEARCH_BASE_URL",
	Timeout:        "COURIER_SEARCH_TIMEOUT",
	RateLimit:      "COURIER_SEARCH_RATE_LIMIT",
	Burst:          "COURIER_SEARCH_BURST",
	Language:       "COURIER_SEARCH_LANGUAGE",
}

var providersEnv = &providers.Env{
	DefaultLocation: "COURIER_PROVIDERS_DEFAULT_LOCATION",
	NewsCount:       "COURIER_PROVIDERS_NEWS_COUNT",
}

// Config is the root configuration for courier.
type Config struct {
	Server          ServerConfig         `toml:"server"`
	API             APIConfig            `toml:"api"`
	Agent           gaconfig.AgentConfig `toml:"agent"`
	Responder       responder.Config     `toml:"responder"`
	Search          serpapi.Config       `toml:"search"`
	Providers       providers.Config     `toml:"providers"`
	ShutdownTimeout string               `toml:"shutdown_timeout"`
	Version         string               `toml:"version"`
	LogLevel        string               `toml:"log_level"`
}

// Env returns the COURIER_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCourierEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns LogLevel as a slog.Level. Finalize guarantees it parses.
func (c *Config) Level() slog.Level {
	var level slog.Level
	_ = level.UnmarshalText([]byte(c.LogLevel))
	return level
}

// Load reads .env (if present), the base config (if present), applies any
// environment overlay, and finalizes all values. Without any files, defaults
// and environment variables provide all configuration.
func Load() (*Config, error) {
	if _, err := os.Stat(DotenvFile); err == nil {
		if err := godotenv.Load(DotenvFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", DotenvFile, err)
		}
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Agent.Merge(&overlay.Agent)
	c.Responder.Merge(&overlay.Responder)
	c.Search.Merge(&overlay.Search)
	c.Providers.Merge(&overlay.Providers)
}

// ResponderKeyRequired reports whether the selected backend needs an API key
// that is not yet configured. The gemini and openai backends always need
// one; the agent backend needs one unless it targets a local ollama provider
// or already carries a token option.
func (c *Config) ResponderKeyRequired() bool {
	if c.Responder.APIKey != "" {
		return false
	}

	switch c.Responder.Backend {
	case responder.BackendGemini, responder.BackendOpenAI:
		return true
	case responder.BackendAgent:
		if c.Agent.Provider == nil || c.Agent.Provider.Name == "ollama" {
			return false
		}
		_, ok := c.Agent.Provider.Options["token"]
		return !ok
	}
	return false
}

// RequireResponderKey ensures a responder key is available. When one is
// required and missing, prompt is asked for it; a nil prompt or an empty
// answer yields ErrMissingResponderKey.
func (c *Config) RequireResponderKey(prompt func() (string, error)) error {
	if !c.ResponderKeyRequired() {
		return nil
	}

	if prompt == nil {
		return fmt.Errorf("%w: set %s", ErrMissingResponderKey, responderEnv.APIKey)
	}

	key, err := prompt()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMissingResponderKey, err)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: no key entered", ErrMissingResponderKey)
	}

	c.Responder.APIKey = key
	return nil
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(serverEnv); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Responder.Finalize(responderEnv); err != nil {
		return fmt.Errorf("responder: %w", err)
	}
	if err := c.Search.Finalize(searchEnv); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := c.Providers.Finalize(providersEnv); err != nil {
		return fmt.Errorf("providers: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCourierShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCourierVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvCourierLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCourierEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
