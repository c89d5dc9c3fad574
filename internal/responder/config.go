package responder

import (
	"fmt"
	"os"
	"slices"
)

// Supported backends.
const (
	BackendAgent  = "agent"
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

var backends = []string{BackendAgent, BackendGemini, BackendOpenAI}

var defaultModels = map[string]string{
	BackendGemini: "gemini-1.5-flash",
	BackendOpenAI: "gpt-4o-mini",
}

var fallbackKeyEnv = map[string]string{
	BackendGemini: "GOOGLE_API_KEY",
	BackendOpenAI: "OPENAI_API_KEY",
}

// Config selects and parameterizes the responder backend. The agent backend
// takes its model and provider from the go-agents AgentConfig; Model and
// BaseURL apply to the gemini and openai backends.
type Config struct {
	Backend string `toml:"backend"`
	Model   string `toml:"model"`
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Backend string
	Model   string
	APIKey  string
	BaseURL string
}

// Finalize applies defaults, environment variable overrides, and validation.
// When the API key is still empty after overrides, the backend's conventional
// variable (GOOGLE_API_KEY, OPENAI_API_KEY) is consulted.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	c.loadDefaults()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendAgent
	}
	if c.Model == "" {
		c.Model = defaultModels[c.Backend]
	}
	if c.APIKey == "" {
		if name, ok := fallbackKeyEnv[c.Backend]; ok {
			c.APIKey = os.Getenv(name)
		}
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, field *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	set(env.Backend, &c.Backend)
	set(env.Model, &c.Model)
	set(env.APIKey, &c.APIKey)
	set(env.BaseURL, &c.BaseURL)
}

func (c *Config) validate() error {
	if !slices.Contains(backends, c.Backend) {
		return fmt.Errorf("%w: %s", ErrUnknownBackend, c.Backend)
	}
	return nil
}
