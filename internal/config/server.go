package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

var serverEnv = &ServerEnv{
	Host:         "COURIER_SERVER_HOST",
	Port:         "COURIER_SERVER_PORT",
	ReadTimeout:  "COURIER_SERVER_READ_TIMEOUT",
	WriteTimeout: "COURIER_SERVER_WRITE_TIMEOUT",
	IdleTimeout:  "COURIER_SERVER_IDLE_TIMEOUT",
}

// ServerConfig holds the HTTP listener settings. WriteTimeout bounds a whole
// research run, so it must cover every responder call a run makes.
type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
	IdleTimeout  string `toml:"idle_timeout"`
}

// ServerEnv maps server fields to environment variable names.
type ServerEnv struct {
	Host         string
	Port         string
	ReadTimeout  string
	WriteTimeout string
	IdleTimeout  string
}

// Timeouts are the parsed server durations.
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeouts returns the configured durations. Finalize guarantees they parse.
func (c *ServerConfig) Timeouts() Timeouts {
	read, _ := time.ParseDuration(c.ReadTimeout)
	write, _ := time.ParseDuration(c.WriteTimeout)
	idle, _ := time.ParseDuration(c.IdleTimeout)
	return Timeouts{Read: read, Write: write, Idle: idle}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize(env *ServerEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.ReadTimeout != "" {
		c.ReadTimeout = overlay.ReadTimeout
	}
	if overlay.WriteTimeout != "" {
		c.WriteTimeout = overlay.WriteTimeout
	}
	if overlay.IdleTimeout != "" {
		c.IdleTimeout = overlay.IdleTimeout
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "15s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "3m"
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = "1m"
	}
}

func (c *ServerConfig) loadEnv(env *ServerEnv) {
	if v := lookupEnv(env.Host); v != "" {
		c.Host = v
	}
	if v := lookupEnv(env.Port); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := lookupEnv(env.ReadTimeout); v != "" {
		c.ReadTimeout = v
	}
	if v := lookupEnv(env.WriteTimeout); v != "" {
		c.WriteTimeout = v
	}
	if v := lookupEnv(env.IdleTimeout); v != "" {
		c.IdleTimeout = v
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	durations := []struct {
		name  string
		value string
	}{
		{"read_timeout", c.ReadTimeout},
		{"write_timeout", c.WriteTimeout},
		{"idle_timeout", c.IdleTimeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		if v <= 0 {
			return fmt.Errorf("invalid %s: must be positive", d.name)
		}
	}
	return nil
}

func lookupEnv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
