package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "ATLAS_SERVER_HOST"
	EnvServerPort              = "ATLAS_SERVER_PORT"
	EnvServerReadTimeout       = "ATLAS_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "ATLAS_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "ATLAS_SERVER_WRITE_TIMEOUT"
	EnvServerShutdownTimeout   = "ATLAS_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP listener parameters. Durations are Go duration
// strings. ShutdownTimeout bounds draining in-flight requests.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return mustDuration(c.ReadTimeout)
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return mustDuration(c.ReadHeaderTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return mustDuration(c.WriteTimeout)
}

func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	fill(&c.Host, overlay.Host)
	fill(&c.ReadTimeout, overlay.ReadTimeout)
	fill(&c.ReadHeaderTimeout, overlay.ReadHeaderTimeout)
	fill(&c.WriteTimeout, overlay.WriteTimeout)
	fill(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
}

func (c *ServerConfig) loadDefaults() {
	defaults := ServerConfig{
		Host:              "0.0.0.0",
		Port:              8080,
		ReadTimeout:       "1m",
		ReadHeaderTimeout: "10s",
		WriteTimeout:      "15m",
		ShutdownTimeout:   "30s",
	}
	defaults.Merge(c)
	*c = defaults
}

func (c *ServerConfig) loadEnv() {
	fill(&c.Host, os.Getenv(EnvServerHost))
	fill(&c.ReadTimeout, os.Getenv(EnvServerReadTimeout))
	fill(&c.ReadHeaderTimeout, os.Getenv(EnvServerReadHeaderTimeout))
	fill(&c.WriteTimeout, os.Getenv(EnvServerWriteTimeout))
	fill(&c.ShutdownTimeout, os.Getenv(EnvServerShutdownTimeout))
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for name, v := range map[string]string{
		"read_timeout":        c.ReadTimeout,
		"read_header_timeout": c.ReadHeaderTimeout,
		"write_timeout":       c.WriteTimeout,
		"shutdown_timeout":    c.ShutdownTimeout,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

// fill sets *dst to v when v is non-empty.
func fill(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// mustDuration parses a duration that validate has already accepted.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
