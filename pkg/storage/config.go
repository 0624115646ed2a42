package storage

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds Azure Blob Storage connection parameters.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	MaxRetries       int    `toml:"max_retries"`
	TryTimeout       string `toml:"try_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContainerName    string
	ConnectionString string
	MaxRetries       string
	TryTimeout       string
}

// TryTimeoutDuration returns TryTimeout as a time.Duration.
func (c *Config) TryTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.TryTimeout)
	return d
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
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
	if overlay.TryTimeout != "" {
		c.TryTimeout = overlay.TryTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "claim-documents"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.TryTimeout == "" {
		c.TryTimeout = "1m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := getenv(env.ContainerName); v != "" {
		c.ContainerName = v
	}
	if v := getenv(env.ConnectionString); v != "" {
		c.ConnectionString = v
	}
	if v := getenv(env.MaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := getenv(env.TryTimeout); v != "" {
		c.TryTimeout = v
	}
}

func (c *Config) validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	if c.ConnectionString == "" {
		return fmt.Errorf("connection_string required")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if _, err := time.ParseDuration(c.TryTimeout); err != nil {
		return fmt.Errorf("invalid try_timeout: %w", err)
	}
	return nil
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
