package ocr

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds Tesseract invocation parameters.
type Config struct {
	Binary      string `toml:"binary"`
	Languages   string `toml:"languages"`
	OEM         int    `toml:"oem"`
	PSM         int    `toml:"psm"`
	TessdataDir string `toml:"tessdata_dir"`
	Timeout     string `toml:"timeout"`
	MaxPages    int    `toml:"max_pages"`
	DPI         int    `toml:"dpi"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Binary      string
	Languages   string
	TessdataDir string
	Timeout     string
	MaxPages    string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
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
	if overlay.Binary != "" {
		c.Binary = overlay.Binary
	}
	if overlay.Languages != "" {
		c.Languages = overlay.Languages
	}
	if overlay.OEM != 0 {
		c.OEM = overlay.OEM
	}
	if overlay.PSM != 0 {
		c.PSM = overlay.PSM
	}
	if overlay.TessdataDir != "" {
		c.TessdataDir = overlay.TessdataDir
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxPages != 0 {
		c.MaxPages = overlay.MaxPages
	}
	if overlay.DPI != 0 {
		c.DPI = overlay.DPI
	}
}

func (c *Config) loadDefaults() {
	if c.Binary == "" {
		c.Binary = "tesseract"
	}
	if c.Languages == "" {
		c.Languages = "eng+hin"
	}
	if c.OEM == 0 {
		c.OEM = 3
	}
	if c.PSM == 0 {
		c.PSM = 6
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
	if c.MaxPages == 0 {
		c.MaxPages = 20
	}
	if c.DPI == 0 {
		c.DPI = 300
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Binary != "" {
		if v := os.Getenv(env.Binary); v != "" {
			c.Binary = v
		}
	}
	if env.Languages != "" {
		if v := os.Getenv(env.Languages); v != "" {
			c.Languages = v
		}
	}
	if env.TessdataDir != "" {
		if v := os.Getenv(env.TessdataDir); v != "" {
			c.TessdataDir = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.MaxPages != "" {
		if v := os.Getenv(env.MaxPages); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.MaxPages = n
			}
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.PSM < 0 || c.PSM > 13 {
		return fmt.Errorf("psm must be between 0 and 13")
	}
	if c.OEM < 0 || c.OEM > 3 {
		return fmt.Errorf("oem must be between 0 and 3")
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("max_pages must be positive")
	}
	return nil
}
