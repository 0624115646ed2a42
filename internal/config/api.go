package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/fra-atlas/atlas/pkg/formatting"
	"github.com/fra-atlas/atlas/pkg/middleware"
	"github.com/fra-atlas/atlas/pkg/pagination"
)

const (
	EnvAPIBasePath      = "ATLAS_API_BASE_PATH"
	EnvAPIMaxUploadSize = "ATLAS_API_MAX_UPLOAD_SIZE"
	EnvAPIPreviewLength = "ATLAS_API_TEXT_PREVIEW_LENGTH"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "ATLAS_CORS_ENABLED",
	Origins:          "ATLAS_CORS_ORIGINS",
	AllowedMethods:   "ATLAS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "ATLAS_CORS_ALLOWED_HEADERS",
	AllowCredentials: "ATLAS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "ATLAS_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "ATLAS_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "ATLAS_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, upload limits, CORS, and pagination settings.
type APIConfig struct {
	BasePath          string                `toml:"base_path"`
	MaxUploadSize     string                `toml:"max_upload_size"`
	TextPreviewLength int                   `toml:"text_preview_length"`
	CORS              middleware.CORSConfig `toml:"cors"`
	Pagination        pagination.Config     `toml:"pagination"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes. Finalize guarantees it parses.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxUploadSize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.TextPreviewLength != 0 {
		c.TextPreviewLength = overlay.TextPreviewLength
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "25MB"
	}
	if c.TextPreviewLength == 0 {
		c.TextPreviewLength = 500
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv(EnvAPIPreviewLength); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			c.TextPreviewLength = n
		}
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || len(c.BasePath) < 2 || strings.Contains(c.BasePath[1:], "/") {
		return fmt.Errorf("base_path must be a single segment such as /api, got %q", c.BasePath)
	}
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	if c.TextPreviewLength < 1 {
		return fmt.Errorf("text_preview_length must be positive")
	}
	return nil
}
