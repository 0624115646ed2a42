package config

import (
	"fmt"
	"os"
	"time"

	"github.com/fra-atlas/atlas/pkg/database"
	"github.com/fra-atlas/atlas/pkg/ocr"
	"github.com/fra-atlas/atlas/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvAtlasEnv             = "ATLAS_ENV"
	EnvAtlasShutdownTimeout = "ATLAS_SHUTDOWN_TIMEOUT"
	EnvAtlasVersion         = "ATLAS_VERSION"
	EnvAtlasPersistence     = "ATLAS_PERSISTENCE"
)

// Persistence modes select the backing store for stateful domains.
const (
	PersistencePostgres = "postgres"
	PersistenceMemory   = "memory"
)

// DatabaseEnv names the ATLAS_DB_* variables read by the server and the
// migration tool.
var DatabaseEnv = &database.Env{
	URL:             "ATLAS_DB_DSN",
	Host:            "ATLAS_DB_HOST",
	Port:            "ATLAS_DB_PORT",
	Name:            "ATLAS_DB_NAME",
	User:            "ATLAS_DB_USER",
	Password:        "ATLAS_DB_PASSWORD",
	SSLMode:         "ATLAS_DB_SSL_MODE",
	MaxOpenConns:    "ATLAS_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "ATLAS_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "ATLAS_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "ATLAS_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "ATLAS_STORAGE_CONTAINER_NAME",
	ConnectionString: "ATLAS_STORAGE_CONNECTION_STRING",
	MaxRetries:       "ATLAS_STORAGE_MAX_RETRIES",
	TryTimeout:       "ATLAS_STORAGE_TRY_TIMEOUT",
}

var ocrEnv = &ocr.Env{
	Binary:      "ATLAS_OCR_BINARY",
	Languages:   "ATLAS_OCR_LANGUAGES",
	TessdataDir: "ATLAS_OCR_TESSDATA_DIR",
	Timeout:     "ATLAS_OCR_TIMEOUT",
	MaxPages:    "ATLAS_OCR_MAX_PAGES",
}

// Config is the root configuration for the Atlas service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Log             LogConfig        `toml:"log"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	API             APIConfig        `toml:"api"`
	OCR             ocr.Config       `toml:"ocr"`
	Extraction      ExtractionConfig `toml:"extraction"`
	Persistence     string           `toml:"persistence"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the ATLAS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvAtlasEnv); env != "" {
		return env
	}
	return "local"
}

// InMemory reports whether stateful domains run without PostgreSQL and blob storage.
func (c *Config) InMemory() bool {
	return c.Persistence == PersistenceMemory
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
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
	if overlay.Persistence != "" {
		c.Persistence = overlay.Persistence
	}
	c.Server.Merge(&overlay.Server)
	c.Log.Merge(&overlay.Log)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.OCR.Merge(&overlay.OCR)
	c.Extraction.Merge(&overlay.Extraction)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Log.Finalize(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if !c.InMemory() {
		if err := c.Database.Finalize(DatabaseEnv); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		if err := c.Storage.Finalize(storageEnv); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.OCR.Finalize(ocrEnv); err != nil {
		return fmt.Errorf("ocr: %w", err)
	}
	if err := c.Extraction.Finalize(); err != nil {
		return fmt.Errorf("extraction: %w", err)
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
	if c.Persistence == "" {
		c.Persistence = PersistencePostgres
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvAtlasShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvAtlasVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvAtlasPersistence); v != "" {
		c.Persistence = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	switch c.Persistence {
	case PersistencePostgres, PersistenceMemory:
	default:
		return fmt.Errorf("invalid persistence %q: want %s or %s", c.Persistence, PersistencePostgres, PersistenceMemory)
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
	if env := os.Getenv(EnvAtlasEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
