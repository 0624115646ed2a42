// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, OCR, the
// extraction registry) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/fra-atlas/atlas/internal/config"
	"github.com/fra-atlas/atlas/pkg/database"
	"github.com/fra-atlas/atlas/pkg/extract"
	"github.com/fra-atlas/atlas/pkg/lifecycle"
	"github.com/fra-atlas/atlas/pkg/ocr"
	"github.com/fra-atlas/atlas/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Database and Storage are nil when the service runs with in-memory persistence.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	OCR       ocr.Engine
	Registry  *extract.Registry
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := cfg.Log.Logger()

	registry, err := cfg.Extraction.Registry()
	if err != nil {
		return nil, fmt.Errorf("extraction registry init failed: %w", err)
	}

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		OCR:       ocr.New(&cfg.OCR, nil, logger),
		Registry:  registry,
	}

	if cfg.InMemory() {
		logger.Info("in-memory persistence selected, skipping database and storage")
		return infra, nil
	}

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	infra.Database = db
	infra.Storage = store
	return infra, nil
}

// Persistent reports whether the database and blob storage are available.
func (i *Infrastructure) Persistent() bool {
	return i.Database != nil && i.Storage != nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	return nil
}
