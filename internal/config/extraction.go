package config

import (
	"fmt"
	"os"

	"github.com/fra-atlas/atlas/pkg/extract"
)

const EnvExtractionFormsFile = "ATLAS_EXTRACTION_FORMS_FILE"

// ExtractionConfig selects the field-schema registry used by the entity extractor.
// An empty FormsFile keeps the embedded registry.
type ExtractionConfig struct {
	FormsFile string `toml:"forms_file"`
}

// Registry loads the configured registry. It is called once at startup.
func (c *ExtractionConfig) Registry() (*extract.Registry, error) {
	if c.FormsFile == "" {
		return extract.Default(), nil
	}
	return extract.LoadFile(c.FormsFile)
}

// Finalize applies environment overrides and checks the override file exists.
func (c *ExtractionConfig) Finalize() error {
	if v := os.Getenv(EnvExtractionFormsFile); v != "" {
		c.FormsFile = v
	}
	if c.FormsFile != "" {
		if _, err := os.Stat(c.FormsFile); err != nil {
			return fmt.Errorf("forms_file: %w", err)
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ExtractionConfig) Merge(overlay *ExtractionConfig) {
	if overlay.FormsFile != "" {
		c.FormsFile = overlay.FormsFile
	}
}
