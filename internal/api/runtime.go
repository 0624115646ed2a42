package api

import (
	"github.com/fra-atlas/atlas/internal/config"
	"github.com/fra-atlas/atlas/internal/infrastructure"
	"github.com/fra-atlas/atlas/pkg/pagination"
)

// Runtime is the API module's view of the shared infrastructure, with a
// module-scoped logger and the request limits handlers enforce.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	PreviewLength int
	MaxUploadSize int64
}

func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		PreviewLength:  cfg.API.TextPreviewLength,
		MaxUploadSize:  cfg.API.MaxUploadSizeBytes(),
	}
}
