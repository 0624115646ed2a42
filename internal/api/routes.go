package api

import (
	"github.com/fra-atlas/atlas/internal/documents"
	"github.com/fra-atlas/atlas/internal/satellite"
	"github.com/fra-atlas/atlas/pkg/routes"
)

// Routes returns the route groups to mount. Groups backed by PostgreSQL or
// blob storage are left out in memory mode.
func (d *Domain) Routes(runtime *Runtime) []routes.Group {
	groups := []routes.Group{
		d.Claims.Handler().Routes(),
		d.Validations.Handler(runtime.MaxUploadSize).Routes(),
		documents.NewExtractionHandler(d.Processor, runtime.Logger, runtime.MaxUploadSize).Routes(),
		satellite.NewHandler(runtime.Logger).Routes(),
	}

	if !d.Persistent() {
		return groups
	}

	return append(groups,
		d.Dashboard.Handler().Routes(),
		d.Villages.Handler().Routes(),
		d.Assets.Handler().Routes(),
		d.Schemes.Handler().Routes(),
		d.Documents.Handler(runtime.MaxUploadSize).Routes(),
		d.DSS.Handler().Routes(),
	)
}
