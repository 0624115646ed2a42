package api

import (
	"github.com/fra-atlas/atlas/internal/assets"
	"github.com/fra-atlas/atlas/internal/claims"
	"github.com/fra-atlas/atlas/internal/dashboard"
	"github.com/fra-atlas/atlas/internal/documents"
	"github.com/fra-atlas/atlas/internal/dss"
	"github.com/fra-atlas/atlas/internal/schemes"
	"github.com/fra-atlas/atlas/internal/validations"
	"github.com/fra-atlas/atlas/internal/villages"
)

// Domain holds all domain systems that comprise the API.
// Systems that need PostgreSQL or blob storage are nil in memory mode.
type Domain struct {
	Processor   *documents.Processor
	Claims      claims.System
	Validations validations.System

	Villages  villages.System
	Assets    assets.System
	Schemes   schemes.System
	Documents documents.System
	DSS       dss.System
	Dashboard dashboard.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	processor := documents.NewProcessor(
		runtime.OCR,
		runtime.Registry,
		runtime.PreviewLength,
		runtime.Logger,
	)

	if !runtime.Persistent() {
		return &Domain{
			Processor:   processor,
			Claims:      claims.NewMemory(runtime.Logger, runtime.Pagination),
			Validations: validations.NewMemory(runtime.Logger, runtime.Pagination),
		}
	}

	db := runtime.Database.Connection()

	villagesSystem := villages.New(db, runtime.Logger, runtime.Pagination)
	assetsSystem := assets.New(db, runtime.Logger, runtime.Pagination)

	return &Domain{
		Processor:   processor,
		Claims:      claims.New(db, runtime.Logger, runtime.Pagination),
		Validations: validations.New(db, runtime.Logger, runtime.Pagination),
		Villages:    villagesSystem,
		Assets:      assetsSystem,
		Schemes:     schemes.New(db, runtime.Logger, runtime.Pagination),
		Documents: documents.New(
			db,
			runtime.Storage,
			processor,
			runtime.Logger,
			runtime.Pagination,
		),
		DSS:       dss.New(db, villagesSystem, assetsSystem, runtime.Logger),
		Dashboard: dashboard.New(db, runtime.Logger),
	}
}

// Persistent reports whether the database-backed systems are present.
func (d *Domain) Persistent() bool {
	return d.Villages != nil
}
