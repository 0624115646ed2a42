package dss

import (
	"context"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/internal/assets"
	"github.com/fra-atlas/atlas/internal/villages"
)

// System defines the public contract for decision support.
type System interface {
	Handler() *Handler

	// Recommendation returns the village's stored recommendation, deriving
	// and storing one on first request.
	Recommendation(ctx context.Context, villageID uuid.UUID) (*Recommendation, error)
}

// VillageFinder resolves villages.
type VillageFinder interface {
	Find(ctx context.Context, id uuid.UUID) (*villages.Village, error)
}

// AssetCounter tallies a village's detected assets.
type AssetCounter interface {
	Counts(ctx context.Context, villageID uuid.UUID) (assets.Counts, error)
}
