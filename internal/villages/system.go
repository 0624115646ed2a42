package villages

import (
	"context"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/pagination"
)

// System defines the public contract for village domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Village], error)

	Find(ctx context.Context, id uuid.UUID) (*Village, error)
	Create(ctx context.Context, cmd CreateCommand) (*Village, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// GeoJSON returns every village matching filters as a FeatureCollection.
	GeoJSON(ctx context.Context, filters Filters) (*FeatureCollection, error)
}
