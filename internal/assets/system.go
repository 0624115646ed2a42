package assets

import (
	"context"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/pagination"
)

// System defines the public contract for village asset operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, villageID uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Asset], error)
	Create(ctx context.Context, villageID uuid.UUID, cmd CreateCommand) (*Asset, error)

	// Counts tallies a village's assets by type. Types with no assets are absent.
	Counts(ctx context.Context, villageID uuid.UUID) (Counts, error)
}
