package validations

import (
	"context"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/pagination"
)

// System defines the public contract for validation domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Validation], error)

	Find(ctx context.Context, id uuid.UUID) (*Validation, error)

	// Create validates the dataset and stores the resulting report as pending.
	Create(ctx context.Context, cmd CreateCommand) (*Validation, error)

	Review(ctx context.Context, id uuid.UUID, cmd ReviewCommand) (*Validation, error)
}
