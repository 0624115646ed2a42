package documents

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/pagination"
)

// System defines the public contract for claim document operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)

	// Create stores the blob, processes it, and records the outcome. OCR and
	// extraction failures produce a failed record rather than an error.
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)

	Delete(ctx context.Context, id uuid.UUID) error

	// Download opens the stored blob. The caller must close the reader.
	Download(ctx context.Context, id uuid.UUID) (*Document, io.ReadCloser, error)
}
