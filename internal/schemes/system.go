package schemes

import (
	"context"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/pagination"
)

// System defines the public contract for scheme enrolment operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, villageID uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Enrolment], error)
	Create(ctx context.Context, villageID uuid.UUID, cmd CreateCommand) (*Enrolment, error)
}
