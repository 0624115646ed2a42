package schemes

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/pagination"
	"github.com/fra-atlas/atlas/pkg/query"
	"github.com/fra-atlas/atlas/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// New creates an enrolment repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "schemes"),
		pagination: pagination,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	villageID uuid.UUID,
	page pagination.PageRequest,
) (*pagination.PageResult[Enrolment], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "SchemeName", "BeneficiaryID").
		WhereEquals("VillageID", villageID)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	enrolments, total, err := repository.QueryPage(ctx, r.db, qb, page.Page, page.PageSize, scanEnrolment)
	if err != nil {
		return nil, fmt.Errorf("list enrolments: %w", err)
	}

	result := pagination.NewPageResult(enrolments, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Create(ctx context.Context, villageID uuid.UUID, cmd CreateCommand) (*Enrolment, error) {
	e := newEnrolment(uuid.New(), villageID, cmd, r.now())
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return nil, ErrInvalidPeriod
	}

	q := `
		INSERT INTO public.scheme_enrolments AS se (
			id, scheme_name, beneficiary_id, village_id, benefit_amount,
			status, start_date, end_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + projection.Columns()

	args := []any{
		e.ID, e.SchemeName, e.BeneficiaryID, e.VillageID, e.BenefitAmount,
		e.Status, e.StartDate, e.EndDate,
	}

	stored, err := repository.QueryOne(ctx, r.db, q, args, scanEnrolment)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrVillageNotFound, villageID)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("scheme enrolment created", "id", stored.ID, "scheme", stored.SchemeName, "village_id", villageID)
	return &stored, nil
}
