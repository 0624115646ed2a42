package validations

import (
	"context"
	"database/sql"
	"encoding/json"
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

// New creates a PostgreSQL-backed validation repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "validations"),
		pagination: pagination,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Validation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "DatasetName", "DatasetType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	items, total, err := repository.QueryPage(ctx, r.db, qb, page.Page, page.PageSize, scanValidation)
	if err != nil {
		return nil, fmt.Errorf("list validations: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Validation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	v, err := repository.QueryOne(ctx, r.db, q, args, scanValidation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Validation, error) {
	v, err := assess(cmd, r.now())
	if err != nil {
		return nil, err
	}

	issues, err := json.Marshal(v.IssuesFound)
	if err != nil {
		return nil, fmt.Errorf("encode issues_found: %w", err)
	}

	q := `
		INSERT INTO public.data_validations AS dv (
			id, dataset_name, dataset_type, validation_status, confidence_score,
			issues_found, record_count, column_count, requires_manual_review, validated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9, $10)
		RETURNING ` + projection.Columns()

	args := []any{
		v.ID, v.DatasetName, v.DatasetType, v.ValidationStatus, v.ConfidenceScore,
		string(issues), v.RecordCount, v.ColumnCount, v.RequiresManualReview, v.ValidatedAt,
	}

	stored, err := repository.QueryOne(ctx, r.db, q, args, scanValidation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"dataset validated",
		"id", stored.ID,
		"dataset", stored.DatasetName,
		"confidence_score", stored.ConfidenceScore,
		"requires_manual_review", stored.RequiresManualReview,
	)
	return &stored, nil
}

func (r *repo) Review(ctx context.Context, id uuid.UUID, cmd ReviewCommand) (*Validation, error) {
	q := `
		UPDATE public.data_validations AS dv SET
			validation_status = $2,
			notes = $3,
			validated_by = $4,
			validated_at = $5
		WHERE dv.id = $1
		RETURNING ` + projection.Columns()

	v, err := repository.QueryOne(ctx, r.db, q, []any{id, cmd.Status, cmd.Notes, cmd.ValidatedBy, r.now()}, scanValidation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("validation reviewed", "id", id, "status", v.ValidationStatus)
	return &v, nil
}
