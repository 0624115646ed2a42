package villages

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/pagination"
	"github.com/fra-atlas/atlas/pkg/query"
	"github.com/fra-atlas/atlas/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a village repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "villages"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Village], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "VillageCode")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	villages, total, err := repository.QueryPage(ctx, r.db, qb, page.Page, page.PageSize, scanVillage)
	if err != nil {
		return nil, fmt.Errorf("list villages: %w", err)
	}

	result := pagination.NewPageResult(villages, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Village, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	v, err := repository.QueryOne(ctx, r.db, q, args, scanVillage)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Village, error) {
	q := `
		INSERT INTO public.villages AS v (
			id, name, state, district, tehsil, village_code, total_area,
			forest_area, latitude, longitude, population, tribal_population
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + projection.Columns()

	args := []any{
		uuid.New(), cmd.Name, cmd.State, cmd.District, cmd.Tehsil, cmd.VillageCode,
		cmd.TotalArea, cmd.ForestArea, cmd.Latitude, cmd.Longitude,
		cmd.Population, cmd.TribalPopulation,
	}

	v, err := repository.QueryOne(ctx, r.db, q, args, scanVillage)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("village created", "id", v.ID, "village_code", v.VillageCode)
	return &v, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM public.villages WHERE id = $1", id)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", ErrInUse, id)
		}
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("village deleted", "id", id)
	return nil
}

func (r *repo) GeoJSON(ctx context.Context, filters Filters) (*FeatureCollection, error) {
	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	q, args := qb.Build()
	villages, err := repository.QueryMany(ctx, r.db, q, args, scanVillage)
	if err != nil {
		return nil, fmt.Errorf("query villages: %w", err)
	}

	fc := NewFeatureCollection(villages)
	return &fc, nil
}
