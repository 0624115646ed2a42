package assets

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

// New creates an asset repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "assets"),
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
) (*pagination.PageResult[Asset], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("VillageID", villageID)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	assets, total, err := repository.QueryPage(ctx, r.db, qb, page.Page, page.PageSize, scanAsset)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	result := pagination.NewPageResult(assets, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Create(ctx context.Context, villageID uuid.UUID, cmd CreateCommand) (*Asset, error) {
	q := `
		INSERT INTO public.satellite_assets AS sa (
			id, village_id, asset_type, latitude, longitude, area_hectares,
			confidence_score, detected_at, satellite_image_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + projection.Columns()

	args := []any{
		uuid.New(), villageID, cmd.AssetType, cmd.Latitude, cmd.Longitude,
		cmd.AreaHectares, cmd.ConfidenceScore, r.now(), cmd.SatelliteImageDate,
	}

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAsset)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrVillageNotFound, villageID)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("asset recorded", "id", a.ID, "village_id", villageID, "asset_type", a.AssetType)
	return &a, nil
}

func (r *repo) Counts(ctx context.Context, villageID uuid.UUID) (Counts, error) {
	q := `
		SELECT asset_type, COUNT(*)
		FROM public.satellite_assets
		WHERE village_id = $1
		GROUP BY asset_type`

	type row struct {
		assetType Type
		count     int
	}

	rows, err := repository.QueryMany(ctx, r.db, q, []any{villageID}, func(s repository.Scanner) (row, error) {
		var rw row
		err := s.Scan(&rw.assetType, &rw.count)
		return rw, err
	})
	if err != nil {
		return nil, fmt.Errorf("count assets by type: %w", err)
	}

	counts := make(Counts, len(rows))
	for _, rw := range rows {
		counts[rw.assetType] = rw.count
	}
	return counts, nil
}
