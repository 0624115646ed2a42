package dss

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/internal/assets"
	"github.com/fra-atlas/atlas/internal/villages"
	"github.com/fra-atlas/atlas/pkg/query"
	"github.com/fra-atlas/atlas/pkg/repository"
)

type repo struct {
	db       *sql.DB
	villages VillageFinder
	assets   AssetCounter
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a decision support system backed by PostgreSQL.
func New(db *sql.DB, villages VillageFinder, assets AssetCounter, logger *slog.Logger) System {
	return &repo{
		db:       db,
		villages: villages,
		assets:   assets,
		logger:   logger.With("system", "dss"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Recommendation(ctx context.Context, villageID uuid.UUID) (*Recommendation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("VillageID", villageID)

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecommendation)
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query recommendation: %w", err)
	}

	return r.derive(ctx, villageID)
}

func (r *repo) derive(ctx context.Context, villageID uuid.UUID) (*Recommendation, error) {
	if _, err := r.villages.Find(ctx, villageID); err != nil {
		if errors.Is(err, villages.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrVillageNotFound, villageID)
		}
		return nil, err
	}

	counts, err := r.assets.Counts(ctx, villageID)
	if err != nil {
		return nil, err
	}

	advice := Recommend(counts[assets.TypeWaterBody], counts[assets.TypeAgriculturalLand])
	rec := newRecommendation(uuid.New(), villageID, advice, r.now())

	schemes, err := json.Marshal(rec.RecommendedSchemes)
	if err != nil {
		return nil, fmt.Errorf("encode recommended_schemes: %w", err)
	}
	reasoning, err := json.Marshal(rec.Reasoning)
	if err != nil {
		return nil, fmt.Errorf("encode reasoning: %w", err)
	}

	// A concurrent request may store first; the existing row is returned.
	q := `
		INSERT INTO public.dss_recommendations AS dr (
			id, village_id, recommended_schemes, priority_score, reasoning,
			water_index, agricultural_potential, forest_dependency, created_at
		)
		VALUES ($1, $2, $3::jsonb, $4, $5::jsonb, $6, $7, $8, $9)
		ON CONFLICT (village_id) DO UPDATE SET village_id = EXCLUDED.village_id
		RETURNING ` + projection.Columns()

	args := []any{
		rec.ID, rec.VillageID, string(schemes), rec.PriorityScore, string(reasoning),
		rec.WaterIndex, rec.AgriculturalPotential, rec.ForestDependency, rec.CreatedAt,
	}

	stored, err := repository.QueryOne(ctx, r.db, q, args, scanRecommendation)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrVillageNotFound, villageID)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"recommendation derived",
		"village_id", villageID,
		"schemes", stored.RecommendedSchemes,
		"priority", stored.PriorityScore,
	)
	return &stored, nil
}
