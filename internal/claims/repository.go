package claims

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

const statusLogColumns = "id, claim_id, old_status, new_status, changed_by, notes, changed_at"

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// New creates a PostgreSQL-backed claim repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "claims"),
		pagination: pagination,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Claim], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "BeneficiaryName", "ClaimNumber", "VillageName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	claims, total, err := repository.QueryPage(ctx, r.db, qb, page.Page, page.PageSize, scanClaim)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}

	result := pagination.NewPageResult(claims, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Claim, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClaim)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Claim, error) {
	c := newClaim(cmd, r.now())

	q := `
		INSERT INTO public.forest_claims AS c (
			id, claim_type, claim_number, village_id, village_name,
			beneficiary_name, beneficiary_father_name, tribe_name, area_claimed,
			status, submitted_date, last_updated, verification_status,
			linked_schemes, survey_number
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, '[]'::jsonb, $14)
		RETURNING ` + projection.Columns()

	args := []any{
		c.ID, c.ClaimType, c.ClaimNumber, c.VillageID, c.VillageName,
		c.BeneficiaryName, c.BeneficiaryFatherName, c.TribeName, c.AreaClaimed,
		c.Status, c.SubmittedDate, c.LastUpdated, c.VerificationStatus,
		c.SurveyNumber,
	}

	created, err := repository.QueryOne(ctx, r.db, q, args, scanClaim)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrVillageNotFound, cmd.VillageID)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("claim created", "id", created.ID, "claim_number", created.ClaimNumber)
	return &created, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Claim, error) {
	schemes, err := schemesParam(cmd.LinkedSchemes)
	if err != nil {
		return nil, fmt.Errorf("encode linked_schemes: %w", err)
	}

	q := `
		UPDATE public.forest_claims AS c SET
			assigned_officer = COALESCE($2, c.assigned_officer),
			linked_schemes = COALESCE($3::jsonb, c.linked_schemes),
			survey_number = COALESCE($4, c.survey_number),
			patta_number = COALESCE($5, c.patta_number),
			granted_area = COALESCE($6, c.granted_area),
			last_updated = $7
		WHERE c.id = $1
		RETURNING ` + projection.Columns()

	args := []any{id, cmd.AssignedOfficer, schemes, cmd.SurveyNumber, cmd.PattaNumber, cmd.GrantedArea, r.now()}

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClaim)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("claim updated", "id", id)
	return &c, nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, cmd StatusCommand) (*Claim, error) {
	selectSQL, selectArgs := query.NewBuilder(projection).BuildSingle("ID", id)

	updateSQL := `
		UPDATE public.forest_claims AS c SET
			status = $2,
			assigned_officer = $3,
			verification_status = $4,
			field_verification_date = $5,
			granted_date = $6,
			last_updated = $7
		WHERE c.id = $1
		RETURNING ` + projection.Columns()

	logSQL := `
		INSERT INTO public.claim_status_log (` + statusLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var change StatusChange
	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Claim, error) {
		current, err := repository.QueryOne(ctx, tx, selectSQL+" FOR UPDATE", selectArgs, scanClaim)
		if err != nil {
			return Claim{}, err
		}

		change = applyStatus(&current, cmd, r.now())

		updated, err := repository.QueryOne(ctx, tx, updateSQL, []any{
			current.ID,
			current.Status,
			current.AssignedOfficer,
			current.VerificationStatus,
			current.FieldVerificationDate,
			current.GrantedDate,
			current.LastUpdated,
		}, scanClaim)
		if err != nil {
			return Claim{}, err
		}

		if _, err := tx.ExecContext(ctx, logSQL,
			change.ID,
			change.ClaimID,
			change.OldStatus,
			change.NewStatus,
			change.ChangedBy,
			change.Notes,
			change.ChangedAt,
		); err != nil {
			return Claim{}, fmt.Errorf("insert status log: %w", err)
		}

		return updated, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"claim status changed",
		"id", id,
		"old_status", change.OldStatus,
		"new_status", change.NewStatus,
		"changed_by", change.ChangedBy,
	)
	return &c, nil
}

func (r *repo) History(ctx context.Context, id uuid.UUID) (*History, error) {
	var exists bool
	if err := r.db.QueryRowContext(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM public.forest_claims WHERE id = $1)",
		id,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check claim: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	q := `
		SELECT ` + statusLogColumns + `
		FROM public.claim_status_log
		WHERE claim_id = $1
		ORDER BY changed_at DESC`

	changes, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanStatusChange)
	if err != nil {
		return nil, fmt.Errorf("query claim history: %w", err)
	}

	return &History{ClaimID: id, History: changes}, nil
}

func (r *repo) Progress(ctx context.Context, state string) (*Progress, error) {
	q := `
		SELECT c.status, COUNT(*)
		FROM public.forest_claims c
		LEFT JOIN public.villages v ON v.id = c.village_id
		WHERE LOWER(v.state) = LOWER($1) OR c.village_name ILIKE $2
		GROUP BY c.status`

	type bucket struct {
		status Status
		count  int
	}

	buckets, err := repository.QueryMany(ctx, r.db, q, []any{state, "%" + state + "%"},
		func(s repository.Scanner) (bucket, error) {
			var b bucket
			err := s.Scan(&b.status, &b.count)
			return b, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query state progress: %w", err)
	}

	counts := make(map[Status]int, len(buckets))
	for _, b := range buckets {
		counts[b.status] = b.count
	}

	p := newProgress(state, counts)
	return &p, nil
}
