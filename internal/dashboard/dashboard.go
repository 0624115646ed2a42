// Package dashboard aggregates headline figures across villages, claims,
// scheme enrolments, and processed documents.
package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fra-atlas/atlas/pkg/handlers"
	"github.com/fra-atlas/atlas/pkg/routes"
)

// Stats are the dashboard headline figures.
// MeanExtractionConfidence is nil until a document has been processed.
type Stats struct {
	TotalVillages            int      `json:"total_villages"`
	TotalClaims              int      `json:"total_claims"`
	ApprovedClaims           int      `json:"approved_claims"`
	PendingClaims            int      `json:"pending_claims"`
	DisputedClaims           int      `json:"disputed_claims"`
	SchemesLinked            int      `json:"schemes_linked"`
	DocumentsProcessed       int      `json:"documents_processed"`
	MeanExtractionConfidence *float64 `json:"mean_extraction_confidence"`
}

// System defines the public contract for dashboard figures.
type System interface {
	Handler() *Handler
	Stats(ctx context.Context) (*Stats, error)
}

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a dashboard system backed by PostgreSQL.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "dashboard"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

const statsQuery = `
	SELECT
		(SELECT COUNT(*) FROM public.villages),
		(SELECT COUNT(*) FROM public.forest_claims),
		(SELECT COUNT(*) FROM public.forest_claims WHERE status = 'approved'),
		(SELECT COUNT(*) FROM public.forest_claims WHERE status = 'pending'),
		(SELECT COUNT(*) FROM public.forest_claims WHERE status = 'disputed'),
		(SELECT COUNT(*) FROM public.scheme_enrolments),
		(SELECT COUNT(*) FROM public.claim_documents WHERE status = 'processed'),
		(SELECT AVG(extraction_confidence) FROM public.claim_documents WHERE status = 'processed')`

func (r *repo) Stats(ctx context.Context) (*Stats, error) {
	var (
		s    Stats
		mean sql.NullFloat64
	)

	err := r.db.QueryRowContext(ctx, statsQuery).Scan(
		&s.TotalVillages,
		&s.TotalClaims,
		&s.ApprovedClaims,
		&s.PendingClaims,
		&s.DisputedClaims,
		&s.SchemesLinked,
		&s.DocumentsProcessed,
		&mean,
	)
	if err != nil {
		return nil, fmt.Errorf("query dashboard stats: %w", err)
	}

	if mean.Valid {
		s.MeanExtractionConfidence = &mean.Float64
	}
	return &s, nil
}

// Handler provides the dashboard endpoint.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "dashboard"),
	}
}

// Routes returns the route group definition for dashboard endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/dashboard",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/stats", Handler: h.Stats},
		},
	}
}

// Stats returns the headline figures.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.sys.Stats(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s)
}
