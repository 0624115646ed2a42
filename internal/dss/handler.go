package dss

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/handlers"
	"github.com/fra-atlas/atlas/pkg/routes"
)

// Handler provides HTTP endpoints for decision support.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "dss"),
	}
}

// Routes returns the route group definition for decision support endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/dss",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/recommendations/{villageId}", Handler: h.Recommendation},
		},
	}
}

// Recommendation returns the scheme recommendation for a village.
func (h *Handler) Recommendation(w http.ResponseWriter, r *http.Request) {
	villageID, err := uuid.Parse(r.PathValue("villageId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	rec, err := h.sys.Recommendation(r.Context(), villageID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}
