package schemes

import (
	_ "embed"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/handlers"
	"github.com/fra-atlas/atlas/pkg/pagination"
	"github.com/fra-atlas/atlas/pkg/routes"
	"github.com/fra-atlas/atlas/pkg/schema"
)

//go:embed schemas/create.json
var createSchemaSrc []byte

var createSchema = schema.MustCompile("schemes/create.json", createSchemaSrc)

// Handler provides HTTP endpoints for scheme enrolments.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "schemes"),
		pagination: pagination,
	}
}

// Routes returns the enrolment endpoints nested under a village.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/villages/{id}/schemes",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
		},
	}
}

// List returns a page of the village's enrolments, latest start first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	villageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	result, err := h.sys.List(r.Context(), villageID, page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create enrols a beneficiary of the village in a scheme.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	villageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}

	cmd, err := schema.Decode[CreateCommand](createSchema, body)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	e, err := h.sys.Create(r.Context(), villageID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, e)
}
