package claims

import (
	"embed"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/handlers"
	"github.com/fra-atlas/atlas/pkg/pagination"
	"github.com/fra-atlas/atlas/pkg/routes"
	"github.com/fra-atlas/atlas/pkg/schema"
)

const maxBodySize = 1 << 20

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	createSchema = mustSchema("create.json")
	updateSchema = mustSchema("update.json")
	statusSchema = mustSchema("status.json")
)

func mustSchema(name string) *schema.Schema {
	src, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(err)
	}
	return schema.MustCompile("claims/"+name, src)
}

// Handler provides HTTP endpoints for claim operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "claims"),
		pagination: pagination,
	}
}

// Routes returns the claim endpoints and the state progress endpoint.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/claims",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List},
					{Method: "POST", Pattern: "", Handler: h.Create},
					{Method: "GET", Pattern: "/{id}", Handler: h.Find},
					{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
					{Method: "PUT", Pattern: "/{id}/status", Handler: h.SetStatus},
					{Method: "GET", Pattern: "/{id}/history", Handler: h.History},
				},
			},
			{
				Prefix: "/progress",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/state/{state}", Handler: h.Progress},
				},
			},
		},
	}
}

// List returns a paginated list of claims filtered by status, village_id, and claim_type.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single claim by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	c, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Create registers a new claim in pending status.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, ok := decode[CreateCommand](h, w, r, createSchema)
	if !ok {
		return
	}

	c, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, c)
}

// Update applies a partial update to a claim.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	cmd, ok := decode[UpdateCommand](h, w, r, updateSchema)
	if !ok {
		return
	}

	c, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// SetStatus moves a claim to a new status and records the change.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	cmd, ok := decode[StatusCommand](h, w, r, statusSchema)
	if !ok {
		return
	}

	c, err := h.sys.SetStatus(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// History returns a claim's status log, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	history, err := h.sys.History(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, history)
}

// Progress returns claim adjudication progress for the state path parameter.
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	p, err := h.sys.Progress(r.Context(), r.PathValue("state"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func decode[T any](h *Handler, w http.ResponseWriter, r *http.Request, s *schema.Schema) (T, bool) {
	var zero T

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return zero, false
	}

	cmd, err := schema.Decode[T](s, body)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return zero, false
	}
	return cmd, true
}
