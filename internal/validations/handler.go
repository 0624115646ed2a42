package validations

import (
	"embed"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/handlers"
	"github.com/fra-atlas/atlas/pkg/pagination"
	"github.com/fra-atlas/atlas/pkg/routes"
	"github.com/fra-atlas/atlas/pkg/schema"
	"github.com/fra-atlas/atlas/pkg/tabular"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	recordsSchema = mustSchema("records.json")
	reviewSchema  = mustSchema("review.json")
)

func mustSchema(name string) *schema.Schema {
	src, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(err)
	}
	return schema.MustCompile("validations/"+name, src)
}

// Handler provides HTTP endpoints for dataset validation.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, pagination config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "validations"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for validation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/validations",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "POST", Pattern: "/records", Handler: h.Records},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{id}/review", Handler: h.Review},
		},
	}
}

// List returns a paginated list of validation records.
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

// Find returns a single validation record by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	v, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

// Upload validates a CSV or XLSX file sent as multipart field "file" along
// with its "dataset_type".
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		err = formError(err, h.maxUploadSize)
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	datasetType := strings.TrimSpace(r.FormValue("dataset_type"))
	if datasetType == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: dataset_type is required", ErrInvalidFile))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	format, err := tabular.FormatFromName(header.Filename)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	ds, err := tabular.Parse(file, format)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidDataset, err)
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.create(w, r, CreateCommand{
		DatasetName: header.Filename,
		DatasetType: datasetType,
		Dataset:     ds,
	})
}

// Records validates a dataset submitted as a JSON array of rows.
func (h *Handler) Records(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadSize))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, tooLarge(h.maxUploadSize))
		return
	}

	cmd, err := schema.Decode[RecordsCommand](recordsSchema, body)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	ds, err := tabular.FromRecords(cmd.Records)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidDataset, err)
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.create(w, r, CreateCommand{
		DatasetName: cmd.DatasetName,
		DatasetType: cmd.DatasetType,
		Dataset:     ds,
	})
}

// Review records a pass or fail verdict on a validation.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}

	cmd, err := schema.Decode[ReviewCommand](reviewSchema, body)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	v, err := h.sys.Review(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, cmd CreateCommand) {
	v, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, v)
}
