package satellite

import (
	_ "embed"
	"io"
	"log/slog"
	"net/http"

	"github.com/fra-atlas/atlas/pkg/handlers"
	"github.com/fra-atlas/atlas/pkg/routes"
	"github.com/fra-atlas/atlas/pkg/schema"
)

//go:embed schemas/analyze.json
var analyzeSchemaSrc []byte

var analyzeSchema = schema.MustCompile("satellite/analyze.json", analyzeSchemaSrc)

// Handler serves the satellite analysis endpoint.
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger.With("handler", "satellite")}
}

// Routes returns the route group definition for satellite endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/satellite",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/analyze", Handler: h.Analyze},
		},
	}
}

// Analyze returns the land report for the posted coordinates. An empty body
// analyzes the default coordinates.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}

	var cmd AnalyzeCommand
	if len(body) > 0 {
		cmd, err = schema.Decode[AnalyzeCommand](analyzeSchema, body)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
	}

	handlers.RespondJSON(w, http.StatusOK, Analyze(cmd))
}
