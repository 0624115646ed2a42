package documents

import (
	_ "embed"
	"io"
	"log/slog"
	"net/http"

	"github.com/fra-atlas/atlas/pkg/handlers"
	"github.com/fra-atlas/atlas/pkg/routes"
	"github.com/fra-atlas/atlas/pkg/schema"
)

//go:embed schemas/extract_text.json
var extractTextSchemaSrc []byte

var extractTextSchema = schema.MustCompile("documents/extract_text.json", extractTextSchemaSrc)

// ExtractionHandler serves the stateless extraction endpoints. Nothing is
// stored, so it is available without a database.
type ExtractionHandler struct {
	processor     *Processor
	logger        *slog.Logger
	maxUploadSize int64
}

// NewExtractionHandler creates an ExtractionHandler.
func NewExtractionHandler(processor *Processor, logger *slog.Logger, maxUploadSize int64) *ExtractionHandler {
	return &ExtractionHandler{
		processor:     processor,
		logger:        logger.With("handler", "extraction"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the stateless extraction endpoints.
func (h *ExtractionHandler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/extract", Handler: h.Extract},
			{Method: "POST", Pattern: "/extract-text", Handler: h.ExtractText},
		},
	}
}

// Extract runs OCR and extraction over an uploaded "file" with optional
// "language" and "form_type" declarations.
func (h *ExtractionHandler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		err = formError(err, h.maxUploadSize)
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	opts, err := declaredOptions(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	data, filename, contentType, err := readUpload(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	analysis, err := h.processor.Analyze(r.Context(), data, contentType, opts)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ExtractionResponse{
		Filename:      filename,
		ExtractedText: Preview(analysis.Text, h.processor.PreviewLength()),
		Pages:         analysis.Pages,
		Result:        analysis.Result,
	})
}

// ExtractText runs extraction over text supplied as JSON.
func (h *ExtractionHandler) ExtractText(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadSize))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, tooLarge(h.maxUploadSize))
		return
	}

	cmd, err := schema.Decode[ExtractTextCommand](extractTextSchema, body)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := h.processor.ExtractText(cmd.Text, cmd.Options())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ExtractionResponse{
		ExtractedText: Preview(cmd.Text, h.processor.PreviewLength()),
		Result:        result,
	})
}
