package documents

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/fra-atlas/atlas/pkg/extract"
	"github.com/fra-atlas/atlas/pkg/formatting"
	"github.com/fra-atlas/atlas/pkg/ocr"
	"github.com/fra-atlas/atlas/pkg/schema"
	"github.com/fra-atlas/atlas/pkg/storage"
)

// Domain errors for document operations.
var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicate     = errors.New("document already exists")
	ErrFileTooLarge  = errors.New("file exceeds maximum upload size")
	ErrInvalidFile   = errors.New("invalid file")
	ErrInvalidID     = errors.New("invalid document id")
	ErrClaimNotFound = errors.New("claim not found")
)

// MapHTTPStatus maps document, ocr, and extraction errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	var formErr *extract.UnsupportedFormTypeError

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrClaimNotFound), errors.Is(err, extract.ErrNoTextExtracted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidFile),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, extract.ErrUnsupportedLanguage),
		errors.Is(err, schema.ErrInvalidPayload),
		errors.As(err, &formErr):
		return http.StatusBadRequest
	case errors.Is(err, ocr.ErrUnsupportedContentType),
		errors.Is(err, ocr.ErrTooManyPages),
		errors.Is(err, ocr.ErrRenderFailed),
		errors.Is(err, ocr.ErrRecognizeFailed):
		return ocr.MapHTTPStatus(err)
	}
	return storage.MapHTTPStatus(err)
}

// formError classifies a ParseMultipartForm failure. Only an exceeded body
// limit is a size error; anything else is a malformed upload.
func formError(err error, limit int64) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
		return tooLarge(limit)
	}
	return fmt.Errorf("%w: %v", ErrInvalidFile, err)
}

func tooLarge(limit int64) error {
	return fmt.Errorf("%w of %s", ErrFileTooLarge, formatting.FormatBytes(limit, 0))
}
