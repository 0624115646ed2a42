package validations

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/fra-atlas/atlas/pkg/formatting"
	"github.com/fra-atlas/atlas/pkg/schema"
	"github.com/fra-atlas/atlas/pkg/tabular"
)

// Domain errors for validation operations.
var (
	ErrNotFound       = errors.New("validation not found")
	ErrDuplicate      = errors.New("validation already exists")
	ErrInvalidID      = errors.New("invalid validation id")
	ErrInvalidDataset = errors.New("invalid dataset")
	ErrInvalidFile    = errors.New("invalid file")
	ErrFileTooLarge   = errors.New("file exceeds maximum upload size")
)

// MapHTTPStatus maps validation domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, tabular.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrInvalidDataset):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidFile),
		errors.Is(err, schema.ErrInvalidPayload):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
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
