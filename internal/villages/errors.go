package villages

import (
	"errors"
	"net/http"

	"github.com/fra-atlas/atlas/pkg/schema"
)

// Domain errors for village operations.
var (
	ErrNotFound  = errors.New("village not found")
	ErrDuplicate = errors.New("village code already exists")
	ErrInUse     = errors.New("village has dependent records")
	ErrInvalidID = errors.New("invalid village id")
)

// MapHTTPStatus maps village domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInUse):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidID), errors.Is(err, schema.ErrInvalidPayload):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
