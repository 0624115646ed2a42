package assets

import (
	"errors"
	"net/http"

	"github.com/fra-atlas/atlas/pkg/schema"
)

// Domain errors for asset operations.
var (
	ErrNotFound        = errors.New("asset not found")
	ErrDuplicate       = errors.New("asset already exists")
	ErrVillageNotFound = errors.New("village not found")
	ErrInvalidID       = errors.New("invalid village id")
)

// MapHTTPStatus maps asset domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrVillageNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidID), errors.Is(err, schema.ErrInvalidPayload):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
