package claims

import (
	"errors"
	"net/http"

	"github.com/fra-atlas/atlas/pkg/schema"
)

// Domain errors for claim operations.
var (
	ErrNotFound        = errors.New("claim not found")
	ErrDuplicate       = errors.New("claim already exists")
	ErrInvalidStatus   = errors.New("invalid claim status")
	ErrInvalidID       = errors.New("invalid claim id")
	ErrVillageNotFound = errors.New("village not found")
)

// MapHTTPStatus maps claim domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, schema.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, ErrVillageNotFound):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
