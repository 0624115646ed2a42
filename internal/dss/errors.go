package dss

import (
	"errors"
	"net/http"
)

// Domain errors for decision support operations.
var (
	ErrNotFound        = errors.New("recommendation not found")
	ErrDuplicate       = errors.New("recommendation already exists")
	ErrVillageNotFound = errors.New("village not found")
	ErrInvalidID       = errors.New("invalid village id")
)

// MapHTTPStatus maps decision support errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrVillageNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
