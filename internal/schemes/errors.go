package schemes

import (
	"errors"
	"net/http"

	"github.com/fra-atlas/atlas/pkg/schema"
)

// Domain errors for scheme enrolment operations.
var (
	ErrNotFound        = errors.New("enrolment not found")
	ErrDuplicate       = errors.New("beneficiary already enrolled in scheme")
	ErrVillageNotFound = errors.New("village not found")
	ErrInvalidID       = errors.New("invalid village id")
	ErrInvalidPeriod   = errors.New("end_date precedes start_date")
)

// MapHTTPStatus maps enrolment domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrVillageNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidPeriod),
		errors.Is(err, schema.ErrInvalidPayload):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
