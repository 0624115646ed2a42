package ocr

import (
	"errors"
	"net/http"
)

var (
	ErrUnsupportedContentType = errors.New("unsupported content type for ocr")
	ErrTooManyPages           = errors.New("document exceeds page limit")
	ErrRenderFailed           = errors.New("pdf render failed")
	ErrRecognizeFailed        = errors.New("text recognition failed")
)

// MapHTTPStatus maps ocr errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnsupportedContentType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrTooManyPages):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrRenderFailed), errors.Is(err, ErrRecognizeFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
