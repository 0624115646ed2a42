package extract

import (
	"errors"
	"fmt"
)

var (
	ErrNoTextExtracted     = errors.New("no text extracted from document")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrInvalidRegistry     = errors.New("invalid form registry")
)

// UnsupportedFormTypeError reports a form type with no registered schema.
type UnsupportedFormTypeError struct {
	FormType string
}

func (e *UnsupportedFormTypeError) Error() string {
	return fmt.Sprintf("unsupported form type %q", e.FormType)
}
