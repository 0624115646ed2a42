// Package extract classifies Forest Rights Act claim documents and pulls
// structured fields out of their OCR text. Every function is pure; a
// Registry is immutable and may be shared across goroutines.
package extract

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Placeholder coordinates attached to every result. They are not derived
// from the document.
const (
	PlaceholderLatitude  = 21.2514
	PlaceholderLongitude = 81.6296
)

// Coordinates is a location attached to an extraction result.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Source    string  `json:"source"`
}

// Options adjusts Process. Zero values mean detect.
type Options struct {
	Language string
	FormType string
}

// Result is the outcome of running the extraction pipeline on one document.
type Result struct {
	FormType             FormType    `json:"formType"`
	FormConfidence       float64     `json:"formConfidence"`
	Language             Language    `json:"language"`
	Entities             Entities    `json:"entities"`
	Coordinates          Coordinates `json:"coordinates"`
	ExtractionConfidence Validation  `json:"extractionConfidence"`
}

// Process normalizes text, classifies it unless a form type is declared,
// extracts the form's fields and scores the extraction.
func (r *Registry) Process(text string, opts Options) (Result, error) {
	text = norm.NFC.String(text)
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrNoTextExtracted
	}

	lang, err := ParseLanguage(opts.Language)
	if err != nil {
		return Result{}, err
	}
	if lang == "" {
		lang = DetectLanguage(text)
	}

	var (
		form       FormType
		confidence float64
	)
	if opts.FormType != "" {
		if form, err = ParseFormType(opts.FormType); err != nil {
			return Result{}, err
		}
		confidence = 1
	} else {
		form, confidence = r.Classify(text)
	}

	schema, err := r.Schema(form)
	if err != nil {
		return Result{}, err
	}

	entities := extract(text, schema, lang)

	return Result{
		FormType:       form,
		FormConfidence: confidence,
		Language:       lang,
		Entities:       entities,
		Coordinates: Coordinates{
			Latitude:  PlaceholderLatitude,
			Longitude: PlaceholderLongitude,
			Source:    "placeholder",
		},
		ExtractionConfidence: ScoreExtraction(entities, schema),
	}, nil
}

// Process runs the pipeline against the default registry.
func Process(text, declaredLanguage string) (Result, error) {
	return Default().Process(text, Options{Language: declaredLanguage})
}
