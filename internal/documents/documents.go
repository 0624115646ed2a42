// Package documents implements claim document intake. Uploaded scans are
// kept in blob storage, run through OCR and the form extraction pipeline,
// and recorded against their claim with the extracted entities.
package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/extract"
)

// Status is the processing outcome of a stored document.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusFailed    Status = "failed"
)

// Document is a claim document with its blob reference and extraction results.
// Extraction fields are nil when processing failed.
type Document struct {
	ID                   uuid.UUID        `json:"id"`
	ClaimID              uuid.UUID        `json:"claim_id"`
	DocumentType         string           `json:"document_type"`
	Filename             string           `json:"filename"`
	ContentType          string           `json:"content_type"`
	SizeBytes            int64            `json:"size_bytes"`
	PageCount            *int             `json:"page_count"`
	StorageKey           string           `json:"storage_key"`
	Status               Status           `json:"status"`
	ExtractedText        *string          `json:"extracted_text"`
	Language             *string          `json:"language"`
	FormType             *string          `json:"form_type"`
	FormConfidence       *float64         `json:"form_confidence"`
	Entities             extract.Entities `json:"entities"`
	ExtractionConfidence *float64         `json:"extraction_confidence"`
	ExtractionQuality    *string          `json:"extraction_quality"`
	Error                *string          `json:"error"`
	ProcessedAt          time.Time        `json:"processed_at"`
}

// CreateCommand carries an uploaded claim document.
// Language and FormType are optional declarations; empty means detect.
type CreateCommand struct {
	Data         []byte
	Filename     string
	ContentType  string
	ClaimID      uuid.UUID
	DocumentType string
	Language     string
	FormType     string
	PageCount    *int
}

// ExtractTextCommand runs the extraction pipeline over already recognized text.
type ExtractTextCommand struct {
	Text     string  `json:"text"`
	Language *string `json:"language,omitempty"`
	FormType *string `json:"form_type,omitempty"`
}

// Options converts the optional declarations into pipeline options.
func (c ExtractTextCommand) Options() extract.Options {
	var opts extract.Options
	if c.Language != nil {
		opts.Language = *c.Language
	}
	if c.FormType != nil {
		opts.FormType = *c.FormType
	}
	return opts
}

// Analysis is the outcome of OCR plus extraction for one document.
type Analysis struct {
	Text   string
	Pages  int
	Result extract.Result
}

// ExtractionResponse is returned by the stateless extraction endpoints.
type ExtractionResponse struct {
	Filename      string         `json:"filename,omitempty"`
	ExtractedText string         `json:"extracted_text"`
	Pages         int            `json:"pages,omitempty"`
	Result        extract.Result `json:"result"`
}

// buildDocument assembles the stored record. A nil analysis marks the
// document failed with procErr as the reason.
func buildDocument(
	id uuid.UUID,
	cmd CreateCommand,
	key string,
	analysis *Analysis,
	procErr error,
	previewLength int,
	now time.Time,
) Document {
	d := Document{
		ID:           id,
		ClaimID:      cmd.ClaimID,
		DocumentType: cmd.DocumentType,
		Filename:     cmd.Filename,
		ContentType:  cmd.ContentType,
		SizeBytes:    int64(len(cmd.Data)),
		PageCount:    cmd.PageCount,
		StorageKey:   key,
		ProcessedAt:  now,
	}

	if analysis == nil {
		d.Status = StatusFailed
		if procErr != nil {
			msg := procErr.Error()
			d.Error = &msg
		}
		return d
	}

	res := analysis.Result
	preview := Preview(analysis.Text, previewLength)
	lang := string(res.Language)
	form := string(res.FormType)
	formConfidence := res.FormConfidence
	confidence := res.ExtractionConfidence.Confidence
	quality := string(res.ExtractionConfidence.Quality)

	d.Status = StatusProcessed
	d.ExtractedText = &preview
	d.Language = &lang
	d.FormType = &form
	d.FormConfidence = &formConfidence
	d.Entities = res.Entities
	d.ExtractionConfidence = &confidence
	d.ExtractionQuality = &quality

	if d.PageCount == nil && analysis.Pages > 0 {
		pages := analysis.Pages
		d.PageCount = &pages
	}

	return d
}

// Preview truncates text to limit runes, marking the cut with "...".
func Preview(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
