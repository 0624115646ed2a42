package documents

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/query"
	"github.com/fra-atlas/atlas/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "claim_documents", "cd").
	Project("id", "ID").
	Project("claim_id", "ClaimID").
	Project("document_type", "DocumentType").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("status", "Status").
	Project("extracted_text", "ExtractedText").
	Project("language", "Language").
	Project("form_type", "FormType").
	Project("form_confidence", "FormConfidence").
	Project("entities", "Entities").
	Project("extraction_confidence", "ExtractionConfidence").
	Project("extraction_quality", "ExtractionQuality").
	Project("error", "Error").
	Project("processed_at", "ProcessedAt")

var defaultSort = query.SortField{
	Field:      "ProcessedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Filename uses case-insensitive contains matching;
// the rest match exactly.
type Filters struct {
	ClaimID      *uuid.UUID `json:"claim_id,omitempty"`
	Status       *string    `json:"status,omitempty"`
	DocumentType *string    `json:"document_type,omitempty"`
	FormType     *string    `json:"form_type,omitempty"`
	Filename     *string    `json:"filename,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ClaimID", f.ClaimID).
		WhereEquals("Status", f.Status).
		WhereEquals("DocumentType", f.DocumentType).
		WhereEquals("FormType", f.FormType).
		WhereContains("Filename", f.Filename)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("claim_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.ClaimID = &id
		}
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if dt := values.Get("document_type"); dt != "" {
		f.DocumentType = &dt
	}

	if ft := values.Get("form_type"); ft != "" {
		f.FormType = &ft
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var (
		d        Document
		entities []byte
	)
	err := s.Scan(
		&d.ID,
		&d.ClaimID,
		&d.DocumentType,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.Status,
		&d.ExtractedText,
		&d.Language,
		&d.FormType,
		&d.FormConfidence,
		&entities,
		&d.ExtractionConfidence,
		&d.ExtractionQuality,
		&d.Error,
		&d.ProcessedAt,
	)
	if err != nil {
		return d, err
	}

	if len(entities) > 0 {
		if err := json.Unmarshal(entities, &d.Entities); err != nil {
			return d, fmt.Errorf("decode entities: %w", err)
		}
	}
	return d, nil
}

// entitiesParam encodes entities for a jsonb parameter. Nil stays NULL.
func entitiesParam(e map[string]any) (any, error) {
	if e == nil {
		return nil, nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
