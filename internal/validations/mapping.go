package validations

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/fra-atlas/atlas/pkg/query"
	"github.com/fra-atlas/atlas/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "data_validations", "dv").
	Project("id", "ID").
	Project("dataset_name", "DatasetName").
	Project("dataset_type", "DatasetType").
	Project("validation_status", "ValidationStatus").
	Project("confidence_score", "ConfidenceScore").
	Project("issues_found", "IssuesFound").
	Project("record_count", "RecordCount").
	Project("column_count", "ColumnCount").
	Project("requires_manual_review", "RequiresManualReview").
	Project("validated_at", "ValidatedAt").
	Project("validated_by", "ValidatedBy").
	Project("notes", "Notes")

var defaultSort = query.SortField{
	Field:      "ValidatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for validation queries.
// Nil fields are ignored. DatasetName uses case-insensitive contains matching.
type Filters struct {
	Status               *string `json:"validation_status,omitempty"`
	DatasetType          *string `json:"dataset_type,omitempty"`
	DatasetName          *string `json:"dataset_name,omitempty"`
	RequiresManualReview *bool   `json:"requires_manual_review,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ValidationStatus", f.Status).
		WhereEquals("DatasetType", f.DatasetType).
		WhereContains("DatasetName", f.DatasetName).
		WhereEquals("RequiresManualReview", f.RequiresManualReview)
}

// Matches reports whether v satisfies every set filter.
func (f Filters) Matches(v Validation) bool {
	if f.Status != nil && string(v.ValidationStatus) != *f.Status {
		return false
	}
	if f.DatasetType != nil && v.DatasetType != *f.DatasetType {
		return false
	}
	if f.DatasetName != nil && !strings.Contains(strings.ToLower(v.DatasetName), strings.ToLower(*f.DatasetName)) {
		return false
	}
	if f.RequiresManualReview != nil && v.RequiresManualReview != *f.RequiresManualReview {
		return false
	}
	return true
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("validation_status"); s != "" {
		f.Status = &s
	}

	if t := values.Get("dataset_type"); t != "" {
		f.DatasetType = &t
	}

	if n := values.Get("dataset_name"); n != "" {
		f.DatasetName = &n
	}

	if r := values.Get("requires_manual_review"); r != "" {
		if v, err := strconv.ParseBool(r); err == nil {
			f.RequiresManualReview = &v
		}
	}

	return f
}

func scanValidation(s repository.Scanner) (Validation, error) {
	var (
		v      Validation
		issues []byte
	)
	err := s.Scan(
		&v.ID,
		&v.DatasetName,
		&v.DatasetType,
		&v.ValidationStatus,
		&v.ConfidenceScore,
		&issues,
		&v.RecordCount,
		&v.ColumnCount,
		&v.RequiresManualReview,
		&v.ValidatedAt,
		&v.ValidatedBy,
		&v.Notes,
	)
	if err != nil {
		return v, err
	}

	if err := json.Unmarshal(issues, &v.IssuesFound); err != nil {
		return v, fmt.Errorf("decode issues_found: %w", err)
	}
	return v, nil
}
