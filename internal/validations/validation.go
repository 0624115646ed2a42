// Package validations runs data-quality checks over uploaded FRA datasets
// and keeps the resulting reports so that low-confidence datasets can be
// reviewed by an officer.
package validations

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/quality"
)

// Status is the review state of a validation record.
type Status string

const (
	StatusPending Status = "pending"
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
)

// ReviewThreshold is the confidence score below which a dataset needs manual review.
const ReviewThreshold = 0.7

// Validation is a stored data-quality report for one dataset.
type Validation struct {
	ID                   uuid.UUID       `json:"id"`
	DatasetName          string          `json:"dataset_name"`
	DatasetType          string          `json:"dataset_type"`
	ValidationStatus     Status          `json:"validation_status"`
	ConfidenceScore      float64         `json:"confidence_score"`
	IssuesFound          []quality.Issue `json:"issues_found"`
	RecordCount          int             `json:"record_count"`
	ColumnCount          int             `json:"column_count"`
	RequiresManualReview bool            `json:"requires_manual_review"`
	ValidatedAt          time.Time       `json:"validated_at"`
	ValidatedBy          *string         `json:"validated_by"`
	Notes                *string         `json:"notes"`
}

// CreateCommand carries a decoded dataset to be validated and recorded.
type CreateCommand struct {
	DatasetName string
	DatasetType string
	Dataset     quality.Dataset
}

// RecordsCommand is the JSON form of a dataset submitted as rows.
type RecordsCommand struct {
	DatasetName string           `json:"dataset_name"`
	DatasetType string           `json:"dataset_type"`
	Records     []map[string]any `json:"records"`
}

// ReviewCommand records an officer's verdict on a validation.
type ReviewCommand struct {
	Status      Status  `json:"status"`
	Notes       *string `json:"notes,omitempty"`
	ValidatedBy *string `json:"validated_by,omitempty"`
}

// assess validates the dataset and builds the pending record for it.
func assess(cmd CreateCommand, now time.Time) (Validation, error) {
	report, err := quality.Validate(cmd.Dataset, cmd.DatasetType)
	if err != nil {
		return Validation{}, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}

	issues := report.Issues
	if issues == nil {
		issues = []quality.Issue{}
	}

	return Validation{
		ID:                   uuid.New(),
		DatasetName:          cmd.DatasetName,
		DatasetType:          cmd.DatasetType,
		ValidationStatus:     StatusPending,
		ConfidenceScore:      report.ConfidenceScore,
		IssuesFound:          issues,
		RecordCount:          report.TotalRows,
		ColumnCount:          report.TotalColumns,
		RequiresManualReview: report.ConfidenceScore < ReviewThreshold,
		ValidatedAt:          now,
	}, nil
}

func applyReview(v *Validation, cmd ReviewCommand, now time.Time) {
	v.ValidationStatus = cmd.Status
	v.Notes = cmd.Notes
	v.ValidatedBy = cmd.ValidatedBy
	v.ValidatedAt = now
}
