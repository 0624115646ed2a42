package extract

// Quality grades extraction completeness.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

const (
	highConfidence   = 70
	mediumConfidence = 40
)

// Validation summarizes how much of a schema was extracted.
type Validation struct {
	Confidence      float64 `json:"confidence"`
	ExtractedFields int     `json:"extracted_fields"`
	TotalFields     int     `json:"total_fields"`
	Quality         Quality `json:"quality"`
}

// ScoreExtraction reports the percentage of schema fields present in
// entities. Entities outside the schema are ignored.
func ScoreExtraction(entities Entities, schema Schema) Validation {
	present := 0
	for _, f := range schema.fields {
		if entities.Present(f.Name) {
			present++
		}
	}

	v := Validation{
		ExtractedFields: present,
		TotalFields:     schema.Len(),
	}
	if v.TotalFields > 0 {
		v.Confidence = float64(present*100) / float64(v.TotalFields)
	}

	switch {
	case v.Confidence > highConfidence:
		v.Quality = QualityHigh
	case v.Confidence > mediumConfidence:
		v.Quality = QualityMedium
	default:
		v.Quality = QualityLow
	}
	return v
}
