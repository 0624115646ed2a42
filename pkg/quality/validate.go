package quality

import "strings"

// CheckType names the rule that produced an Issue.
type CheckType string

const (
	CheckMissingValues        CheckType = "missing_values"
	CheckDuplicates           CheckType = "duplicates"
	CheckSuspiciousUniformity CheckType = "suspicious_uniformity"
	CheckTypeMismatch         CheckType = "data_type_issue"
)

// Severity grades an Issue.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Issue is a single data-quality finding.
type Issue struct {
	CheckType CheckType `json:"check_type"`
	Severity  Severity  `json:"severity"`
	Column    string    `json:"column,omitempty"`
}

// Report is the outcome of validating a dataset.
type Report struct {
	ConfidenceScore float64 `json:"confidence_score"`
	Issues          []Issue `json:"issues"`
	Valid           bool    `json:"valid"`
	TotalRows       int     `json:"total_rows"`
	TotalColumns    int     `json:"total_columns"`
}

// CheckTypes returns the check type of every issue, in report order.
func (r Report) CheckTypes() []string {
	out := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		out[i] = string(issue.CheckType)
	}
	return out
}

// Penalties are kept in hundredths so the final score is an exact
// decimal regardless of which checks fire.
const (
	penaltyMissingHigh   = 30
	penaltyMissingMedium = 10
	penaltyDuplicates    = 20
	penaltyUniformity    = 30
	penaltyTypeMismatch  = 5

	missingHighRatio   = 0.2
	missingMediumRatio = 0.1
	duplicateRatio     = 0.05
	uniformityMinRows  = 10
)

// Validate scores ds. The datasetType label is accepted for type-specific
// rules; the current rule set applies to every dataset type.
func Validate(ds Dataset, datasetType string) (Report, error) {
	if err := ds.check(); err != nil {
		return Report{}, err
	}

	var (
		issues  []Issue
		penalty int
	)

	add := func(issue Issue, p int) {
		issues = append(issues, issue)
		penalty += p
	}

	switch ratio := missingRatio(ds); {
	case ratio > missingHighRatio:
		add(Issue{CheckType: CheckMissingValues, Severity: SeverityHigh}, penaltyMissingHigh)
	case ratio > missingMediumRatio:
		add(Issue{CheckType: CheckMissingValues, Severity: SeverityMedium}, penaltyMissingMedium)
	}

	if duplicateFraction(ds) > duplicateRatio {
		add(Issue{CheckType: CheckDuplicates, Severity: SeverityMedium}, penaltyDuplicates)
	}

	for i, name := range ds.Columns {
		col := ds.Column(i)
		if isNumeric(col) && distinctNumbers(col) == 1 && len(ds.Rows) > uniformityMinRows {
			add(Issue{CheckType: CheckSuspiciousUniformity, Severity: SeverityHigh, Column: name}, penaltyUniformity)
		}
	}

	for i, name := range ds.Columns {
		col := ds.Column(i)
		if isText(col) && allCoercible(col) {
			add(Issue{CheckType: CheckTypeMismatch, Severity: SeverityLow, Column: name}, penaltyTypeMismatch)
		}
	}

	if issues == nil {
		issues = []Issue{}
	}

	return Report{
		ConfidenceScore: score(penalty),
		Issues:          issues,
		Valid:           len(issues) == 0,
		TotalRows:       len(ds.Rows),
		TotalColumns:    len(ds.Columns),
	}, nil
}

func score(penalty int) float64 {
	remaining := min(max(100-penalty, 0), 100)
	return float64(remaining) / 100
}

// missingRatio is the mean fraction of missing cells. Every column has the
// same row count, so the mean of per-column ratios equals the overall ratio.
func missingRatio(ds Dataset) float64 {
	cells := len(ds.Rows) * len(ds.Columns)
	if cells == 0 {
		return 0
	}

	missing := 0
	for _, row := range ds.Rows {
		for _, v := range row {
			if v.IsMissing() {
				missing++
			}
		}
	}
	return float64(missing) / float64(cells)
}

// duplicateFraction counts rows that repeat an earlier row exactly.
func duplicateFraction(ds Dataset) float64 {
	if len(ds.Rows) == 0 {
		return 0
	}

	seen := make(map[string]struct{}, len(ds.Rows))
	var b strings.Builder
	for _, row := range ds.Rows {
		b.Reset()
		for _, v := range row {
			v.key(&b)
		}
		seen[b.String()] = struct{}{}
	}

	dups := len(ds.Rows) - len(seen)
	return float64(dups) / float64(len(ds.Rows))
}

// isNumeric reports whether a column holds no text cells.
func isNumeric(col []Value) bool {
	for _, v := range col {
		if v.Kind() == KindText {
			return false
		}
	}
	return true
}

func isText(col []Value) bool {
	return !isNumeric(col)
}

func distinctNumbers(col []Value) int {
	seen := make(map[float64]struct{})
	for _, v := range col {
		if f, ok := v.Float(); ok {
			seen[f] = struct{}{}
		}
	}
	return len(seen)
}

func allCoercible(col []Value) bool {
	for _, v := range col {
		if !v.Coercible() {
			return false
		}
	}
	return true
}
