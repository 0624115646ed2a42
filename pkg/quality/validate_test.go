package quality_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fra-atlas/atlas/pkg/quality"
)

func numbers(vals ...float64) []quality.Value {
	out := make([]quality.Value, len(vals))
	for i, v := range vals {
		out[i] = quality.Number(v)
	}
	return out
}

// rowsOf builds rows from per-column slices of equal length.
func rowsOf(cols ...[]quality.Value) [][]quality.Value {
	if len(cols) == 0 {
		return nil
	}
	rows := make([][]quality.Value, len(cols[0]))
	for r := range rows {
		row := make([]quality.Value, len(cols))
		for c := range cols {
			row[c] = cols[c][r]
		}
		rows[r] = row
	}
	return rows
}

func seq(n int) []quality.Value {
	out := make([]quality.Value, n)
	for i := range out {
		out[i] = quality.Number(float64(i))
	}
	return out
}

func repeat(v quality.Value, n int) []quality.Value {
	out := make([]quality.Value, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		columns   []string
		rows      [][]quality.Value
		wantScore float64
		wantTypes []string
		wantCols  []string
	}{
		{
			name:      "clean dataset",
			columns:   []string{"id", "area"},
			rows:      rowsOf(seq(5), numbers(1.5, 2.5, 3.5, 4.5, 5.5)),
			wantScore: 1.0,
			wantTypes: []string{},
			wantCols:  []string{},
		},
		{
			name:    "high missing ratio",
			columns: []string{"id", "name"},
			rows: rowsOf(
				seq(4),
				[]quality.Value{quality.Text("a"), quality.Missing(), quality.Missing(), quality.Text("d")},
			),
			wantScore: 0.7,
			wantTypes: []string{"missing_values"},
			wantCols:  []string{""},
		},
		{
			name:    "medium missing ratio",
			columns: []string{"id", "name"},
			rows: rowsOf(
				seq(8),
				[]quality.Value{
					quality.Text("a"), quality.Text("b"), quality.Missing(), quality.Missing(),
					quality.Text("e"), quality.Text("f"), quality.Text("g"), quality.Text("h"),
				},
			),
			wantScore: 0.9,
			wantTypes: []string{"missing_values"},
			wantCols:  []string{""},
		},
		{
			name:      "duplicates above five percent",
			columns:   []string{"id"},
			rows:      rowsOf(numbers(1, 2, 3, 4, 5, 6, 7, 8, 9, 9)),
			wantScore: 0.8,
			wantTypes: []string{"duplicates"},
			wantCols:  []string{""},
		},
		{
			name:      "uniform numeric column with more than ten rows",
			columns:   []string{"id", "area"},
			rows:      rowsOf(seq(11), repeat(quality.Number(5), 11)),
			wantScore: 0.7,
			wantTypes: []string{"suspicious_uniformity"},
			wantCols:  []string{"area"},
		},
		{
			name:      "uniform numeric column at ten rows",
			columns:   []string{"id", "area"},
			rows:      rowsOf(seq(10), repeat(quality.Number(5), 10)),
			wantScore: 1.0,
			wantTypes: []string{},
			wantCols:  []string{},
		},
		{
			name:    "numeric strings in text column",
			columns: []string{"id", "area"},
			rows: rowsOf(
				seq(3),
				[]quality.Value{quality.Text("1.5"), quality.Text(" 2 "), quality.Text("3")},
			),
			wantScore: 0.95,
			wantTypes: []string{"data_type_issue"},
			wantCols:  []string{"area"},
		},
		{
			name:    "mixed text column is not a type issue",
			columns: []string{"id", "area"},
			rows: rowsOf(
				seq(3),
				[]quality.Value{quality.Text("1.5"), quality.Text("two"), quality.Text("3")},
			),
			wantScore: 1.0,
			wantTypes: []string{},
			wantCols:  []string{},
		},
		{
			name:    "penalties accumulate",
			columns: []string{"a", "b", "c"},
			rows: rowsOf(
				append(repeat(quality.Missing(), 6), repeat(quality.Number(1), 6)...),
				append(repeat(quality.Missing(), 6), numbers(1, 2, 3, 4, 5, 6)...),
				repeat(quality.Text("7"), 12),
			),
			wantScore: 0.15,
			wantTypes: []string{"missing_values", "duplicates", "suspicious_uniformity", "data_type_issue"},
			wantCols:  []string{"", "", "a", "c"},
		},
		{
			name:      "empty dataset",
			columns:   []string{"id"},
			rows:      nil,
			wantScore: 1.0,
			wantTypes: []string{},
			wantCols:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := quality.NewDataset(tt.columns, tt.rows)
			require.NoError(t, err)

			report, err := quality.Validate(ds, "claims")
			require.NoError(t, err)

			assert.Equal(t, tt.wantScore, report.ConfidenceScore)
			assert.Equal(t, tt.wantTypes, report.CheckTypes())
			assert.Equal(t, len(tt.wantTypes) == 0, report.Valid)
			assert.Equal(t, len(tt.rows), report.TotalRows)
			assert.Equal(t, len(tt.columns), report.TotalColumns)

			cols := make([]string, len(report.Issues))
			for i, issue := range report.Issues {
				cols[i] = issue.Column
			}
			assert.Equal(t, tt.wantCols, cols)
		})
	}
}

func TestValidateScoreFloor(t *testing.T) {
	cols := make([][]quality.Value, 5)
	names := make([]string, 5)
	for i := range cols {
		names[i] = string(rune('a' + i))
		cols[i] = append(repeat(quality.Missing(), 6), repeat(quality.Number(2), 6)...)
	}

	ds, err := quality.NewDataset(names, rowsOf(cols...))
	require.NoError(t, err)

	report, err := quality.Validate(ds, "villages")
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.ConfidenceScore)
	assert.False(t, report.Valid)
}

func TestValidateIgnoresDatasetType(t *testing.T) {
	ds, err := quality.NewDataset([]string{"id", "area"}, rowsOf(seq(12), repeat(quality.Number(2), 12)))
	require.NoError(t, err)

	claims, err := quality.Validate(ds, "claims")
	require.NoError(t, err)
	untyped, err := quality.Validate(ds, "")
	require.NoError(t, err)

	assert.Equal(t, claims, untyped)
}

func TestValidateRowOrderIndependent(t *testing.T) {
	rows := rowsOf(
		numbers(1, 2, 3, 3, 5, 6, 7, 8, 9, 10, 11, 12),
		[]quality.Value{
			quality.Text("x"), quality.Missing(), quality.Text("y"), quality.Text("y"),
			quality.Missing(), quality.Text("z"), quality.Text("x"), quality.Missing(),
			quality.Text("x"), quality.Text("q"), quality.Text("r"), quality.Text("s"),
		},
	)

	reversed := make([][]quality.Value, len(rows))
	for i, row := range rows {
		reversed[len(rows)-1-i] = row
	}

	a, err := quality.Validate(quality.Dataset{Columns: []string{"id", "name"}, Rows: rows}, "claims")
	require.NoError(t, err)
	b, err := quality.Validate(quality.Dataset{Columns: []string{"id", "name"}, Rows: reversed}, "claims")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestValidateDistinguishesKinds(t *testing.T) {
	ds := quality.Dataset{
		Columns: []string{"v"},
		Rows:    [][]quality.Value{{quality.Number(1)}, {quality.Text("1")}},
	}

	report, err := quality.Validate(ds, "")
	require.NoError(t, err)
	assert.NotContains(t, report.CheckTypes(), "duplicates")
}

func TestValidateMalformed(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		rows    [][]quality.Value
		wantRow int
	}{
		{"ragged row", []string{"a", "b"}, [][]quality.Value{{quality.Number(1), quality.Number(2)}, {quality.Number(1)}}, 1},
		{"duplicate column", []string{"a", "a"}, nil, -1},
		{"empty column", []string{"a", " "}, nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := quality.Validate(quality.Dataset{Columns: tt.columns, Rows: tt.rows}, "claims")
			require.Error(t, err)

			var dfe *quality.DataFormatError
			require.True(t, errors.As(err, &dfe))
			assert.Equal(t, tt.wantRow, dfe.Row)
		})
	}
}
