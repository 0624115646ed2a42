package tabular_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fra-atlas/atlas/pkg/quality"
	"github.com/fra-atlas/atlas/pkg/tabular"
)

func TestParseCSV(t *testing.T) {
	input := "claim_id,village,area\n1,Banswara,2.5\n2,Rampur,NA\n3, Kondagaon ,4\n"

	ds, err := tabular.ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"claim_id", "village", "area"}, ds.Columns)
	require.Len(t, ds.Rows, 3)

	f, ok := ds.Rows[0][2].Float()
	require.True(t, ok)
	assert.Equal(t, 2.5, f)

	assert.True(t, ds.Rows[1][2].IsMissing())
	assert.Equal(t, quality.KindText, ds.Rows[2][1].Kind())
	assert.Equal(t, "Kondagaon", ds.Rows[2][1].String())
}

func TestParseCSVByteOrderMark(t *testing.T) {
	for name, input := range map[string]string{
		"bare header":   "\ufeffid,village\n1,Rampur\n",
		"quoted header": "\ufeff\"id\",village\n1,Rampur\n",
	} {
		t.Run(name, func(t *testing.T) {
			ds, err := tabular.ParseCSV(strings.NewReader(input))
			require.NoError(t, err)
			assert.Equal(t, []string{"id", "village"}, ds.Columns)
		})
	}
}

func TestParseCSVMixedColumnIsText(t *testing.T) {
	ds, err := tabular.ParseCSV(strings.NewReader("code\n12\nA7\n"))
	require.NoError(t, err)

	for _, row := range ds.Rows {
		assert.Equal(t, quality.KindText, row[0].Kind())
	}
}

func TestParseCSVMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"ragged", "a,b\n1,2\n3\n"},
		{"duplicate header", "a,a\n1,2\n"},
		{"bare quote", "a,b\n1,\"x\"y\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tabular.ParseCSV(strings.NewReader(tt.input))
			var dfe *quality.DataFormatError
			assert.True(t, errors.As(err, &dfe), "got %v", err)
		})
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	data := [][]any{
		{"village", "households", "notes"},
		{"Banswara", 40, "surveyed"},
		{"Rampur", 40},
		{"Kondagaon", 12, "N/A"},
	}
	for r, row := range data {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := tabular.ParseXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, []string{"village", "households", "notes"}, ds.Columns)
	require.Len(t, ds.Rows, 3)

	n, ok := ds.Rows[0][1].Float()
	require.True(t, ok)
	assert.Equal(t, 40.0, n)
	assert.True(t, ds.Rows[1][2].IsMissing())
	assert.True(t, ds.Rows[2][2].IsMissing())
}

func TestParseXLSXInvalid(t *testing.T) {
	_, err := tabular.ParseXLSX(strings.NewReader("not a workbook"))
	var dfe *quality.DataFormatError
	assert.True(t, errors.As(err, &dfe))
}

func TestFromRecords(t *testing.T) {
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": 1, "area": "2.5", "village": "Banswara", "active": true},
		{"id": 2, "area": "3", "village": null, "active": false}
	]`), &records))

	ds, err := tabular.FromRecords(records)
	require.NoError(t, err)

	assert.Equal(t, []string{"active", "area", "id", "village"}, ds.Columns)
	assert.Equal(t, quality.KindText, ds.Rows[0][0].Kind())
	assert.Equal(t, quality.KindText, ds.Rows[0][1].Kind())
	assert.Equal(t, quality.KindNumber, ds.Rows[0][2].Kind())
	assert.True(t, ds.Rows[1][3].IsMissing())

	report, err := quality.Validate(ds, "claims")
	require.NoError(t, err)
	assert.Contains(t, report.CheckTypes(), "data_type_issue")
}

func TestFromRecordsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		records []map[string]any
	}{
		{"different keys", []map[string]any{{"a": 1.0}, {"b": 1.0}}},
		{"extra key", []map[string]any{{"a": 1.0}, {"a": 1.0, "b": 2.0}}},
		{"nested value", []map[string]any{{"a": map[string]any{"x": 1.0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tabular.FromRecords(tt.records)
			var dfe *quality.DataFormatError
			assert.True(t, errors.As(err, &dfe))
		})
	}
}

func TestFormatFromName(t *testing.T) {
	f, err := tabular.FormatFromName("claims.CSV")
	require.NoError(t, err)
	assert.Equal(t, tabular.FormatCSV, f)

	f, err = tabular.FormatFromName("villages.xlsx")
	require.NoError(t, err)
	assert.Equal(t, tabular.FormatXLSX, f)

	_, err = tabular.FormatFromName("scan.pdf")
	assert.ErrorIs(t, err, tabular.ErrUnsupportedFormat)
}
