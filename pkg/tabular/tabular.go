// Package tabular decodes uploaded tables into quality datasets. Column
// types are inferred the way spreadsheet tools do: a column whose every
// present cell parses as a number is numeric, otherwise every cell is text.
package tabular

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fra-atlas/atlas/pkg/quality"
)

// Format is a supported table encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported table format")

// FormatFromName picks a format from a file extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Parse decodes r according to format.
func Parse(r io.Reader, format Format) (quality.Dataset, error) {
	switch format {
	case FormatCSV:
		return ParseCSV(r)
	case FormatXLSX:
		return ParseXLSX(r)
	default:
		return quality.Dataset{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
	"-":    {},
}

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(raw string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// build turns a header and string records into a typed dataset. Records
// shorter than the header are padded with missing cells when pad is set.
func build(header []string, records [][]string, pad bool) (quality.Dataset, error) {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	for i, rec := range records {
		switch {
		case len(rec) > len(columns):
			return quality.Dataset{}, &quality.DataFormatError{
				Row:    i,
				Reason: fmt.Sprintf("row has %d cells, header has %d", len(rec), len(columns)),
			}
		case len(rec) < len(columns) && !pad:
			return quality.Dataset{}, &quality.DataFormatError{
				Row:    i,
				Reason: fmt.Sprintf("row has %d cells, header has %d", len(rec), len(columns)),
			}
		}
	}

	numeric := make([]bool, len(columns))
	for c := range columns {
		numeric[c] = numericColumn(records, c)
	}

	rows := make([][]quality.Value, len(records))
	for r, rec := range records {
		row := make([]quality.Value, len(columns))
		for c := range columns {
			if c >= len(rec) || IsMissing(rec[c]) {
				continue
			}
			raw := strings.TrimSpace(rec[c])
			if numeric[c] {
				f, _ := strconv.ParseFloat(raw, 64)
				row[c] = quality.Number(f)
			} else {
				row[c] = quality.Text(raw)
			}
		}
		rows[r] = row
	}

	return quality.NewDataset(columns, rows)
}

func numericColumn(records [][]string, c int) bool {
	for _, rec := range records {
		if c >= len(rec) || IsMissing(rec[c]) {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(rec[c]), 64); err != nil {
			return false
		}
	}
	return true
}
