package tabular

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/fra-atlas/atlas/pkg/quality"
)

// FromRecords builds a dataset from decoded JSON rows. Columns are sorted
// by name and every row must carry the same keys. Values keep their JSON
// type: numbers are numeric, strings and booleans are text, null is missing.
func FromRecords(records []map[string]any) (quality.Dataset, error) {
	if len(records) == 0 {
		return quality.NewDataset([]string{}, nil)
	}

	columns := slices.Sorted(maps.Keys(records[0]))

	rows := make([][]quality.Value, len(records))
	for r, rec := range records {
		if len(rec) != len(columns) {
			return quality.Dataset{}, &quality.DataFormatError{
				Row:    r,
				Reason: fmt.Sprintf("row has %d fields, want %d", len(rec), len(columns)),
			}
		}

		row := make([]quality.Value, len(columns))
		for c, name := range columns {
			raw, ok := rec[name]
			if !ok {
				return quality.Dataset{}, &quality.DataFormatError{Row: r, Column: name, Reason: "field missing from row"}
			}

			v, err := valueOf(raw)
			if err != nil {
				return quality.Dataset{}, &quality.DataFormatError{Row: r, Column: name, Reason: err.Error()}
			}
			row[c] = v
		}
		rows[r] = row
	}

	return quality.NewDataset(columns, rows)
}

func valueOf(raw any) (quality.Value, error) {
	switch v := raw.(type) {
	case nil:
		return quality.Missing(), nil
	case float64:
		if math.IsNaN(v) {
			return quality.Missing(), nil
		}
		return quality.Number(v), nil
	case int:
		return quality.Number(float64(v)), nil
	case int64:
		return quality.Number(float64(v)), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return quality.Value{}, fmt.Errorf("invalid number %q", v)
		}
		return quality.Number(f), nil
	case string:
		return quality.Text(v), nil
	case bool:
		return quality.Text(strconv.FormatBool(v)), nil
	default:
		return quality.Value{}, fmt.Errorf("unsupported value of type %T", raw)
	}
}
