// Package quality scores tabular datasets for data-quality problems.
// Validation is a pure function of its input: the same multiset of rows
// always yields the same Report regardless of row order.
package quality

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the dynamic type of a cell.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindText
)

// Value is a single dataset cell. The zero Value is missing.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Missing returns a missing cell.
func Missing() Value {
	return Value{}
}

// Number returns a numeric cell.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text returns a text cell.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsMissing() bool {
	return v.kind == KindMissing
}

// Float returns the numeric value and whether the cell is numeric.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// String renders the cell the way it would appear in a CSV file.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// Coercible reports whether the cell can be read as a number.
// Missing cells are coercible; they become NaN.
func (v Value) Coercible() bool {
	switch v.kind {
	case KindText:
		_, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		return err == nil
	default:
		return true
	}
}

// key encodes the cell with its kind so that 1 and "1" stay distinct.
func (v Value) key(b *strings.Builder) {
	s := v.String()
	fmt.Fprintf(b, "%d:%d:%s|", v.kind, len(s), s)
}

// Dataset is an ordered table whose rows are aligned to Columns.
type Dataset struct {
	Columns []string
	Rows    [][]Value
}

// NewDataset builds a Dataset and checks its shape.
func NewDataset(columns []string, rows [][]Value) (Dataset, error) {
	ds := Dataset{Columns: columns, Rows: rows}
	if err := ds.check(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// Column returns every cell of the column at index i.
func (d Dataset) Column(i int) []Value {
	out := make([]Value, len(d.Rows))
	for r, row := range d.Rows {
		out[r] = row[i]
	}
	return out
}

func (d Dataset) check() error {
	seen := make(map[string]struct{}, len(d.Columns))
	for _, c := range d.Columns {
		if strings.TrimSpace(c) == "" {
			return &DataFormatError{Row: -1, Reason: "empty column name"}
		}
		if _, dup := seen[c]; dup {
			return &DataFormatError{Row: -1, Column: c, Reason: "duplicate column name"}
		}
		seen[c] = struct{}{}
	}

	for i, row := range d.Rows {
		if len(row) != len(d.Columns) {
			return &DataFormatError{
				Row:    i,
				Reason: fmt.Sprintf("row has %d cells, want %d", len(row), len(d.Columns)),
			}
		}
	}
	return nil
}
