package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/fra-atlas/atlas/pkg/quality"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads a comma-separated table whose first record is the header.
// A leading UTF-8 byte order mark is skipped.
func ParseCSV(r io.Reader) (quality.Dataset, error) {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return quality.Dataset{}, &quality.DataFormatError{
				Row:    max(pe.Line-2, 0),
				Reason: pe.Err.Error(),
			}
		}
		return quality.Dataset{}, fmt.Errorf("read csv: %w", err)
	}

	if len(records) == 0 {
		return quality.Dataset{}, &quality.DataFormatError{Row: -1, Reason: "missing header row"}
	}

	return build(records[0], records[1:], false)
}
