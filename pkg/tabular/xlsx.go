package tabular

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/fra-atlas/atlas/pkg/quality"
)

// ParseXLSX reads the first worksheet of a workbook. The first row is the
// header. Trailing empty cells are not stored by spreadsheets, so short
// rows are padded with missing values and blank rows are skipped.
func ParseXLSX(r io.Reader) (quality.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return quality.Dataset{}, &quality.DataFormatError{Row: -1, Reason: fmt.Sprintf("open workbook: %v", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return quality.Dataset{}, &quality.DataFormatError{Row: -1, Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return quality.Dataset{}, &quality.DataFormatError{Row: -1, Reason: fmt.Sprintf("read sheet %s: %v", sheets[0], err)}
	}

	var records [][]string
	for _, row := range rows {
		if blank(row) {
			continue
		}
		records = append(records, row)
	}

	if len(records) == 0 {
		return quality.Dataset{}, &quality.DataFormatError{Row: -1, Reason: "missing header row"}
	}

	return build(records[0], records[1:], true)
}

func blank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
