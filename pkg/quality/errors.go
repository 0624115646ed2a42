package quality

import "fmt"

// DataFormatError reports a malformed dataset. Row is -1 when the problem
// is not tied to a single row.
type DataFormatError struct {
	Row    int
	Column string
	Reason string
}

func (e *DataFormatError) Error() string {
	switch {
	case e.Row >= 0 && e.Column != "":
		return fmt.Sprintf("data format: row %d, column %q: %s", e.Row+1, e.Column, e.Reason)
	case e.Row >= 0:
		return fmt.Sprintf("data format: row %d: %s", e.Row+1, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("data format: column %q: %s", e.Column, e.Reason)
	default:
		return "data format: " + e.Reason
	}
}
