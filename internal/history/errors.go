package history

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns absent from an upload.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s (required: %s)",
		strings.Join(e.Missing, ", "), strings.Join(RequiredColumns, ", "))
}

// ParseError reports a whole-input structural problem: undecodable CSV or
// a date cell that cannot be read as a calendar date.
type ParseError struct {
	Row    int    // 1-based data row, 0 when the problem is not row-specific
	Column string // offending column, empty when not column-specific
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("row %d: cannot parse %s %q: %v", e.Row, e.Column, e.Value, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
