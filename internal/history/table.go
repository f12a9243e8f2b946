package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// Decode reads a comma-separated history export. The first record is the
// header. Short rows are padded with empty cells; rows wider than the
// header are rejected, as is an input with no header at all.
func Decode(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Err: fmt.Errorf("no columns to parse from file")}
		}
		return nil, &ParseError{Err: fmt.Errorf("reading header: %w", err)}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	t := &Table{Columns: header}
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Row: len(t.Rows) + 1, Err: fmt.Errorf("reading row: %w", err)}
		}
		if len(rec) > len(header) {
			return nil, &ParseError{
				Row: len(t.Rows) + 1,
				Err: fmt.Errorf("expected %d fields, saw %d", len(header), len(rec)),
			}
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		t.Rows = append(t.Rows, rec)
	}

	return t, nil
}

// Missing returns the required columns absent from the header, in
// RequiredColumns order.
func (t *Table) Missing() []string {
	present := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		present[c] = true
	}
	var missing []string
	for _, c := range RequiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// CheckSchema returns a *SchemaError when any required column is missing.
func (t *Table) CheckSchema() error {
	if missing := t.Missing(); len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// Records maps every row onto a Record. The schema is checked first.
func (t *Table) Records() ([]Record, error) {
	if err := t.CheckSchema(); err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		// first occurrence wins for duplicated header names
		if _, ok := idx[c]; !ok {
			idx[c] = i
		}
	}

	records := make([]Record, 0, len(t.Rows))
	for i, row := range t.Rows {
		records = append(records, Record{
			Row:   i + 1,
			Order: row[idx["order"]],
			ID:    row[idx["id"]],
			Date:  row[idx["date"]],
			Time:  row[idx["time"]],
			Title: row[idx["title"]],
			URL:   row[idx["url"]],
		})
	}
	return records, nil
}

// Preview returns up to n leading rows.
func (t *Table) Preview(n int) [][]string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}
