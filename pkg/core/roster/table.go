package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMissingColumn is returned when an input table lacks a required column
var ErrMissingColumn = errors.New("missing required column")

// Table is a parsed tabular dataset: a header row plus data rows of cell text
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewTable builds a table, trimming surrounding whitespace from header names.
// When a header name repeats, the last occurrence wins.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{
		Header: make([]string, len(header)),
		Rows:   rows,
		index:  make(map[string]int, len(header)),
	}
	for i, name := range header {
		trimmed := strings.TrimSpace(name)
		t.Header[i] = trimmed
		t.index[trimmed] = i
	}
	return t
}

// ParseDelimited reads a delimiter-separated table whose first record is the header
func ParseDelimited(r io.Reader, delimiter rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("table has no header row")
	}

	// Drop a UTF-8 byte order mark left by spreadsheet exports
	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")

	return NewTable(records[0], records[1:]), nil
}

// HasColumn reports whether the header contains the named column
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// RequireColumns returns an error naming every required column that is absent
func (t *Table) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// Value returns the cell for a column in a row, or "" when the column or cell is absent
func (t *Table) Value(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
