package sheetsclient

import (
	"fmt"

	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

// ReadTable reads a whole tab as a table whose first row is the header
func (c *Client) ReadTable(spreadsheetID, tab string) (*roster.Table, error) {
	values, err := c.GetValues(spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to read tab %s: %w", tab, err)
	}

	table, err := tableFromValues(values)
	if err != nil {
		return nil, fmt.Errorf("tab %s: %w", tab, err)
	}

	return table, nil
}

// tableFromValues converts API cells to text. Trailing empty cells are
// omitted by the API, so rows may be shorter than the header.
func tableFromValues(values [][]interface{}) (*roster.Table, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("table has no header row")
	}

	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			if cell != nil {
				rows[i][j] = fmt.Sprint(cell)
			}
		}
	}

	return roster.NewTable(rows[0], rows[1:]), nil
}
