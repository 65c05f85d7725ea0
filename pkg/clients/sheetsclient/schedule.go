package sheetsclient

import (
	"fmt"
	"slices"

	"github.com/jakechorley/shift-roster/pkg/core/model"
)

// PublishSchedule writes the assignment records to a tab, creating the tab
// if needed and replacing any previous contents
func (c *Client) PublishSchedule(spreadsheetID, tab string, records []model.AssignmentRecord) error {
	titles, err := c.SheetTitles(spreadsheetID)
	if err != nil {
		return fmt.Errorf("failed to list tabs: %w", err)
	}

	if slices.Contains(titles, tab) {
		if err := c.ClearValues(spreadsheetID, tab); err != nil {
			return fmt.Errorf("failed to clear tab %s: %w", tab, err)
		}
	} else if _, err := c.CreateSheet(spreadsheetID, tab); err != nil {
		return fmt.Errorf("failed to create tab %s: %w", tab, err)
	}

	if err := c.UpdateValues(spreadsheetID, fmt.Sprintf("%s!A1", tab), scheduleRows(records)); err != nil {
		return fmt.Errorf("failed to write schedule to %s: %w", tab, err)
	}

	return nil
}

// scheduleRows lays out the header and one row per record in output column order
func scheduleRows(records []model.AssignmentRecord) [][]interface{} {
	header := make([]interface{}, len(model.RecordColumns))
	for i, name := range model.RecordColumns {
		header[i] = name
	}

	rows := make([][]interface{}, 0, len(records)+1)
	rows = append(rows, header)
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.Date,
			r.Weekday,
			r.ShiftType,
			r.StartTime,
			r.EndTime,
			r.EmployeeName,
			r.Hours,
		})
	}

	return rows
}
