package db

import (
	"github.com/google/uuid"

	"github.com/jakechorley/shift-roster/pkg/core/model"
)

// Run represents one stored scheduling run
type Run struct {
	ID                string `ssql_header:"id" ssql_type:"uuid"`
	Created           string `ssql_header:"created" ssql_type:"timestamp"` // RFC3339, UTC
	Seed              string `ssql_header:"seed" ssql_type:"text"`
	ShiftCount        int    `ssql_header:"shift_count" ssql_type:"int"`
	AssignmentCount   int    `ssql_header:"assignment_count" ssql_type:"int"`
	UnderstaffedCount int    `ssql_header:"understaffed_count" ssql_type:"int"`
	Success           bool   `ssql_header:"success" ssql_type:"bool"`
}

// Assignment represents one stored assignment record of a run
type Assignment struct {
	ID           string  `ssql_header:"id" ssql_type:"uuid"`
	RunID        string  `ssql_header:"run_id" ssql_type:"uuid"`
	Position     int     `ssql_header:"position" ssql_type:"int"`
	ShiftDate    string  `ssql_header:"shift_date" ssql_type:"text"`
	Weekday      string  `ssql_header:"weekday" ssql_type:"text"`
	ShiftType    string  `ssql_header:"shift_type" ssql_type:"text"`
	StartTime    string  `ssql_header:"start_time" ssql_type:"text"`
	EndTime      string  `ssql_header:"end_time" ssql_type:"text"`
	EmployeeName string  `ssql_header:"employee_name" ssql_type:"text"`
	Hours        float64 `ssql_header:"hours" ssql_type:"float"`
}

// NewAssignments converts engine records into rows for a run, keeping their order
func NewAssignments(runID string, records []model.AssignmentRecord) []Assignment {
	assignments := make([]Assignment, len(records))
	for i, r := range records {
		assignments[i] = Assignment{
			ID:           uuid.New().String(),
			RunID:        runID,
			Position:     i,
			ShiftDate:    r.Date,
			Weekday:      r.Weekday,
			ShiftType:    r.ShiftType,
			StartTime:    r.StartTime,
			EndTime:      r.EndTime,
			EmployeeName: r.EmployeeName,
			Hours:        r.Hours,
		}
	}
	return assignments
}

// Record converts a stored row back into an engine record
func (a Assignment) Record() model.AssignmentRecord {
	return model.AssignmentRecord{
		Date:         a.ShiftDate,
		Weekday:      a.Weekday,
		ShiftType:    a.ShiftType,
		StartTime:    a.StartTime,
		EndTime:      a.EndTime,
		EmployeeName: a.EmployeeName,
		Hours:        a.Hours,
	}
}
