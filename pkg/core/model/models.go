package model

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jakechorley/shift-roster/pkg/core/clock"
)

// Shifts table columns
const (
	ColumnDate      = "Date"
	ColumnWeekday   = "Day of the Week"
	ColumnShiftType = "Midday or Night Shift"
	ColumnStartTime = "Shift Start Time"
	ColumnEndTime   = "Shift End Time"
	ColumnHours     = "Hours"
)

// Availability table and output columns
const (
	ColumnName         = "Name"
	ColumnEmployeeName = "Employee Name"
)

// Weekdays in availability-table order
var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// AvailabilityColumn returns the availability-table column for a weekday
func AvailabilityColumn(weekday string) string {
	return weekday + " Availability"
}

// ShiftColumns lists the required Shifts table columns
var ShiftColumns = []string{
	ColumnDate,
	ColumnWeekday,
	ColumnShiftType,
	ColumnStartTime,
	ColumnEndTime,
	ColumnHours,
}

// RecordColumns lists the output columns in order
var RecordColumns = []string{
	ColumnDate,
	ColumnWeekday,
	ColumnShiftType,
	ColumnStartTime,
	ColumnEndTime,
	ColumnEmployeeName,
	ColumnHours,
}

type Availability string

const (
	AvailabilityNone   Availability = ""
	AvailabilityMidday Availability = "Midday"
	AvailabilityNight  Availability = "Night"
	AvailabilityBoth   Availability = "Both"
)

// ClassifyAvailability maps free text to an availability tag by substring.
// "midday" is checked before "night", which is checked before "both".
func ClassifyAvailability(text string) Availability {
	value := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(value, "midday"):
		return AvailabilityMidday
	case strings.Contains(value, "night"):
		return AvailabilityNight
	case strings.Contains(value, "both"):
		return AvailabilityBoth
	default:
		return AvailabilityNone
	}
}

// Covers reports whether this availability admits a shift of the given type
func (a Availability) Covers(shiftType string) bool {
	if a == AvailabilityNone {
		return false
	}
	return a == AvailabilityBoth || string(a) == shiftType
}

// NormalizeShiftType upper-cases the first letter and lower-cases the rest
func NormalizeShiftType(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

// Employee is a worker together with their running ledger for one scheduling run
type Employee struct {
	Name          string
	Availability  map[string]Availability // keyed by weekday
	AssignedHours float64
	Assignments   []ShiftRef
}

// AvailabilityOn returns the employee's availability for a weekday (None if unknown)
func (e *Employee) AvailabilityOn(weekday string) Availability {
	return e.Availability[weekday]
}

// IsCandidate reports whether the employee declared availability for the shift
func (e *Employee) IsCandidate(shift *ShiftSlot) bool {
	return e.AvailabilityOn(shift.Weekday).Covers(shift.ShiftType)
}

// ShiftRef records a shift placed on an employee's history
type ShiftRef struct {
	Date  string
	Start clock.TimeOfDay
	End   clock.TimeOfDay
}

// ShiftSlot is one shift to be staffed
type ShiftSlot struct {
	// Index is the row position in the source table
	Index int

	// Date is the trimmed raw date text; ParsedDate is only meaningful when DateValid
	Date       string
	ParsedDate time.Time
	DateValid  bool

	// Weekday is used verbatim as the availability lookup key
	Weekday string

	// ShiftType is normalised with NormalizeShiftType
	ShiftType string

	// StartRaw and EndRaw are preserved for output
	StartRaw string
	EndRaw   string
	Start    clock.TimeOfDay
	End      clock.TimeOfDay

	Hours float64
}

// Before orders shifts by date then start time. Unparsable values sort last.
func (s *ShiftSlot) Before(other *ShiftSlot) bool {
	if s.DateValid != other.DateValid {
		return s.DateValid
	}
	if s.DateValid && !s.ParsedDate.Equal(other.ParsedDate) {
		return s.ParsedDate.Before(other.ParsedDate)
	}
	return s.Start.Before(other.Start)
}

// Ref returns the history entry recorded for employees placed on this shift
func (s *ShiftSlot) Ref() ShiftRef {
	return ShiftRef{Date: s.Date, Start: s.Start, End: s.End}
}

// AssignmentRecord is one (shift, employee) placement emitted by the engine
type AssignmentRecord struct {
	Date         string  `json:"Date"`
	Weekday      string  `json:"Day of the Week"`
	ShiftType    string  `json:"Midday or Night Shift"`
	StartTime    string  `json:"Shift Start Time"`
	EndTime      string  `json:"Shift End Time"`
	EmployeeName string  `json:"Employee Name"`
	Hours        float64 `json:"Hours"`
}

// NewAssignmentRecord builds the output record for an employee placed on a shift
func NewAssignmentRecord(shift *ShiftSlot, employeeName string) AssignmentRecord {
	return AssignmentRecord{
		Date:         shift.Date,
		Weekday:      shift.Weekday,
		ShiftType:    shift.ShiftType,
		StartTime:    shift.StartRaw,
		EndTime:      shift.EndRaw,
		EmployeeName: employeeName,
		Hours:        shift.Hours,
	}
}
