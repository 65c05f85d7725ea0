package roster

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jakechorley/shift-roster/pkg/core/clock"
	"github.com/jakechorley/shift-roster/pkg/core/model"
)

// BuildShifts builds the shift stream from the shifts table, ordered by
// date then start time. The sort is stable, so rows that compare equal
// keep their table order.
func BuildShifts(table *Table) ([]*model.ShiftSlot, error) {
	if err := table.RequireColumns(model.ShiftColumns...); err != nil {
		return nil, fmt.Errorf("shifts table: %w", err)
	}

	shifts := make([]*model.ShiftSlot, 0, len(table.Rows))
	for i, row := range table.Rows {
		shifts = append(shifts, parseShift(table, row, i))
	}

	sort.SliceStable(shifts, func(i, j int) bool {
		return shifts[i].Before(shifts[j])
	})

	return shifts, nil
}

func parseShift(table *Table, row []string, index int) *model.ShiftSlot {
	date := strings.TrimSpace(table.Value(row, model.ColumnDate))
	parsedDate, dateValid := clock.ParseDate(date)

	startRaw := table.Value(row, model.ColumnStartTime)
	endRaw := table.Value(row, model.ColumnEndTime)

	return &model.ShiftSlot{
		Index:      index,
		Date:       date,
		ParsedDate: parsedDate,
		DateValid:  dateValid,
		Weekday:    strings.TrimSpace(table.Value(row, model.ColumnWeekday)),
		ShiftType:  model.NormalizeShiftType(table.Value(row, model.ColumnShiftType)),
		StartRaw:   startRaw,
		EndRaw:     endRaw,
		Start:      clock.Parse(startRaw),
		End:        clock.Parse(endRaw),
		Hours:      ParseHours(table.Value(row, model.ColumnHours)),
	}
}

// ParseHours coerces cell text to a non-negative duration in hours.
// Blank, non-numeric, non-finite and negative values become 0.
func ParseHours(raw string) float64 {
	hours, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return 0
	}
	return hours
}
