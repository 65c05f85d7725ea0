package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/internal/config"
	"github.com/jakechorley/shift-roster/pkg/core/clock"
	"github.com/jakechorley/shift-roster/pkg/core/model"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
	"github.com/jakechorley/shift-roster/pkg/export"
)

const dateLayout = "2006-01-02"

type definedShift struct {
	date  time.Time
	start clock.TimeOfDay
	row   []string
}

// DefineRoster expands the shift templates into a Shifts table covering
// from..until inclusive. Rows are ordered by date then start time; templates
// that land on the same slot keep their configuration order.
func DefineRoster(templates []config.ShiftTemplate, from, until time.Time, logger *zap.Logger) (*roster.Table, error) {
	from = startOfDay(from)
	until = startOfDay(until)
	if until.Before(from) {
		return nil, fmt.Errorf("until date %s is before from date %s", until.Format(dateLayout), from.Format(dateLayout))
	}

	logger.Debug("Defining roster",
		zap.Int("template_count", len(templates)),
		zap.String("from", from.Format(dateLayout)),
		zap.String("until", until.Format(dateLayout)))

	var shifts []definedShift
	for i, template := range templates {
		rule, err := rrule.StrToRRule(template.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for template %d: %w", i, err)
		}

		rule.DTStart(from)
		occurrences := rule.Between(from, until, true)

		logger.Debug("Expanded template",
			zap.Int("index", i),
			zap.String("shift_type", template.ShiftType),
			zap.String("rrule", template.RRule),
			zap.Int("occurrences", len(occurrences)))

		shiftType := model.NormalizeShiftType(template.ShiftType)
		start := clock.Parse(template.Start)
		for _, occurrence := range occurrences {
			shifts = append(shifts, definedShift{
				date:  startOfDay(occurrence),
				start: start,
				row: []string{
					occurrence.Format(dateLayout),
					occurrence.Weekday().String(),
					shiftType,
					template.Start,
					template.End,
					export.FormatHours(template.Hours),
				},
			})
		}
	}

	sort.SliceStable(shifts, func(i, j int) bool {
		if !shifts[i].date.Equal(shifts[j].date) {
			return shifts[i].date.Before(shifts[j].date)
		}
		return shifts[i].start.Before(shifts[j].start)
	})

	rows := make([][]string, len(shifts))
	for i, s := range shifts {
		rows[i] = s.row
	}

	logger.Info("Roster defined", zap.Int("shift_count", len(rows)))

	return roster.NewTable(model.ShiftColumns, rows), nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
