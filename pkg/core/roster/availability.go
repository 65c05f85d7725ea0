package roster

import (
	"fmt"
	"strings"

	"github.com/jakechorley/shift-roster/pkg/core/model"
)

// BuildEmployees builds the employee list from the availability table.
//
// Each weekday column is classified with model.ClassifyAvailability; a missing
// column or cell counts as unavailable. Rows with a blank name are skipped.
// A repeated name replaces the earlier row's availability but keeps the
// position of its first appearance.
func BuildEmployees(table *Table) ([]*model.Employee, error) {
	if err := table.RequireColumns(model.ColumnName); err != nil {
		return nil, fmt.Errorf("availability table: %w", err)
	}

	employees := make([]*model.Employee, 0, len(table.Rows))
	positions := make(map[string]int, len(table.Rows))

	for _, row := range table.Rows {
		name := strings.TrimSpace(table.Value(row, model.ColumnName))
		if name == "" {
			continue
		}

		availability := make(map[string]model.Availability, len(model.Weekdays))
		for _, weekday := range model.Weekdays {
			text := table.Value(row, model.AvailabilityColumn(weekday))
			availability[weekday] = model.ClassifyAvailability(text)
		}

		employee := &model.Employee{
			Name:         name,
			Availability: availability,
		}

		if pos, exists := positions[name]; exists {
			employees[pos] = employee
			continue
		}
		positions[name] = len(employees)
		employees = append(employees, employee)
	}

	return employees, nil
}
