package allocator

import "fmt"

// Names of the checks run against a finished roster
const (
	CriterionStaffingMinimum = "StaffingMinimum"
	CriterionKnownShiftType  = "KnownShiftType"
)

// ShiftValidationError represents a validation error for a specific shift
type ShiftValidationError struct {
	ShiftIndex    int
	ShiftDate     string
	ShiftType     string
	CriterionName string
	Description   string
}

// ValidateRosterState checks the finished roster against the staffing policy.
// A shift is reported when its type has no policy entry, or when fewer
// employees than the minimum could be placed because the roster is too small.
func ValidateRosterState(state *RosterState, policy StaffingPolicy) []ShiftValidationError {
	errors := []ShiftValidationError{}

	for _, outcome := range state.ShiftOutcomes {
		shift := outcome.Shift

		if !policy.Knows(shift.ShiftType) {
			errors = append(errors, ShiftValidationError{
				ShiftIndex:    shift.Index,
				ShiftDate:     shift.Date,
				ShiftType:     shift.ShiftType,
				CriterionName: CriterionKnownShiftType,
				Description:   fmt.Sprintf("no staffing policy for shift type %q, nobody assigned", shift.ShiftType),
			})
			continue
		}

		if outcome.Understaffed() {
			errors = append(errors, ShiftValidationError{
				ShiftIndex:    shift.Index,
				ShiftDate:     shift.Date,
				ShiftType:     shift.ShiftType,
				CriterionName: CriterionStaffingMinimum,
				Description: fmt.Sprintf("assigned %d of minimum %d (only %d employees on the roster)",
					len(outcome.Chosen), outcome.Bounds.Min, len(state.Employees)),
			})
		}
	}

	return errors
}
