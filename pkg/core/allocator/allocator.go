package allocator

import (
	"fmt"

	"github.com/jakechorley/shift-roster/pkg/core/model"
)

// Allocator assigns employees to shifts for a single scheduling run
type Allocator struct {
	policy     StaffingPolicy
	tieBreaker TieBreaker
	state      *RosterState
}

// AllocationConfig contains the configuration for creating a new Allocator
type AllocationConfig struct {
	// Employees in roster order. Their AssignedHours and Assignments are
	// updated in place as shifts are staffed.
	Employees []*model.Employee

	// Shifts in the order they should be staffed
	Shifts []*model.ShiftSlot

	// Policy gives min/max headcount per shift type (DefaultStaffingPolicy if nil)
	Policy StaffingPolicy

	// TieBreaker orders employees with equal hours (random seed if nil)
	TieBreaker TieBreaker
}

// AllocationOutcome represents the result of a scheduling run
type AllocationOutcome struct {
	// State is the final roster state after allocation
	State *RosterState

	// Success indicates every shift met its minimum and had a known shift type
	Success bool

	// ValidationErrors lists understaffed shifts and shifts with no staffing policy
	ValidationErrors []ShiftValidationError
}

// Records returns the assignment records in emission order
func (o *AllocationOutcome) Records() []model.AssignmentRecord {
	return o.State.Records
}

// InitAllocation validates the configuration and builds an Allocator
func InitAllocation(config AllocationConfig) (*Allocator, error) {
	seen := make(map[string]bool, len(config.Employees))
	for i, e := range config.Employees {
		if e == nil {
			return nil, fmt.Errorf("employee %d is nil", i)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("duplicate employee name %q", e.Name)
		}
		seen[e.Name] = true
	}

	for i, s := range config.Shifts {
		if s == nil {
			return nil, fmt.Errorf("shift %d is nil", i)
		}
	}

	policy := config.Policy
	if policy == nil {
		policy = DefaultStaffingPolicy()
	}

	tieBreaker := config.TieBreaker
	if tieBreaker == nil {
		tieBreaker = NewRandomTieBreaker(RandomSeed())
	}

	return &Allocator{
		policy:     policy,
		tieBreaker: tieBreaker,
		state: &RosterState{
			Employees:     config.Employees,
			Shifts:        config.Shifts,
			ShiftOutcomes: make([]ShiftOutcome, 0, len(config.Shifts)),
			Records:       []model.AssignmentRecord{},
		},
	}, nil
}

// Allocate staffs every shift in order and reports the outcome.
// Staffing shortfalls, unknown shift types and unparsable input never fail
// the run; they are reported through the outcome's validation errors.
func Allocate(config AllocationConfig) (*AllocationOutcome, error) {
	allocator, err := InitAllocation(config)
	if err != nil {
		return nil, err
	}

	// Each shift sees the hours left by every shift before it
	for _, shift := range allocator.state.Shifts {
		outcome := allocator.allocateShift(shift)
		allocator.state.ShiftOutcomes = append(allocator.state.ShiftOutcomes, outcome)
	}

	return allocator.buildOutcome(), nil
}

// allocateShift selects employees for one shift and commits the assignments
func (a *Allocator) allocateShift(shift *model.ShiftSlot) ShiftOutcome {
	bounds := a.policy.Lookup(shift.ShiftType)

	candidates := a.candidatesFor(shift)
	ranked := RankByHours(candidates, a.tieBreaker)

	outcome := ShiftOutcome{
		Shift:          shift,
		Bounds:         bounds,
		CandidateCount: len(candidates),
	}

	var chosen []*model.Employee
	if len(ranked) >= bounds.Min {
		chosen = ranked[:min(bounds.Max, len(ranked))]
	} else {
		// Shortage: take every candidate, then top up to the minimum from
		// everyone else regardless of declared availability
		chosen = ranked
		pool := RankByHours(a.excluding(chosen), a.tieBreaker)
		extra := pool[:min(bounds.Min-len(chosen), len(pool))]
		chosen = append(chosen, extra...)

		for _, e := range extra {
			outcome.Fallback = append(outcome.Fallback, e.Name)
		}
	}

	for _, e := range chosen {
		a.assign(e, shift)
		outcome.Chosen = append(outcome.Chosen, e.Name)
	}

	return outcome
}

// candidatesFor returns employees whose availability matches the shift, in roster order
func (a *Allocator) candidatesFor(shift *model.ShiftSlot) []*model.Employee {
	candidates := make([]*model.Employee, 0, len(a.state.Employees))
	for _, e := range a.state.Employees {
		if e.IsCandidate(shift) {
			candidates = append(candidates, e)
		}
	}
	return candidates
}

// excluding returns every employee not in chosen, in roster order
func (a *Allocator) excluding(chosen []*model.Employee) []*model.Employee {
	chosenSet := make(map[*model.Employee]bool, len(chosen))
	for _, e := range chosen {
		chosenSet[e] = true
	}

	rest := make([]*model.Employee, 0, len(a.state.Employees)-len(chosen))
	for _, e := range a.state.Employees {
		if !chosenSet[e] {
			rest = append(rest, e)
		}
	}
	return rest
}

// assign commits one employee to a shift and emits its record
func (a *Allocator) assign(e *model.Employee, shift *model.ShiftSlot) {
	e.AssignedHours += shift.Hours
	e.Assignments = append(e.Assignments, shift.Ref())
	a.state.Records = append(a.state.Records, model.NewAssignmentRecord(shift, e.Name))
}

// buildOutcome creates the final allocation outcome report
func (a *Allocator) buildOutcome() *AllocationOutcome {
	outcome := &AllocationOutcome{
		State:            a.state,
		ValidationErrors: ValidateRosterState(a.state, a.policy),
	}
	outcome.Success = len(outcome.ValidationErrors) == 0
	return outcome
}
