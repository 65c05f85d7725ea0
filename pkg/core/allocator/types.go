package allocator

import (
	"github.com/jakechorley/shift-roster/pkg/core/model"
)

// RosterState is the mutable state of one scheduling run. It is owned by a
// single Allocator and must not be shared between runs.
type RosterState struct {
	// Employees in roster order; their AssignedHours form the assignment ledger
	Employees []*model.Employee

	// Shifts in processing order
	Shifts []*model.ShiftSlot

	// ShiftOutcomes holds one entry per processed shift, in processing order
	ShiftOutcomes []ShiftOutcome

	// Records is the append-only assignment output
	Records []model.AssignmentRecord
}

// ShiftOutcome describes how a single shift was staffed
type ShiftOutcome struct {
	Shift  *model.ShiftSlot
	Bounds Bounds

	// CandidateCount is the number of employees whose availability matched
	CandidateCount int

	// Chosen lists every employee placed on the shift, available candidates first
	Chosen []string

	// Fallback lists the chosen employees drawn from outside the candidate set
	Fallback []string
}

// Understaffed reports whether fewer employees than the minimum were placed
func (o ShiftOutcome) Understaffed() bool {
	return len(o.Chosen) < o.Bounds.Min
}

// UsedFallback reports whether the shortage rule was applied
func (o ShiftOutcome) UsedFallback() bool {
	return len(o.Fallback) > 0
}

// Ledger returns each employee's assigned hours keyed by name
func (rs *RosterState) Ledger() map[string]float64 {
	ledger := make(map[string]float64, len(rs.Employees))
	for _, e := range rs.Employees {
		ledger[e.Name] = e.AssignedHours
	}
	return ledger
}

// Employee returns the named employee, or nil
func (rs *RosterState) Employee(name string) *model.Employee {
	for _, e := range rs.Employees {
		if e.Name == name {
			return e
		}
	}
	return nil
}
