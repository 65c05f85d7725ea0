package metrics

import "time"

// RunStats summarises one scheduling run
type RunStats struct {
	Duration    time.Duration
	Success     bool
	Shifts      int
	Assignments int

	// FallbackAssignments counts placements made outside declared availability
	FallbackAssignments int

	// UnderstaffedByType counts shifts below their minimum, keyed by shift type
	UnderstaffedByType map[string]int

	// UnknownShiftTypes counts shifts whose type had no staffing policy
	UnknownShiftTypes int
}

// Collector receives run metrics
type Collector interface {
	RecordRun(stats RunStats)
}

// NopMetrics discards every metric
type NopMetrics struct{}

var _ Collector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordRun discards the run metrics
func (n *NopMetrics) RecordRun(_ RunStats) {}
