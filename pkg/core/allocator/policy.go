package allocator

import (
	"fmt"

	"github.com/jakechorley/shift-roster/pkg/core/model"
)

// Bounds is the minimum and maximum headcount for a shift type
type Bounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// StaffingPolicy maps normalised shift type names to headcount bounds
type StaffingPolicy map[string]Bounds

// DefaultStaffingPolicy returns the reference policy
func DefaultStaffingPolicy() StaffingPolicy {
	return StaffingPolicy{
		"Midday": {Min: 3, Max: 5},
		"Night":  {Min: 8, Max: 10},
	}
}

// NewStaffingPolicy builds a policy, normalising shift type names and
// rejecting negative or inverted bounds
func NewStaffingPolicy(rules map[string]Bounds) (StaffingPolicy, error) {
	policy := make(StaffingPolicy, len(rules))
	for shiftType, bounds := range rules {
		name := model.NormalizeShiftType(shiftType)
		if name == "" {
			return nil, fmt.Errorf("staffing policy has a blank shift type")
		}
		if bounds.Min < 0 || bounds.Max < 0 {
			return nil, fmt.Errorf("staffing policy for %s: bounds must be non-negative, got min=%d max=%d", name, bounds.Min, bounds.Max)
		}
		if bounds.Min > bounds.Max {
			return nil, fmt.Errorf("staffing policy for %s: min %d exceeds max %d", name, bounds.Min, bounds.Max)
		}
		if _, exists := policy[name]; exists {
			return nil, fmt.Errorf("staffing policy defines %s more than once", name)
		}
		policy[name] = bounds
	}
	return policy, nil
}

// Lookup returns the bounds for a shift type. Unknown types get {0, 0}.
func (p StaffingPolicy) Lookup(shiftType string) Bounds {
	return p[shiftType]
}

// Knows reports whether the policy defines the shift type
func (p StaffingPolicy) Knows(shiftType string) bool {
	_, ok := p[shiftType]
	return ok
}
