package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStaffingPolicy(t *testing.T) {
	policy, err := NewStaffingPolicy(map[string]Bounds{
		"midday":  {Min: 2, Max: 4},
		" NIGHT ": {Min: 5, Max: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, Bounds{Min: 2, Max: 4}, policy.Lookup("Midday"))
	assert.Equal(t, Bounds{Min: 5, Max: 5}, policy.Lookup("Night"))
	assert.True(t, policy.Knows("Night"))
}

func TestNewStaffingPolicy_Errors(t *testing.T) {
	tests := []struct {
		name  string
		rules map[string]Bounds
		want  string
	}{
		{"blank type", map[string]Bounds{"  ": {Min: 1, Max: 1}}, "blank shift type"},
		{"negative", map[string]Bounds{"Midday": {Min: -1, Max: 1}}, "non-negative"},
		{"inverted", map[string]Bounds{"Midday": {Min: 4, Max: 2}}, "min 4 exceeds max 2"},
		{"duplicate after normalising", map[string]Bounds{"Night": {Min: 1, Max: 1}, "night": {Min: 1, Max: 1}}, "more than once"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStaffingPolicy(tt.rules)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestStaffingPolicy_UnknownType(t *testing.T) {
	policy := DefaultStaffingPolicy()

	assert.Equal(t, Bounds{}, policy.Lookup("Overnight"))
	assert.False(t, policy.Knows("Overnight"))
	assert.Equal(t, Bounds{Min: 3, Max: 5}, policy.Lookup("Midday"))
	assert.Equal(t, Bounds{Min: 8, Max: 10}, policy.Lookup("Night"))
}
