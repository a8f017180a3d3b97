package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"negative", State{1.0, -0.5}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Sum(t *testing.T) {
	s := State{1, 2, 3, 4}

	tests := []struct {
		indices  []int
		expected float64
	}{
		{nil, 0},
		{[]int{1, 2}, 5},
		{[]int{0, 3}, 5},
		{[]int{2, 2}, 6},
		{[]int{-1, 9, 1}, 2},
	}

	for _, tt := range tests {
		if got := s.Sum(tt.indices); got != tt.expected {
			t.Errorf("Sum(%v) = %v, want %v", tt.indices, got, tt.expected)
		}
	}
}

func TestState_Clone(t *testing.T) {
	src := State{1, 2, 3}
	c := src.Clone()
	c[0] = 99
	if src[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 15, Time: 0.15, Wrapped: ErrStepTooSmall}
	expected := "step 15 (t=0.1500): dynamo: adaptive timestep below minimum"
	if err.Error() != expected {
		t.Errorf("SimulationError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrStepTooSmall) {
		t.Error("expected SimulationError to unwrap to ErrStepTooSmall")
	}
}
