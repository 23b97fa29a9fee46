package engine

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewMovement(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		steps     int
		wantErr   bool
	}{
		{"positive steps", Up, 3, false},
		{"zero steps", Left, 0, false},
		{"negative steps", Right, -1, true},
		{"unset direction", NoDirection, 2, true},
		{"unknown direction", Direction(9), 2, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, err := NewMovement(test.direction, test.steps)
			if test.wantErr {
				if !errors.Is(err, ErrInvalidMovement) {
					t.Errorf("Expected ErrInvalidMovement, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if m.Direction != test.direction || m.RemainingSteps != test.steps {
				t.Errorf("Expected (%s, %d), got %s", test.direction, test.steps, m)
			}
		})
	}
}

func TestMovement_RetirableOnlyAfterLastStep(t *testing.T) {
	m, err := NewMovement(Up, 3)
	if err != nil {
		t.Fatalf("NewMovement failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if m.Exhausted() {
			t.Fatalf("Movement exhausted after only %d steps", i)
		}
		if err := m.Step(); err != nil {
			t.Fatalf("Step %d failed: %v", i+1, err)
		}
	}

	if !m.Exhausted() {
		t.Error("Expected movement to be exhausted after 3 steps")
	}
	if m.RemainingSteps != 0 {
		t.Errorf("Expected 0 remaining steps, got %d", m.RemainingSteps)
	}
	if err := m.Step(); !errors.Is(err, ErrInvalidMovement) {
		t.Errorf("Expected stepping an exhausted movement to fail, got %v", err)
	}
	if m.RemainingSteps != 0 {
		t.Errorf("Remaining steps must never go below zero, got %d", m.RemainingSteps)
	}
}

func TestMovement_ZeroStepsIsExhausted(t *testing.T) {
	m, err := NewMovement(Down, 0)
	if err != nil {
		t.Fatalf("NewMovement failed: %v", err)
	}
	if !m.Exhausted() {
		t.Error("Zero-step movement should be exhausted at creation")
	}
}

func TestMovementJSON(t *testing.T) {
	m, err := NewMovement(Right, 2)
	if err != nil {
		t.Fatalf("NewMovement failed: %v", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"direction":"right","steps":2}` {
		t.Errorf("Unexpected encoding: %s", data)
	}

	// Route movements and arena patrol steps share the same wire shape
	var step PatrolStep
	if err := json.Unmarshal(data, &step); err != nil {
		t.Fatalf("Unmarshal into PatrolStep failed: %v", err)
	}
	if step.Direction != Right || step.Steps != 2 {
		t.Errorf("Expected right 2, got %+v", step)
	}
}
