package engine

import "fmt"

// Movement is one atomic instruction: walk RemainingSteps cells in Direction.
// RemainingSteps only ever decreases.
type Movement struct {
	Direction      Direction `json:"direction"`
	RemainingSteps int       `json:"steps"`
}

// NewMovement validates and builds a movement. A zero step count is legal and
// yields an already exhausted movement.
func NewMovement(direction Direction, steps int) (Movement, error) {
	if !direction.Valid() {
		return Movement{}, fmt.Errorf("%w: direction %d is not up, down, left or right", ErrInvalidMovement, direction)
	}
	if steps < 0 {
		return Movement{}, fmt.Errorf("%w: negative step count %d", ErrInvalidMovement, steps)
	}
	return Movement{Direction: direction, RemainingSteps: steps}, nil
}

// Exhausted reports whether the movement has no steps left and must be retired.
func (m *Movement) Exhausted() bool {
	return m.RemainingSteps <= 0
}

// Step consumes exactly one step.
func (m *Movement) Step() error {
	if m.Exhausted() {
		return fmt.Errorf("%w: movement %s is already exhausted", ErrInvalidMovement, m.Direction)
	}
	m.RemainingSteps--
	return nil
}

func (m Movement) String() string {
	return fmt.Sprintf("(%s, %d)", m.Direction, m.RemainingSteps)
}
