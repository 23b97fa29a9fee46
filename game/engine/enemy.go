package engine

import (
	"fmt"
	"strings"
)

// Size is a footprint measured in grid cells.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Enemy is a named, sized occupant of the grid. It only remembers the
// direction of the last step it took; positions belong to the driver.
type Enemy struct {
	Name string `json:"name"`
	Size Size   `json:"size"`

	lastDirection Direction
}

// NewEnemy validates name and size and returns an enemy that has never moved.
func NewEnemy(name string, size Size) (*Enemy, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidActor)
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("%w: %s has size %dx%d, both dimensions must be positive",
			ErrInvalidActor, name, size.Width, size.Height)
	}
	return &Enemy{Name: name, Size: size}, nil
}

// LastDirection returns the direction of the most recent step, or false if
// the enemy has not moved yet.
func (e *Enemy) LastDirection() (Direction, bool) {
	return e.lastDirection, e.lastDirection != NoDirection
}

// RecordStep remembers dir as the direction of the step just taken.
func (e *Enemy) RecordStep(dir Direction) {
	e.lastDirection = dir
}
