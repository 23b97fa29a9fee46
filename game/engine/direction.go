package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Direction is one of the four axis-aligned grid directions.
// The zero value NoDirection means "unset".
type Direction int

const (
	NoDirection Direction = iota
	Up
	Down
	Left
	Right
)

// Directions lists the four movable directions in a stable order.
func Directions() []Direction {
	return []Direction{Up, Down, Left, Right}
}

// Valid reports whether d is one of Up, Down, Left or Right.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return ""
}

// ParseDirection converts "up", "down", "left" or "right" (any case) to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return NoDirection, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// MarshalJSON encodes the direction as its lowercase name.
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts the lowercase name; an empty string decodes to NoDirection.
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDirection, string(data))
	}
	if s == "" {
		*d = NoDirection
		return nil
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
