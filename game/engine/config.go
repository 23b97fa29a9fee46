package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ValidateArenaConfig validates an arena configuration for correctness and playability
func ValidateArenaConfig(config *ArenaConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate grid size
	if config.Width < MinGridSize || config.Width > MaxGridSize {
		return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Width)
	}
	if config.Height < MinGridSize || config.Height > MaxGridSize {
		return fmt.Errorf("config validation: height must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Height)
	}
	if config.StunTicks < 0 {
		return fmt.Errorf("config validation: stun_ticks must not be negative, got %d", config.StunTicks)
	}

	// Validate layout
	if len(config.Layout) != config.Height {
		return fmt.Errorf("config validation: layout must have %d rows to match height, got %d",
			config.Height, len(config.Layout))
	}

	capturable := 0
	for i, row := range config.Layout {
		if len(row) != config.Width {
			return fmt.Errorf("config validation: row %d must have %d characters to match width, got %d",
				i+1, config.Width, len(row))
		}
		for j, char := range row {
			kind, ok := TileKindFromChar(char)
			if !ok {
				return fmt.Errorf("config validation: invalid character '%c' at row %d, col %d", char, i+1, j+1)
			}
			if kind.Capturable() {
				capturable++
			}
		}
	}
	if capturable == 0 {
		return fmt.Errorf("config validation: layout must contain at least one capturable tile")
	}

	// Validate enemies
	if len(config.Enemies) > MaxEnemies {
		return fmt.Errorf("config validation: at most %d enemies allowed, got %d", MaxEnemies, len(config.Enemies))
	}
	seen := make(map[string]bool, len(config.Enemies))
	for i, spec := range config.Enemies {
		if _, err := NewEnemy(spec.Name, Size{Width: spec.Width, Height: spec.Height}); err != nil {
			return fmt.Errorf("config validation: enemy %d: %w", i+1, err)
		}
		key := strings.ToLower(spec.Name)
		if seen[key] {
			return fmt.Errorf("config validation: duplicate enemy name %q", spec.Name)
		}
		seen[key] = true

		if !FootprintFits(config.Layout, spec.Spawn, Size{Width: spec.Width, Height: spec.Height}) {
			return fmt.Errorf("config validation: enemy %q spawn (%d,%d) with size %dx%d leaves the arena or overlaps a wall",
				spec.Name, spec.Spawn.X, spec.Spawn.Y, spec.Width, spec.Height)
		}
		if len(spec.Patrol) > MaxPatrolLength {
			return fmt.Errorf("config validation: enemy %q patrol has %d steps, max is %d",
				spec.Name, len(spec.Patrol), MaxPatrolLength)
		}
		if _, err := PatrolMovements(spec.Patrol); err != nil {
			return fmt.Errorf("config validation: enemy %q patrol: %w", spec.Name, err)
		}
	}

	return nil
}

// FootprintFits checks that a size-d footprint anchored at its top-left
// corner pos stays inside the layout and covers no wall.
func FootprintFits(layout []string, pos Position, size Size) bool {
	if pos.X < 0 || pos.Y < 0 || pos.Y+size.Height > len(layout) {
		return false
	}
	for y := pos.Y; y < pos.Y+size.Height; y++ {
		row := layout[y]
		if pos.X+size.Width > len(row) {
			return false
		}
		for x := pos.X; x < pos.X+size.Width; x++ {
			if row[x] == WallChar {
				return false
			}
		}
	}
	return true
}

// PatrolMovements converts patrol steps into validated movements
func PatrolMovements(patrol []PatrolStep) ([]Movement, error) {
	movements := make([]Movement, 0, len(patrol))
	for i, step := range patrol {
		m, err := NewMovement(step.Direction, step.Steps)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		movements = append(movements, m)
	}
	return movements, nil
}

// EffectiveStunTicks returns the configured stun duration or the default
func (c *ArenaConfig) EffectiveStunTicks() int {
	if c.StunTicks > 0 {
		return c.StunTicks
	}
	return DefaultStunTicks
}

// LoadArenaConfig loads an arena configuration from a JSON file
func LoadArenaConfig(filename string) (*ArenaConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config ArenaConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateArenaConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// BuildGrid creates the tile grid for a validated config, indexed [y][x]
func BuildGrid(config *ArenaConfig) [][]Tile {
	grid := make([][]Tile, config.Height)
	for y := range grid {
		grid[y] = make([]Tile, config.Width)
		for x, char := range config.Layout[y] {
			kind, _ := TileKindFromChar(char)
			grid[y][x] = Tile{Kind: kind}
		}
	}
	return grid
}

// CountCapturable counts the tiles that can be captured
func CountCapturable(grid [][]Tile) int {
	count := 0
	for _, row := range grid {
		for _, tile := range row {
			if tile.Kind.Capturable() {
				count++
			}
		}
	}
	return count
}

// CountCaptured counts the tiles already captured
func CountCaptured(grid [][]Tile) int {
	count := 0
	for _, row := range grid {
		for _, tile := range row {
			if tile.Captured {
				count++
			}
		}
	}
	return count
}

// DefaultArenaConfig returns a small built-in arena used when no config files exist
func DefaultArenaConfig() *ArenaConfig {
	return &ArenaConfig{
		Name:        "default",
		Description: "Default minimal arena",
		Width:       6,
		Height:      5,
		Layout: []string{
			"......",
			".G..R.",
			"..##..",
			".R..P.",
			"......",
		},
		Enemies: []EnemySpec{
			{
				Name:   "Slime",
				Width:  1,
				Height: 1,
				Spawn:  Position{X: 0, Y: 0},
				Patrol: []PatrolStep{
					{Direction: Right, Steps: 5},
					{Direction: Down, Steps: 4},
					{Direction: Left, Steps: 5},
					{Direction: Up, Steps: 4},
				},
				LoopPatrol: true,
			},
		},
	}
}
