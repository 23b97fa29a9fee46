package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func createValidConfig() *ArenaConfig {
	return &ArenaConfig{
		Name:        "Test Arena",
		Description: "A valid test arena",
		Width:       5,
		Height:      4,
		Layout: []string{
			".....",
			".G#R.",
			".P#..",
			".....",
		},
		StunTicks: 2,
		Enemies: []EnemySpec{
			{
				Name:   "Slime",
				Width:  2,
				Height: 1,
				Spawn:  Position{X: 0, Y: 0},
				Patrol: []PatrolStep{
					{Direction: Right, Steps: 3},
					{Direction: Left, Steps: 3},
				},
				LoopPatrol: true,
			},
		},
	}
}

func TestValidateArenaConfig_ValidConfig(t *testing.T) {
	if err := ValidateArenaConfig(createValidConfig()); err != nil {
		t.Errorf("Expected valid config to pass validation, got: %v", err)
	}
	if err := ValidateArenaConfig(DefaultArenaConfig()); err != nil {
		t.Errorf("Expected default config to pass validation, got: %v", err)
	}
}

func TestValidateArenaConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *ArenaConfig)
		contains string
	}{
		{"missing name", func(c *ArenaConfig) { c.Name = "" }, "name is required"},
		{"missing description", func(c *ArenaConfig) { c.Description = "" }, "description is required"},
		{"width too small", func(c *ArenaConfig) { c.Width = 2 }, "width must be between"},
		{"height too large", func(c *ArenaConfig) { c.Height = MaxGridSize + 1 }, "height must be between"},
		{"negative stun", func(c *ArenaConfig) { c.StunTicks = -1 }, "stun_ticks"},
		{"row count", func(c *ArenaConfig) { c.Layout = c.Layout[:3] }, "layout must have 4 rows"},
		{"row width", func(c *ArenaConfig) { c.Layout[2] = "...." }, "row 3 must have 5 characters"},
		{"bad char", func(c *ArenaConfig) { c.Layout[0] = "..X.." }, "invalid character 'X'"},
		{"all walls", func(c *ArenaConfig) {
			c.Layout = []string{"#####", "#####", "#####", "#####"}
			c.Enemies = nil
		}, "at least one capturable tile"},
		{"enemy without name", func(c *ArenaConfig) { c.Enemies[0].Name = "" }, "invalid actor"},
		{"enemy zero size", func(c *ArenaConfig) { c.Enemies[0].Height = 0 }, "invalid actor"},
		{"duplicate enemy", func(c *ArenaConfig) {
			c.Enemies = append(c.Enemies, EnemySpec{Name: "slime", Width: 1, Height: 1, Spawn: Position{X: 4, Y: 3}})
		}, "duplicate enemy name"},
		{"spawn out of bounds", func(c *ArenaConfig) { c.Enemies[0].Spawn = Position{X: 4, Y: 0} }, "leaves the arena"},
		{"spawn on wall", func(c *ArenaConfig) { c.Enemies[0].Spawn = Position{X: 1, Y: 1} }, "overlaps a wall"},
		{"negative patrol", func(c *ArenaConfig) { c.Enemies[0].Patrol[1].Steps = -2 }, "invalid movement"},
		{"patrol without direction", func(c *ArenaConfig) { c.Enemies[0].Patrol[0].Direction = NoDirection }, "invalid movement"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := createValidConfig()
			test.mutate(config)
			err := ValidateArenaConfig(config)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), test.contains) {
				t.Errorf("Expected error containing %q, got: %v", test.contains, err)
			}
		})
	}
}

func TestBuildGrid(t *testing.T) {
	config := createValidConfig()
	grid := BuildGrid(config)

	if len(grid) != config.Height || len(grid[0]) != config.Width {
		t.Fatalf("Expected %dx%d grid, got %dx%d", config.Width, config.Height, len(grid[0]), len(grid))
	}

	tests := []struct {
		x, y int
		kind TileKind
	}{
		{0, 0, NormalTile},
		{1, 1, GoldTile},
		{2, 1, WallTile},
		{3, 1, RushTile},
		{1, 2, PowerTile},
	}
	for _, test := range tests {
		if grid[test.y][test.x].Kind != test.kind {
			t.Errorf("Tile (%d,%d): expected %s, got %s", test.x, test.y, test.kind, grid[test.y][test.x].Kind)
		}
	}

	if CountCapturable(grid) != 18 {
		t.Errorf("Expected 18 capturable tiles, got %d", CountCapturable(grid))
	}
	if CountCaptured(grid) != 0 {
		t.Errorf("Expected no captured tiles, got %d", CountCaptured(grid))
	}
}

func TestFootprintFits(t *testing.T) {
	layout := createValidConfig().Layout

	tests := []struct {
		name     string
		pos      Position
		size     Size
		expected bool
	}{
		{"top left", Position{X: 0, Y: 0}, Size{Width: 2, Height: 2}, true},
		{"bottom right corner", Position{X: 3, Y: 2}, Size{Width: 2, Height: 2}, true},
		{"covers wall", Position{X: 1, Y: 0}, Size{Width: 2, Height: 2}, false},
		{"past right edge", Position{X: 4, Y: 0}, Size{Width: 2, Height: 1}, false},
		{"past bottom edge", Position{X: 0, Y: 3}, Size{Width: 1, Height: 2}, false},
		{"negative", Position{X: -1, Y: 0}, Size{Width: 1, Height: 1}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := FootprintFits(layout, test.pos, test.size); got != test.expected {
				t.Errorf("FootprintFits(%v, %v): expected %v, got %v", test.pos, test.size, test.expected, got)
			}
		})
	}
}

func TestEffectiveStunTicks(t *testing.T) {
	config := createValidConfig()
	if config.EffectiveStunTicks() != 2 {
		t.Errorf("Expected 2, got %d", config.EffectiveStunTicks())
	}
	config.StunTicks = 0
	if config.EffectiveStunTicks() != DefaultStunTicks {
		t.Errorf("Expected default %d, got %d", DefaultStunTicks, config.EffectiveStunTicks())
	}
}

func TestLoadArenaConfig(t *testing.T) {
	tempDir := t.TempDir()

	validJSON := `{
		"name": "File Arena",
		"description": "Loaded from disk",
		"width": 3,
		"height": 3,
		"layout": ["...", ".G.", "..."],
		"enemies": [
			{"name": "Bat", "width": 1, "height": 1, "spawn": {"x": 2, "y": 2},
			 "patrol": [{"direction": "up", "steps": 2}]}
		]
	}`
	validPath := filepath.Join(tempDir, "valid.json")
	if err := os.WriteFile(validPath, []byte(validJSON), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadArenaConfig(validPath)
	if err != nil {
		t.Fatalf("LoadArenaConfig failed: %v", err)
	}
	if config.Name != "File Arena" {
		t.Errorf("Expected name 'File Arena', got %q", config.Name)
	}
	if len(config.Enemies) != 1 || config.Enemies[0].Patrol[0].Direction != Up {
		t.Errorf("Unexpected enemies: %+v", config.Enemies)
	}

	badPath := filepath.Join(tempDir, "bad.json")
	if err := os.WriteFile(badPath, []byte(`{"name": "x", "patrol": [{"direction": "diagonal"}]}`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadArenaConfig(badPath); err == nil {
		t.Error("Expected error for invalid config")
	}

	if _, err := LoadArenaConfig(filepath.Join(tempDir, "missing.json")); !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestManhattanDistance(t *testing.T) {
	if d := ManhattanDistance(Position{X: 1, Y: 5}, Position{X: 4, Y: 1}); d != 7 {
		t.Errorf("Expected 7, got %d", d)
	}
}
