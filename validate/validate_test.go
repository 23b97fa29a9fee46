package validate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/domination/game/engine"
)

func splitArena() *engine.ArenaConfig {
	return &engine.ArenaConfig{
		Name:        "Split",
		Description: "Two halves separated by a wall",
		Width:       5,
		Height:      3,
		Layout: []string{
			"..#..",
			"..#.G",
			"..#..",
		},
		Enemies: []engine.EnemySpec{
			{
				Name:   "Slime",
				Width:  1,
				Height: 1,
				Spawn:  engine.Position{X: 0, Y: 0},
				Patrol: []engine.PatrolStep{{Direction: engine.Right, Steps: 3}},
			},
		},
	}
}

func writeConfig(t *testing.T, dir, name string, config interface{}) string {
	t.Helper()
	data, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestConfig_Warnings(t *testing.T) {
	result := Config("split.json", splitArena())

	if !result.Valid {
		t.Fatalf("Expected valid result, got errors %v", result.Errors)
	}
	if result.Analysis.Capturable != 12 {
		t.Errorf("Expected 12 capturable tiles, got %d", result.Analysis.Capturable)
	}
	if len(result.Analysis.Uncovered) != 6 {
		t.Errorf("Expected 6 uncovered tiles, got %d", len(result.Analysis.Uncovered))
	}
	if result.Analysis.TileCounts[engine.WallTile] != 3 || result.Analysis.TileCounts[engine.GoldTile] != 1 {
		t.Errorf("Unexpected tile counts: %v", result.Analysis.TileCounts)
	}

	enemy := result.Analysis.Enemies[0]
	if enemy.ReachablePositions != 6 || enemy.CoveredTiles != 6 {
		t.Errorf("Unexpected reach: %+v", enemy)
	}
	if enemy.MaxDistance != 3 {
		t.Errorf("Expected max distance 3, got %d", enemy.MaxDistance)
	}
	if enemy.BlockedPatrolSteps != 2 {
		t.Errorf("Expected 2 blocked patrol steps, got %d", enemy.BlockedPatrolSteps)
	}

	if len(result.Warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "6/12") {
		t.Errorf("Unexpected coverage warning: %s", result.Warnings[0])
	}
}

func TestAnalyze_LargeEnemy(t *testing.T) {
	config := &engine.ArenaConfig{
		Name:        "Box",
		Description: "Open box",
		Width:       3,
		Height:      3,
		Layout:      []string{"...", "...", "..."},
		Enemies: []engine.EnemySpec{
			{Name: "Golem", Width: 2, Height: 2, Spawn: engine.Position{X: 0, Y: 0}},
		},
	}

	analysis := Analyze(config)
	enemy := analysis.Enemies[0]
	if enemy.ReachablePositions != 4 {
		t.Errorf("Expected 4 anchors, got %d", enemy.ReachablePositions)
	}
	if enemy.CoveredTiles != 9 {
		t.Errorf("Expected 9 covered tiles, got %d", enemy.CoveredTiles)
	}
	if enemy.MaxDistance != 2 {
		t.Errorf("Expected max distance 2, got %d", enemy.MaxDistance)
	}
	if len(analysis.Uncovered) != 0 {
		t.Errorf("Expected full coverage, got %v", analysis.Uncovered)
	}
}

func TestAnalyze_NoEnemies(t *testing.T) {
	config := splitArena()
	config.Enemies = nil

	analysis := Analyze(config)
	if len(analysis.Uncovered) != analysis.Capturable {
		t.Errorf("Without enemies every capturable tile is uncovered, got %d/%d",
			len(analysis.Uncovered), analysis.Capturable)
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		path      func() string
		wantValid bool
		wantErr   string
	}{
		{
			name:      "valid arena",
			path:      func() string { return writeConfig(t, dir, "split.json", splitArena()) },
			wantValid: true,
		},
		{
			name:    "missing file",
			path:    func() string { return filepath.Join(dir, "missing.json") },
			wantErr: "Failed to read file",
		},
		{
			name: "invalid JSON",
			path: func() string {
				path := filepath.Join(dir, "broken.json")
				os.WriteFile(path, []byte("{"), 0644)
				return path
			},
			wantErr: "Invalid JSON",
		},
		{
			name: "invalid arena",
			path: func() string {
				config := splitArena()
				config.Layout = config.Layout[:2]
				return writeConfig(t, dir, "short.json", config)
			},
			wantErr: "layout must have 3 rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := File(tt.path())
			if result.Valid != tt.wantValid {
				t.Fatalf("Expected valid=%v, got %v (%v)", tt.wantValid, result.Valid, result.Errors)
			}
			if tt.wantErr != "" && (len(result.Errors) == 0 || !strings.Contains(result.Errors[0], tt.wantErr)) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, result.Errors)
			}
		})
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "b.json", splitArena())
	writeConfig(t, dir, "a.json", splitArena())
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644)

	results, err := Dir(dir)
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].File != "a.json" || results[1].File != "b.json" {
		t.Errorf("Expected sorted results, got %s, %s", results[0].File, results[1].File)
	}
}

func TestShippedArenas(t *testing.T) {
	results, err := Dir(filepath.Join("..", "configs"))
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	if len(results) == 0 {
		t.Skip("no arenas shipped")
	}
	for _, result := range results {
		if !result.Valid {
			t.Errorf("%s is invalid: %v", result.File, result.Errors)
		}
		for _, warning := range result.Warnings {
			if strings.Contains(warning, "patrol is blocked") {
				t.Errorf("%s: %s", result.File, warning)
			}
		}
	}
}
