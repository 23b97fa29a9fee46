// Package validate checks arena configuration files and reports how well
// their enemies can cover the arena.
//
// Besides the structural checks of engine.ValidateArenaConfig it flood-fills
// every enemy's reachable area from its spawn point and dry-runs each patrol
// once. Capturable tiles that no enemy can ever stand on and patrol steps
// that run into walls are reported as warnings; they do not make an arena
// invalid.
package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/domination/game/engine"
	"github.com/wricardo/domination/game/match"
)

// Result captures the outcome of validating a single file
type Result struct {
	File     string    `json:"file"`
	Valid    bool      `json:"valid"`
	Errors   []string  `json:"errors,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
	Analysis *Analysis `json:"analysis,omitempty"`
}

// Analysis summarizes a valid arena
type Analysis struct {
	Name       string                  `json:"name"`
	Width      int                     `json:"width"`
	Height     int                     `json:"height"`
	TileCounts map[engine.TileKind]int `json:"tile_counts"`
	Capturable int                     `json:"capturable"`
	// Capturable tiles no enemy footprint can ever cover
	Uncovered []engine.Position `json:"uncovered,omitempty"`
	Enemies   []EnemyAnalysis   `json:"enemies"`
}

// EnemyAnalysis describes what a single enemy can reach
type EnemyAnalysis struct {
	Name string `json:"name"`
	// Anchor positions reachable from the spawn point
	ReachablePositions int `json:"reachable_positions"`
	// Distinct tiles the footprint can cover
	CoveredTiles int `json:"covered_tiles"`
	// Farthest reachable anchor from the spawn, in Manhattan distance
	MaxDistance int `json:"max_distance"`
	// Steps of one patrol pass that would hit a wall or the edge
	BlockedPatrolSteps int `json:"blocked_patrol_steps"`
}

// File loads and validates a single configuration JSON file
func File(path string) Result {
	result := Result{File: filepath.Base(path), Valid: true}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config engine.ArenaConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	return Config(result.File, &config)
}

// Config validates an already decoded configuration
func Config(name string, config *engine.ArenaConfig) Result {
	result := Result{File: name, Valid: true}

	if err := engine.ValidateArenaConfig(config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	analysis := Analyze(config)
	result.Analysis = analysis

	if n := len(analysis.Uncovered); n > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d/%d capturable tiles cannot be reached by any enemy", n, analysis.Capturable))
	}
	for _, enemy := range analysis.Enemies {
		if enemy.BlockedPatrolSteps > 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("enemy %q patrol is blocked on %d step(s)", enemy.Name, enemy.BlockedPatrolSteps))
		}
	}

	return result
}

// Dir validates every *.json file in dir, sorted by name
func Dir(dir string) ([]Result, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list config files: %w", err)
	}
	sort.Strings(files)

	results := make([]Result, 0, len(files))
	for _, file := range files {
		results = append(results, File(file))
	}
	return results, nil
}

// Analyze computes coverage statistics for a valid configuration
func Analyze(config *engine.ArenaConfig) *Analysis {
	analysis := &Analysis{
		Name:       config.Name,
		Width:      config.Width,
		Height:     config.Height,
		TileCounts: make(map[engine.TileKind]int),
	}

	grid := engine.BuildGrid(config)
	for _, row := range grid {
		for _, tile := range row {
			analysis.TileCounts[tile.Kind]++
		}
	}
	analysis.Capturable = engine.CountCapturable(grid)

	covered := make(map[engine.Position]bool)
	for _, spec := range config.Enemies {
		size := engine.Size{Width: spec.Width, Height: spec.Height}
		reachable := reachableAnchors(config.Layout, spec.Spawn, size)

		tiles := make(map[engine.Position]bool)
		maxDistance := 0
		for anchor := range reachable {
			for y := anchor.Y; y < anchor.Y+size.Height; y++ {
				for x := anchor.X; x < anchor.X+size.Width; x++ {
					tiles[engine.Position{X: x, Y: y}] = true
				}
			}
			if d := engine.ManhattanDistance(spec.Spawn, anchor); d > maxDistance {
				maxDistance = d
			}
		}
		for pos := range tiles {
			covered[pos] = true
		}

		analysis.Enemies = append(analysis.Enemies, EnemyAnalysis{
			Name:               spec.Name,
			ReachablePositions: len(reachable),
			CoveredTiles:       len(tiles),
			MaxDistance:        maxDistance,
			BlockedPatrolSteps: blockedPatrolSteps(config.Layout, spec, size),
		})
	}

	for y, row := range grid {
		for x, tile := range row {
			pos := engine.Position{X: x, Y: y}
			if tile.Kind.Capturable() && !covered[pos] {
				analysis.Uncovered = append(analysis.Uncovered, pos)
			}
		}
	}

	return analysis
}

// reachableAnchors flood-fills the anchor positions a footprint can move
// through, starting at spawn
func reachableAnchors(layout []string, spawn engine.Position, size engine.Size) map[engine.Position]bool {
	visited := make(map[engine.Position]bool)
	if !engine.FootprintFits(layout, spawn, size) {
		return visited
	}

	queue := []engine.Position{spawn}
	visited[spawn] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dir := range engine.Directions() {
			dx, dy := match.Delta(dir)
			next := engine.Position{X: current.X + dx, Y: current.Y + dy}
			if visited[next] || !engine.FootprintFits(layout, next, size) {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}

	return visited
}

// blockedPatrolSteps walks one pass of the patrol the way a match tick does
// and counts the steps that could not move
func blockedPatrolSteps(layout []string, spec engine.EnemySpec, size engine.Size) int {
	blocked := 0
	pos := spec.Spawn
	for _, step := range spec.Patrol {
		dx, dy := match.Delta(step.Direction)
		for i := 0; i < step.Steps; i++ {
			next := engine.Position{X: pos.X + dx, Y: pos.Y + dy}
			if engine.FootprintFits(layout, next, size) {
				pos = next
			} else {
				blocked++
			}
		}
	}
	return blocked
}
