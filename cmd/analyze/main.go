// Command analyze prints quick, human-readable coverage heuristics for the
// arena files in a configs directory: dimensions, tile counts, how far each
// enemy can roam and which capturable tiles no enemy can ever reach.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/wricardo/domination/game/engine"
	"github.com/wricardo/domination/validate"
)

const maxListedTiles = 5

func main() {
	dir := "configs"
	if env := os.Getenv("CONFIG_DIR"); env != "" {
		dir = env
	}
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	results, err := validate.Dir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Printf("No arena files found in %s\n", dir)
		return
	}

	for _, result := range results {
		report(os.Stdout, result)
	}
}

func report(w io.Writer, result validate.Result) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", result.File)
	if !result.Valid {
		for _, e := range result.Errors {
			fmt.Fprintf(w, "❌ %s\n", e)
		}
		return
	}

	a := result.Analysis
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Grid Size: %d x %d\n", a.Width, a.Height)
	fmt.Fprintf(w, "Capturable Tiles: %d\n", a.Capturable)

	kinds := make([]string, 0, len(a.TileCounts))
	for kind := range a.TileCounts {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(w, "  %-6s %d\n", kind, a.TileCounts[engine.TileKind(kind)])
	}

	if len(a.Enemies) == 0 {
		fmt.Fprintf(w, "Enemies: none\n")
	}
	for _, enemy := range a.Enemies {
		fmt.Fprintf(w, "Enemy %s: %d anchor positions, %d tiles covered, max distance %d\n",
			enemy.Name, enemy.ReachablePositions, enemy.CoveredTiles, enemy.MaxDistance)
	}

	if len(a.Uncovered) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d capturable tiles cannot be reached by any enemy\n", len(a.Uncovered))
		for i, p := range a.Uncovered {
			if i == maxListedTiles {
				fmt.Fprintf(w, "   ... and %d more\n", len(a.Uncovered)-maxListedTiles)
				break
			}
			fmt.Fprintf(w, "   Uncovered: (%d, %d)\n", p.X, p.Y)
		}
	} else {
		fmt.Fprintf(w, "✅ Every capturable tile is within reach of an enemy\n")
	}

	// The coverage warning, when present, comes first and was printed above
	for i, warning := range result.Warnings {
		if i == 0 && len(a.Uncovered) > 0 {
			continue
		}
		fmt.Fprintf(w, "⚠️  %s\n", warning)
	}
}
