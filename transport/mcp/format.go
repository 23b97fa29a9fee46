package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/domination/game/engine"
	"github.com/wricardo/domination/game/match"
	"github.com/wricardo/domination/game/service"
)

const capturedChar = '*'

// enemyMarker labels enemies 1-9, then '@'
func enemyMarker(i int) rune {
	if i < 9 {
		return rune('1' + i)
	}
	return '@'
}

// renderGrid draws tiles, captures and enemy footprints as text rows
func renderGrid(state *match.State) []string {
	rows := make([][]rune, len(state.Grid))
	for y, row := range state.Grid {
		rows[y] = make([]rune, len(row))
		for x, tile := range row {
			if tile.Captured {
				rows[y][x] = capturedChar
			} else {
				rows[y][x] = tile.Kind.Char()
			}
		}
	}

	for i, enemy := range state.Enemies {
		for dy := 0; dy < enemy.Size.Height; dy++ {
			for dx := 0; dx < enemy.Size.Width; dx++ {
				x, y := enemy.Position.X+dx, enemy.Position.Y+dy
				if y >= 0 && y < len(rows) && x >= 0 && x < len(rows[y]) {
					rows[y][x] = enemyMarker(i)
				}
			}
		}
	}

	lines := make([]string, len(rows))
	for y, row := range rows {
		lines[y] = string(row)
	}
	return lines
}

func formatState(state *match.State) string {
	if state == nil {
		return "No state available"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match %s on %s - %s, tick %d\n", state.ID, state.ArenaName, state.Status, state.Tick))
	sb.WriteString(fmt.Sprintf("Captured %d/%d tiles\n\n", state.CapturedTiles, state.CapturableTiles))

	for _, line := range renderGrid(state) {
		sb.WriteString(line + "\n")
	}

	if len(state.Enemies) > 0 {
		sb.WriteString("\nEnemies:\n")
		for i, enemy := range state.Enemies {
			sb.WriteString(fmt.Sprintf("%c %s %dx%d at (%d,%d)", enemyMarker(i), enemy.Name,
				enemy.Size.Width, enemy.Size.Height, enemy.Position.X, enemy.Position.Y))
			if enemy.LastDirection != engine.NoDirection {
				sb.WriteString(fmt.Sprintf(", last moved %s", enemy.LastDirection))
			}
			if enemy.StunnedFor > 0 {
				sb.WriteString(fmt.Sprintf(", stunned for %d", enemy.StunnedFor))
			}
			sb.WriteString(fmt.Sprintf(", route: %s\n", formatMovements(enemy.Route)))
		}
	}

	sb.WriteString("\n" + formatScore(&state.Score))
	return sb.String()
}

func formatMovements(movements []engine.Movement) string {
	if len(movements) == 0 {
		return "empty"
	}
	parts := make([]string, len(movements))
	for i := range movements {
		parts[i] = movements[i].String()
	}
	return strings.Join(parts, " ")
}

func formatRoute(route *service.RouteInfo) string {
	return fmt.Sprintf("Route of %s in match %s: %s", route.Enemy, route.MatchID, formatMovements(route.Movements))
}

func formatTickResult(result *service.TickResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Executed %d tick(s)\n", result.TicksExecuted))
	for _, report := range result.Reports {
		sb.WriteString(fmt.Sprintf("Tick %d:", report.Tick))
		for _, step := range report.Steps {
			switch step.Outcome {
			case match.OutcomeMoved:
				sb.WriteString(fmt.Sprintf(" %s %s->(%d,%d)", step.Enemy, step.Direction, step.To.X, step.To.Y))
			case match.OutcomeBlocked:
				sb.WriteString(fmt.Sprintf(" %s blocked %s", step.Enemy, step.Direction))
			default:
				sb.WriteString(fmt.Sprintf(" %s %s", step.Enemy, step.Outcome))
			}
		}
		sb.WriteString("\n")
	}
	if result.State != nil {
		sb.WriteString("\n" + formatState(result.State))
	}
	return sb.String()
}

func formatScore(score *engine.ScoreSummary) string {
	var sb strings.Builder
	sb.WriteString("Score sheet:\n")
	sb.WriteString(fmt.Sprintf("  normal tiles:   %d\n", score.TotalNormalTilesCaptured))
	sb.WriteString(fmt.Sprintf("  rush tiles:     %d\n", score.TotalRushTilesCaptured))
	sb.WriteString(fmt.Sprintf("  gold tiles:     %d\n", score.TotalGoldTilesCaptured))
	sb.WriteString(fmt.Sprintf("  power tiles:    %d\n", score.TotalPowerTilesCaptured))
	sb.WriteString(fmt.Sprintf("  enemies stunned: %d\n", score.TotalEnemiesStunned))
	if score.Finalized {
		sb.WriteString(fmt.Sprintf("  final capture:  %.1f%%\n", score.FinalTilesCapturedPercentage))
	} else {
		sb.WriteString("  (not finalized)\n")
	}
	return sb.String()
}
