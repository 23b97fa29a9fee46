package autoplay

import (
	"sort"

	"github.com/wricardo/domination/game/engine"
	"github.com/wricardo/domination/game/match"
)

// ActionKind is what the player does on its turn
type ActionKind string

const (
	ActionCapture ActionKind = "capture"
	ActionStun    ActionKind = "stun"
	ActionDone    ActionKind = "done"
)

// Action is a single decision of a strategy
type Action struct {
	Kind     ActionKind
	Position engine.Position
	Enemy    string
}

// SweepStrategy captures the nearest free tile each turn. A tile is free
// when no active enemy footprint covers it; stunned enemies do not guard
// their tiles. When every remaining tile is guarded it stuns the enemy
// standing on the nearest one.
type SweepStrategy struct {
	cursor engine.Position
}

// NewSweepStrategy starts sweeping from the top-left corner
func NewSweepStrategy() *SweepStrategy {
	return &SweepStrategy{}
}

// Next picks the action for the given state
func (s *SweepStrategy) Next(state *match.State) Action {
	occupant := guardedTiles(state.Enemies)

	var remaining []engine.Position
	for y, row := range state.Grid {
		for x, tile := range row {
			if tile.Kind.Capturable() && !tile.Captured {
				remaining = append(remaining, engine.Position{X: x, Y: y})
			}
		}
	}
	if len(remaining) == 0 {
		return Action{Kind: ActionDone}
	}

	sort.Slice(remaining, func(i, j int) bool {
		di := engine.ManhattanDistance(s.cursor, remaining[i])
		dj := engine.ManhattanDistance(s.cursor, remaining[j])
		if di != dj {
			return di < dj
		}
		if remaining[i].Y != remaining[j].Y {
			return remaining[i].Y < remaining[j].Y
		}
		return remaining[i].X < remaining[j].X
	})

	for _, pos := range remaining {
		if _, covered := occupant[pos]; !covered {
			s.cursor = pos
			return Action{Kind: ActionCapture, Position: pos}
		}
	}

	return Action{Kind: ActionStun, Position: remaining[0], Enemy: occupant[remaining[0]].Name}
}

// guardedTiles maps every tile under an active enemy footprint to that enemy
func guardedTiles(enemies []match.EnemyState) map[engine.Position]match.EnemyState {
	occupied := make(map[engine.Position]match.EnemyState)
	for _, enemy := range enemies {
		if enemy.StunnedFor > 0 {
			continue
		}
		for y := enemy.Position.Y; y < enemy.Position.Y+enemy.Size.Height; y++ {
			for x := enemy.Position.X; x < enemy.Position.X+enemy.Size.Width; x++ {
				occupied[engine.Position{X: x, Y: y}] = enemy
			}
		}
	}
	return occupied
}
