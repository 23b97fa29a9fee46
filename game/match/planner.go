package match

import (
	"fmt"

	"github.com/wricardo/domination/game/engine"
)

// PlanPath builds an L-shaped route from one position to another, walking
// the longer axis first. It ignores walls; blocked steps are consumed by the
// driver like any other.
func PlanPath(from, to engine.Position) []engine.Movement {
	dx := to.X - from.X
	dy := to.Y - from.Y

	horizontal := axisMovement(dx, engine.Right, engine.Left)
	vertical := axisMovement(dy, engine.Down, engine.Up)

	var path []engine.Movement
	if engine.Abs(dx) >= engine.Abs(dy) {
		path = appendMovement(path, horizontal)
		path = appendMovement(path, vertical)
	} else {
		path = appendMovement(path, vertical)
		path = appendMovement(path, horizontal)
	}
	return path
}

func axisMovement(delta int, positive, negative engine.Direction) engine.Movement {
	if delta < 0 {
		return engine.Movement{Direction: negative, RemainingSteps: -delta}
	}
	return engine.Movement{Direction: positive, RemainingSteps: delta}
}

func appendMovement(path []engine.Movement, m engine.Movement) []engine.Movement {
	if m.RemainingSteps == 0 {
		return path
	}
	return append(path, m)
}

// PlanRoute replaces an enemy's route with a path to target and returns it
func (m *Match) PlanRoute(name string, target engine.Position) ([]engine.Movement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusFinished {
		return nil, ErrMatchFinished
	}
	a, err := m.findActor(name)
	if err != nil {
		return nil, err
	}
	if target.Y < 0 || target.Y >= len(m.grid) || target.X < 0 || target.X >= len(m.grid[target.Y]) {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, target.X, target.Y)
	}
	if !engine.FootprintFits(m.config.Layout, target, a.enemy.Size) {
		return nil, fmt.Errorf("%w: %s cannot stand at (%d,%d)", ErrUnreachableTarget, a.enemy.Name, target.X, target.Y)
	}

	path := PlanPath(a.pos, target)
	a.route.SetRoute(path)
	return path, nil
}
