package match

import (
	"errors"
	"testing"

	"github.com/wricardo/domination/game/engine"
)

func TestPlanPath(t *testing.T) {
	tests := []struct {
		name     string
		from, to engine.Position
		expected []engine.Movement
	}{
		{"same cell", engine.Position{X: 1, Y: 1}, engine.Position{X: 1, Y: 1}, nil},
		{"horizontal only", engine.Position{X: 0, Y: 0}, engine.Position{X: 3, Y: 0},
			[]engine.Movement{{Direction: engine.Right, RemainingSteps: 3}}},
		{"longer x first", engine.Position{X: 4, Y: 0}, engine.Position{X: 0, Y: 2},
			[]engine.Movement{{Direction: engine.Left, RemainingSteps: 4}, {Direction: engine.Down, RemainingSteps: 2}}},
		{"longer y first", engine.Position{X: 0, Y: 3}, engine.Position{X: 1, Y: 0},
			[]engine.Movement{{Direction: engine.Up, RemainingSteps: 3}, {Direction: engine.Right, RemainingSteps: 1}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := PlanPath(test.from, test.to)
			if len(path) != len(test.expected) {
				t.Fatalf("Expected %v, got %v", test.expected, path)
			}
			for i := range path {
				if path[i] != test.expected[i] {
					t.Errorf("Movement %d: expected %v, got %v", i, test.expected[i], path[i])
				}
			}
		})
	}
}

func TestPlanRoute(t *testing.T) {
	m := createTestMatch(t)

	path, err := m.PlanRoute("Slime", engine.Position{X: 0, Y: 3})
	if err != nil {
		t.Fatalf("PlanRoute failed: %v", err)
	}
	if len(path) != 1 || path[0].Direction != engine.Down || path[0].RemainingSteps != 3 {
		t.Errorf("Unexpected path %v", path)
	}

	for i := 0; i < 3; i++ {
		if _, err := m.Tick(); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
	}
	slime := findEnemy(t, m.Snapshot(), "Slime")
	if slime.Position != (engine.Position{X: 0, Y: 3}) {
		t.Errorf("Expected slime at (0,3), got %v", slime.Position)
	}

	if _, err := m.PlanRoute("Ghost", engine.Position{X: 0, Y: 0}); !errors.Is(err, ErrEnemyNotFound) {
		t.Errorf("Expected ErrEnemyNotFound, got %v", err)
	}
}

func TestPlanRoute_RejectedTargets(t *testing.T) {
	tests := []struct {
		name   string
		target engine.Position
		want   error
		notErr error
	}{
		{"wall", engine.Position{X: 2, Y: 1}, ErrUnreachableTarget, ErrOutOfBounds},
		{"outside", engine.Position{X: 99, Y: 0}, ErrOutOfBounds, ErrUnreachableTarget},
		{"negative", engine.Position{X: 0, Y: -1}, ErrOutOfBounds, ErrUnreachableTarget},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := createTestMatch(t)
			_, err := m.PlanRoute("Slime", test.target)
			if !errors.Is(err, test.want) {
				t.Errorf("Expected %v, got %v", test.want, err)
			}
			if errors.Is(err, test.notErr) {
				t.Errorf("Did not expect %v, got %v", test.notErr, err)
			}
		})
	}
}
