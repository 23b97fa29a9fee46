package engine

import (
	"errors"
	"testing"
)

func TestNewEnemy(t *testing.T) {
	tests := []struct {
		name    string
		enemy   string
		size    Size
		wantErr bool
	}{
		{"valid", "Slime", Size{Width: 2, Height: 2}, false},
		{"unit size", "Bat", Size{Width: 1, Height: 1}, false},
		{"empty name", "", Size{Width: 1, Height: 1}, true},
		{"blank name", "   ", Size{Width: 1, Height: 1}, true},
		{"zero width", "Slime", Size{Width: 0, Height: 1}, true},
		{"negative height", "Slime", Size{Width: 1, Height: -2}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e, err := NewEnemy(test.enemy, test.size)
			if test.wantErr {
				if !errors.Is(err, ErrInvalidActor) {
					t.Errorf("Expected ErrInvalidActor, got %v", err)
				}
				if e != nil {
					t.Error("Expected nil enemy on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if e.Name != test.enemy || e.Size != test.size {
				t.Errorf("Unexpected enemy %+v", e)
			}
		})
	}
}

func TestEnemy_LastDirection(t *testing.T) {
	slime, err := NewEnemy("Slime", Size{Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("NewEnemy failed: %v", err)
	}

	if dir, ok := slime.LastDirection(); ok || dir != NoDirection {
		t.Errorf("Expected unset last direction, got %v", dir)
	}

	slime.RecordStep(Left)
	if dir, ok := slime.LastDirection(); !ok || dir != Left {
		t.Errorf("Expected last direction left, got %v (set=%v)", dir, ok)
	}

	slime.RecordStep(Up)
	if dir, _ := slime.LastDirection(); dir != Up {
		t.Errorf("Expected last direction up, got %v", dir)
	}
}
