package engine

import (
	"errors"
	"math"
	"testing"
)

func TestScoreSheet_StartsAtZero(t *testing.T) {
	s := NewScoreSheet()
	if s.Summary() != (ScoreSummary{}) {
		t.Errorf("Expected zero summary, got %+v", s.Summary())
	}
	if s.IsFinalized() {
		t.Error("New sheet must not be finalized")
	}
}

func TestScoreSheet_CountersAreIndependent(t *testing.T) {
	s := NewScoreSheet()

	ops := []func() error{
		func() error { return s.AddGoldTilesCaptured(1) },
		func() error { return s.AddNormalTilesCaptured(2) },
		func() error { return s.AddGoldTilesCaptured(1) },
		func() error { return s.AddEnemiesStunned(1) },
		func() error { return s.AddRushTilesCaptured(4) },
		func() error { return s.AddGoldTilesCaptured(1) },
		func() error { return s.AddPowerTilesCaptured(3) },
	}
	for i, op := range ops {
		if err := op(); err != nil {
			t.Fatalf("Operation %d failed: %v", i, err)
		}
	}

	expected := ScoreSummary{
		TotalNormalTilesCaptured: 2,
		TotalRushTilesCaptured:   4,
		TotalEnemiesStunned:      1,
		TotalGoldTilesCaptured:   3,
		TotalPowerTilesCaptured:  3,
	}
	if s.Summary() != expected {
		t.Errorf("Expected %+v, got %+v", expected, s.Summary())
	}
	if s.TotalTilesCaptured() != 12 {
		t.Errorf("Expected 12 tiles captured, got %d", s.TotalTilesCaptured())
	}
}

func TestScoreSheet_RejectsNegativeDelta(t *testing.T) {
	s := NewScoreSheet()
	if err := s.AddNormalTilesCaptured(-1); !errors.Is(err, ErrInvalidScoreDelta) {
		t.Errorf("Expected ErrInvalidScoreDelta, got %v", err)
	}
	if s.TotalNormalTilesCaptured() != 0 {
		t.Error("Rejected delta must not change the counter")
	}
}

func TestScoreSheet_FinalizeScenario(t *testing.T) {
	s := NewScoreSheet()
	for i := 0; i < 5; i++ {
		if err := s.AddNormalTilesCaptured(1); err != nil {
			t.Fatalf("AddNormalTilesCaptured failed: %v", err)
		}
	}
	if err := s.AddEnemiesStunned(1); err != nil {
		t.Fatalf("AddEnemiesStunned failed: %v", err)
	}
	if err := s.Finalize(42.5); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if s.TotalNormalTilesCaptured() != 5 {
		t.Errorf("Expected 5 normal tiles, got %d", s.TotalNormalTilesCaptured())
	}
	if s.TotalEnemiesStunned() != 1 {
		t.Errorf("Expected 1 stun, got %d", s.TotalEnemiesStunned())
	}
	if s.TotalRushTilesCaptured() != 0 || s.TotalGoldTilesCaptured() != 0 || s.TotalPowerTilesCaptured() != 0 {
		t.Errorf("Untouched counters must stay zero: %+v", s.Summary())
	}
	if s.FinalTilesCapturedPercentage() != 42.5 {
		t.Errorf("Expected 42.5%%, got %v", s.FinalTilesCapturedPercentage())
	}

	mutators := map[string]func(int) error{
		"normal": s.AddNormalTilesCaptured,
		"rush":   s.AddRushTilesCaptured,
		"stun":   s.AddEnemiesStunned,
		"gold":   s.AddGoldTilesCaptured,
		"power":  s.AddPowerTilesCaptured,
	}
	for name, mutate := range mutators {
		if err := mutate(1); !errors.Is(err, ErrAlreadyFinalized) {
			t.Errorf("%s: expected ErrAlreadyFinalized, got %v", name, err)
		}
	}
	if err := s.Finalize(50); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("Expected second Finalize to fail, got %v", err)
	}
	if s.FinalTilesCapturedPercentage() != 42.5 {
		t.Error("Percentage must not change after a rejected Finalize")
	}
}

func TestScoreSheet_FinalizeRange(t *testing.T) {
	tests := []struct {
		pct     float64
		wantErr bool
	}{
		{0, false},
		{100, false},
		{66.6, false},
		{-0.1, true},
		{100.01, true},
		{math.NaN(), true},
	}

	for _, test := range tests {
		s := NewScoreSheet()
		err := s.Finalize(test.pct)
		if test.wantErr {
			if !errors.Is(err, ErrInvalidPercentage) {
				t.Errorf("Finalize(%v): expected ErrInvalidPercentage, got %v", test.pct, err)
			}
			if s.IsFinalized() {
				t.Errorf("Finalize(%v): rejected call must not finalize", test.pct)
			}
			continue
		}
		if err != nil {
			t.Errorf("Finalize(%v): unexpected error %v", test.pct, err)
		}
	}
}
