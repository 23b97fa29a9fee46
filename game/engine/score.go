package engine

import (
	"fmt"
	"math"
)

// ScoreSheet aggregates capture and stun counters for one match.
// Counters only grow. Once Finalize has been called the sheet is read-only.
//
// ScoreSheet has no internal locking; callers serialize access.
type ScoreSheet struct {
	normalTilesCaptured int
	rushTilesCaptured   int
	enemiesStunned      int
	goldTilesCaptured   int
	powerTilesCaptured  int

	finalTilesCapturedPercentage float64
	finalized                    bool
}

// ScoreSummary is a read-only copy of a ScoreSheet.
type ScoreSummary struct {
	TotalNormalTilesCaptured     int     `json:"total_normal_tiles_captured"`
	TotalRushTilesCaptured       int     `json:"total_rush_tiles_captured"`
	TotalEnemiesStunned          int     `json:"total_enemies_stunned"`
	TotalGoldTilesCaptured       int     `json:"total_gold_tiles_captured"`
	TotalPowerTilesCaptured      int     `json:"total_power_tiles_captured"`
	FinalTilesCapturedPercentage float64 `json:"final_tiles_captured_percentage"`
	Finalized                    bool    `json:"finalized"`
}

// NewScoreSheet returns a sheet with every field at zero.
func NewScoreSheet() *ScoreSheet {
	return &ScoreSheet{}
}

func (s *ScoreSheet) add(counter *int, n int, what string) error {
	if s.finalized {
		return fmt.Errorf("%w: cannot add %s", ErrAlreadyFinalized, what)
	}
	if n < 0 {
		return fmt.Errorf("%w: %s %d", ErrInvalidScoreDelta, what, n)
	}
	*counter += n
	return nil
}

// AddNormalTilesCaptured credits n normal tiles. It fails with
// ErrAlreadyFinalized after Finalize and ErrInvalidScoreDelta for negative n.
func (s *ScoreSheet) AddNormalTilesCaptured(n int) error {
	return s.add(&s.normalTilesCaptured, n, "normal tiles")
}

// AddRushTilesCaptured credits n rush tiles. Same errors as
// AddNormalTilesCaptured.
func (s *ScoreSheet) AddRushTilesCaptured(n int) error {
	return s.add(&s.rushTilesCaptured, n, "rush tiles")
}

// AddEnemiesStunned credits n stuns. Fails with ErrAlreadyFinalized once the
// sheet is finalized.
func (s *ScoreSheet) AddEnemiesStunned(n int) error {
	return s.add(&s.enemiesStunned, n, "stunned enemies")
}

// AddGoldTilesCaptured credits n gold tiles. Fails with ErrAlreadyFinalized
// once the sheet is finalized.
func (s *ScoreSheet) AddGoldTilesCaptured(n int) error {
	return s.add(&s.goldTilesCaptured, n, "gold tiles")
}

// AddPowerTilesCaptured credits n power tiles. Fails with ErrAlreadyFinalized
// once the sheet is finalized.
func (s *ScoreSheet) AddPowerTilesCaptured(n int) error {
	return s.add(&s.powerTilesCaptured, n, "power tiles")
}

// Finalize records the final captured-tile percentage and freezes the sheet.
// The percentage is supplied by the caller, who knows the grid size.
func (s *ScoreSheet) Finalize(percentage float64) error {
	if s.finalized {
		return ErrAlreadyFinalized
	}
	if percentage < 0 || percentage > 100 || math.IsNaN(percentage) {
		return fmt.Errorf("%w: got %v", ErrInvalidPercentage, percentage)
	}
	s.finalTilesCapturedPercentage = percentage
	s.finalized = true
	return nil
}

// Counter accessors. They stay readable after Finalize.

// TotalNormalTilesCaptured returns the normal tile counter.
func (s *ScoreSheet) TotalNormalTilesCaptured() int { return s.normalTilesCaptured }

// TotalRushTilesCaptured returns the rush tile counter.
func (s *ScoreSheet) TotalRushTilesCaptured() int { return s.rushTilesCaptured }

// TotalEnemiesStunned returns the stun counter.
func (s *ScoreSheet) TotalEnemiesStunned() int { return s.enemiesStunned }

// TotalGoldTilesCaptured returns the gold tile counter.
func (s *ScoreSheet) TotalGoldTilesCaptured() int { return s.goldTilesCaptured }

// TotalPowerTilesCaptured returns the power tile counter.
func (s *ScoreSheet) TotalPowerTilesCaptured() int { return s.powerTilesCaptured }

// FinalTilesCapturedPercentage returns the percentage recorded by Finalize,
// or zero before then.
func (s *ScoreSheet) FinalTilesCapturedPercentage() float64 {
	return s.finalTilesCapturedPercentage
}

// IsFinalized reports whether Finalize has succeeded.
func (s *ScoreSheet) IsFinalized() bool {
	return s.finalized
}

// TotalTilesCaptured sums the four tile counters.
func (s *ScoreSheet) TotalTilesCaptured() int {
	return s.normalTilesCaptured + s.rushTilesCaptured + s.goldTilesCaptured + s.powerTilesCaptured
}

// Summary returns a copy suitable for JSON responses.
func (s *ScoreSheet) Summary() ScoreSummary {
	return ScoreSummary{
		TotalNormalTilesCaptured:     s.normalTilesCaptured,
		TotalRushTilesCaptured:       s.rushTilesCaptured,
		TotalEnemiesStunned:          s.enemiesStunned,
		TotalGoldTilesCaptured:       s.goldTilesCaptured,
		TotalPowerTilesCaptured:      s.powerTilesCaptured,
		FinalTilesCapturedPercentage: s.finalTilesCapturedPercentage,
		Finalized:                    s.finalized,
	}
}
