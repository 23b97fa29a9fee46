package match

import "github.com/wricardo/domination/game/engine"

// Status is the lifecycle state of a match
type Status string

const (
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
)

// EnemyState is the read model of one enemy
type EnemyState struct {
	Name           string            `json:"name"`
	Size           engine.Size       `json:"size"`
	Position       engine.Position   `json:"position"`
	LastDirection  engine.Direction  `json:"last_direction,omitempty"`
	StunnedFor     int               `json:"stunned_for,omitempty"`
	LoopPatrol     bool              `json:"loop_patrol,omitempty"`
	RemainingMoves int               `json:"remaining_moves"`
	Route          []engine.Movement `json:"route"`
}

// State is a point-in-time snapshot of a match, safe to serialize
type State struct {
	ID              string              `json:"id"`
	ArenaName       string              `json:"arena_name"`
	Status          Status              `json:"status"`
	Tick            int64               `json:"tick"`
	Width           int                 `json:"width"`
	Height          int                 `json:"height"`
	Grid            [][]engine.Tile     `json:"grid"`
	Enemies         []EnemyState        `json:"enemies"`
	CapturableTiles int                 `json:"capturable_tiles"`
	CapturedTiles   int                 `json:"captured_tiles"`
	Score           engine.ScoreSummary `json:"score"`
}

// StepOutcome describes what happened to an enemy during one tick
type StepOutcome string

const (
	OutcomeMoved   StepOutcome = "moved"
	OutcomeBlocked StepOutcome = "blocked"
	OutcomeStunned StepOutcome = "stunned"
	OutcomeIdle    StepOutcome = "idle"
)

// StepRecord is the per-enemy entry of a TickReport
type StepRecord struct {
	Enemy     string           `json:"enemy"`
	Outcome   StepOutcome      `json:"outcome"`
	Direction engine.Direction `json:"direction,omitempty"`
	From      engine.Position  `json:"from"`
	To        engine.Position  `json:"to"`
}

// TickReport summarizes one tick of the driver
type TickReport struct {
	Tick  int64        `json:"tick"`
	Steps []StepRecord `json:"steps"`
}

// CaptureResult describes a successful capture
type CaptureResult struct {
	Position engine.Position `json:"position"`
	Kind     engine.TileKind `json:"kind"`
	Finished bool            `json:"finished"`
}
