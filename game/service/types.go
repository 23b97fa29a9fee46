package service

import (
	"time"

	"github.com/wricardo/domination/game/engine"
	"github.com/wricardo/domination/game/match"
)

// MatchInfo provides information about a live match
type MatchInfo struct {
	ID             string       `json:"id"`
	ConfigID       string       `json:"config_id"`
	CreatedAt      time.Time    `json:"created_at"`
	LastAccessedAt time.Time    `json:"last_accessed_at"`
	State          *match.State `json:"state"`
}

// TickResult contains the reports of one or more ticks
type TickResult struct {
	TicksExecuted int                 `json:"ticks_executed"`
	Reports       []*match.TickReport `json:"reports"`
	State         *match.State        `json:"state"`
}

// RouteInfo describes the queued movements of one enemy
type RouteInfo struct {
	MatchID   string            `json:"match_id"`
	Enemy     string            `json:"enemy"`
	Movements []engine.Movement `json:"movements"`
}

// ConfigInfo provides static metadata about an arena configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for match creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Enemies     int    `json:"enemies"`
}

// Event types broadcast to match subscribers
const (
	EventTick     = "tick"
	EventRoute    = "route_updated"
	EventCapture  = "tile_captured"
	EventStun     = "enemy_stunned"
	EventFinished = "match_finished"
)

// MaxTicksPerCall bounds a single Tick request
const MaxTicksPerCall = 100
