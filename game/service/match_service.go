package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/domination/game/engine"
	"github.com/wricardo/domination/game/match"
)

// MatchService defines all match-related operations
type MatchService interface {
	// Match management
	CreateMatch(ctx context.Context, configName string) (*MatchInfo, error)
	GetMatch(ctx context.Context, matchID string) (*MatchInfo, error)
	ListMatches(ctx context.Context) ([]*MatchInfo, error)
	DeleteMatch(ctx context.Context, matchID string) error

	// Driving
	Tick(ctx context.Context, matchID string, count int) (*TickResult, error)
	SetRoute(ctx context.Context, matchID, enemy string, movements []engine.Movement) (*RouteInfo, error)
	GetRoute(ctx context.Context, matchID, enemy string) (*RouteInfo, error)
	PlanRoute(ctx context.Context, matchID, enemy string, target engine.Position) (*RouteInfo, error)

	// Rules and scoring
	CaptureTile(ctx context.Context, matchID string, pos engine.Position) (*match.CaptureResult, error)
	StunEnemy(ctx context.Context, matchID, enemy string) (*engine.ScoreSummary, error)
	FinishMatch(ctx context.Context, matchID string) (*engine.ScoreSummary, error)
	GetScore(ctx context.Context, matchID string) (*engine.ScoreSummary, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.ArenaConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.ArenaConfig) error
}

// SessionManager defines match session storage operations
type SessionManager interface {
	Create(id, configID string, config *engine.ArenaConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles arena configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.ArenaConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.ArenaConfig
	SaveConfig(name string, config *engine.ArenaConfig) error
}

// Session represents a live match. The last access time has its own lock
// since it is read and written outside the session manager.
type Session struct {
	ID        string
	ConfigID  string
	Match     *match.Match
	CreatedAt time.Time

	mu             sync.Mutex
	lastAccessedAt time.Time
}

// NewSession wraps a match created at now
func NewSession(id, configID string, m *match.Match, now time.Time) *Session {
	return &Session{
		ID:             id,
		ConfigID:       configID,
		Match:          m,
		CreatedAt:      now,
		lastAccessedAt: now,
	}
}

// Touch records an access at the given time
func (s *Session) Touch(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccessedAt = at
}

// LastAccessedAt returns the time of the most recent access
func (s *Session) LastAccessedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}
