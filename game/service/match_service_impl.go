package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/domination/game/engine"
	"github.com/wricardo/domination/game/match"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrInvalidRequest = errors.New("invalid request")
)

// matchServiceImpl implements the MatchService interface
type matchServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
}

// NewMatchService creates a new match service instance
func NewMatchService(sessions SessionManager, configs ConfigManager) MatchService {
	return &matchServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// session looks up a match and refreshes its last access time
func (s *matchServiceImpl) session(matchID string) (*Session, error) {
	sess, err := s.sessions.Get(matchID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	if err := s.sessions.UpdateLastAccessed(matchID); err != nil {
		// Deleted between Get and the update; the snapshot is still usable
		log.Debug().Err(err).Str("matchId", matchID).Msg("Failed to update last access time")
	}
	return sess, nil
}

func toMatchInfo(sess *Session) *MatchInfo {
	return &MatchInfo{
		ID:             sess.ID,
		ConfigID:       sess.ConfigID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt(),
		State:          sess.Match.Snapshot(),
	}
}

// CreateMatch starts a new match on the named arena, or the default one
func (s *matchServiceImpl) CreateMatch(ctx context.Context, configName string) (*MatchInfo, error) {
	var config *engine.ArenaConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if available, listErr := s.configs.ListConfigs(); listErr == nil && len(available) > 0 {
				ids := make([]string, 0, len(available))
				for _, cfg := range available {
					ids = append(ids, cfg.ConfigID)
				}
				return nil, fmt.Errorf("config '%s': %w. Available configs: %s", configName, err, strings.Join(ids, ", "))
			}
			return nil, fmt.Errorf("config '%s': %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configName = "default"
	}

	sess, err := s.sessions.Create("", configName, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	log.Info().
		Str("matchId", sess.ID).
		Str("arena", config.Name).
		Int("enemies", len(config.Enemies)).
		Msg("Match created")

	return toMatchInfo(sess), nil
}

// GetMatch retrieves match information
func (s *matchServiceImpl) GetMatch(ctx context.Context, matchID string) (*MatchInfo, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}
	return toMatchInfo(sess), nil
}

// ListMatches returns all live matches
func (s *matchServiceImpl) ListMatches(ctx context.Context) ([]*MatchInfo, error) {
	sessions := s.sessions.List()
	result := make([]*MatchInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, toMatchInfo(sess))
	}
	return result, nil
}

// DeleteMatch removes a match
func (s *matchServiceImpl) DeleteMatch(ctx context.Context, matchID string) error {
	if err := s.sessions.Delete(matchID); err != nil {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	log.Info().Str("matchId", matchID).Msg("Match deleted")
	return nil
}

// Tick advances a match count times, stopping early if it finishes
func (s *matchServiceImpl) Tick(ctx context.Context, matchID string, count int) (*TickResult, error) {
	if count < 1 || count > MaxTicksPerCall {
		return nil, fmt.Errorf("%w: tick count must be between 1 and %d, got %d", ErrInvalidRequest, MaxTicksPerCall, count)
	}

	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}

	result := &TickResult{Reports: make([]*match.TickReport, 0, count)}
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report, err := sess.Match.Tick()
		if err != nil {
			if i == 0 {
				return nil, err
			}
			break
		}
		result.Reports = append(result.Reports, report)
		result.TicksExecuted++
	}
	result.State = sess.Match.Snapshot()
	return result, nil
}

// SetRoute replaces the route of one enemy
func (s *matchServiceImpl) SetRoute(ctx context.Context, matchID, enemy string, movements []engine.Movement) (*RouteInfo, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}
	if err := sess.Match.SetEnemyRoute(enemy, movements); err != nil {
		return nil, err
	}
	return s.routeInfo(sess, enemy)
}

// GetRoute returns the queued movements of one enemy
func (s *matchServiceImpl) GetRoute(ctx context.Context, matchID, enemy string) (*RouteInfo, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}
	return s.routeInfo(sess, enemy)
}

// PlanRoute sends an enemy towards a target cell
func (s *matchServiceImpl) PlanRoute(ctx context.Context, matchID, enemy string, target engine.Position) (*RouteInfo, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}
	if _, err := sess.Match.PlanRoute(enemy, target); err != nil {
		return nil, err
	}
	return s.routeInfo(sess, enemy)
}

func (s *matchServiceImpl) routeInfo(sess *Session, enemy string) (*RouteInfo, error) {
	movements, err := sess.Match.EnemyRoute(enemy)
	if err != nil {
		return nil, err
	}
	return &RouteInfo{MatchID: sess.ID, Enemy: enemy, Movements: movements}, nil
}

// CaptureTile credits a captured tile to the match score
func (s *matchServiceImpl) CaptureTile(ctx context.Context, matchID string, pos engine.Position) (*match.CaptureResult, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}
	result, err := sess.Match.CaptureTile(pos)
	if err != nil {
		return nil, err
	}
	if result.Finished {
		log.Info().Str("matchId", matchID).Msg("All tiles captured, match finished")
	}
	return result, nil
}

// StunEnemy records a stun and freezes the enemy
func (s *matchServiceImpl) StunEnemy(ctx context.Context, matchID, enemy string) (*engine.ScoreSummary, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}
	if err := sess.Match.StunEnemy(enemy); err != nil {
		return nil, err
	}
	score := sess.Match.Score()
	return &score, nil
}

// FinishMatch finalizes the score sheet
func (s *matchServiceImpl) FinishMatch(ctx context.Context, matchID string) (*engine.ScoreSummary, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}
	score, err := sess.Match.Finish()
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("matchId", matchID).
		Float64("capturedPct", score.FinalTilesCapturedPercentage).
		Msg("Match finished")

	return &score, nil
}

// GetScore returns the current score sheet
func (s *matchServiceImpl) GetScore(ctx context.Context, matchID string) (*engine.ScoreSummary, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}
	score := sess.Match.Score()
	return &score, nil
}

// ListConfigs lists available arena configurations
func (s *matchServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific arena configuration
func (s *matchServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.ArenaConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig validates and stores a new arena configuration
func (s *matchServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.ArenaConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	log.Info().Str("config", configName).Str("arena", config.Name).Msg("Arena config saved")
	return nil
}
