package autoplay

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/domination/game/engine"
	"github.com/wricardo/domination/game/match"
)

// DefaultMaxTurns bounds a game when Options.MaxTurns is not set
const DefaultMaxTurns = 500

// Options controls a single automated game
type Options struct {
	Arena    string
	MaxTurns int
	// Delay between turns, so the game can be watched over WebSocket
	Delay time.Duration
}

// Result summarizes an automated game
type Result struct {
	MatchID  string              `json:"match_id"`
	Turns    int                 `json:"turns"`
	Captures int                 `json:"captures"`
	Stuns    int                 `json:"stuns"`
	Cleared  bool                `json:"cleared"`
	Score    engine.ScoreSummary `json:"score"`
}

// Play creates a match and drives it with a SweepStrategy. A capture turn is
// followed by one tick; a stun turn is not, so the stunned enemy's tiles are
// free on the next turn. When the turn limit is reached before the arena is
// cleared the match is finished explicitly.
func Play(ctx context.Context, client *Client, opts Options) (*Result, error) {
	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	info, err := client.CreateMatch(ctx, opts.Arena)
	if err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	log.Info().
		Str("matchId", info.ID).
		Str("arena", info.State.ArenaName).
		Int("capturable", info.State.CapturableTiles).
		Msg("Autoplay started")

	result := &Result{MatchID: info.ID}
	state := info.State
	strategy := NewSweepStrategy()

	for result.Turns < maxTurns && state.Status == match.StatusRunning {
		result.Turns++
		action := strategy.Next(state)

		log.Debug().
			Int("turn", result.Turns).
			Str("action", string(action.Kind)).
			Int("x", action.Position.X).
			Int("y", action.Position.Y).
			Str("enemy", action.Enemy).
			Msg("Autoplay turn")

		switch action.Kind {
		case ActionDone:
			result.Cleared = true
		case ActionCapture:
			captured, err := client.Capture(ctx, info.ID, action.Position)
			if err != nil {
				return nil, fmt.Errorf("turn %d: %w", result.Turns, err)
			}
			result.Captures++
			result.Cleared = captured.Finished
		case ActionStun:
			if _, err := client.Stun(ctx, info.ID, action.Enemy); err != nil {
				return nil, fmt.Errorf("turn %d: %w", result.Turns, err)
			}
			result.Stuns++

			current, err := client.Match(ctx, info.ID)
			if err != nil {
				return nil, fmt.Errorf("turn %d: %w", result.Turns, err)
			}
			state = current.State
			continue
		}
		if result.Cleared {
			break
		}

		ticked, err := client.Tick(ctx, info.ID)
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", result.Turns, err)
		}
		state = ticked.State

		if opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}

	var score *engine.ScoreSummary
	if result.Cleared {
		score, err = client.Score(ctx, info.ID)
	} else {
		score, err = client.Finish(ctx, info.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("final score: %w", err)
	}
	result.Score = *score

	log.Info().
		Str("matchId", info.ID).
		Int("turns", result.Turns).
		Int("captures", result.Captures).
		Int("stuns", result.Stuns).
		Float64("capturedPct", score.FinalTilesCapturedPercentage).
		Msg("Autoplay finished")

	return result, nil
}
