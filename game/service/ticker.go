package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/domination/game/match"
)

// TickHandler receives the state of a match after every automatic tick
type TickHandler func(matchID string, report *match.TickReport, state *match.State)

// Ticker advances every running match at a fixed rate
type Ticker struct {
	sessions SessionManager
	interval time.Duration
	onTick   TickHandler
}

// NewTicker creates a ticker; onTick may be nil
func NewTicker(sessions SessionManager, interval time.Duration, onTick TickHandler) *Ticker {
	return &Ticker{
		sessions: sessions,
		interval: interval,
		onTick:   onTick,
	}
}

// Run blocks until ctx is cancelled
func (t *Ticker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", t.interval).Msg("Started match ticker")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Stopped match ticker")
			return
		case <-ticker.C:
			t.TickAll()
		}
	}
}

// TickAll advances every running match once and returns how many advanced
func (t *Ticker) TickAll() int {
	advanced := 0
	for _, sess := range t.sessions.List() {
		if sess.Match.Status() != match.StatusRunning {
			continue
		}
		report, err := sess.Match.Tick()
		if err != nil {
			// The match may finish between the status check and the tick
			if !errors.Is(err, match.ErrMatchFinished) {
				log.Error().Err(err).Str("matchId", sess.ID).Msg("Error ticking match")
			}
			continue
		}
		advanced++
		if t.onTick != nil {
			t.onTick(sess.ID, report, sess.Match.Snapshot())
		}
	}
	return advanced
}
