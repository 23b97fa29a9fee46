package match

import (
	"errors"
	"fmt"

	"github.com/wricardo/domination/game/engine"
)

var (
	ErrEnemyNotFound       = errors.New("enemy not found")
	ErrOutOfBounds         = errors.New("position is outside the arena")
	ErrTileNotCapturable   = errors.New("tile cannot be captured")
	ErrTileAlreadyCaptured = errors.New("tile already captured")
	ErrUnreachableTarget   = errors.New("target cannot be reached")

	// ErrMatchFinished wraps engine.ErrAlreadyFinalized so scoring callers can
	// match either one.
	ErrMatchFinished = fmt.Errorf("match finished: %w", engine.ErrAlreadyFinalized)
)
