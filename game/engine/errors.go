package engine

import "errors"

var (
	ErrEmptyRoute        = errors.New("route has no current movement")
	ErrInvalidMovement   = errors.New("invalid movement")
	ErrInvalidDirection  = errors.New("invalid direction")
	ErrInvalidActor      = errors.New("invalid actor")
	ErrAlreadyFinalized  = errors.New("score sheet already finalized")
	ErrInvalidScoreDelta = errors.New("score delta must not be negative")
	ErrInvalidPercentage = errors.New("percentage must be between 0 and 100")
)
