// Package engine provides the grid movement and scoring core of the
// Domination tile-capture game.
//
// The engine package implements:
//   - Direction, the four axis-aligned grid directions
//   - Movement, a direction plus a remaining step count
//   - Route, the FIFO queue of movements an actor will execute
//   - Enemy, a named and sized grid actor that remembers its last direction
//   - ScoreSheet, the capture and stun counters of a match
//   - ArenaConfig loading and validation
//
// The engine holds state and enforces invariants only. Mapping directions to
// unit vectors, collision and capture rules live in the match driver.
//
// Usage:
//
//	route := engine.NewRoute()
//	right, _ := engine.NewMovement(engine.Right, 2)
//	down, _ := engine.NewMovement(engine.Down, 1)
//	route.SetRoute([]engine.Movement{right, down})
//
//	// One tick of a driver
//	if m, ok := route.CurrentMovement(); ok {
//		_ = m.Step()
//		if m.Exhausted() {
//			_ = route.CompleteCurrentMovement()
//		}
//	}
//
// Concurrency:
//
// None of the types lock. A match owns its routes, enemies and score sheet
// and serializes access to them.
package engine
