// Package autoplay plays Domination matches against a running server through
// its REST API.
//
// A SweepStrategy decides one action per turn: capture the nearest tile no
// active enemy stands on, or stun the enemy guarding the nearest remaining
// tile. Play alternates captures with single ticks until the arena is
// cleared or the turn limit is reached, then returns the final score sheet.
//
// Usage:
//
//	client := autoplay.NewClient("http://localhost:8080")
//	result, err := autoplay.Play(ctx, client, autoplay.Options{Arena: "courtyard"})
package autoplay
