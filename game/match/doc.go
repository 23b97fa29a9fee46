// Package match drives the engine: it places enemies on an arena grid,
// advances them one cell per tick along their routes, and applies the
// capture and stun rules that feed the score sheet.
//
// A Match serializes every operation behind its own mutex, so a ticker
// goroutine and request handlers may share it.
package match
