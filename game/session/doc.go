// Package session provides in-memory storage for live Domination matches.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Short unique match IDs derived from random UUIDs
//   - Last-access tracking and expiry cleanup
//
// Each session owns one *match.Match. Matches are never written to disk.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", "courtyard", config)
//	if err != nil {
//		return err
//	}
//
//	sess, err = manager.Get(sess.ID)
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
package session
