// Package session provides session management for the Mars Rovers service.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Simulation construction from a plateau or a mission
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the session manager that handles all session operations. Each
// service.Session owns one engine.Simulation together with creation and last
// access times.
//
// Session Identifiers:
//
// Sessions use 4-character hexadecimal IDs for easy reference, generated from
// cryptographic randomness. Lookups are case-insensitive.
//
// Sessions live in memory only; they are gone when the process exits.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", service.SimulationSpec{
//		Bounds: engine.Bounds{MaxX: 5, MaxY: 5},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Cleanup:
//
// Sessions can be explicitly deleted or removed by CleanupExpiredSessions
// once they have been idle longer than a retention window.
package session
