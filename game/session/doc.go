// Package session provides session management for the game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Short unique session IDs
//   - Serialised engine access for concurrent readers and one ticking writer
//   - Per-session event subscriptions and turn tracing
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Session wraps one engine behind a mutex together with its level and
// timestamps. Frontends drive it with Submit and Tick; turn-based clients use
// Act, which fast-forwards game time through the cues an action triggers.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", level, mixer)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	unsubscribe := sess.Subscribe(func(ev session.Event) {
//		log.Printf("%s: %s", ev.Type, ev.Turn.Message)
//	})
//	defer unsubscribe()
//
//	// once per frame
//	sess.Submit(engine.InputForward)
//	sess.Tick(ctx, 16*time.Millisecond)
//
// Tracing:
//
// Every resolved action is recorded as a "session.turn" span carrying the
// action, cue, gate and outcome.
package session
