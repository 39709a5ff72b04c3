// Package websocket streams session events to read-only spectators.
//
// A Hub keeps the spectators of each session. Watch subscribes the hub to a
// session, after which every resolved action and the end of the session is
// pushed to the session's spectators as one JSON frame:
//
//	{"session_id": "3f2a9c1d", "event": "turn", "data": {...session.Event...}}
//
// Spectators cannot play. Frames they send are read and discarded so that
// pings and close frames are still handled.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	stop := hub.Watch(sess)
//	defer stop()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Publishing never blocks the game loop. When the hub falls behind, events
// are dropped, and a spectator whose own queue fills up is disconnected.
package websocket
