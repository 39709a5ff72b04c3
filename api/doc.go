// Package api provides the read-only debug HTTP server.
//
// Endpoints:
//   - GET /health - liveness
//   - GET /api/sessions - list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - one session's snapshot
//   - GET /api/sessions/{id}/history - transcript page (?page=&limit=&order=)
//   - GET /api/sessions/{id}/listen - where each landmark sounds from
//   - GET /api/levels - available levels
//   - GET /ws?session={id} - spectate a session over WebSocket
//
// Nothing here can change a game: sessions are played only by the local
// frontend that created them (desktop window, terminal or MCP tools).
//
// Errors are returned as JSON with a matching status code:
//
//	{"error": "session 3f2a9c1d: session not found"}
package api
