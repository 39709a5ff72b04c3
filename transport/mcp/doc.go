// Package mcp exposes the game to AI agents over the Model Context Protocol.
//
// Server registers one tool per service operation (create_session, act,
// bulk_act, listen, session_state, turn_history, list_sessions, list_levels
// and game_instructions) and serves them over stdio. Tool results are plain
// text: the narrated cues an agent would otherwise have to hear, plus a short
// status block.
//
// Usage:
//
//	srv := mcp.NewServer(gameService)
//	if err := srv.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
//
// Stdout carries the protocol, so everything else must log to stderr.
package mcp
