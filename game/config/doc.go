// Package config provides level management for the game.
//
// The config package handles:
//   - Loading level JSON files from a directory
//   - Falling back to the levels embedded in the binary
//   - Caching parsed and validated levels
//   - Level discovery and listing
//
// Level Format:
//
// A level is a JSON document describing the maze as text rows ('#' wall,
// '.' floor, first row at the top), the spawn cell and facing, the threat and
// exit cells, and the sound assets for every cue and ambient landmark.
//
// Embedded Levels:
//
//   - cueva: the 10x10 cave with the snoring monster and the waterfall
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, err := manager.LoadLevel("cueva")
//	if errors.Is(err, config.ErrLevelNotFound) {
//		level = manager.GetDefault()
//	}
//
// Validation:
//
// Every level goes through engine.ValidateLevelConfig before it is cached, so
// a level returned by the manager always starts a session.
package config
