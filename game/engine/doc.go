// Package engine provides the spatial-audio navigation core of the game.
//
// The engine package implements:
//   - Grid walkability and wall collision
//   - The four-way orientation model (turn table and forward steps)
//   - Player-relative bearings to the two landmarks (threat and exit)
//   - Mapping bearings onto mixer pan/attenuation parameters
//   - The turn state machine that gates input on cue playback
//   - The win/death/loss outcome sequence
//
// Core Types:
//
// Engine is one game session. It owns a TurnResolver (player, landmarks,
// gate, pending input) and an OutcomeTracker, and drives an AudioBackend.
// LevelConfig describes the maze and its sounds and is loaded from JSON.
//
// Usage:
//
//	level, err := engine.LoadLevelConfig("configs/cueva.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng, err := engine.NewEngine(level, backend)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// once per frame
//	eng.SubmitInput(engine.InputForward)
//	outcome := eng.Tick(16 * time.Millisecond)
//
// Game Rules:
//
// The player moves blind through the maze, guided only by the snoring of the
// monster and the sound of the waterfall at the exit. Walking into the monster
// kills the player (a death sting, then the game-over sting); reaching the
// waterfall wins. While a cue plays, input is ignored.
package engine
