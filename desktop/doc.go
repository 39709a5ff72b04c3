// Package desktop provides the windowed frontend of the game.
//
// The window stays dark: the player navigates by ear, guided by the ambient
// sounds the sound.Mixer positions around them. Controls:
//
//	W / Up arrow     step forward
//	A / Left arrow   turn left
//	D / Right arrow  turn right
//	Esc              quit
//
// Two helpers are added on top: F1 toggles a debug overlay showing the maze,
// the landmark bearings and the session state, and C copies the turn
// transcript to the clipboard.
//
// Usage:
//
//	audioCtx := audio.NewContext(sound.SampleRate)
//	mixer := sound.NewMixer(audioCtx, "resources", level.Sounds)
//	sess, _ := manager.Create("", level, mixer)
//	if err := desktop.Run(ctx, sess, false); err != nil {
//		log.Fatal(err)
//	}
package desktop
