// Package console provides a terminal frontend built on tcell.
//
// It runs the same fixed-rate loop as the desktop window, but instead of
// playing sounds it prints what the player would hear: the narration of every
// cue as a scrolling log, and the current direction and range of each ambient
// sound in the header. Useful without an audio device or over SSH.
package console
