// Package sound implements the audio backends the engine drives.
//
// Mixer plays WAV assets through an ebiten audio context: one retriggerable
// player per cue, and one looping player per ambient landmark whose stereo
// gains follow the polar parameters pushed by the engine.
//
// Narrator is a text backend. It turns cues into narration lines and cue
// durations into the values declared by the level, for terminals and agents
// that have no audio device.
//
// Gains and Describe are the pure mappings both backends share.
package sound
