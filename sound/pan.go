package sound

import (
	"fmt"
	"math"

	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
)

const (
	maxDistance = 255.0

	// farGain is the attenuation left at the farthest mixer distance
	farGain = 0.15
)

// Gains converts polar mixer parameters into left and right channel gains in
// [0,1]. The angle pans with constant power (90 fully right, 270 fully left)
// and the distance attenuates linearly down to farGain at 255, so a landmark
// in the far corner of the maze is still heard.
func Gains(p engine.MixerParams) (left, right float64) {
	pan := math.Sin(float64(p.Angle) * math.Pi / 180)
	theta := (pan + 1) * math.Pi / 4
	att := 1 - (1-farGain)*float64(p.Distance)/maxDistance
	return math.Cos(theta) * att, math.Sin(theta) * att
}

// EffectiveVolume maps a level's ambient volume onto a gain; unset means full
func EffectiveVolume(v float64) float64 {
	if v <= 0 {
		return 1
	}
	if v > 1 {
		return 1
	}
	return v
}

var sectors = [8]string{
	"ahead", "ahead-right", "right", "behind-right",
	"behind", "behind-left", "left", "ahead-left",
}

// Sector names the 45 degree slice of the player's surroundings an angle falls in
func Sector(angle int) string {
	a := ((angle % 360) + 360) % 360
	return sectors[((a*2+45)/90)%8]
}

// Range names a mixer distance band
func Range(distance uint8) string {
	switch {
	case distance < 40:
		return "very close"
	case distance < 100:
		return "close"
	case distance < 170:
		return "far"
	}
	return "very far"
}

// Describe renders mixer parameters as text, e.g. "ahead-left, far"
func Describe(p engine.MixerParams) string {
	return fmt.Sprintf("%s, %s", Sector(p.Angle), Range(p.Distance))
}
