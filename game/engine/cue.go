package engine

import "math"

const (
	nearDistance   = 1.0
	maxMixerLevel  = 255.0
	fullRevolution = 360.0
)

// CueMapper turns bearings into mixer polar parameters for a given grid size
type CueMapper struct {
	diagonal float64
}

// NewCueMapper creates a mapper whose farthest distance is the grid diagonal
func NewCueMapper(grid *Grid) CueMapper {
	return CueMapper{diagonal: grid.Diagonal()}
}

// Diagonal returns the distance that maps to the farthest mixer level
func (m CueMapper) Diagonal() float64 {
	return m.diagonal
}

// MixerParameters converts a bearing into a polar angle in [0,360) and an
// attenuation distance in [0,255]
func (m CueMapper) MixerParameters(b Bearing) MixerParams {
	return MixerParams{
		Angle:    NormalizeAngle(b.AngleDeg),
		Distance: m.attenuation(b.Distance),
	}
}

func (m CueMapper) attenuation(distance float64) uint8 {
	v := Rescale(distance, nearDistance, m.diagonal, 0, maxMixerLevel)
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= maxMixerLevel {
		return uint8(maxMixerLevel)
	}
	return uint8(v)
}

// NormalizeAngle rounds angle to whole degrees and reduces it into [0,360)
func NormalizeAngle(angle float64) int {
	a := math.Mod(math.Round(angle), fullRevolution)
	if a < 0 {
		a += fullRevolution
	}
	return int(a) % int(fullRevolution)
}

// Rescale linearly maps value from [fromLow, fromHigh] onto [toLow, toHigh].
// Values outside the source range extrapolate; callers clamp as needed.
func Rescale(value, fromLow, fromHigh, toLow, toHigh float64) float64 {
	if fromHigh == fromLow {
		return toLow
	}
	return (toHigh-toLow)/(fromHigh-fromLow)*(value-fromLow) + toLow
}
