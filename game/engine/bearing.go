package engine

import "math"

// facingOffset rotates an absolute atan2 angle into the player's frame so that
// straight ahead reads as 0 and angles grow clockwise.
var facingOffset = [4]float64{
	Up:    90,
	Down:  -90,
	Left:  180,
	Right: 0,
}

// RelativeBearing converts a landmark's absolute cell into an angle and a
// Euclidean distance relative to the player's cell and facing.
// A landmark on the player's own cell is straight ahead at distance 0 in every facing.
func RelativeBearing(player PlayerState, landmark Cell) Bearing {
	dx := float64(landmark.X - player.Cell.X)
	dy := float64(landmark.Y - player.Cell.Y)
	if dx == 0 && dy == 0 {
		return Bearing{}
	}

	absolute := math.Atan2(dy, dx) * 180 / math.Pi

	offset := 0.0
	if player.Orientation.Valid() {
		offset = facingOffset[player.Orientation]
	}

	angle := -absolute + offset
	if angle == 0 {
		// avoid -0 leaking into JSON and logs
		angle = 0
	}

	return Bearing{
		AngleDeg: angle,
		Distance: math.Hypot(dx, dy),
	}
}
