package engine

// turnTable maps a facing and a turn direction to the new facing.
// Indexed [current][direction-1].
var turnTable = [4][2]Orientation{
	Up:    {Left, Right},
	Down:  {Right, Left},
	Left:  {Down, Up},
	Right: {Up, Down},
}

// Turn returns the facing after turning in the given direction.
// NoTurn and unknown facings leave the orientation unchanged.
func Turn(current Orientation, direction TurnDirection) Orientation {
	if !current.Valid() || (direction != TurnLeft && direction != TurnRight) {
		return current
	}
	return turnTable[current][direction-1]
}

// ForwardStep returns the cell delta of one step in the given facing
func ForwardStep(o Orientation) (dx, dy int) {
	switch o {
	case Up:
		return 0, 1
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}
