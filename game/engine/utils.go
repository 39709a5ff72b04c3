package engine

// ManhattanDistance calculates the Manhattan distance between two cells
func ManhattanDistance(from, to Cell) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// ShortestPath returns the number of forward steps on the shortest walkable
// route between two cells, ignoring turns. ok is false when to is unreachable.
func ShortestPath(grid *Grid, from, to Cell) (steps int, ok bool) {
	if grid.IsWall(from) || grid.IsWall(to) {
		return 0, false
	}

	dist := map[Cell]int{from: 0}
	queue := []Cell{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return dist[cur], true
		}
		for _, o := range []Orientation{Up, Down, Left, Right} {
			dx, dy := ForwardStep(o)
			next := cur.Add(dx, dy)
			if grid.IsWall(next) {
				continue
			}
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}

	return 0, false
}

// CountFloor counts the walkable cells of the grid
func CountFloor(grid *Grid) int {
	count := 0
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			if !grid.IsWall(Cell{x, y}) {
				count++
			}
		}
	}
	return count
}
