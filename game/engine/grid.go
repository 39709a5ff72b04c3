package engine

import (
	"fmt"
	"math"
)

// Grid is an immutable walkability lookup over a fixed-size cell array
type Grid struct {
	width  int
	height int
	walls  []bool // index y*width + x
}

// NewGrid builds a grid from text rows. The first row is the top of the maze
// (highest Y); '#' is a wall and '.' is floor.
func NewGrid(layout []string) (*Grid, error) {
	if len(layout) == 0 {
		return nil, fmt.Errorf("%w: layout is empty", ErrInvalidLevel)
	}

	height := len(layout)
	width := len(layout[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: layout row 1 is empty", ErrInvalidLevel)
	}

	g := &Grid{
		width:  width,
		height: height,
		walls:  make([]bool, width*height),
	}

	for row, line := range layout {
		if len(line) != width {
			return nil, fmt.Errorf("%w: layout row %d has %d cells, expected %d",
				ErrInvalidLevel, row+1, len(line), width)
		}
		y := height - 1 - row
		for x := 0; x < width; x++ {
			switch line[x] {
			case WallChar:
				g.walls[y*width+x] = true
			case FloorChar:
			default:
				return nil, fmt.Errorf("%w: invalid character '%c' at row %d, col %d",
					ErrInvalidLevel, line[x], row+1, x+1)
			}
		}
	}

	return g, nil
}

// Width returns the number of columns
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows
func (g *Grid) Height() int { return g.height }

// Diagonal returns the length of the grid diagonal in cells
func (g *Grid) Diagonal() float64 {
	return math.Sqrt(float64(g.width*g.width + g.height*g.height))
}

// Contains reports whether c lies inside the grid
func (g *Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// IsWall reports whether c is impassable. Cells outside the grid count as walls.
func (g *Grid) IsWall(c Cell) bool {
	if !g.Contains(c) {
		return true
	}
	return g.walls[c.Y*g.width+c.X]
}

// Sealed reports whether the outer ring is entirely walls
func (g *Grid) Sealed() bool {
	for x := 0; x < g.width; x++ {
		if !g.IsWall(Cell{x, 0}) || !g.IsWall(Cell{x, g.height - 1}) {
			return false
		}
	}
	for y := 0; y < g.height; y++ {
		if !g.IsWall(Cell{0, y}) || !g.IsWall(Cell{g.width - 1, y}) {
			return false
		}
	}
	return true
}

// Rows renders the grid back into layout rows, top row first
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	for row := range rows {
		y := g.height - 1 - row
		line := make([]byte, g.width)
		for x := 0; x < g.width; x++ {
			line[x] = FloorChar
			if g.walls[y*g.width+x] {
				line[x] = WallChar
			}
		}
		rows[row] = string(line)
	}
	return rows
}
