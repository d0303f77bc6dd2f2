// Package geom holds the collision and grid helpers shared by the games.
package geom

// Rect is an axis-aligned box with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Overlaps reports whether r and o share any area. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W &&
		r.X+r.W > o.X &&
		r.Y < o.Y+o.H &&
		r.Y+r.H > o.Y
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Cell is a grid position, or a unit direction when used as a velocity.
type Cell struct {
	X, Y int
}

var (
	Up    = Cell{0, -1}
	Down  = Cell{0, 1}
	Left  = Cell{-1, 0}
	Right = Cell{1, 0}
)

func (c Cell) Add(o Cell) Cell { return Cell{c.X + o.X, c.Y + o.Y} }

// Reverse returns the opposite direction.
func (c Cell) Reverse() Cell { return Cell{-c.X, -c.Y} }

// Grid is a W x H board of cells.
type Grid struct {
	W, H int
}

// Contains reports whether c lies on the board.
func (g Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.W && c.Y < g.H
}

// Cells returns the number of cells on the board.
func (g Grid) Cells() int { return g.W * g.H }

// Center returns the middle cell, rounding down.
func (g Grid) Center() Cell { return Cell{g.W / 2, g.H / 2} }
