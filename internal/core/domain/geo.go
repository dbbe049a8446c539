package domain

import "github.com/paulmach/orb"

// Point returns the sensor location as a planar point.
func (s Sensor) Point() orb.Point {
	return orb.Point{s.X, s.Y}
}

// Rows returns the number of rows.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the length of the first row, or 0 for an empty grid.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// IsRectangular reports whether every row has the same length.
func (g Grid) IsRectangular() bool {
	cols := g.Cols()
	for _, row := range g {
		if len(row) != cols {
			return false
		}
	}
	return true
}

// SameShape reports whether g and o have identical dimensions row by row.
func (g Grid) SameShape(o Grid) bool {
	if len(g) != len(o) {
		return false
	}
	for i := range g {
		if len(g[i]) != len(o[i]) {
			return false
		}
	}
	return true
}

// NewGrid allocates a zeroed rows×cols grid backed by one slice.
func NewGrid(rows, cols int) Grid {
	backing := make([]float64, rows*cols)
	g := make(Grid, rows)
	for i := range g {
		g[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return g
}
