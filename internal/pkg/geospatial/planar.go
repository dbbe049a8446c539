package geospatial

import (
	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/floats"
)

// GridCoordinate maps index i of an n-cell axis onto [0, 1].
func GridCoordinate(i, n int) float64 {
	return float64(i) / float64(n-1)
}

// CellPoint returns the planar point for normalized grid coordinates.
func CellPoint(x, y float64) orb.Point {
	return orb.Point{x, y}
}

// InUnitSquare reports whether p lies inside the normalized [0,1]² space.
func InUnitSquare(p orb.Point) bool {
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}.Contains(p)
}

// MinMax returns the smallest and largest value across all rows.
// It panics if rows is empty or contains an empty row.
func MinMax(rows [][]float64) (lo, hi float64) {
	lo, hi = floats.Min(rows[0]), floats.Max(rows[0])
	for _, r := range rows[1:] {
		if m := floats.Min(r); m < lo {
			lo = m
		}
		if m := floats.Max(r); m > hi {
			hi = m
		}
	}
	return lo, hi
}
