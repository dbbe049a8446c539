package geospatial

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestGridCoordinate(t *testing.T) {
	if got := GridCoordinate(0, 100); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if got := GridCoordinate(99, 100); got != 1 {
		t.Errorf("expected 1, got %v", got)
	}
	if got := GridCoordinate(2, 5); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
}

func TestInUnitSquare(t *testing.T) {
	if !InUnitSquare(orb.Point{0.5, 0.5}) {
		t.Error("center should be inside")
	}
	if !InUnitSquare(orb.Point{1, 0}) {
		t.Error("corner should be inside")
	}
	if InUnitSquare(orb.Point{1.2, 0.5}) {
		t.Error("x=1.2 should be outside")
	}
}

func TestMinMax(t *testing.T) {
	lo, hi := MinMax([][]float64{{3, 7}, {-1, 4}, {9, 0}})
	if lo != -1 || hi != 9 {
		t.Errorf("expected (-1, 9), got (%v, %v)", lo, hi)
	}
}
