package domain_test

import (
	"testing"

	"github.com/samirrijal/aqgrid/internal/core/domain"
)

func TestCategoryFor(t *testing.T) {
	cases := []struct {
		aqi  float64
		want domain.AQICategory
	}{
		{0, domain.CategoryGood},
		{50, domain.CategoryGood},
		{50.5, domain.CategoryModerate},
		{100, domain.CategoryModerate},
		{150, domain.CategorySensitiveUnhealthy},
		{199.9, domain.CategoryUnhealthy},
		{300, domain.CategoryVeryUnhealthy},
		{301, domain.CategoryHazardous},
	}
	for _, tc := range cases {
		if got := domain.CategoryFor(tc.aqi); got != tc.want {
			t.Errorf("CategoryFor(%v) = %q, want %q", tc.aqi, got, tc.want)
		}
	}
}

func TestGridShape(t *testing.T) {
	g := domain.NewGrid(3, 4)
	if g.Rows() != 3 || g.Cols() != 4 {
		t.Fatalf("expected 3x4, got %dx%d", g.Rows(), g.Cols())
	}
	if !g.IsRectangular() {
		t.Error("NewGrid should be rectangular")
	}

	jagged := domain.Grid{{1, 2}, {3}}
	if jagged.IsRectangular() {
		t.Error("jagged grid reported rectangular")
	}
	if g.SameShape(domain.NewGrid(2, 4)) {
		t.Error("3x4 and 2x4 reported same shape")
	}
	if !g.SameShape(domain.NewGrid(3, 4)) {
		t.Error("3x4 and 3x4 reported different shape")
	}
}

func TestNewGridRowsDoNotAlias(t *testing.T) {
	g := domain.NewGrid(2, 2)
	g[0] = append(g[0], 9)
	if g[1][0] != 0 {
		t.Errorf("append on row 0 overwrote row 1: %v", g[1])
	}
}
