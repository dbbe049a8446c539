package usecases_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/aqgrid/internal/core/domain"
	"github.com/samirrijal/aqgrid/internal/core/usecases"
)

func filledGrid(rows, cols int, f func(i, j int) float64) domain.Grid {
	g := domain.NewGrid(rows, cols)
	for i := range g {
		for j := range g[i] {
			g[i][j] = f(i, j)
		}
	}
	return g
}

func TestPrioritizer_ShapeMismatch(t *testing.T) {
	p := usecases.NewPrioritizer(usecases.DefaultGridConfig())

	aqi := domain.NewGrid(100, 100)
	pop := domain.NewGrid(99, 100)

	cells, err := p.Prioritize(aqi, pop)
	require.ErrorIs(t, err, usecases.ErrShapeMismatch)
	assert.Nil(t, cells)
}

func TestPrioritizer_JaggedRowsRejected(t *testing.T) {
	p := usecases.NewPrioritizer(usecases.DefaultGridConfig())

	aqi := domain.Grid{{1, 2}, {3}}
	pop := domain.Grid{{1, 2}, {3}}

	_, err := p.Prioritize(aqi, pop)
	require.ErrorIs(t, err, usecases.ErrShapeMismatch)
}

func TestPrioritizer_EmptyGrid(t *testing.T) {
	p := usecases.NewPrioritizer(usecases.DefaultGridConfig())

	_, err := p.Prioritize(domain.Grid{}, domain.Grid{})
	require.ErrorIs(t, err, usecases.ErrEmptyGrid)
}

func TestPrioritizer_WeightedOrder(t *testing.T) {
	p := usecases.NewPrioritizer(usecases.DefaultGridConfig())

	aqi := domain.Grid{{0, 1}, {2, 3}}
	pop := domain.Grid{{3, 2}, {1, 0}}

	cells, err := p.Rank(aqi, pop)
	require.NoError(t, err)
	require.Len(t, cells, 4)

	want := []struct {
		x, y  int
		score float64
	}{
		{1, 1, 0.6},
		{1, 0, 0.4 + 0.4/3},
		{0, 1, 0.2 + 0.8/3},
		{0, 0, 0.4},
	}
	for k, w := range want {
		assert.Equal(t, w.x, cells[k].X, "rank %d row", k)
		assert.Equal(t, w.y, cells[k].Y, "rank %d col", k)
		assert.InDelta(t, w.score, cells[k].PriorityScore, 1e-6, "rank %d score", k)
	}
}

func TestPrioritizer_TiesBreakByRowThenColumn(t *testing.T) {
	p := usecases.NewPrioritizer(usecases.DefaultGridConfig())

	flat := filledGrid(3, 3, func(i, j int) float64 { return 7 })

	cells, err := p.Prioritize(flat, flat)
	require.NoError(t, err)
	require.Len(t, cells, 5)

	expected := [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}}
	for k, e := range expected {
		assert.Equal(t, e[0], cells[k].X)
		assert.Equal(t, e[1], cells[k].Y)
		assert.Zero(t, cells[k].PriorityScore, "degenerate grid normalizes to zero")
	}
}

func TestPrioritizer_NormalizationKeepsOrder(t *testing.T) {
	cfg := usecases.DefaultGridConfig()
	cfg.AQIWeight = 1
	cfg.PopulationWeight = 0
	p := usecases.NewPrioritizer(cfg)

	aqi := domain.Grid{{0.9, 0.1, 0.5}, {0.3, 0.7, 0.2}}
	pop := domain.NewGrid(2, 3)

	cells, err := p.Rank(aqi, pop)
	require.NoError(t, err)

	for k := 1; k < len(cells); k++ {
		prev := aqi[cells[k-1].X][cells[k-1].Y]
		cur := aqi[cells[k].X][cells[k].Y]
		assert.GreaterOrEqual(t, prev, cur, "rank %d", k)
	}
}

func TestPrioritizer_Deterministic(t *testing.T) {
	p := usecases.NewPrioritizer(usecases.DefaultGridConfig())

	aqi := filledGrid(100, 100, func(i, j int) float64 { return float64((i*37 + j*11) % 50) })
	pop := filledGrid(100, 100, func(i, j int) float64 { return float64((i + j) % 9) })

	first, err := p.Prioritize(aqi, pop)
	require.NoError(t, err)
	for n := 0; n < 5; n++ {
		again, err := p.Prioritize(aqi, pop)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPrioritizer_DoesNotMutateInputs(t *testing.T) {
	p := usecases.NewPrioritizer(usecases.DefaultGridConfig())

	aqi := domain.Grid{{10, 20}, {30, 40}}
	pop := domain.Grid{{1, 2}, {3, 4}}

	_, err := p.Rank(aqi, pop)
	require.NoError(t, err)
	assert.Equal(t, domain.Grid{{10, 20}, {30, 40}}, aqi)
	assert.Equal(t, domain.Grid{{1, 2}, {3, 4}}, pop)
}
