package usecases

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/samirrijal/aqgrid/internal/core/domain"
)

// Prioritizer combines an AQI grid and a population grid into ranked cells
// using a weighted sum of min-max normalized values.
type Prioritizer struct {
	aqiWeight float64
	popWeight float64
	epsilon   float64
	topK      int
}

// NewPrioritizer creates a Prioritizer from cfg.
func NewPrioritizer(cfg GridConfig) *Prioritizer {
	return &Prioritizer{
		aqiWeight: cfg.AQIWeight,
		popWeight: cfg.PopulationWeight,
		epsilon:   cfg.Epsilon,
		topK:      cfg.TopK,
	}
}

// TopK returns how many cells Prioritize keeps.
func (p *Prioritizer) TopK() int {
	return p.topK
}

// Prioritize returns the top K cells by combined score.
func (p *Prioritizer) Prioritize(aqi, population domain.Grid) ([]domain.RankedCell, error) {
	ranked, err := p.Rank(aqi, population)
	if err != nil {
		return nil, err
	}
	if len(ranked) > p.topK {
		ranked = ranked[:p.topK]
	}
	return ranked, nil
}

// Rank scores every cell and orders them by score descending, then row
// ascending, then column ascending.
func (p *Prioritizer) Rank(aqi, population domain.Grid) ([]domain.RankedCell, error) {
	if !aqi.SameShape(population) || !aqi.IsRectangular() {
		return nil, ErrShapeMismatch
	}
	rows, cols := aqi.Rows(), aqi.Cols()
	if rows == 0 || cols == 0 {
		return nil, ErrEmptyGrid
	}

	aqiNorm := p.normalize(aqi)
	popNorm := p.normalize(population)

	var score, weighted mat.Dense
	score.Scale(p.aqiWeight, aqiNorm)
	weighted.Scale(p.popWeight, popNorm)
	score.Add(&score, &weighted)

	cells := make([]domain.RankedCell, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			cells = append(cells, domain.RankedCell{X: i, Y: j, PriorityScore: score.At(i, j)})
		}
	}

	sort.Slice(cells, func(a, b int) bool {
		ca, cb := cells[a], cells[b]
		if ca.PriorityScore != cb.PriorityScore {
			return ca.PriorityScore > cb.PriorityScore
		}
		if ca.X != cb.X {
			return ca.X < cb.X
		}
		return ca.Y < cb.Y
	})

	return cells, nil
}

// normalize maps g into [0, 1) as (v - min) / (max - min + epsilon).
func (p *Prioritizer) normalize(g domain.Grid) *mat.Dense {
	rows, cols := g.Rows(), g.Cols()
	data := make([]float64, 0, rows*cols)
	for _, row := range g {
		data = append(data, row...)
	}

	lo, hi := floats.Min(data), floats.Max(data)
	span := hi - lo + p.epsilon

	m := mat.NewDense(rows, cols, data)
	m.Apply(func(_, _ int, v float64) float64 {
		return (v - lo) / span
	}, m)
	return m
}
