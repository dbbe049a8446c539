package usecases

import (
	"math"
	"sync"

	"github.com/paulmach/orb/planar"

	"github.com/samirrijal/aqgrid/internal/core/domain"
	"github.com/samirrijal/aqgrid/internal/pkg/geospatial"
)

// Interpolator turns irregular sensor samples into a dense grid using
// inverse distance weighting.
type Interpolator struct {
	size    int
	power   float64
	workers int
}

// NewInterpolator creates an Interpolator for cfg.Size × cfg.Size grids.
func NewInterpolator(cfg GridConfig) *Interpolator {
	return &Interpolator{size: cfg.Size, power: cfg.Power, workers: cfg.Workers}
}

// Size returns the side length of produced grids.
func (in *Interpolator) Size() int {
	return in.size
}

// Interpolate returns a size×size grid where each cell is the IDW average of
// all sensor values. A cell whose coordinate equals a sensor's location
// exactly takes that sensor's value; the first such sensor wins.
func (in *Interpolator) Interpolate(sensors []domain.Sensor) (domain.Grid, error) {
	if len(sensors) == 0 {
		return nil, ErrNoSensors
	}

	grid := domain.NewGrid(in.size, in.size)

	if in.workers <= 1 {
		for i := range grid {
			in.fillRow(grid[i], i, sensors)
		}
		return grid, nil
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, in.workers)

	for i := range grid {
		wg.Add(1)
		go func(row int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			in.fillRow(grid[row], row, sensors)
		}(i)
	}

	wg.Wait()
	return grid, nil
}

// fillRow writes every cell of row i. Rows never share memory, so
// concurrent calls on different rows are safe.
func (in *Interpolator) fillRow(row []float64, i int, sensors []domain.Sensor) {
	gx := geospatial.GridCoordinate(i, in.size)

	for j := range row {
		cell := geospatial.CellPoint(gx, geospatial.GridCoordinate(j, in.size))

		var num, den float64
		exact := false

		for _, s := range sensors {
			d := planar.Distance(cell, s.Point())

			if d == 0 {
				row[j] = s.AQI
				exact = true
				break
			}

			w := 1 / math.Pow(d, in.power)
			if math.IsInf(w, 1) {
				// d^power underflowed; the sensor dominates the cell.
				row[j] = s.AQI
				exact = true
				break
			}
			num += w * s.AQI
			den += w
		}

		if !exact {
			row[j] = num / den
		}
	}
}
