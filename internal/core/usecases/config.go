package usecases

import (
	"fmt"
	"runtime"
	"strings"
)

// GridConfig holds the numeric parameters of interpolation and prioritization.
type GridConfig struct {
	Size             int     // side length of the square output grid
	Power            float64 // IDW distance exponent
	AQIWeight        float64
	PopulationWeight float64
	Epsilon          float64 // added to every normalization range
	TopK             int
	Workers          int // rows interpolated concurrently; <= 1 means serial
}

// DefaultGridConfig returns a 100×100 grid, power 2, weights 0.6/0.4 and top 5.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Size:             100,
		Power:            2,
		AQIWeight:        0.6,
		PopulationWeight: 0.4,
		Epsilon:          1e-9,
		TopK:             5,
		Workers:          runtime.GOMAXPROCS(0),
	}
}

// Validate checks the parameters are usable.
func (c GridConfig) Validate() error {
	var errs []string

	if c.Size < 2 {
		errs = append(errs, fmt.Sprintf("size must be at least 2, got %d", c.Size))
	}
	if c.Power <= 0 {
		errs = append(errs, fmt.Sprintf("power must be positive, got %g", c.Power))
	}
	if c.AQIWeight < 0 || c.PopulationWeight < 0 {
		errs = append(errs, "weights must not be negative")
	}
	if c.Epsilon <= 0 {
		errs = append(errs, "epsilon must be positive")
	}
	if c.TopK < 1 {
		errs = append(errs, fmt.Sprintf("top_k must be at least 1, got %d", c.TopK))
	}

	if len(errs) > 0 {
		return fmt.Errorf("grid config invalid: %s", strings.Join(errs, "; "))
	}
	return nil
}
