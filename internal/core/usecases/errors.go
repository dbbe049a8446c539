package usecases

import "errors"

var (
	// ErrNoSensors is returned when interpolation is asked for with no samples.
	ErrNoSensors = errors.New("provide at least one sensor")
	// ErrShapeMismatch is returned when the AQI and population grids differ in shape.
	ErrShapeMismatch = errors.New("aqi_matrix and population_matrix must have the same shape")
	// ErrEmptyGrid is returned when a grid has no cells.
	ErrEmptyGrid = errors.New("grid must not be empty")
	// ErrSensorsUnavailable is returned when no live sensor source is configured or it fails.
	ErrSensorsUnavailable = errors.New("sensor source unavailable")
	// ErrRunsUnavailable is returned when run history has no backing store.
	ErrRunsUnavailable = errors.New("run history not configured")
)
