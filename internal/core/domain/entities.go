package domain

import (
	"time"
)

// Sensor is one physical air-quality sensor reading at a normalized location.
type Sensor struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	AQI float64 `json:"aqi"`
}

// SensorSnapshot is the full sensor set as published by a sensor server.
type SensorSnapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Sensors   []Sensor  `json:"sensors"`
}

// Grid is a dense matrix indexed [row][col]. Rows map to x, columns to y.
type Grid [][]float64

// PopulationGrid is a precomputed population-density grid and where it came from.
type PopulationGrid struct {
	Name      string    `json:"name"`
	Matrix    Grid      `json:"matrix"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// RankedCell is a grid cell paired with its combined priority score.
type RankedCell struct {
	X             int     `json:"x"`
	Y             int     `json:"y"`
	PriorityScore float64 `json:"priority_score"`
}

// Zone is a ranked cell annotated with the interpolated AQI at that cell.
type Zone struct {
	RankedCell
	AQI      float64     `json:"aqi"`
	Category AQICategory `json:"category"`
}

// PriorityRun is a persisted result of one priority computation.
type PriorityRun struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	SensorCount      int       `json:"sensor_count"`
	PopulationSource string    `json:"population_source"`
	Zones            []Zone    `json:"zones"`
}

// AQIMatrix is an interpolated AQI grid with its value range.
type AQIMatrix struct {
	GridSize int     `json:"grid_size"`
	Matrix   Grid    `json:"aqi_matrix"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}
