package telemetry

// Span names used for tracing the grid pipeline.
const (
	// Core computations
	SpanInterpolate = "grid.interpolate"
	SpanPrioritize  = "grid.prioritize"

	// External collaborators
	SpanFetchSensors    = "sensors.fetch"
	SpanFetchPopulation = "population.fetch"

	// Publication
	SpanPublishZones = "zones.publish"
)

// Attribute keys attached to spans.
const (
	AttrSensorCount      = "aqgrid.sensor_count"
	AttrGridSize         = "aqgrid.grid_size"
	AttrPopulationSource = "aqgrid.population_source"
	AttrCacheHit         = "aqgrid.cache_hit"
)
