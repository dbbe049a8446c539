package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/aqgrid/internal/core/domain"
	"github.com/samirrijal/aqgrid/internal/core/ports"
	"github.com/samirrijal/aqgrid/internal/pkg/geospatial"
	"github.com/samirrijal/aqgrid/internal/pkg/metrics"
	"github.com/samirrijal/aqgrid/internal/pkg/telemetry"
)

// liveGridTTL is how long an interpolated live grid stays cached, in seconds.
const liveGridTTL = 30

// AQIService interpolates sensor readings into AQI grids.
type AQIService struct {
	interp  *Interpolator
	sensors ports.SensorSource
	cache   ports.CacheService
}

// NewAQIService creates a new AQIService. sensors and cache may be nil.
func NewAQIService(interp *Interpolator, sensors ports.SensorSource, cache ports.CacheService) *AQIService {
	return &AQIService{interp: interp, sensors: sensors, cache: cache}
}

// Generate interpolates the given sensors into a grid with its value range.
func (s *AQIService) Generate(ctx context.Context, sensors []domain.Sensor) (*domain.AQIMatrix, error) {
	if len(sensors) == 0 {
		return nil, ErrNoSensors
	}

	_, span := telemetry.Tracer("usecases").Start(ctx, telemetry.SpanInterpolate)
	defer span.End()
	span.SetAttributes(
		attribute.Int(telemetry.AttrSensorCount, len(sensors)),
		attribute.Int(telemetry.AttrGridSize, s.interp.Size()),
	)

	start := time.Now()
	grid, err := s.interp.Interpolate(sensors)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	metrics.InterpolationDuration.Observe(time.Since(start).Seconds())
	metrics.SensorsPerRequest.Observe(float64(len(sensors)))

	lo, hi := geospatial.MinMax(grid)
	return &domain.AQIMatrix{
		GridSize: s.interp.Size(),
		Matrix:   grid,
		Min:      lo,
		Max:      hi,
	}, nil
}

// LiveSensors reads the current sensor set from the configured source.
func (s *AQIService) LiveSensors(ctx context.Context) ([]domain.Sensor, error) {
	if s.sensors == nil {
		return nil, ErrSensorsUnavailable
	}

	ctx, span := telemetry.Tracer("usecases").Start(ctx, telemetry.SpanFetchSensors)
	defer span.End()

	sensors, err := s.sensors.CurrentSensors(ctx)
	if err != nil {
		metrics.SensorFetchErrors.Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrSensorsUnavailable, err)
	}
	span.SetAttributes(attribute.Int(telemetry.AttrSensorCount, len(sensors)))
	return sensors, nil
}

// Live interpolates the current live sensor set. Results are cached by a
// fingerprint of the sensor values so unchanged readings skip recomputation.
func (s *AQIService) Live(ctx context.Context) ([]domain.Sensor, *domain.AQIMatrix, error) {
	sensors, err := s.LiveSensors(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(sensors) == 0 {
		return nil, nil, fmt.Errorf("%w: source returned no sensors", ErrSensorsUnavailable)
	}

	cacheKey := fmt.Sprintf("aqi:grid:%d:%s", s.interp.Size(), fingerprint(sensors))
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var m domain.AQIMatrix
			if err := json.Unmarshal(data, &m); err == nil {
				metrics.CacheHits.WithLabelValues("aqi_grid").Inc()
				return sensors, &m, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("aqi_grid").Inc()
	}

	m, err := s.Generate(ctx, sensors)
	if err != nil {
		return nil, nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(m); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, liveGridTTL)
		}
	}

	return sensors, m, nil
}

// fingerprint hashes the sensor set in order; reordering sensors changes
// exact-match precedence, so order is part of the key.
func fingerprint(sensors []domain.Sensor) string {
	data, _ := json.Marshal(sensors)
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:8])
}
