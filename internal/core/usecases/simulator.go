package usecases

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/samirrijal/aqgrid/internal/core/domain"
	"github.com/samirrijal/aqgrid/internal/core/ports"
	"github.com/samirrijal/aqgrid/internal/pkg/metrics"
)

const (
	minSimulatedAQI = 30
	maxSimulatedAQI = 300
)

// DefaultSensors returns the five fixed sensors: four corners and the centre.
func DefaultSensors() []domain.Sensor {
	return []domain.Sensor{
		{X: 0.0, Y: 0.0, AQI: 300},
		{X: 1.0, Y: 0.0, AQI: 100},
		{X: 0.0, Y: 1.0, AQI: 50},
		{X: 1.0, Y: 1.0, AQI: 250},
		{X: 0.5, Y: 0.5, AQI: 120},
	}
}

// SensorSimulator holds a fixed set of sensors whose readings drift by a
// small integer every tick.
type SensorSimulator struct {
	mu        sync.Mutex
	sensors   []domain.Sensor
	rng       *rand.Rand
	publisher ports.EventPublisher
	now       func() time.Time
}

// NewSensorSimulator creates a simulator seeded with initial. publisher may be nil.
func NewSensorSimulator(initial []domain.Sensor, rng *rand.Rand, publisher ports.EventPublisher) *SensorSimulator {
	sensors := make([]domain.Sensor, len(initial))
	copy(sensors, initial)
	return &SensorSimulator{sensors: sensors, rng: rng, publisher: publisher, now: time.Now}
}

// Snapshot returns a copy of the current readings.
func (s *SensorSimulator) Snapshot() domain.SensorSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// CurrentSensors implements ports.SensorSource for in-process use.
func (s *SensorSimulator) CurrentSensors(ctx context.Context) ([]domain.Sensor, error) {
	return s.Snapshot().Sensors, nil
}

// Tick moves every reading by an integer in [-2, 2], clamps it to
// [30, 300] and publishes the new snapshot if a publisher is set.
func (s *SensorSimulator) Tick(ctx context.Context) domain.SensorSnapshot {
	s.mu.Lock()
	for i := range s.sensors {
		delta := float64(s.rng.IntN(5) - 2)
		s.sensors[i].AQI = clamp(s.sensors[i].AQI+delta, minSimulatedAQI, maxSimulatedAQI)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.publisher != nil {
		if err := s.publisher.PublishSnapshot(ctx, &snap); err != nil {
			slog.Warn("publish sensor snapshot", "error", err)
		} else {
			metrics.SnapshotsPublished.Inc()
		}
	}
	return snap
}

// Run ticks every interval until ctx is cancelled.
func (s *SensorSimulator) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

func (s *SensorSimulator) snapshotLocked() domain.SensorSnapshot {
	out := make([]domain.Sensor, len(s.sensors))
	copy(out, s.sensors)
	return domain.SensorSnapshot{Timestamp: s.now().UTC(), Sensors: out}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
