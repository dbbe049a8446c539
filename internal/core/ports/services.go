package ports

import (
	"context"

	"github.com/samirrijal/aqgrid/internal/core/domain"
)

// SensorSource returns the current set of live sensor readings.
type SensorSource interface {
	CurrentSensors(ctx context.Context) ([]domain.Sensor, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishSnapshot(ctx context.Context, snap *domain.SensorSnapshot) error
	PublishZones(ctx context.Context, run *domain.PriorityRun) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeSnapshots(ctx context.Context, handler func(ctx context.Context, snap *domain.SensorSnapshot) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
