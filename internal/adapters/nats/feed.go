package natsadapter

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/samirrijal/aqgrid/internal/core/domain"
)

// ErrNoSnapshot is returned until the first snapshot has been received.
var ErrNoSnapshot = errors.New("no sensor snapshot received yet")

// SnapshotFeed is a ports.SensorSource backed by the latest snapshot seen on
// the bus.
type SnapshotFeed struct {
	mu   sync.RWMutex
	last *domain.SensorSnapshot
}

func NewSnapshotFeed() *SnapshotFeed {
	return &SnapshotFeed{}
}

// Handle stores snap as the latest snapshot. Older snapshots are ignored.
// Its signature matches the handler accepted by Subscriber.SubscribeSnapshots.
func (f *SnapshotFeed) Handle(_ context.Context, snap *domain.SensorSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last != nil && snap.Timestamp.Before(f.last.Timestamp) {
		return nil
	}
	f.last = &domain.SensorSnapshot{
		Timestamp: snap.Timestamp,
		Sensors:   slices.Clone(snap.Sensors),
	}
	return nil
}

func (f *SnapshotFeed) CurrentSensors(_ context.Context) ([]domain.Sensor, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.last == nil {
		return nil, ErrNoSnapshot
	}
	return slices.Clone(f.last.Sensors), nil
}
