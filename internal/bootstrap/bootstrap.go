// Package bootstrap wires adapters and services from configuration. It is
// shared by the API server and the sweep worker.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samirrijal/aqgrid/internal/adapters/filesource"
	natsadapter "github.com/samirrijal/aqgrid/internal/adapters/nats"
	"github.com/samirrijal/aqgrid/internal/adapters/postgres"
	"github.com/samirrijal/aqgrid/internal/adapters/sensorfeed"
	"github.com/samirrijal/aqgrid/internal/adapters/valkey"
	"github.com/samirrijal/aqgrid/internal/core/ports"
	"github.com/samirrijal/aqgrid/internal/core/usecases"
	"github.com/samirrijal/aqgrid/internal/pkg/config"
	"github.com/samirrijal/aqgrid/internal/pkg/metrics"
)

// Services is the wired application.
type Services struct {
	Grid       usecases.GridConfig
	AQI        *usecases.AQIService
	Population *usecases.PopulationService
	Priority   *usecases.PriorityService
	Runs       *usecases.RunService

	DB        *postgres.DB
	Cache     *valkey.Cache
	Publisher *natsadapter.Publisher

	closers []func()
}

// GridConfig converts the loaded grid section into the usecase config.
func GridConfig(c config.GridConfig) usecases.GridConfig {
	return usecases.GridConfig{
		Size:             c.Size,
		Power:            c.Power,
		AQIWeight:        c.AQIWeight,
		PopulationWeight: c.PopulationWeight,
		Epsilon:          c.Epsilon,
		TopK:             c.TopK,
		Workers:          c.Workers,
	}
}

// Build connects the configured backends and constructs every service.
// The database is required when enabled; cache and NATS degrade to warnings.
func Build(ctx context.Context, cfg *config.Config) (*Services, error) {
	grid := GridConfig(cfg.Grid)
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	s := &Services{Grid: grid}

	if cfg.Database.Enabled {
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		s.DB = db
		s.closers = append(s.closers, db.Close)
		go s.watchPool(ctx)
	}

	if cfg.Valkey.Addr != "" {
		cache, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			s.Cache = cache
			s.closers = append(s.closers, cache.Close)
		}
	}

	if cfg.NATS.URL != "" {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			s.Publisher = pub
			s.closers = append(s.closers, pub.Close)
		}
	}

	sensors, err := s.sensorSource(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	population, err := s.populationSource(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	// Interface-typed nils so services see "not configured" rather than a nil pointer.
	var cache ports.CacheService
	if s.Cache != nil {
		cache = s.Cache
	}
	var publisher ports.EventPublisher
	if s.Publisher != nil {
		publisher = s.Publisher
	}
	var runs ports.RunRepository
	if s.DB != nil {
		runs = postgres.NewRunRepo(s.DB)
	}

	s.AQI = usecases.NewAQIService(usecases.NewInterpolator(grid), sensors, cache)
	s.Population = usecases.NewPopulationService(population)
	s.Priority = usecases.NewPriorityService(usecases.NewPrioritizer(grid), s.AQI, s.Population, publisher)
	s.Runs = usecases.NewRunService(runs)

	return s, nil
}

func (s *Services) sensorSource(ctx context.Context, cfg *config.Config) (ports.SensorSource, error) {
	switch cfg.Sensors.Source {
	case "http":
		return sensorfeed.New(cfg.Sensors.URL, time.Duration(cfg.Sensors.Timeout)*time.Second), nil
	case "nats":
		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, "")
		if err != nil {
			return nil, fmt.Errorf("sensor feed: %w", err)
		}
		feed := natsadapter.NewSnapshotFeed()
		if err := sub.SubscribeSnapshots(ctx, feed.Handle); err != nil {
			sub.Close()
			return nil, fmt.Errorf("subscribe sensor snapshots: %w", err)
		}
		s.closers = append(s.closers, sub.Close)
		return feed, nil
	default:
		return nil, nil
	}
}

func (s *Services) populationSource(cfg *config.Config) (ports.PopulationSource, error) {
	switch cfg.Population.Source {
	case "postgres":
		if s.DB == nil {
			return nil, fmt.Errorf("population source postgres needs the database")
		}
		return postgres.NewPopulationRepo(s.DB), nil
	default:
		var opts []filesource.Option
		if len(cfg.Population.Files) > 0 {
			opts = append(opts, filesource.WithFiles(cfg.Population.Files...))
		}
		if s.Cache != nil {
			opts = append(opts, filesource.WithCache(s.Cache, cfg.Population.CacheTTL))
		}
		return filesource.New(cfg.Population.Dir, opts...), nil
	}
}

func (s *Services) watchPool(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(s.DB.Pool.Stat())
		}
	}
}

// Close releases every backend in reverse order of acquisition.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
