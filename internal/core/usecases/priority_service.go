package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/aqgrid/internal/core/domain"
	"github.com/samirrijal/aqgrid/internal/core/ports"
	"github.com/samirrijal/aqgrid/internal/pkg/metrics"
	"github.com/samirrijal/aqgrid/internal/pkg/telemetry"
)

// PriorityService ranks grid cells by combined AQI and population pressure.
type PriorityService struct {
	prioritizer *Prioritizer
	aqi         *AQIService
	population  *PopulationService
	publisher   ports.EventPublisher
}

// NewPriorityService creates a new PriorityService. publisher may be nil.
func NewPriorityService(
	prioritizer *Prioritizer,
	aqi *AQIService,
	population *PopulationService,
	publisher ports.EventPublisher,
) *PriorityService {
	return &PriorityService{
		prioritizer: prioritizer,
		aqi:         aqi,
		population:  population,
		publisher:   publisher,
	}
}

// TopCells returns the highest-priority cells for caller-supplied grids.
func (s *PriorityService) TopCells(ctx context.Context, aqi, population domain.Grid) ([]domain.RankedCell, error) {
	ranked, err := s.rank(ctx, aqi, population)
	if err != nil {
		return nil, err
	}
	if k := s.prioritizer.TopK(); len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked, nil
}

// Ranking is a full live ranking and the population grid it was built from.
type Ranking struct {
	PopulationSource string
	Cells            []domain.RankedCell
}

// LiveRanking ranks every cell using live sensors and a population grid.
// population pins the grid by name; empty picks one from the source.
func (s *PriorityService) LiveRanking(ctx context.Context, population string) (*Ranking, error) {
	_, aqi, pop, err := s.liveInputs(ctx, population)
	if err != nil {
		return nil, err
	}
	cells, err := s.rank(ctx, aqi.Matrix, pop.Matrix)
	if err != nil {
		return nil, err
	}
	return &Ranking{PopulationSource: pop.Name, Cells: cells}, nil
}

// ComputeRun builds a priority run from live sensors and a population grid.
// The run is not persisted or published.
func (s *PriorityService) ComputeRun(ctx context.Context) (*domain.PriorityRun, error) {
	sensors, aqi, pop, err := s.liveInputs(ctx, "")
	if err != nil {
		return nil, err
	}

	top, err := s.TopCells(ctx, aqi.Matrix, pop.Matrix)
	if err != nil {
		return nil, err
	}

	zones := make([]domain.Zone, len(top))
	for i, c := range top {
		v := aqi.Matrix[c.X][c.Y]
		zones[i] = domain.Zone{RankedCell: c, AQI: v, Category: domain.CategoryFor(v)}
	}

	return &domain.PriorityRun{
		ID:               uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
		SensorCount:      len(sensors),
		PopulationSource: pop.Name,
		Zones:            zones,
	}, nil
}

// LiveZones computes a run and announces it when a publisher is configured.
// A failed announcement is logged and does not fail the call.
func (s *PriorityService) LiveZones(ctx context.Context) (*domain.PriorityRun, error) {
	run, err := s.ComputeRun(ctx)
	if err != nil {
		return nil, err
	}
	if s.publisher != nil {
		if err := s.Publish(ctx, run); err != nil {
			slog.WarnContext(ctx, "announce priority zones", "run_id", run.ID, "error", err)
		}
	}
	return run, nil
}

// Publish announces a run on the event bus.
func (s *PriorityService) Publish(ctx context.Context, run *domain.PriorityRun) error {
	if s.publisher == nil {
		return errors.New("no event publisher configured")
	}

	ctx, span := telemetry.Tracer("usecases").Start(ctx, telemetry.SpanPublishZones)
	defer span.End()

	if err := s.publisher.PublishZones(ctx, run); err != nil {
		metrics.ZonesPublished.WithLabelValues("error").Inc()
		span.RecordError(err)
		return fmt.Errorf("publish zones: %w", err)
	}
	metrics.ZonesPublished.WithLabelValues("ok").Inc()
	return nil
}

func (s *PriorityService) rank(ctx context.Context, aqi, population domain.Grid) ([]domain.RankedCell, error) {
	_, span := telemetry.Tracer("usecases").Start(ctx, telemetry.SpanPrioritize)
	defer span.End()

	start := time.Now()
	ranked, err := s.prioritizer.Rank(aqi, population)
	if err != nil {
		if errors.Is(err, ErrShapeMismatch) {
			metrics.ShapeMismatches.Inc()
		}
		span.RecordError(err)
		return nil, err
	}
	metrics.PrioritizationDuration.Observe(time.Since(start).Seconds())
	return ranked, nil
}

// liveInputs gathers live sensors, their grid and a population grid. A
// population grid that does not match the interpolation grid is a server-side
// data fault, so it is reported without ErrShapeMismatch.
func (s *PriorityService) liveInputs(ctx context.Context, population string) ([]domain.Sensor, *domain.AQIMatrix, *domain.PopulationGrid, error) {
	sensors, aqi, err := s.aqi.Live(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	pop, err := s.population.FetchNamed(ctx, population)
	if err != nil {
		return nil, nil, nil, err
	}
	if !pop.Matrix.SameShape(aqi.Matrix) || !pop.Matrix.IsRectangular() {
		return nil, nil, nil, fmt.Errorf("population grid %s is %dx%d, want %dx%d",
			pop.Name, pop.Matrix.Rows(), pop.Matrix.Cols(), aqi.GridSize, aqi.GridSize)
	}
	return sensors, aqi, pop, nil
}
