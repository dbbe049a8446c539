package usecases

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/aqgrid/internal/core/domain"
	"github.com/samirrijal/aqgrid/internal/core/ports"
	"github.com/samirrijal/aqgrid/internal/pkg/metrics"
	"github.com/samirrijal/aqgrid/internal/pkg/telemetry"
)

// PopulationService hands out precomputed population-density grids.
type PopulationService struct {
	source ports.PopulationSource
}

// NewPopulationService creates a new PopulationService.
func NewPopulationService(source ports.PopulationSource) *PopulationService {
	return &PopulationService{source: source}
}

// Fetch returns one population grid from the configured source.
func (s *PopulationService) Fetch(ctx context.Context) (*domain.PopulationGrid, error) {
	ctx, span := telemetry.Tracer("usecases").Start(ctx, telemetry.SpanFetchPopulation)
	defer span.End()

	grid, err := s.source.FetchPopulation(ctx)
	if err != nil {
		metrics.PopulationFetches.WithLabelValues("error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("fetch population: %w", err)
	}

	metrics.PopulationFetches.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.String(telemetry.AttrPopulationSource, grid.Name))
	return grid, nil
}

// FetchNamed returns the grid called name, or a random one when name is empty.
// Sources that cannot look grids up by name report every name as not found.
func (s *PopulationService) FetchNamed(ctx context.Context, name string) (*domain.PopulationGrid, error) {
	if name == "" {
		return s.Fetch(ctx)
	}

	named, ok := s.source.(ports.NamedPopulationSource)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPopulationNotFound, name)
	}

	ctx, span := telemetry.Tracer("usecases").Start(ctx, telemetry.SpanFetchPopulation)
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.AttrPopulationSource, name))

	grid, err := named.FetchPopulationByName(ctx, name)
	if err != nil {
		metrics.PopulationFetches.WithLabelValues("error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("fetch population %s: %w", name, err)
	}

	metrics.PopulationFetches.WithLabelValues("ok").Inc()
	return grid, nil
}
