package ports

import (
	"context"

	"github.com/samirrijal/aqgrid/internal/core/domain"
)

// PopulationSource fetches one precomputed population grid.
type PopulationSource interface {
	FetchPopulation(ctx context.Context) (*domain.PopulationGrid, error)
}

// NamedPopulationSource can also fetch a specific grid by name. Sources
// return domain.ErrPopulationNotFound for unknown names.
type NamedPopulationSource interface {
	PopulationSource
	FetchPopulationByName(ctx context.Context, name string) (*domain.PopulationGrid, error)
}

// PopulationRepository persists imported population grids.
type PopulationRepository interface {
	NamedPopulationSource
	Upsert(ctx context.Context, grid *domain.PopulationGrid) error
	Count(ctx context.Context) (int, error)
}

// RunRepository persists priority runs.
type RunRepository interface {
	Insert(ctx context.Context, run *domain.PriorityRun) error
	ListRecent(ctx context.Context, limit int) ([]domain.PriorityRun, error)
	Delete(ctx context.Context, id string) error
}
