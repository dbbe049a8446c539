package usecases

import (
	"context"
	"fmt"

	"github.com/samirrijal/aqgrid/internal/core/domain"
	"github.com/samirrijal/aqgrid/internal/core/ports"
)

// RunService keeps the history of computed priority runs.
type RunService struct {
	runs ports.RunRepository
}

// NewRunService creates a new RunService. runs may be nil when no database
// is configured; every call then returns ErrRunsUnavailable.
func NewRunService(runs ports.RunRepository) *RunService {
	return &RunService{runs: runs}
}

// Record persists a run.
func (s *RunService) Record(ctx context.Context, run *domain.PriorityRun) error {
	if s.runs == nil {
		return ErrRunsUnavailable
	}
	if err := s.runs.Insert(ctx, run); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (s *RunService) Recent(ctx context.Context, limit int) ([]domain.PriorityRun, error) {
	if s.runs == nil {
		return nil, ErrRunsUnavailable
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.runs.ListRecent(ctx, limit)
}

// Delete removes a run.
func (s *RunService) Delete(ctx context.Context, id string) error {
	if s.runs == nil {
		return ErrRunsUnavailable
	}
	if err := s.runs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	return nil
}
