package workflows

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/samirrijal/aqgrid/internal/core/domain"
	"github.com/samirrijal/aqgrid/internal/core/usecases"
)

// SweepActivities holds the activity implementations for the priority sweep.
type SweepActivities struct {
	Priority *usecases.PriorityService
	Runs     *usecases.RunService
}

// ComputeZones ranks the grid from live sensors and a population grid.
func (a *SweepActivities) ComputeZones(ctx context.Context) (*domain.PriorityRun, error) {
	run, err := a.Priority.ComputeRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute zones: %w", err)
	}
	return run, nil
}

// RecordRun persists a run.
func (a *SweepActivities) RecordRun(ctx context.Context, run *domain.PriorityRun) error {
	return a.Runs.Record(ctx, run)
}

// PublishRun announces a recorded run on the event bus.
func (a *SweepActivities) PublishRun(ctx context.Context, run *domain.PriorityRun) error {
	return a.Priority.Publish(ctx, run)
}

// DeleteRun removes a recorded run (saga compensation).
func (a *SweepActivities) DeleteRun(ctx context.Context, id string) error {
	if err := a.Runs.Delete(ctx, id); err != nil {
		return err
	}
	activity.GetLogger(ctx).Info("run deleted (saga compensation)", "run_id", id)
	return nil
}
