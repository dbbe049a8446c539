package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/aqgrid/internal/core/domain"
)

// SweepResult summarises one completed sweep.
type SweepResult struct {
	RunID            string
	Zones            int
	PopulationSource string
}

// PrioritySweepWorkflow computes the current priority zones, records them and
// announces them. If the announcement fails, the recorded run is deleted so
// history only holds runs that subscribers actually saw.
func PrioritySweepWorkflow(ctx workflow.Context) (*SweepResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting priority sweep")

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var a *SweepActivities

	// Step 1: rank from live inputs
	var run *domain.PriorityRun
	if err := workflow.ExecuteActivity(ctx, a.ComputeZones).Get(ctx, &run); err != nil {
		return nil, err
	}

	// Step 2: record
	if err := workflow.ExecuteActivity(ctx, a.RecordRun, run).Get(ctx, nil); err != nil {
		return nil, err
	}

	// Step 3: announce
	if err := workflow.ExecuteActivity(ctx, a.PublishRun, run).Get(ctx, nil); err != nil {
		logger.Warn("publishing zones failed, compensating", "run_id", run.ID, "error", err)
		_ = workflow.ExecuteActivity(ctx, a.DeleteRun, run.ID).Get(ctx, nil)
		return nil, err
	}

	logger.Info("Priority sweep complete", "run_id", run.ID, "zones", len(run.Zones))
	return &SweepResult{
		RunID:            run.ID,
		Zones:            len(run.Zones),
		PopulationSource: run.PopulationSource,
	}, nil
}
