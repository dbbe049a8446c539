package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/aqgrid/internal/bootstrap"
	"github.com/samirrijal/aqgrid/internal/pkg/config"
	"github.com/samirrijal/aqgrid/internal/pkg/logging"
	"github.com/samirrijal/aqgrid/internal/workflows"
)

const cronWorkflowID = "aqgrid-priority-sweep"

func main() {
	cfg, err := config.Load("aqgrid-sweeper")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer svc.Close()

	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.PrioritySweepWorkflow)
	w.RegisterActivity(&workflows.SweepActivities{
		Priority: svc.Priority,
		Runs:     svc.Runs,
	})

	if cfg.Temporal.Cron != "" {
		startCtx, startCancel := context.WithTimeout(ctx, 10*time.Second)
		run, err := c.ExecuteWorkflow(startCtx, client.StartWorkflowOptions{
			ID:           cronWorkflowID,
			TaskQueue:    cfg.Temporal.TaskQueue,
			CronSchedule: cfg.Temporal.Cron,
		}, workflows.PrioritySweepWorkflow)
		startCancel()
		if err != nil {
			slog.Warn("start cron sweep", "error", err)
		} else {
			slog.Info("cron sweep scheduled", "workflow_id", run.GetID(), "schedule", cfg.Temporal.Cron)
		}
	}

	slog.Info("sweep worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
