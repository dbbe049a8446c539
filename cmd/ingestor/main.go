package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/samirrijal/aqgrid/internal/adapters/filesource"
	"github.com/samirrijal/aqgrid/internal/adapters/postgres"
	"github.com/samirrijal/aqgrid/internal/pkg/config"
	"github.com/samirrijal/aqgrid/internal/pkg/logging"
)

// usage: ingestor [dir] [name1.json,name2.json]
func main() {
	cfg, err := config.Load("aqgrid-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	repo := postgres.NewPopulationRepo(db)

	dir := cfg.Population.Dir
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	names, err := filesource.List(dir)
	if err != nil {
		log.Fatalf("list %s: %v", dir, err)
	}

	// Optional filter: comma-separated file names
	if len(os.Args) > 2 {
		keep := map[string]bool{}
		for _, n := range strings.Split(os.Args[2], ",") {
			keep[strings.TrimSpace(n)] = true
		}
		filtered := names[:0]
		for _, n := range names {
			if keep[n] {
				filtered = append(filtered, n)
			}
		}
		names = filtered
	}

	slog.Info("population ingest starting", "dir", dir, "files", len(names))

	var (
		wg       sync.WaitGroup
		imported atomic.Int64
		failed   atomic.Int64
	)
	sem := make(chan struct{}, 4) // max 4 concurrent files

	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ingestFile(ctx, repo, filepath.Join(dir, name)); err != nil {
				failed.Add(1)
				slog.Error("ingest failed", "file", name, "error", err)
				return
			}
			imported.Add(1)
		}(name)
	}

	wg.Wait()

	total, err := repo.Count(ctx)
	if err != nil {
		slog.Warn("count population grids", "error", err)
	}
	slog.Info("ingestion complete",
		"imported", imported.Load(),
		"failed", failed.Load(),
		"stored", total,
	)
	if failed.Load() > 0 {
		db.Close()
		os.Exit(1)
	}
}

func ingestFile(ctx context.Context, repo *postgres.PopulationRepo, path string) error {
	grid, err := filesource.Load(path)
	if err != nil {
		return err
	}
	if grid.Matrix.Rows() == 0 || !grid.Matrix.IsRectangular() {
		return fmt.Errorf("%s: matrix must be non-empty and rectangular", grid.Name)
	}
	if err := repo.Upsert(ctx, grid); err != nil {
		return fmt.Errorf("upsert %s: %w", grid.Name, err)
	}
	slog.Info("imported", "file", grid.Name, "rows", grid.Matrix.Rows(), "cols", grid.Matrix.Cols())
	return nil
}
