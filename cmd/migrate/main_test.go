package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrationFilesOrder(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{
		"002_priority_runs.up.sql",
		"001_population_grids.up.sql",
		"001_population_grids.down.sql",
		"002_priority_runs.down.sql",
	} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("--"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	up, err := migrationFiles(dir, "up")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(up[0]) != "001_population_grids.up.sql" || len(up) != 2 {
		t.Errorf("unexpected up order %v", up)
	}

	down, err := migrationFiles(dir, "down")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(down[0]) != "002_priority_runs.down.sql" {
		t.Errorf("unexpected down order %v", down)
	}
}

func TestMigrationFilesEmpty(t *testing.T) {
	if _, err := migrationFiles(t.TempDir(), "up"); err == nil {
		t.Error("expected error for empty dir")
	}
}

func TestRepositoryMigrationsPresent(t *testing.T) {
	files, err := migrationFiles(filepath.Join("..", "..", migrationsDir), "up")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Errorf("expected 2 up migrations, got %d", len(files))
	}
}
