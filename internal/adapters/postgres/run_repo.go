package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/aqgrid/internal/core/domain"
)

// RunRepo implements ports.RunRepository.
type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) Insert(ctx context.Context, run *domain.PriorityRun) error {
	zones, err := json.Marshal(run.Zones)
	if err != nil {
		return fmt.Errorf("encode zones: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO priority_runs (id, created_at, sensor_count, population_source, zones)
		VALUES ($1, $2, $3, $4, $5)
	`, run.ID, run.CreatedAt, run.SensorCount, run.PopulationSource, zones)
	return err
}

func (r *RunRepo) ListRecent(ctx context.Context, limit int) ([]domain.PriorityRun, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, created_at, sensor_count, population_source, zones
		FROM priority_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.PriorityRun
	for rows.Next() {
		var (
			run domain.PriorityRun
			raw []byte
		)
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.SensorCount, &run.PopulationSource, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &run.Zones); err != nil {
			return nil, fmt.Errorf("decode zones for run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *RunRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM priority_runs WHERE id = $1`, id)
	return err
}
