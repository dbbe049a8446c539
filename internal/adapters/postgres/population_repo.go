package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samirrijal/aqgrid/internal/core/domain"
)

// ErrNoPopulationGrids is returned when the population_grids table is empty.
var ErrNoPopulationGrids = errors.New("no population grids imported")

// PopulationRepo implements ports.PopulationRepository.
type PopulationRepo struct {
	db *DB
}

func NewPopulationRepo(db *DB) *PopulationRepo {
	return &PopulationRepo{db: db}
}

// FetchPopulation returns one stored grid chosen uniformly at random.
func (r *PopulationRepo) FetchPopulation(ctx context.Context) (*domain.PopulationGrid, error) {
	var (
		g   domain.PopulationGrid
		raw []byte
	)
	err := r.db.Pool.QueryRow(ctx, `
		SELECT name, matrix, created_at
		FROM population_grids
		ORDER BY random()
		LIMIT 1
	`).Scan(&g.Name, &raw, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoPopulationGrids
	}
	if err != nil {
		return nil, fmt.Errorf("select population grid: %w", err)
	}
	if err := json.Unmarshal(raw, &g.Matrix); err != nil {
		return nil, fmt.Errorf("decode population grid %s: %w", g.Name, err)
	}
	return &g, nil
}

// FetchPopulationByName returns the stored grid called name.
func (r *PopulationRepo) FetchPopulationByName(ctx context.Context, name string) (*domain.PopulationGrid, error) {
	var (
		g   domain.PopulationGrid
		raw []byte
	)
	err := r.db.Pool.QueryRow(ctx, `
		SELECT name, matrix, created_at
		FROM population_grids
		WHERE name = $1
	`, name).Scan(&g.Name, &raw, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPopulationNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("select population grid %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, &g.Matrix); err != nil {
		return nil, fmt.Errorf("decode population grid %s: %w", g.Name, err)
	}
	return &g, nil
}

func (r *PopulationRepo) Upsert(ctx context.Context, grid *domain.PopulationGrid) error {
	raw, err := json.Marshal(grid.Matrix)
	if err != nil {
		return fmt.Errorf("encode population grid %s: %w", grid.Name, err)
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO population_grids (name, rows, cols, matrix)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			rows = EXCLUDED.rows, cols = EXCLUDED.cols,
			matrix = EXCLUDED.matrix, created_at = NOW()
	`, grid.Name, grid.Matrix.Rows(), grid.Matrix.Cols(), raw)
	return err
}

func (r *PopulationRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM population_grids`).Scan(&n)
	return n, err
}
