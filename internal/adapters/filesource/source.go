// Package filesource serves population grids from a directory of JSON files.
package filesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/samirrijal/aqgrid/internal/core/domain"
	"github.com/samirrijal/aqgrid/internal/core/ports"
	"github.com/samirrijal/aqgrid/internal/pkg/metrics"
)

// ErrNoFiles is returned when the directory holds no population files.
var ErrNoFiles = errors.New("no population files found")

// Source implements ports.PopulationSource. Each call picks one file
// uniformly at random.
type Source struct {
	dir      string
	files    []string
	cache    ports.CacheService
	cacheTTL int

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Source.
type Option func(*Source)

// WithFiles restricts the candidates to an explicit list of names inside dir.
func WithFiles(names ...string) Option {
	return func(s *Source) { s.files = names }
}

// WithRand injects the random source, mainly for tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Source) { s.rng = rng }
}

// WithCache keeps decoded grids in cache for ttlSeconds, keyed by file name.
func WithCache(cache ports.CacheService, ttlSeconds int) Option {
	return func(s *Source) {
		s.cache = cache
		s.cacheTTL = ttlSeconds
	}
}

func New(dir string, opts ...Option) *Source {
	s := &Source{dir: dir}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

func (s *Source) FetchPopulation(ctx context.Context) (*domain.PopulationGrid, error) {
	names, err := s.candidates()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoFiles
	}

	s.mu.Lock()
	name := names[s.rng.IntN(len(names))]
	s.mu.Unlock()

	return s.load(ctx, name)
}

// FetchPopulationByName returns the grid stored in the candidate file name.
func (s *Source) FetchPopulationByName(ctx context.Context, name string) (*domain.PopulationGrid, error) {
	names, err := s.candidates()
	if err != nil {
		return nil, err
	}
	if !slices.Contains(names, name) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPopulationNotFound, name)
	}
	return s.load(ctx, name)
}

func (s *Source) load(ctx context.Context, name string) (*domain.PopulationGrid, error) {
	key := "population:file:" + name
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var g domain.PopulationGrid
			if json.Unmarshal(data, &g) == nil {
				metrics.CacheHits.WithLabelValues("population_file").Inc()
				return &g, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("population_file").Inc()
	}

	grid, err := Load(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(grid); err == nil {
			if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
				slog.Warn("cache population grid", "file", name, "error", err)
			}
		}
	}
	return grid, nil
}

// Names lists the candidate file names in a stable order.
func (s *Source) Names() ([]string, error) {
	return s.candidates()
}

func (s *Source) candidates() ([]string, error) {
	if len(s.files) > 0 {
		return s.files, nil
	}
	return List(s.dir)
}

// List returns the *.json file names in dir, sorted.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read population dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Load reads and decodes one population file. The grid is named after the file.
func Load(path string) (*domain.PopulationGrid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read population file: %w", err)
	}
	var m domain.Grid
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse population file %s: %w", filepath.Base(path), err)
	}
	return &domain.PopulationGrid{Name: filepath.Base(path), Matrix: m}, nil
}
