package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/aqgrid/internal/core/domain"
	"github.com/samirrijal/aqgrid/internal/core/usecases"
)

type memSensors struct{}

func (memSensors) CurrentSensors(context.Context) ([]domain.Sensor, error) {
	return usecases.DefaultSensors(), nil
}

type memPopulation struct{ n int }

func (m memPopulation) FetchPopulation(context.Context) (*domain.PopulationGrid, error) {
	g := domain.NewGrid(m.n, m.n)
	for i := range g {
		for j := range g[i] {
			g[i][j] = float64(i * j)
		}
	}
	return &domain.PopulationGrid{Name: "sweep.json", Matrix: g}, nil
}

type memRuns struct {
	runs map[string]domain.PriorityRun
}

func (m *memRuns) Insert(_ context.Context, run *domain.PriorityRun) error {
	m.runs[run.ID] = *run
	return nil
}

func (m *memRuns) ListRecent(context.Context, int) ([]domain.PriorityRun, error) {
	out := make([]domain.PriorityRun, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r)
	}
	return out, nil
}

func (m *memRuns) Delete(_ context.Context, id string) error {
	delete(m.runs, id)
	return nil
}

type memPublisher struct {
	err  error
	sent int
}

func (m *memPublisher) PublishSnapshot(context.Context, *domain.SensorSnapshot) error { return nil }

func (m *memPublisher) PublishZones(context.Context, *domain.PriorityRun) error {
	if m.err != nil {
		return m.err
	}
	m.sent++
	return nil
}

func newActivities(pub *memPublisher, runs *memRuns) *SweepActivities {
	cfg := usecases.DefaultGridConfig()
	cfg.Size = 20
	cfg.Workers = 1
	aqi := usecases.NewAQIService(usecases.NewInterpolator(cfg), memSensors{}, nil)
	population := usecases.NewPopulationService(memPopulation{n: cfg.Size})
	return &SweepActivities{
		Priority: usecases.NewPriorityService(usecases.NewPrioritizer(cfg), aqi, population, pub),
		Runs:     usecases.NewRunService(runs),
	}
}

func TestPrioritySweepWorkflow_RecordsAndPublishes(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	pub := &memPublisher{}
	runs := &memRuns{runs: map[string]domain.PriorityRun{}}
	env.RegisterActivity(newActivities(pub, runs))

	env.ExecuteWorkflow(PrioritySweepWorkflow)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result SweepResult
	require.NoError(t, env.GetWorkflowResult(&result))
	assert.Equal(t, 5, result.Zones)
	assert.Equal(t, "sweep.json", result.PopulationSource)
	assert.Contains(t, runs.runs, result.RunID)
	assert.Equal(t, 1, pub.sent)
}

func TestPrioritySweepWorkflow_PublishFailureDeletesRun(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	pub := &memPublisher{err: errors.New("nats unavailable")}
	runs := &memRuns{runs: map[string]domain.PriorityRun{}}
	env.RegisterActivity(newActivities(pub, runs))

	env.ExecuteWorkflow(PrioritySweepWorkflow)

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	assert.Empty(t, runs.runs, "recorded run must be compensated")
}

func TestPrioritySweepWorkflow_ComputeFailureStopsEarly(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	acts := &SweepActivities{}
	env.RegisterActivity(acts)
	env.OnActivity(acts.ComputeZones, mock.Anything).Return(nil, errors.New("sensor source unavailable"))

	env.ExecuteWorkflow(PrioritySweepWorkflow)

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	env.AssertNotCalled(t, "RecordRun", mock.Anything, mock.Anything)
}
