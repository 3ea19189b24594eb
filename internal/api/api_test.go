package api

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "github.com/felixgeelhaar/waveplan/internal/errors"
	"github.com/felixgeelhaar/waveplan/internal/graph"
	"github.com/felixgeelhaar/waveplan/internal/planner"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dependencies.json")
	return New(graph.NewDefaultStore(), planner.DefaultTuning(), path, nil)
}

func dispatchJSON(t *testing.T, a *API, name, payload string) map[string]any {
	t.Helper()
	out := a.Dispatch(name, []byte(payload))
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(out, &envelope), "envelope must be valid JSON")
	return envelope
}

func TestAddDependency(t *testing.T) {
	a := newTestAPI(t)

	c, err := a.AddDependency("docs-validation", []byte(`{
		"description": "documentation completeness",
		"estimatedDuration": 8000,
		"resourceRequirements": ["filesystem"],
		"dependsOn": [{"criterion": "build-validation", "type": "weak"}]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "docs-validation", c.ID)
	assert.Equal(t, int64(8000), c.EstimatedDurationMs)
	assert.True(t, c.Parallelizable)
	assert.Equal(t, 8, a.Store().Len())
}

func TestAddDependencyRejectsBlankID(t *testing.T) {
	a := newTestAPI(t)

	_, err := a.AddDependency("", nil)
	require.Error(t, err)

	var werr *werrors.WaveplanError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, werrors.ErrCodeBlankCriterionID, werr.Code)
}

func TestGetDependency(t *testing.T) {
	a := newTestAPI(t)

	detail, err := a.GetDependency("build-validation")
	require.NoError(t, err)
	assert.Equal(t, "build-validation", detail.Criterion.ID)
	assert.Len(t, detail.DependsOn, 2)

	_, err = a.GetDependency("absent")
	var werr *werrors.WaveplanError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, werrors.ErrCodeCriterionNotFound, werr.Code)
}

func TestRemoveDependencyKeepsInboundEdges(t *testing.T) {
	a := newTestAPI(t)

	require.NoError(t, a.RemoveDependency("build-validation"))

	result := a.ValidateGraph()
	assert.False(t, result.Valid)
	missing := 0
	for _, issue := range result.Issues {
		if issue.Type == graph.IssueMissingDependency {
			missing++
			assert.Equal(t, "build-validation", issue.MissingDependency)
		}
	}
	assert.Equal(t, 2, missing, "start and test still reference the removed criterion")
}

func TestExecutionOrderSurfacesForcedCount(t *testing.T) {
	a := newTestAPI(t)
	resp := a.ExecutionOrder()
	assert.Len(t, resp.Steps, 7)
	assert.Equal(t, 0, resp.ForcedCount)

	// Introduce a cycle: linter → build closes build → linter.
	_, err := a.AddDependency("linter-validation", []byte(`{
		"estimatedDuration": 15000,
		"dependsOn": [{"criterion": "build-validation", "type": "strict"}]
	}`))
	require.NoError(t, err)

	resp = a.ExecutionOrder()
	assert.Len(t, resp.Steps, 7)
	assert.Greater(t, resp.ForcedCount, 0)
}

func TestParallelPlanConcurrencyResolution(t *testing.T) {
	a := newTestAPI(t)

	one := 1
	plan, err := a.ParallelPlan(ParallelPlanRequest{MaxConcurrency: &one})
	require.NoError(t, err)
	for _, w := range plan.Waves {
		assert.LessOrEqual(t, w.Concurrency, 1)
	}

	zero := 0
	_, err = a.ParallelPlan(ParallelPlanRequest{MaxConcurrency: &zero})
	var werr *werrors.WaveplanError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, werrors.ErrCodePlanInvalidConcurrency, werr.Code)

	// Profile only: width comes from the recommendation.
	plan, err = a.ParallelPlan(ParallelPlanRequest{ResourceProfile: &planner.ResourceProfile{
		AvailableCPUs:     16,
		AvailableMemoryMB: 65536,
		NetworkLatencyMs:  200,
		DiskIOLoad:        0.9,
	}})
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Waves)
	assert.NotEmpty(t, plan.PlanID)
}

func TestSaveAndLoadConfig(t *testing.T) {
	a := newTestAPI(t)

	path, err := a.SaveConfig()
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	// Mutate, then load the saved snapshot back.
	require.NoError(t, a.RemoveDependency("test-validation"))
	assert.Equal(t, 6, a.Store().Len())

	n, err := a.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.True(t, a.Store().Has("test-validation"))
}

func TestLoadConfigFailureLeavesStoreUntouched(t *testing.T) {
	a := newTestAPI(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"dependencies": {"x": {"metadata": {"estimatedDuration": -1, "parallelizable": true}}}}`), 0644))

	_, err := a.LoadConfig(bad)
	require.Error(t, err)
	assert.Equal(t, 7, a.Store().Len(), "failed load must not modify the store")
}

func TestDispatchEnvelopes(t *testing.T) {
	a := newTestAPI(t)

	env := dispatchJSON(t, a, CmdValidateGraph, "")
	assert.Equal(t, true, env["success"])
	assert.Equal(t, true, env["valid"])

	env = dispatchJSON(t, a, CmdExecutionOrder, "")
	assert.Equal(t, true, env["success"])
	assert.Len(t, env["steps"], 7)
	assert.EqualValues(t, 0, env["forcedCount"])

	env = dispatchJSON(t, a, CmdAddDependency, `{"id": "smoke", "config": {"estimatedDuration": 100}}`)
	assert.Equal(t, true, env["success"])

	env = dispatchJSON(t, a, CmdGetDependency, `{"id": "smoke"}`)
	assert.Equal(t, true, env["success"])

	env = dispatchJSON(t, a, CmdVisualization, "")
	assert.Equal(t, true, env["success"])
	stats, ok := env["statistics"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 8, stats["totalCriteria"])
}

func TestDispatchErrorEnvelopes(t *testing.T) {
	a := newTestAPI(t)

	env := dispatchJSON(t, a, "no-such-command", "")
	assert.Equal(t, false, env["success"])
	body, ok := env["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(werrors.ErrCodeUnknownCommand), body["code"])

	env = dispatchJSON(t, a, CmdAddDependency, `{"id": "x", "config": {}, "bogus": 1}`)
	assert.Equal(t, false, env["success"])
	body = env["error"].(map[string]any)
	assert.Equal(t, string(werrors.ErrCodeBadPayload), body["code"])

	env = dispatchJSON(t, a, CmdLoadConfig, `{"path": "/nonexistent/deps.json"}`)
	assert.Equal(t, false, env["success"])
	body = env["error"].(map[string]any)
	assert.Equal(t, string(werrors.ErrCodeConfigNotFound), body["code"])
}

func TestDispatchAdaptiveDefaultsProfile(t *testing.T) {
	a := newTestAPI(t)

	env := dispatchJSON(t, a, CmdAdaptivePlan, "")
	assert.Equal(t, true, env["success"])
	opts, ok := env["adaptiveOptimizations"].(map[string]any)
	require.True(t, ok)
	system, ok := opts["systemAware"].(map[string]any)
	require.True(t, ok)
	assert.GreaterOrEqual(t, system["recommendedConcurrency"], float64(1))
}
