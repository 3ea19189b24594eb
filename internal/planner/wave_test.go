package planner

import (
	"testing"

	"github.com/felixgeelhaar/waveplan/internal/graph"
)

func waveIndexOf(t *testing.T, waves []Wave, id string) int {
	t.Helper()
	for i, w := range waves {
		for _, step := range w.Criteria {
			if step.Criterion.ID == id {
				return i
			}
		}
	}
	t.Fatalf("criterion %s not in any wave", id)
	return -1
}

func TestParallelPlanStrictChain(t *testing.T) {
	s := buildStore(t, []entry{
		{id: "a", cfg: graph.Config{EstimatedDuration: 100}},
		{id: "b", deps: strict("a"), cfg: graph.Config{EstimatedDuration: 100}},
		{id: "c", deps: strict("b"), cfg: graph.Config{EstimatedDuration: 100}},
	})

	plan := ParallelPlan(s, 4, DefaultTuning())

	if len(plan.Waves) != 3 {
		t.Fatalf("len(waves) = %d, want 3 for a strict chain", len(plan.Waves))
	}
	a, b, c := waveIndexOf(t, plan.Waves, "a"), waveIndexOf(t, plan.Waves, "b"), waveIndexOf(t, plan.Waves, "c")
	if !(a < b && b < c) {
		t.Errorf("wave indices a=%d b=%d c=%d, want strictly increasing", a, b, c)
	}
	if plan.ParallelizationGain != 0 {
		t.Errorf("ParallelizationGain = %.1f, want 0 for a pure chain", plan.ParallelizationGain)
	}
	if plan.PlanID == "" {
		t.Error("PlanID must be populated")
	}
}

func TestParallelPlanIndependentCriteriaShareAWave(t *testing.T) {
	s := buildStore(t, []entry{
		{id: "a", cfg: graph.Config{EstimatedDuration: 1000}},
		{id: "b", cfg: graph.Config{EstimatedDuration: 1000}},
	})

	plan := ParallelPlan(s, 4, DefaultTuning())

	if len(plan.Waves) != 1 {
		t.Fatalf("len(waves) = %d, want 1 for two independent criteria", len(plan.Waves))
	}
	if plan.Waves[0].Concurrency != 2 {
		t.Errorf("Concurrency = %d, want 2", plan.Waves[0].Concurrency)
	}
	if plan.ParallelizationGain <= 0 {
		t.Errorf("ParallelizationGain = %.1f, want > 0", plan.ParallelizationGain)
	}
}

func TestParallelPlanGainNeverNegative(t *testing.T) {
	stores := []*graph.Store{
		graph.NewStore(),
		graph.NewDefaultStore(),
		buildStore(t, []entry{
			{id: "a", deps: strict("b")},
			{id: "b", deps: strict("a")},
		}),
	}
	for _, s := range stores {
		plan := ParallelPlan(s, 4, DefaultTuning())
		if plan.ParallelizationGain < 0 {
			t.Errorf("ParallelizationGain = %.1f, want >= 0", plan.ParallelizationGain)
		}
	}
}

func TestParallelPlanMaxConcurrencySplitsWaves(t *testing.T) {
	s := buildStore(t, []entry{
		{id: "a"}, {id: "b"}, {id: "c"},
	})

	plan := ParallelPlan(s, 2, DefaultTuning())

	if len(plan.Waves) != 2 {
		t.Fatalf("len(waves) = %d, want 2 with maxConcurrency 2", len(plan.Waves))
	}
	if plan.Waves[0].Concurrency != 2 || plan.Waves[1].Concurrency != 1 {
		t.Errorf("concurrencies = [%d %d], want [2 1]",
			plan.Waves[0].Concurrency, plan.Waves[1].Concurrency)
	}
}

func TestParallelPlanNonParallelizableRunsAlone(t *testing.T) {
	no := false
	s := buildStore(t, []entry{
		{id: "solo", cfg: graph.Config{Parallelizable: &no}},
		{id: "a"},
		{id: "b"},
	})

	plan := ParallelPlan(s, 4, DefaultTuning())

	soloWave := plan.Waves[waveIndexOf(t, plan.Waves, "solo")]
	if len(soloWave.Criteria) != 1 {
		t.Errorf("non-parallelizable criterion shares a wave with %d others",
			len(soloWave.Criteria)-1)
	}
}

func TestParallelPlanFilesystemCapSerializes(t *testing.T) {
	// Default tuning caps filesystem-tagged criteria at one per wave.
	fs := []string{"filesystem"}
	s := buildStore(t, []entry{
		{id: "a", cfg: graph.Config{ResourceRequirements: fs}},
		{id: "b", cfg: graph.Config{ResourceRequirements: fs}},
	})

	plan := ParallelPlan(s, 4, DefaultTuning())

	if len(plan.Waves) != 2 {
		t.Fatalf("len(waves) = %d, want 2: filesystem cap is 1 per wave", len(plan.Waves))
	}
}

func TestParallelPlanResourceContentionRecommendation(t *testing.T) {
	fs := []string{"filesystem"}
	s := buildStore(t, []entry{
		{id: "a", cfg: graph.Config{ResourceRequirements: fs}},
		{id: "b", cfg: graph.Config{ResourceRequirements: fs}},
		{id: "c", cfg: graph.Config{ResourceRequirements: fs}},
	})

	plan := ParallelPlan(s, 4, DefaultTuning())

	found := false
	for _, rec := range plan.Recommendations {
		if rec.Type == RecommendationResourceContention {
			found = true
		}
	}
	if !found {
		t.Error("expected a resource_contention recommendation for repeated cap-blocked waves")
	}
}

func TestParallelPlanLoadBalanceRecommendation(t *testing.T) {
	no := false
	s := buildStore(t, []entry{
		{id: "a", cfg: graph.Config{EstimatedDuration: 100}},
		{id: "b", cfg: graph.Config{EstimatedDuration: 100}},
		{id: "heavy", deps: strict("a"), cfg: graph.Config{
			EstimatedDuration: 10000,
			Parallelizable:    &no,
		}},
	})

	plan := ParallelPlan(s, 4, DefaultTuning())

	found := false
	for _, rec := range plan.Recommendations {
		if rec.Type == RecommendationLoadBalance {
			found = true
			if rec.Detail == "" {
				t.Error("load_balance recommendation missing detail")
			}
		}
	}
	if !found {
		t.Error("expected a load_balance recommendation for the dominating solo wave")
	}
}

func TestParallelPlanDefaultPipeline(t *testing.T) {
	s := graph.NewDefaultStore()
	plan := ParallelPlan(s, 4, DefaultTuning())

	total := 0
	for _, w := range plan.Waves {
		total += len(w.Criteria)
		if w.Concurrency != len(w.Criteria) {
			t.Errorf("wave Concurrency = %d, want %d", w.Concurrency, len(w.Criteria))
		}
	}
	if total != 7 {
		t.Fatalf("plan covers %d criteria, want all 7", total)
	}

	build := waveIndexOf(t, plan.Waves, "build-validation")
	if waveIndexOf(t, plan.Waves, "linter-validation") >= build ||
		waveIndexOf(t, plan.Waves, "type-validation") >= build {
		t.Error("build-validation must be in a later wave than linter and type validation")
	}
	if waveIndexOf(t, plan.Waves, "start-validation") <= build {
		t.Error("start-validation must be in a later wave than build-validation")
	}
	if plan.ParallelizationGain < 0 {
		t.Errorf("ParallelizationGain = %.1f, want >= 0", plan.ParallelizationGain)
	}
}

func TestParallelPlanClampsMaxConcurrency(t *testing.T) {
	s := buildStore(t, []entry{{id: "a"}, {id: "b"}})
	plan := ParallelPlan(s, 0, DefaultTuning())

	for _, w := range plan.Waves {
		if w.Concurrency > 1 {
			t.Errorf("wave Concurrency = %d with clamped maxConcurrency, want 1", w.Concurrency)
		}
	}
}

func TestWaveDurationIsMaxOfMembers(t *testing.T) {
	w := Wave{Criteria: []Step{
		{Criterion: &graph.Criterion{ID: "a", EstimatedDurationMs: 200}},
		{Criterion: &graph.Criterion{ID: "b", EstimatedDurationMs: 900}},
	}}
	if got := w.DurationMs(); got != 900 {
		t.Errorf("DurationMs() = %d, want 900", got)
	}
}
