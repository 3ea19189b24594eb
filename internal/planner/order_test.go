package planner

import (
	"testing"

	"github.com/felixgeelhaar/waveplan/internal/graph"
)

// buildStore assembles a store from id → dependsOn refs, inserting in the
// given order.
func buildStore(t *testing.T, entries []entry) *graph.Store {
	t.Helper()
	s := graph.NewStore()
	for _, e := range entries {
		cfg := e.cfg
		cfg.DependsOn = e.deps
		if _, err := s.Add(e.id, cfg); err != nil {
			t.Fatalf("Add(%s) error = %v", e.id, err)
		}
	}
	return s
}

type entry struct {
	id   string
	deps []graph.DependencyRef
	cfg  graph.Config
}

func strict(ids ...string) []graph.DependencyRef {
	refs := make([]graph.DependencyRef, len(ids))
	for i, id := range ids {
		refs[i] = graph.DependencyRef{Criterion: id, Type: "strict"}
	}
	return refs
}

func indexOf(t *testing.T, steps []Step, id string) int {
	t.Helper()
	for i, step := range steps {
		if step.Criterion.ID == id {
			return i
		}
	}
	t.Fatalf("criterion %s not in order", id)
	return -1
}

func TestExecutionOrderAcyclic(t *testing.T) {
	s := buildStore(t, []entry{
		{id: "a"},
		{id: "b", deps: strict("a")},
		{id: "c", deps: strict("a")},
		{id: "d", deps: strict("b", "c")},
		{id: "e", deps: []graph.DependencyRef{{Criterion: "d", Type: "weak"}}},
	})

	steps := ExecutionOrder(s)

	if len(steps) != 5 {
		t.Fatalf("len(steps) = %d, want 5", len(steps))
	}
	seen := make(map[string]int)
	for _, step := range steps {
		seen[step.Criterion.ID]++
		if step.Forced {
			t.Errorf("step %s forced on acyclic graph", step.Criterion.ID)
		}
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("criterion %s scheduled %d times", id, n)
		}
	}

	// Every blocking edge's prerequisite precedes its dependent.
	for _, edge := range s.Edges() {
		if !edge.Type.Blocking() {
			continue
		}
		if indexOf(t, steps, edge.To) >= indexOf(t, steps, edge.From) {
			t.Errorf("prerequisite %s does not precede %s", edge.To, edge.From)
		}
	}
}

func TestExecutionOrderTiesByInsertionOrder(t *testing.T) {
	// z inserted before a; both are roots, so z must come first.
	s := buildStore(t, []entry{
		{id: "z"},
		{id: "a"},
	})

	steps := ExecutionOrder(s)
	if steps[0].Criterion.ID != "z" || steps[1].Criterion.ID != "a" {
		t.Errorf("order = [%s %s], want insertion order [z a]",
			steps[0].Criterion.ID, steps[1].Criterion.ID)
	}
}

func TestExecutionOrderCycle(t *testing.T) {
	s := buildStore(t, []entry{
		{id: "a", deps: strict("c")},
		{id: "b", deps: strict("a")},
		{id: "c", deps: strict("b")},
	})

	steps := ExecutionOrder(s)

	if len(steps) != 3 {
		t.Fatalf("len(steps) = %d, want full coverage of 3", len(steps))
	}
	if ForcedCount(steps) == 0 {
		t.Error("cyclic graph must produce at least one forced step")
	}
}

func TestExecutionOrderCycleWithTail(t *testing.T) {
	// a↔b cycle with c hanging off b: forcing one member must unblock the rest.
	s := buildStore(t, []entry{
		{id: "a", deps: strict("b")},
		{id: "b", deps: strict("a")},
		{id: "c", deps: strict("b")},
	})

	steps := ExecutionOrder(s)

	if len(steps) != 3 {
		t.Fatalf("len(steps) = %d, want 3", len(steps))
	}
	if ForcedCount(steps) != 1 {
		t.Errorf("ForcedCount = %d, want exactly 1 forced break of the cycle", ForcedCount(steps))
	}
	if indexOf(t, steps, "b") >= indexOf(t, steps, "c") {
		t.Error("c must follow b once the cycle is broken")
	}
}

func TestExecutionOrderMissingStrictForces(t *testing.T) {
	s := buildStore(t, []entry{
		{id: "a", deps: strict("ghost")},
	})

	steps := ExecutionOrder(s)

	if len(steps) != 1 {
		t.Fatalf("len(steps) = %d, want 1", len(steps))
	}
	if !steps[0].Forced {
		t.Error("a strict edge to a missing criterion must surface as a forced step")
	}
}

func TestExecutionOrderMissingWeakAndOptionalDoNotBlock(t *testing.T) {
	s := buildStore(t, []entry{
		{id: "a", deps: []graph.DependencyRef{
			{Criterion: "ghost", Type: "weak"},
			{Criterion: "phantom", Type: "optional"},
		}},
	})

	steps := ExecutionOrder(s)
	if steps[0].Forced {
		t.Error("missing weak/optional prerequisites must not force scheduling")
	}
}

func TestExecutionOrderDefaultPipeline(t *testing.T) {
	s := graph.NewDefaultStore()
	steps := ExecutionOrder(s)

	if len(steps) != 7 {
		t.Fatalf("len(steps) = %d, want 7", len(steps))
	}
	if n := ForcedCount(steps); n != 0 {
		t.Errorf("ForcedCount = %d, want 0 for the seeded pipeline", n)
	}

	build := indexOf(t, steps, "build-validation")
	if indexOf(t, steps, "linter-validation") > build || indexOf(t, steps, "type-validation") > build {
		t.Error("build-validation must follow both linter-validation and type-validation")
	}
	if indexOf(t, steps, "start-validation") < build {
		t.Error("start-validation must follow build-validation")
	}
	if indexOf(t, steps, "test-validation") < build {
		t.Error("test-validation must follow build-validation")
	}
}
