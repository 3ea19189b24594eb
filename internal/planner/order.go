package planner

import (
	"github.com/felixgeelhaar/waveplan/internal/graph"
)

// ExecutionOrder produces a linear execution order covering every criterion
// in the store exactly once, even when the graph is cyclic or references
// missing criteria.
//
// The happy path is Kahn's algorithm over strict and weak edges, with ties
// broken by ascending insertion order for determinism. When no unscheduled
// criterion has all prerequisites satisfied (a cycle, or a strict edge to a
// missing criterion), the criterion with the fewest unresolved prerequisites
// is force-scheduled (ties by id) and marked Forced; its unresolved strict
// prerequisites are treated as satisfied thereafter. This guarantees
// termination and full coverage.
//
// Optional prerequisites never block and are satisfied when absent. Missing
// weak prerequisites are non-blocking by definition; missing strict
// prerequisites can only be cleared by forcing, so they always surface as
// forced steps.
func ExecutionOrder(s *graph.Store) []Step {
	criteria := s.List()
	scheduled := make(map[string]bool, len(criteria))
	steps := make([]Step, 0, len(criteria))

	// unresolved counts the blocking prerequisites of id that are not yet
	// satisfied: existing-but-unscheduled strict/weak targets, plus strict
	// targets missing from the store entirely.
	unresolved := func(id string) int {
		count := 0
		for _, edge := range s.DependsOn(id) {
			if !edge.Type.Blocking() {
				continue
			}
			if s.Has(edge.To) {
				if !scheduled[edge.To] {
					count++
				}
			} else if edge.Type == graph.DependencyStrict {
				count++
			}
		}
		return count
	}

	for len(steps) < len(criteria) {
		// Kahn step: first ready criterion in insertion order.
		advanced := false
		for _, c := range criteria {
			if scheduled[c.ID] {
				continue
			}
			if unresolved(c.ID) == 0 {
				scheduled[c.ID] = true
				steps = append(steps, Step{Criterion: c})
				advanced = true
				break
			}
		}
		if advanced {
			continue
		}

		// Deadlock: force the unscheduled criterion with the fewest
		// unresolved prerequisites, ties by ascending id.
		var victim *graph.Criterion
		best := -1
		for _, c := range criteria {
			if scheduled[c.ID] {
				continue
			}
			n := unresolved(c.ID)
			if victim == nil || n < best || (n == best && c.ID < victim.ID) {
				victim = c
				best = n
			}
		}
		scheduled[victim.ID] = true
		steps = append(steps, Step{Criterion: victim, Forced: true})
	}

	return steps
}

// ForcedCount returns how many steps in an order were force-scheduled.
func ForcedCount(steps []Step) int {
	n := 0
	for _, step := range steps {
		if step.Forced {
			n++
		}
	}
	return n
}
