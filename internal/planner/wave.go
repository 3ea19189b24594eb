package planner

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/waveplan/internal/graph"
)

// ParallelPlan groups the execution order into concurrency-bounded,
// resource-aware waves via greedy packing.
//
// A remaining criterion is admitted into the open wave when its strict
// prerequisites are scheduled in earlier waves, it is parallelizable, the
// wave has a free slot (< maxConcurrency), and admission would not exceed a
// per-resource-class cap from the tuning policy. A non-parallelizable
// criterion always occupies a wave alone. A wave closes when no further
// criterion is admissible.
func ParallelPlan(s *graph.Store, maxConcurrency int, tuning Tuning) Plan {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	order := ExecutionOrder(s)
	remaining := order
	scheduled := make(map[string]bool, len(order))

	var waves []Wave
	contentionWaves := 0

	// strictSatisfied reports whether every strict prerequisite that exists
	// in the store was scheduled in an earlier wave. Forced steps already
	// had their unresolved prerequisites waived by the order planner.
	strictSatisfied := func(step Step) bool {
		if step.Forced {
			return true
		}
		for _, edge := range s.DependsOn(step.Criterion.ID) {
			if edge.Type != graph.DependencyStrict {
				continue
			}
			if s.Has(edge.To) && !scheduled[edge.To] {
				return false
			}
		}
		return true
	}

	for len(remaining) > 0 {
		var admitted []Step
		var deferred []Step
		used := make(map[graph.ResourceTag]int)
		capBlocked := false
		soloClosed := false

		for _, step := range remaining {
			if soloClosed {
				deferred = append(deferred, step)
				continue
			}
			c := step.Criterion

			if !strictSatisfied(step) {
				deferred = append(deferred, step)
				continue
			}

			if !c.Parallelizable {
				// Exclusive: alone in its wave, and only as the wave opener.
				if len(admitted) == 0 {
					admitted = append(admitted, step)
					soloClosed = true
				} else {
					deferred = append(deferred, step)
				}
				continue
			}

			if len(admitted) >= maxConcurrency {
				deferred = append(deferred, step)
				continue
			}

			if exceedsCap(c, used, tuning) {
				capBlocked = true
				deferred = append(deferred, step)
				continue
			}

			admitted = append(admitted, step)
			for _, tag := range c.ResourceRequirements {
				used[tag]++
			}
		}

		if len(admitted) == 0 {
			// Cannot happen for orders produced by ExecutionOrder, but keep
			// packing total for arbitrary inputs.
			admitted = remaining[:1]
			deferred = append([]Step(nil), remaining[1:]...)
		}

		if capBlocked {
			contentionWaves++
		}
		for _, step := range admitted {
			scheduled[step.Criterion.ID] = true
		}
		waves = append(waves, Wave{Criteria: admitted, Concurrency: len(admitted)})
		remaining = deferred
	}

	plan := Plan{
		PlanID:              uuid.NewString(),
		Waves:               waves,
		ParallelizationGain: parallelizationGain(s, waves),
	}
	plan.Recommendations = recommendations(s, waves, contentionWaves, tuning)
	return plan
}

// exceedsCap reports whether admitting c would push a capped resource class
// past its per-wave limit.
func exceedsCap(c *graph.Criterion, used map[graph.ResourceTag]int, tuning Tuning) bool {
	for _, tag := range c.ResourceRequirements {
		if limit := tuning.capFor(tag); limit > 0 && used[tag]+1 > limit {
			return true
		}
	}
	return false
}

// parallelizationGain is the percentage reduction of total estimated
// duration versus fully sequential execution: 100 × (1 − Σ(wave max) / Σ(all)).
func parallelizationGain(s *graph.Store, waves []Wave) float64 {
	var sequential int64
	for _, c := range s.List() {
		sequential += c.EstimatedDurationMs
	}
	if sequential <= 0 {
		return 0
	}

	var parallel int64
	for _, w := range waves {
		parallel += w.DurationMs()
	}

	gain := 100 * (1 - float64(parallel)/float64(sequential))
	if gain < 0 {
		return 0
	}
	return gain
}

// recommendations derives advisory findings from the packed waves.
func recommendations(s *graph.Store, waves []Wave, contentionWaves int, tuning Tuning) []Recommendation {
	var recs []Recommendation

	if contentionWaves >= 2 {
		recs = append(recs, Recommendation{
			Type: RecommendationResourceContention,
			Detail: fmt.Sprintf(
				"%d waves were constrained by per-resource concurrency caps; consider relaxing resource requirements or raising the caps",
				contentionWaves),
		})
	}

	recs = append(recs, loadBalanceFindings(s, waves, tuning)...)
	return recs
}

// loadBalanceFindings flags non-parallelizable criteria whose solo waves
// dominate the rest of the schedule, signaling a serialization bottleneck
// on the critical path.
func loadBalanceFindings(s *graph.Store, waves []Wave, tuning Tuning) []Recommendation {
	if len(waves) < 2 || tuning.LoadBalanceMultiple <= 0 {
		return nil
	}

	analysis := AnalyzeCriticalPath(s)
	critical := make(map[string]bool, len(analysis.CriticalPath))
	for _, id := range analysis.CriticalPath {
		critical[id] = true
	}

	var recs []Recommendation
	for i, w := range waves {
		if len(w.Criteria) != 1 || w.Criteria[0].Criterion.Parallelizable {
			continue
		}
		solo := w.Criteria[0].Criterion

		var otherTotal int64
		for j, other := range waves {
			if j != i {
				otherTotal += other.DurationMs()
			}
		}
		mean := float64(otherTotal) / float64(len(waves)-1)
		if mean <= 0 || float64(solo.EstimatedDurationMs) <= tuning.LoadBalanceMultiple*mean {
			continue
		}

		detail := fmt.Sprintf(
			"%s serializes wave %d at %dms, %.1fx the mean wave duration; splitting it would shorten the schedule",
			solo.ID, i, solo.EstimatedDurationMs, float64(solo.EstimatedDurationMs)/mean)
		if critical[solo.ID] {
			detail += " (on the critical path)"
		}
		recs = append(recs, Recommendation{Type: RecommendationLoadBalance, Detail: detail})
	}

	sort.SliceStable(recs, func(a, b int) bool { return recs[a].Detail < recs[b].Detail })
	return recs
}
