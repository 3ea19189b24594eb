// Package planner turns a criterion dependency graph into execution plans:
// a deterministic linear order, a concurrency-bounded wave schedule, and a
// system-resource-aware adaptive schedule. Planning is total: cyclic or
// dangling graphs degrade into forced steps instead of failing.
package planner

import (
	"github.com/felixgeelhaar/waveplan/internal/graph"
)

// Step is one scheduled criterion. Forced marks a step that was scheduled
// despite an unresolved strict prerequisite (cycle or missing reference) to
// guarantee total coverage; the execution engine decides what to do with it.
type Step struct {
	Criterion *graph.Criterion `json:"criterion"`
	Forced    bool             `json:"forced"`
}

// Wave is a set of criteria the plan designates safe to run concurrently.
// Ordering inside a wave follows the linear execution order.
type Wave struct {
	Criteria    []Step `json:"criteria"`
	Concurrency int    `json:"concurrency"`
}

// DurationMs returns the wave's estimated duration: the maximum member
// duration, since members run concurrently.
func (w Wave) DurationMs() int64 {
	var max int64
	for _, step := range w.Criteria {
		if d := step.Criterion.EstimatedDurationMs; d > max {
			max = d
		}
	}
	return max
}

// RecommendationType classifies a scheduling recommendation
type RecommendationType string

const (
	// RecommendationResourceContention reports waves constrained purely by
	// per-resource-class concurrency caps
	RecommendationResourceContention RecommendationType = "resource_contention"
	// RecommendationLoadBalance reports a serialization bottleneck on the
	// critical path
	RecommendationLoadBalance RecommendationType = "load_balance"
)

// Recommendation is advisory output attached to a plan.
type Recommendation struct {
	Type   RecommendationType `json:"type"`
	Detail string             `json:"detail"`
}

// Plan is a wave-organized execution schedule.
type Plan struct {
	PlanID              string           `json:"planId"`
	Waves               []Wave           `json:"waves"`
	ParallelizationGain float64          `json:"parallelizationGain"`
	Recommendations     []Recommendation `json:"recommendations"`
}

// ResourceProfile describes the live system resources available to the
// execution engine. It is planner input, never stored.
type ResourceProfile struct {
	AvailableCPUs     int     `json:"availableCPUs"`
	AvailableMemoryMB int64   `json:"availableMemoryMB"`
	NetworkLatencyMs  float64 `json:"networkLatencyMs"`
	DiskIOLoad        float64 `json:"diskIOLoad"`
}

// SystemAware carries the concurrency decision derived from a resource profile.
type SystemAware struct {
	RecommendedConcurrency int `json:"recommendedConcurrency"`
}

// Directive is a resource-scheduling instruction for the execution engine.
type Directive struct {
	Strategy      string   `json:"strategy"`
	Criteria      []string `json:"criteria"`
	MaxConcurrent int      `json:"maxConcurrent"`
	Detail        string   `json:"detail"`
}

// AdaptiveOptimizations groups the adaptive planner's tuning output.
type AdaptiveOptimizations struct {
	SystemAware        SystemAware `json:"systemAware"`
	ResourceScheduling []Directive `json:"resourceScheduling"`
}

// AdaptivePlan is a wave plan plus the optimizations that shaped it.
type AdaptivePlan struct {
	Plan
	AdaptiveOptimizations AdaptiveOptimizations `json:"adaptiveOptimizations"`
}
