package planner

import (
	"github.com/felixgeelhaar/waveplan/internal/graph"
)

// Schedule holds the critical-path-method timings of one criterion, all in
// estimated milliseconds.
type Schedule struct {
	EarliestStart  int64 `json:"earliestStart"`
	EarliestFinish int64 `json:"earliestFinish"`
	LatestStart    int64 `json:"latestStart"`
	LatestFinish   int64 `json:"latestFinish"`
	Slack          int64 `json:"slack"`
	Critical       bool  `json:"critical"`
}

// PathAnalysis is the result of critical-path analysis over the graph.
type PathAnalysis struct {
	Schedules       map[string]*Schedule `json:"schedules"`
	TotalDurationMs int64                `json:"totalDurationMs"`
	CriticalPath    []string             `json:"criticalPath"`
}

// AnalyzeCriticalPath runs a forward/backward pass over the execution
// order. Only blocking edges whose prerequisite precedes the dependent in
// the linear order contribute, so cyclic graphs degrade the same way the
// order planner does instead of failing.
func AnalyzeCriticalPath(s *graph.Store) PathAnalysis {
	order := ExecutionOrder(s)

	position := make(map[string]int, len(order))
	for i, step := range order {
		position[step.Criterion.ID] = i
	}

	// predecessors limited to edges consistent with the linear order.
	preds := make(map[string][]string, len(order))
	succs := make(map[string][]string, len(order))
	for _, step := range order {
		id := step.Criterion.ID
		for _, edge := range s.DependsOn(id) {
			if !edge.Type.Blocking() || !s.Has(edge.To) {
				continue
			}
			if position[edge.To] < position[id] {
				preds[id] = append(preds[id], edge.To)
				succs[edge.To] = append(succs[edge.To], id)
			}
		}
	}

	analysis := PathAnalysis{Schedules: make(map[string]*Schedule, len(order))}

	// Forward pass: earliest start is the max earliest finish of predecessors.
	for _, step := range order {
		id := step.Criterion.ID
		sched := &Schedule{}
		for _, pred := range preds[id] {
			if ef := analysis.Schedules[pred].EarliestFinish; ef > sched.EarliestStart {
				sched.EarliestStart = ef
			}
		}
		sched.EarliestFinish = sched.EarliestStart + step.Criterion.EstimatedDurationMs
		if sched.EarliestFinish > analysis.TotalDurationMs {
			analysis.TotalDurationMs = sched.EarliestFinish
		}
		analysis.Schedules[id] = sched
	}

	// Backward pass: latest finish is the min latest start of successors.
	for i := len(order) - 1; i >= 0; i-- {
		step := order[i]
		id := step.Criterion.ID
		sched := analysis.Schedules[id]

		if len(succs[id]) == 0 {
			sched.LatestFinish = analysis.TotalDurationMs
		} else {
			sched.LatestFinish = analysis.TotalDurationMs
			for _, succ := range succs[id] {
				if ls := analysis.Schedules[succ].LatestStart; ls < sched.LatestFinish {
					sched.LatestFinish = ls
				}
			}
		}
		sched.LatestStart = sched.LatestFinish - step.Criterion.EstimatedDurationMs
		sched.Slack = sched.LatestStart - sched.EarliestStart
		sched.Critical = sched.Slack == 0
	}

	// Critical path lists critical criteria in execution order.
	for _, step := range order {
		if analysis.Schedules[step.Criterion.ID].Critical {
			analysis.CriticalPath = append(analysis.CriticalPath, step.Criterion.ID)
		}
	}

	return analysis
}
