package planner

import (
	"fmt"
	"runtime"

	"github.com/felixgeelhaar/waveplan/internal/graph"
)

// PlanAdaptive wraps wave planning with system-resource-aware concurrency
// tuning derived from the given profile.
func PlanAdaptive(s *graph.Store, profile ResourceProfile, tuning Tuning) AdaptivePlan {
	profile = clampProfile(profile)

	recommended := recommendConcurrency(s, profile, tuning)
	plan := ParallelPlan(s, recommended, tuning)

	return AdaptivePlan{
		Plan: plan,
		AdaptiveOptimizations: AdaptiveOptimizations{
			SystemAware:        SystemAware{RecommendedConcurrency: recommended},
			ResourceScheduling: resourceDirectives(s, profile, tuning),
		},
	}
}

// recommendConcurrency baselines at the available CPU count (floor 1),
// reduces it when available memory is low relative to the aggregate
// footprint of memory-tagged criteria, and raises it (bounded at twice the
// CPU count) when disk and network are both measured idle. Zero telemetry
// means unmeasured and never counts as idle.
func recommendConcurrency(s *graph.Store, profile ResourceProfile, tuning Tuning) int {
	cpus := profile.AvailableCPUs
	if cpus < 1 {
		cpus = 1
	}
	recommended := cpus

	if tuning.MemoryFootprintMB > 0 && profile.AvailableMemoryMB > 0 {
		memTagged := 0
		for _, c := range s.List() {
			if c.Requires(graph.ResourceMemory) {
				memTagged++
			}
		}
		if memTagged > 0 {
			needed := tuning.MemoryFootprintMB * int64(memTagged)
			if profile.AvailableMemoryMB < needed {
				byMemory := int(profile.AvailableMemoryMB / tuning.MemoryFootprintMB)
				if byMemory < 1 {
					byMemory = 1
				}
				if byMemory < recommended {
					recommended = byMemory
				}
			}
		}
	}

	idleDisk := profile.DiskIOLoad > 0 && profile.DiskIOLoad < tuning.LowDiskIOLoad
	idleNetwork := profile.NetworkLatencyMs > 0 && profile.NetworkLatencyMs < tuning.LowLatencyMs
	if idleDisk && idleNetwork {
		recommended += 2
		if limit := 2 * cpus; recommended > limit {
			recommended = limit
		}
	}

	return recommended
}

// resourceDirectives derives per-resource scheduling advice. Under high
// network latency, network-tagged criteria should be scheduled earliest and
// run with capped mutual concurrency so slow round-trips overlap compute
// instead of each other.
func resourceDirectives(s *graph.Store, profile ResourceProfile, tuning Tuning) []Directive {
	var directives []Directive

	if profile.NetworkLatencyMs > tuning.NetworkLatencyThresholdMs {
		var networkTagged []string
		for _, c := range s.List() {
			if c.Requires(graph.ResourceNetwork) {
				networkTagged = append(networkTagged, c.ID)
			}
		}
		if len(networkTagged) > 0 {
			directives = append(directives, Directive{
				Strategy:      "network_prioritization",
				Criteria:      networkTagged,
				MaxConcurrent: tuning.NetworkMaxConcurrent,
				Detail: fmt.Sprintf(
					"network latency %.0fms exceeds %.0fms; schedule network-bound criteria earliest and cap their mutual concurrency",
					profile.NetworkLatencyMs, tuning.NetworkLatencyThresholdMs),
			})
		}
	}

	return directives
}

// clampProfile normalizes out-of-range profile values instead of rejecting
// them; the profile is advisory input, not configuration.
func clampProfile(p ResourceProfile) ResourceProfile {
	if p.DiskIOLoad < 0 {
		p.DiskIOLoad = 0
	}
	if p.DiskIOLoad > 1 {
		p.DiskIOLoad = 1
	}
	if p.NetworkLatencyMs < 0 {
		p.NetworkLatencyMs = 0
	}
	return p
}

// DetectProfile derives a best-effort profile for the local machine. Memory,
// latency, and disk load are left at zero, which recommendConcurrency treats
// as unmeasured: no memory reduction, no idle headroom — only the CPU
// baseline applies. Orchestrators with real telemetry pass their own profile.
func DetectProfile() ResourceProfile {
	return ResourceProfile{
		AvailableCPUs: runtime.NumCPU(),
	}
}
