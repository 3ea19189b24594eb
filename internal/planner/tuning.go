package planner

import (
	"github.com/felixgeelhaar/waveplan/internal/graph"
)

// DefaultMaxConcurrency is the wave width used when the caller does not
// supply one and no resource profile is available.
const DefaultMaxConcurrency = 4

// Tuning holds the scheduling thresholds that are policy, not law. The
// defaults reproduce the planner's stock behavior; operators override them
// through the tuning file loaded by the config package.
type Tuning struct {
	// ResourceCaps limits how many criteria sharing a resource tag may
	// occupy one wave. Classes absent from the map are uncapped.
	ResourceCaps map[graph.ResourceTag]int `yaml:"resourceCaps"`

	// LoadBalanceMultiple triggers a load_balance recommendation when a
	// non-parallelizable solo wave exceeds this multiple of the mean
	// duration of the other waves.
	LoadBalanceMultiple float64 `yaml:"loadBalanceMultiple"`

	// NetworkLatencyThresholdMs is the latency above which network-tagged
	// criteria get a network_prioritization directive.
	NetworkLatencyThresholdMs float64 `yaml:"networkLatencyThresholdMs"`

	// LowLatencyMs and LowDiskIOLoad bound the "system is idle" heuristic
	// that raises recommended concurrency.
	LowLatencyMs  float64 `yaml:"lowLatencyMs"`
	LowDiskIOLoad float64 `yaml:"lowDiskIOLoad"`

	// MemoryFootprintMB is the assumed working-set size of each
	// memory-tagged criterion when weighing available memory.
	MemoryFootprintMB int64 `yaml:"memoryFootprintMB"`

	// NetworkMaxConcurrent caps mutual concurrency of network-tagged
	// criteria under high latency.
	NetworkMaxConcurrent int `yaml:"networkMaxConcurrent"`
}

// DefaultTuning returns the stock scheduling policy.
func DefaultTuning() Tuning {
	return Tuning{
		ResourceCaps: map[graph.ResourceTag]int{
			// Filesystem-heavy checks trample each other's working tree.
			graph.ResourceFilesystem: 1,
		},
		LoadBalanceMultiple:       3.0,
		NetworkLatencyThresholdMs: 100,
		LowLatencyMs:              50,
		LowDiskIOLoad:             0.3,
		MemoryFootprintMB:         512,
		NetworkMaxConcurrent:      2,
	}
}

// capFor returns the wave-level concurrency cap for a resource tag, or 0
// when the class is uncapped.
func (t Tuning) capFor(tag graph.ResourceTag) int {
	if t.ResourceCaps == nil {
		return 0
	}
	return t.ResourceCaps[tag]
}
