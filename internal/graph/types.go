// Package graph holds the in-memory dependency graph of validation criteria:
// criterion metadata, typed dependency edges, and structural validation.
//
// The store is a plain data structure with no internal locking. The
// orchestration layer owns it and must serialize writes; planners only read.
package graph

import (
	"fmt"

	"github.com/felixgeelhaar/waveplan/internal/errors"
)

// DependencyType is the ordering strength of an edge, from hard-blocking
// to advisory.
type DependencyType string

const (
	// DependencyStrict means the prerequisite must be scheduled (and assumed
	// successful) before the dependent.
	DependencyStrict DependencyType = "strict"
	// DependencyWeak means the prerequisite should precede the dependent, but
	// its absence or failure is non-blocking.
	DependencyWeak DependencyType = "weak"
	// DependencyOptional is an ordering hint only, ignorable if the
	// prerequisite is undefined.
	DependencyOptional DependencyType = "optional"
)

// ParseDependencyType validates a dependency type string
func ParseDependencyType(s string) (DependencyType, error) {
	switch DependencyType(s) {
	case DependencyStrict, DependencyWeak, DependencyOptional:
		return DependencyType(s), nil
	case "":
		// Unspecified edges default to strict, the conservative reading.
		return DependencyStrict, nil
	default:
		return "", errors.New(errors.ErrCodeUnknownDependency,
			fmt.Sprintf("unknown dependency type: %q", s)).
			WithSuggestion("Use one of: strict, weak, optional")
	}
}

// Blocking reports whether the edge participates in ordering constraints.
// Optional edges never form hard constraints.
func (t DependencyType) Blocking() bool {
	return t == DependencyStrict || t == DependencyWeak
}

// ResourceTag classifies a criterion's resource needs for wave packing.
type ResourceTag string

const (
	ResourceCPU        ResourceTag = "cpu"
	ResourceMemory     ResourceTag = "memory"
	ResourceNetwork    ResourceTag = "network"
	ResourceFilesystem ResourceTag = "filesystem"
)

// ParseResourceTag validates a resource tag string
func ParseResourceTag(s string) (ResourceTag, error) {
	switch ResourceTag(s) {
	case ResourceCPU, ResourceMemory, ResourceNetwork, ResourceFilesystem:
		return ResourceTag(s), nil
	default:
		return "", errors.New(errors.ErrCodeUnknownResourceTag,
			fmt.Sprintf("unknown resource tag: %q", s)).
			WithSuggestion("Use one of: cpu, memory, network, filesystem")
	}
}

// Criterion is a named validation check with cost and resource metadata.
type Criterion struct {
	ID                   string        `json:"id"`
	Description          string        `json:"description"`
	EstimatedDurationMs  int64         `json:"estimatedDurationMs"`
	Parallelizable       bool          `json:"parallelizable"`
	ResourceRequirements []ResourceTag `json:"resourceRequirements"`
}

// Requires reports whether the criterion declares the given resource tag.
func (c *Criterion) Requires(tag ResourceTag) bool {
	for _, t := range c.ResourceRequirements {
		if t == tag {
			return true
		}
	}
	return false
}

// Edge is a dependency relationship: From depends on To.
type Edge struct {
	From string         `json:"from"`
	To   string         `json:"to"`
	Type DependencyType `json:"type"`
}

// IssueType classifies a structural finding
type IssueType string

const (
	// IssueCycle reports a dependency cycle over blocking edges
	IssueCycle IssueType = "cycle"
	// IssueMissingDependency reports an edge whose prerequisite is not in the store
	IssueMissingDependency IssueType = "missing_dependency"
)

// Issue is a structural finding from validation. Issues are data, not
// errors: the graph stays usable and callers choose policy.
type Issue struct {
	Type              IssueType `json:"type"`
	Participants      []string  `json:"participants"`
	MissingDependency string    `json:"missingDependency,omitempty"`
}

// Result is the outcome of a structural validation pass.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}
