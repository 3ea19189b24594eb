package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/waveplan/internal/errors"
)

// DependencyRef names a prerequisite inside a criterion config
type DependencyRef struct {
	Criterion string `json:"criterion"`
	Type      string `json:"type,omitempty"`
}

// Config is the validated per-criterion configuration accepted at the
// ingestion boundary. Unknown fields are rejected rather than propagated.
type Config struct {
	Description          string          `json:"description,omitempty"`
	EstimatedDuration    int64           `json:"estimatedDuration,omitempty"`
	Parallelizable       *bool           `json:"parallelizable,omitempty"`
	ResourceRequirements []string        `json:"resourceRequirements,omitempty"`
	DependsOn            []DependencyRef `json:"dependsOn,omitempty"`
}

// ParseConfig strictly decodes a criterion config JSON blob.
func ParseConfig(id string, raw []byte) (Config, error) {
	var cfg Config
	if len(bytes.TrimSpace(raw)) == 0 {
		return cfg, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.NewMalformedConfigError(id, err)
	}
	return cfg, nil
}

// Store is the in-memory mapping of criterion id to metadata plus
// dependency edges. It is a pure data structure: mutations have no
// persistence side effect until Persistence.Save is called, and concurrent
// writers must be serialized by the owning orchestration layer.
type Store struct {
	criteria  map[string]*Criterion
	dependsOn map[string][]Edge
	order     []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		criteria:  make(map[string]*Criterion),
		dependsOn: make(map[string][]Edge),
	}
}

// defaultCriteria is the canonical CI pipeline seeded into every new graph:
// build strictly depends on linter and type checks, start strictly depends
// on build.
func defaultCriteria() []struct {
	c    Criterion
	deps []DependencyRef
} {
	return []struct {
		c    Criterion
		deps []DependencyRef
	}{
		{
			c: Criterion{
				ID:                   "focused-codebase",
				Description:          "Validate that only task-relevant files were touched",
				EstimatedDurationMs:  5000,
				Parallelizable:       true,
				ResourceRequirements: []ResourceTag{ResourceFilesystem},
			},
		},
		{
			c: Criterion{
				ID:                   "security-validation",
				Description:          "Run security scanners over the changed surface",
				EstimatedDurationMs:  30000,
				Parallelizable:       true,
				ResourceRequirements: []ResourceTag{ResourceCPU},
			},
		},
		{
			c: Criterion{
				ID:                   "linter-validation",
				Description:          "Run all configured linters",
				EstimatedDurationMs:  15000,
				Parallelizable:       true,
				ResourceRequirements: []ResourceTag{ResourceCPU},
			},
		},
		{
			c: Criterion{
				ID:                   "type-validation",
				Description:          "Run the type checker",
				EstimatedDurationMs:  20000,
				Parallelizable:       true,
				ResourceRequirements: []ResourceTag{ResourceCPU, ResourceMemory},
			},
		},
		{
			c: Criterion{
				ID:                   "build-validation",
				Description:          "Produce a clean build of the project",
				EstimatedDurationMs:  45000,
				Parallelizable:       false,
				ResourceRequirements: []ResourceTag{ResourceCPU, ResourceMemory, ResourceFilesystem},
			},
			deps: []DependencyRef{
				{Criterion: "linter-validation", Type: "strict"},
				{Criterion: "type-validation", Type: "strict"},
			},
		},
		{
			c: Criterion{
				ID:                   "start-validation",
				Description:          "Start the built artifact and probe liveness",
				EstimatedDurationMs:  10000,
				Parallelizable:       false,
				ResourceRequirements: []ResourceTag{ResourceNetwork, ResourceMemory},
			},
			deps: []DependencyRef{
				{Criterion: "build-validation", Type: "strict"},
			},
		},
		{
			c: Criterion{
				ID:                   "test-validation",
				Description:          "Run the test suite",
				EstimatedDurationMs:  60000,
				Parallelizable:       true,
				ResourceRequirements: []ResourceTag{ResourceCPU, ResourceMemory},
			},
			deps: []DependencyRef{
				{Criterion: "build-validation", Type: "weak"},
			},
		},
	}
}

// NewDefaultStore creates a store seeded with the seven default criteria
// of the canonical CI pipeline.
func NewDefaultStore() *Store {
	s := NewStore()
	for _, seed := range defaultCriteria() {
		edges := make([]Edge, 0, len(seed.deps))
		for _, d := range seed.deps {
			edges = append(edges, Edge{From: seed.c.ID, To: d.Criterion, Type: DependencyType(d.Type)})
		}
		s.put(seed.c, edges)
	}
	return s
}

// put inserts or overwrites a criterion, preserving the original insertion
// position on overwrite.
func (s *Store) put(c Criterion, edges []Edge) {
	if _, exists := s.criteria[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	stored := c
	s.criteria[c.ID] = &stored
	s.dependsOn[c.ID] = edges
}

// Add validates a criterion config and inserts it, overwriting any
// existing criterion with the same id. A blank id is a validation error.
func (s *Store) Add(id string, cfg Config) (*Criterion, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.NewBlankCriterionIDError()
	}
	if cfg.EstimatedDuration < 0 {
		return nil, errors.New(errors.ErrCodeNegativeDuration,
			fmt.Sprintf("estimatedDuration must be >= 0, got %d", cfg.EstimatedDuration))
	}

	tags := make([]ResourceTag, 0, len(cfg.ResourceRequirements))
	for _, raw := range cfg.ResourceRequirements {
		tag, err := ParseResourceTag(raw)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	edges := make([]Edge, 0, len(cfg.DependsOn))
	for _, ref := range cfg.DependsOn {
		if strings.TrimSpace(ref.Criterion) == "" {
			return nil, errors.New(errors.ErrCodeMalformedConfig,
				fmt.Sprintf("criterion %s: dependsOn entry with blank criterion", id))
		}
		depType, err := ParseDependencyType(ref.Type)
		if err != nil {
			return nil, err
		}
		edges = append(edges, Edge{From: id, To: ref.Criterion, Type: depType})
	}

	// Absent parallelizable defaults to true; only an explicit false
	// forces solo scheduling.
	parallelizable := true
	if cfg.Parallelizable != nil {
		parallelizable = *cfg.Parallelizable
	}

	c := Criterion{
		ID:                   id,
		Description:          cfg.Description,
		EstimatedDurationMs:  cfg.EstimatedDuration,
		Parallelizable:       parallelizable,
		ResourceRequirements: tags,
	}
	s.put(c, edges)
	return s.criteria[id], nil
}

// Remove deletes the criterion and the edges it declared. Edges elsewhere
// naming it as a prerequisite are left intact; they surface later as
// missing_dependency issues rather than being silently pruned.
func (s *Store) Remove(id string) error {
	if _, ok := s.criteria[id]; !ok {
		return errors.NewCriterionNotFoundError(id)
	}
	delete(s.criteria, id)
	delete(s.dependsOn, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the criterion with the given id, if present.
func (s *Store) Get(id string) (*Criterion, bool) {
	c, ok := s.criteria[id]
	return c, ok
}

// Has reports whether a criterion with the given id exists.
func (s *Store) Has(id string) bool {
	_, ok := s.criteria[id]
	return ok
}

// List returns all criteria in insertion order.
func (s *Store) List() []*Criterion {
	out := make([]*Criterion, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.criteria[id])
	}
	return out
}

// DependsOn returns the declared prerequisite edges of a criterion.
func (s *Store) DependsOn(id string) []Edge {
	return s.dependsOn[id]
}

// Edges returns every edge in the graph, ordered by the dependent's
// insertion order and then declaration order.
func (s *Store) Edges() []Edge {
	var out []Edge
	for _, id := range s.order {
		out = append(out, s.dependsOn[id]...)
	}
	return out
}

// Len returns the number of criteria.
func (s *Store) Len() int {
	return len(s.order)
}

// Replace atomically swaps this store's contents with another's. Used by
// Persistence.Load so a failed load leaves the store untouched.
func (s *Store) Replace(other *Store) {
	s.criteria = other.criteria
	s.dependsOn = other.dependsOn
	s.order = other.order
}
