// Package config persists the dependency graph and the scheduling tuning
// policy to disk, and fingerprints graph content for change detection.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/felixgeelhaar/waveplan/internal/errors"
	"github.com/felixgeelhaar/waveplan/internal/graph"
)

// DefaultPath is where the dependency document lives unless overridden.
const DefaultPath = ".waveplan/dependencies.json"

// Document is the on-disk shape of the dependency graph.
type Document struct {
	Dependencies map[string]Entry `json:"dependencies"`
}

// Entry is one criterion in the document: its metadata plus outgoing
// dependency references. Metadata is required; a pointer distinguishes an
// absent object from a zero one so Load can reject the former.
type Entry struct {
	Metadata  *Metadata             `json:"metadata"`
	DependsOn []graph.DependencyRef `json:"dependsOn,omitempty"`
}

// Metadata mirrors the criterion fields that survive a save/load round trip.
type Metadata struct {
	Description          string   `json:"description,omitempty"`
	EstimatedDuration    int64    `json:"estimatedDuration"`
	Parallelizable       bool     `json:"parallelizable"`
	ResourceRequirements []string `json:"resourceRequirements,omitempty"`
}

// Snapshot converts a store into its document form.
func Snapshot(s *graph.Store) Document {
	doc := Document{Dependencies: make(map[string]Entry, s.Len())}
	for _, c := range s.List() {
		entry := Entry{
			Metadata: &Metadata{
				Description:       c.Description,
				EstimatedDuration: c.EstimatedDurationMs,
				Parallelizable:    c.Parallelizable,
			},
		}
		for _, tag := range c.ResourceRequirements {
			entry.Metadata.ResourceRequirements = append(entry.Metadata.ResourceRequirements, string(tag))
		}
		for _, edge := range s.DependsOn(c.ID) {
			entry.DependsOn = append(entry.DependsOn, graph.DependencyRef{
				Criterion: edge.To,
				Type:      string(edge.Type),
			})
		}
		doc.Dependencies[c.ID] = entry
	}
	return doc
}

// Save writes the store's dependency document to path. Criterion order is
// normalized to sorted ids on disk; edge order within a criterion is
// preserved.
func Save(s *graph.Store, path string) error {
	data, err := json.MarshalIndent(Snapshot(s), "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigWriteFailed,
			fmt.Sprintf("failed to encode dependency config: %s", path), err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeConfigWriteFailed,
				fmt.Sprintf("failed to create config directory: %s", dir), err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeConfigWriteFailed,
			fmt.Sprintf("failed to write dependency config: %s", path), err).
			WithSuggestion("check that the directory exists and is writable")
	}
	return nil
}

// Load reads a dependency document and materializes a fresh store from it.
// The load is all-or-nothing: any malformed entry rejects the whole document
// and the caller's store is left untouched.
func Load(path string) (*graph.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeConfigNotFound,
			fmt.Sprintf("failed to read dependency config: %s", path), err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.NewConfigUnmarshalError(path, err)
	}
	if doc.Dependencies == nil {
		return nil, errors.NewConfigStructureError(path, "missing top-level dependencies object")
	}

	// JSON objects carry no order; sorted ids give a deterministic store.
	ids := make([]string, 0, len(doc.Dependencies))
	for id := range doc.Dependencies {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s := graph.NewStore()
	for _, id := range ids {
		entry := doc.Dependencies[id]
		if entry.Metadata == nil {
			return nil, errors.NewConfigStructureError(path,
				fmt.Sprintf("criterion %s: missing metadata", id))
		}
		parallelizable := entry.Metadata.Parallelizable
		cfg := graph.Config{
			Description:          entry.Metadata.Description,
			EstimatedDuration:    entry.Metadata.EstimatedDuration,
			Parallelizable:       &parallelizable,
			ResourceRequirements: entry.Metadata.ResourceRequirements,
			DependsOn:            entry.DependsOn,
		}
		if _, err := s.Add(id, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigStructure,
				fmt.Sprintf("invalid dependency config %s: criterion %s rejected", path, id), err)
		}
	}
	return s, nil
}
