package viz

import (
	"strings"
	"testing"

	"github.com/felixgeelhaar/waveplan/internal/graph"
)

func TestSnapshotDefaultPipeline(t *testing.T) {
	s := graph.NewDefaultStore()

	stats, err := Snapshot(s)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if stats.TotalCriteria != 7 {
		t.Errorf("TotalCriteria = %d, want 7", stats.TotalCriteria)
	}
	if stats.TotalEdges != 4 {
		t.Errorf("TotalEdges = %d, want 4", stats.TotalEdges)
	}
	if stats.EdgesByType["strict"] != 3 || stats.EdgesByType["weak"] != 1 {
		t.Errorf("EdgesByType = %v, want 3 strict and 1 weak", stats.EdgesByType)
	}
	if stats.ParallelizableCriteria != 5 {
		t.Errorf("ParallelizableCriteria = %d, want 5", stats.ParallelizableCriteria)
	}
	if stats.TotalEstimatedDurationMs != 185000 {
		t.Errorf("TotalEstimatedDurationMs = %d, want 185000", stats.TotalEstimatedDurationMs)
	}
	if stats.Fingerprint == "" {
		t.Error("Fingerprint must be populated")
	}

	roots := strings.Join(stats.RootCriteria, ",")
	for _, id := range []string{"focused-codebase", "linter-validation", "security-validation", "type-validation"} {
		if !strings.Contains(roots, id) {
			t.Errorf("RootCriteria %v missing %s", stats.RootCriteria, id)
		}
	}
	leaves := strings.Join(stats.LeafCriteria, ",")
	for _, id := range []string{"start-validation", "test-validation"} {
		if !strings.Contains(leaves, id) {
			t.Errorf("LeafCriteria %v missing %s", stats.LeafCriteria, id)
		}
	}
}

func TestSnapshotEmptyStore(t *testing.T) {
	stats, err := Snapshot(graph.NewStore())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if stats.TotalCriteria != 0 || stats.TotalEdges != 0 {
		t.Errorf("empty store stats = %+v, want zeroes", stats)
	}
}

func TestSnapshotIsReadOnly(t *testing.T) {
	s := graph.NewDefaultStore()
	before := s.Len()

	if _, err := Snapshot(s); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	_ = RenderGraph(s)

	if s.Len() != before {
		t.Errorf("store mutated: Len() = %d, want %d", s.Len(), before)
	}
}

func TestRenderStatisticsContainsFields(t *testing.T) {
	s := graph.NewDefaultStore()
	stats, err := Snapshot(s)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	out := RenderStatistics(stats)
	for _, want := range []string{"Criteria", "Edges", "Fingerprint", "185000ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered statistics missing %q", want)
		}
	}
}

func TestRenderGraphMarksMissingAndExclusive(t *testing.T) {
	no := false
	s := graph.NewStore()
	if _, err := s.Add("solo", graph.Config{
		Parallelizable: &no,
		DependsOn:      []graph.DependencyRef{{Criterion: "ghost", Type: "strict"}},
	}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	out := RenderGraph(s)
	if !strings.Contains(out, "exclusive") {
		t.Error("non-parallelizable criterion not marked exclusive")
	}
	if !strings.Contains(out, "ghost") || !strings.Contains(out, "✗") {
		t.Error("missing dependency not marked")
	}
}
