// Package viz derives read-only statistics and terminal renderings from the
// dependency graph. Nothing here mutates the store.
package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/waveplan/internal/config"
	"github.com/felixgeelhaar/waveplan/internal/graph"
)

// Statistics is a point-in-time summary of the dependency graph.
type Statistics struct {
	TotalCriteria            int            `json:"totalCriteria"`
	TotalEdges               int            `json:"totalEdges"`
	EdgesByType              map[string]int `json:"edgesByType"`
	ParallelizableCriteria   int            `json:"parallelizableCriteria"`
	TotalEstimatedDurationMs int64          `json:"totalEstimatedDurationMs"`
	ResourceTagCounts        map[string]int `json:"resourceTagCounts"`
	RootCriteria             []string       `json:"rootCriteria"`
	LeafCriteria             []string       `json:"leafCriteria"`
	Fingerprint              string         `json:"fingerprint"`
}

// Snapshot computes graph statistics. Roots have no outgoing dependency
// edges; leaves have no dependents.
func Snapshot(s *graph.Store) (Statistics, error) {
	stats := Statistics{
		EdgesByType:       make(map[string]int),
		ResourceTagCounts: make(map[string]int),
	}

	hasDependents := make(map[string]bool)
	for _, edge := range s.Edges() {
		stats.TotalEdges++
		stats.EdgesByType[string(edge.Type)]++
		hasDependents[edge.To] = true
	}

	for _, c := range s.List() {
		stats.TotalCriteria++
		stats.TotalEstimatedDurationMs += c.EstimatedDurationMs
		if c.Parallelizable {
			stats.ParallelizableCriteria++
		}
		for _, tag := range c.ResourceRequirements {
			stats.ResourceTagCounts[string(tag)]++
		}
		if len(s.DependsOn(c.ID)) == 0 {
			stats.RootCriteria = append(stats.RootCriteria, c.ID)
		}
		if !hasDependents[c.ID] {
			stats.LeafCriteria = append(stats.LeafCriteria, c.ID)
		}
	}
	sort.Strings(stats.RootCriteria)
	sort.Strings(stats.LeafCriteria)

	fingerprint, err := config.Fingerprint(s)
	if err != nil {
		return Statistics{}, fmt.Errorf("fingerprint graph: %w", err)
	}
	stats.Fingerprint = fingerprint

	return stats, nil
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	edgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	exclusiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))
)

// RenderStatistics formats statistics for the terminal.
func RenderStatistics(stats Statistics) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Dependency Graph Statistics"))
	b.WriteString("\n\n")

	line := func(label string, value interface{}) {
		b.WriteString(fmt.Sprintf("%s %v\n", labelStyle.Render(label+":"), value))
	}

	line("Criteria", stats.TotalCriteria)
	line("Edges", stats.TotalEdges)
	for _, kind := range sortedKeys(stats.EdgesByType) {
		line("  "+kind, stats.EdgesByType[kind])
	}
	line("Parallelizable", fmt.Sprintf("%d/%d", stats.ParallelizableCriteria, stats.TotalCriteria))
	line("Total estimated duration", fmt.Sprintf("%dms", stats.TotalEstimatedDurationMs))
	for _, tag := range sortedKeys(stats.ResourceTagCounts) {
		line("  "+tag, stats.ResourceTagCounts[tag])
	}
	line("Roots", strings.Join(stats.RootCriteria, ", "))
	line("Leaves", strings.Join(stats.LeafCriteria, ", "))
	line("Fingerprint", stats.Fingerprint)

	return b.String()
}

// RenderGraph formats the adjacency of the graph, one criterion per block.
func RenderGraph(s *graph.Store) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Dependency Graph"))
	b.WriteString("\n\n")

	for _, c := range s.List() {
		b.WriteString(labelStyle.Render(c.ID))
		b.WriteString(fmt.Sprintf(" (%dms", c.EstimatedDurationMs))
		if !c.Parallelizable {
			b.WriteString(", " + exclusiveStyle.Render("exclusive"))
		}
		b.WriteString(")\n")

		for _, edge := range s.DependsOn(c.ID) {
			marker := "└─"
			if !s.Has(edge.To) {
				marker = "└✗"
			}
			b.WriteString(edgeStyle.Render(fmt.Sprintf("  %s %s [%s]", marker, edge.To, edge.Type)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
