package graph

// Validate inspects the store for structural issues: dependency cycles over
// blocking (strict/weak) edges and references to criteria that do not
// exist. Findings are data for the caller, never errors, and the result is
// recomputed fresh on every call.
func Validate(s *Store) Result {
	var issues []Issue

	issues = append(issues, detectCycles(s)...)
	issues = append(issues, detectMissing(s)...)

	return Result{
		Valid:  len(issues) == 0,
		Issues: issues,
	}
}

// detectCycles runs a DFS with an explicit recursion stack over blocking
// edges. Revisiting a stacked node yields a cycle issue listing the cycle's
// members in traversal order. Optional edges never form hard constraints
// and are skipped.
func detectCycles(s *Store) []Issue {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, s.Len())
	var stack []string
	var issues []Issue

	stackIndex := func(id string) int {
		for i, v := range stack {
			if v == id {
				return i
			}
		}
		return -1
	}

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		stack = append(stack, id)

		for _, edge := range s.DependsOn(id) {
			if !edge.Type.Blocking() {
				continue
			}
			if !s.Has(edge.To) {
				// Reported separately as missing_dependency.
				continue
			}
			switch color[edge.To] {
			case white:
				dfs(edge.To)
			case gray:
				if idx := stackIndex(edge.To); idx >= 0 {
					members := make([]string, len(stack)-idx)
					copy(members, stack[idx:])
					issues = append(issues, Issue{
						Type:         IssueCycle,
						Participants: members,
					})
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
	}

	// Traverse in insertion order for deterministic reporting.
	for _, c := range s.List() {
		if color[c.ID] == white {
			dfs(c.ID)
		}
	}

	return issues
}

// detectMissing emits a missing_dependency issue for every edge whose
// prerequisite is absent from the store, regardless of edge type.
func detectMissing(s *Store) []Issue {
	var issues []Issue
	for _, edge := range s.Edges() {
		if !s.Has(edge.To) {
			issues = append(issues, Issue{
				Type:              IssueMissingDependency,
				Participants:      []string{edge.From},
				MissingDependency: edge.To,
			})
		}
	}
	return issues
}
