package plan

import (
	"sort"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
)

// TopologicalOrder returns d's node ids in a topological order: every
// node appears after all of its upstreams. Ties (nodes with no
// remaining dependency) are broken by ascending id, so the executor's
// walk order — and therefore its artifact output — is deterministic
// per spec §4.5's determinism requirement.
//
// Callers should run [Validate] first; TopologicalOrder returns a
// Validation/CyclicPlan error if d is not acyclic.
func TopologicalOrder(d DAG) ([]string, error) {
	indegree := make(map[string]int, len(d.Nodes))
	for id := range d.Nodes {
		indegree[id] = 0
	}
	for _, e := range d.Edges {
		indegree[e.To]++
	}

	var ready []string
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(d.Nodes))
	for len(ready) > 0 {
		sort.Strings(ready)
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for _, next := range d.Downstreams(id) {
			indegree[next]--
			if indegree[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if len(order) != len(d.Nodes) {
		return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeCyclicPlan, "",
			"plan DAG is not acyclic: only %d of %d nodes have a topological position", len(order), len(d.Nodes))
	}
	return order, nil
}

// Ancestors returns the set of node ids reachable by walking upstream
// edges from nodeID (not including nodeID itself), used by preview's
// annotation concatenation (spec §4.5 step 5).
func Ancestors(d DAG, nodeID string) []string {
	seen := make(map[string]bool)
	var order []string

	var visit func(id string)
	visit = func(id string) {
		ups := d.Upstreams(id)
		sort.Strings(ups)
		for _, up := range ups {
			if !seen[up] {
				seen[up] = true
				visit(up)
				order = append(order, up)
			}
		}
	}
	visit(nodeID)
	return order
}
