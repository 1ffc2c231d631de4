package plan

import (
	"sort"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
)

// Validate checks d against spec §4.5's pre-execution contract: every
// edge's endpoints must exist, every node's upstream count must match
// its variant, the DAG must be acyclic, and nodes with zero downstreams
// are permitted but warned about. Errors are collected en masse rather
// than failing fast, per §7's validation propagation policy.
func Validate(d DAG) cerrors.List {
	var list cerrors.List

	for _, e := range d.Edges {
		if _, ok := d.Nodes[e.From]; !ok {
			list.Add(cerrors.New(cerrors.KindValidation, cerrors.CodeUnknownEdgeEndpoint, e.From,
				"edge references unknown node %q", e.From))
		}
		if _, ok := d.Nodes[e.To]; !ok {
			list.Add(cerrors.New(cerrors.KindValidation, cerrors.CodeUnknownEdgeEndpoint, e.To,
				"edge references unknown node %q", e.To))
		}
	}

	for _, id := range sortedNodeIDs(d) {
		n := d.Nodes[id]
		if err := checkUpstreamCount(n.Kind, len(d.Upstreams(id))); err != nil {
			list.Add(err)
		}
		if n.Kind == KindFilter && n.Filter == nil {
			list.Add(cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidRuleGroup, id,
				"filter node %q has no filter config", id))
		}
	}

	if cyc := findCycle(d); cyc != nil {
		list.Add(cerrors.New(cerrors.KindValidation, cerrors.CodeCyclicPlan, cyc[0],
			"plan DAG contains a cycle: %v", cyc))
	}

	for _, id := range sortedNodeIDs(d) {
		if len(d.Downstreams(id)) == 0 {
			list.AddWarning(cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidUpstreamCount, id,
				"node %q has no downstreams", id))
		}
	}

	return list
}

func sortedNodeIDs(d DAG) []string {
	ids := make([]string, 0, len(d.Nodes))
	for id := range d.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// findCycle returns one cycle's node ids (starting point first) if d's
// node graph has one, or nil if it is acyclic. Uses a recursive DFS with
// the same white/gray/black coloring as pkg/graph's belongs_to cycle
// check.
func findCycle(d DAG) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(d.Nodes))
	var path []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		path = append(path, id)
		for _, next := range d.Downstreams(id) {
			switch color[next] {
			case white:
				if visit(next) {
					return true
				}
			case gray:
				cycle = append(append([]string{}, path...), next)
				return true
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return false
	}

	for _, id := range sortedNodeIDs(d) {
		if color[id] == white {
			if visit(id) {
				return cycle
			}
		}
	}
	return nil
}
