package merge

import (
	"fmt"
	"sort"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/graph"
)

// nodeAccumulator holds the first-writer-wins state for one external
// node id across all upstream graphs, plus a running count for the
// uniqueness check.
type nodeAccumulator struct {
	node  graph.Node
	count int
}

// edgeKey is the composite key spec §4.4 step 2 requires: the external
// id alone is not distinct enough to merge by, since two sources can
// both emit a blank id.
type edgeKey struct {
	id, source, target, layer, dataset string
}

type edgeAccumulator struct {
	edge  graph.Edge
	count int
}

// Resolve runs the merge algorithm of spec §4.4 over an ordered list of
// upstream graphs and returns one graph. It fails (without returning a
// partial graph) on duplicate external ids or on an edge endpoint that
// never resolves to an accumulated node.
func Resolve(name string, upstreams []*graph.Graph) (*graph.Graph, error) {
	nodeAcc := make(map[string]*nodeAccumulator)
	var nodeOrder []string

	for _, g := range upstreams {
		for _, n := range g.Nodes {
			acc, ok := nodeAcc[n.ID]
			if !ok {
				cp := n.Clone()
				acc = &nodeAccumulator{node: cp}
				nodeAcc[n.ID] = acc
				nodeOrder = append(nodeOrder, n.ID)
			} else {
				acc.node.IsPartition = acc.node.IsPartition || n.IsPartition
				acc.node.Weight += n.Weight
			}
			acc.count++
		}
	}

	if dup := duplicateNodeIDs(nodeAcc); len(dup) > 0 {
		ids := make([]string, 0, len(dup))
		counts := make([]int, 0, len(dup))
		for _, id := range sortedKeys(dup) {
			ids = append(ids, id)
			counts = append(counts, dup[id])
		}
		return nil, cerrors.New(cerrors.KindIntegrity, cerrors.CodeDuplicateNodeID, name,
			"merge found %d duplicate node id(s)", len(ids)).
			WithDetails(map[string]any{"ids": ids, "counts": counts})
	}

	edgeAcc := make(map[edgeKey]*edgeAccumulator)
	var edgeOrder []edgeKey
	for _, g := range upstreams {
		for _, e := range g.Edges {
			key := edgeKey{id: e.ID, source: e.Source, target: e.Target, layer: e.Layer, dataset: e.Dataset}
			acc, ok := edgeAcc[key]
			if !ok {
				cp := e.Clone()
				acc = &edgeAccumulator{edge: cp}
				edgeAcc[key] = acc
				edgeOrder = append(edgeOrder, key)
			} else {
				acc.edge.Weight += e.Weight
				acc.edge.Comment = joinComments(acc.edge.Comment, e.Comment)
			}
			acc.count++
		}
	}

	if dup := duplicateEdgeIDs(edgeAcc); len(dup) > 0 {
		ids := make([]string, 0, len(dup))
		counts := make([]int, 0, len(dup))
		for _, id := range sortedKeys(dup) {
			ids = append(ids, id)
			counts = append(counts, dup[id])
		}
		return nil, cerrors.New(cerrors.KindIntegrity, cerrors.CodeDuplicateEdgeID, name,
			"merge found %d duplicate edge id(s)", len(ids)).
			WithDetails(map[string]any{"ids": ids, "counts": counts})
	}

	for _, key := range edgeOrder {
		e := edgeAcc[key].edge
		if _, ok := nodeAcc[e.Source]; !ok {
			return nil, cerrors.New(cerrors.KindIntegrity, cerrors.CodeEdgeEndpointMissing, name,
				"edge %q source %q is not in the accumulated node set", e.ID, e.Source)
		}
		if _, ok := nodeAcc[e.Target]; !ok {
			return nil, cerrors.New(cerrors.KindIntegrity, cerrors.CodeEdgeEndpointMissing, name,
				"edge %q target %q is not in the accumulated node set", e.ID, e.Target)
		}
	}

	out := graph.New(name)
	for _, id := range nodeOrder {
		out.Nodes = append(out.Nodes, nodeAcc[id].node)
	}
	for _, key := range edgeOrder {
		out.Edges = append(out.Edges, edgeAcc[key].edge)
	}
	out.Layers = mergeLayers(upstreams, out.Nodes, out.Edges)

	return out, nil
}

// duplicateNodeIDs identifies external ids written by more than one
// distinct upstream node record. A single accumulator entry having
// count > 1 means the id appeared in more than one upstream.
func duplicateNodeIDs(acc map[string]*nodeAccumulator) map[string]int {
	dup := make(map[string]int)
	for id, a := range acc {
		if a.count > 1 {
			dup[id] = a.count
		}
	}
	return dup
}

// duplicateEdgeIDs reports external edge ids that collide across
// distinct composite keys (distinct source/target/layer/dataset), which
// spec §4.4 step 3 treats as a duplicate-id failure even though the
// composite key itself did not collide.
func duplicateEdgeIDs(acc map[edgeKey]*edgeAccumulator) map[string]int {
	byID := make(map[string]map[edgeKey]bool)
	for key := range acc {
		if key.id == "" {
			continue
		}
		if byID[key.id] == nil {
			byID[key.id] = make(map[edgeKey]bool)
		}
		byID[key.id][key] = true
	}
	dup := make(map[string]int)
	for id, keys := range byID {
		if len(keys) > 1 {
			dup[id] = len(keys)
		}
	}
	return dup
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func joinComments(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return fmt.Sprintf("%s; %s", a, b)
	}
}

// mergeLayers unions layer definitions first-writer-wins on style
// fields; when no upstream supplies any layer, layers are synthesized
// from the distinct layer values referenced by the merged nodes/edges,
// with default styling.
func mergeLayers(upstreams []*graph.Graph, nodes []graph.Node, edges []graph.Edge) []graph.Layer {
	var anyLayers bool
	acc := make(map[string]graph.Layer)
	var order []string
	for _, g := range upstreams {
		if len(g.Layers) > 0 {
			anyLayers = true
		}
		for _, l := range g.Layers {
			if _, ok := acc[l.ID]; !ok {
				acc[l.ID] = l.Clone()
				order = append(order, l.ID)
			}
		}
	}
	if anyLayers {
		out := make([]graph.Layer, 0, len(order))
		for _, id := range order {
			out = append(out, acc[id])
		}
		return out
	}

	seen := make(map[string]bool)
	var ids []string
	for _, n := range nodes {
		if n.Layer != "" && !seen[n.Layer] {
			seen[n.Layer] = true
			ids = append(ids, n.Layer)
		}
	}
	for _, e := range edges {
		if e.Layer != "" && !seen[e.Layer] {
			seen[e.Layer] = true
			ids = append(ids, e.Layer)
		}
	}
	sort.Strings(ids)
	out := make([]graph.Layer, 0, len(ids))
	for _, id := range ids {
		out = append(out, graph.Layer{
			ID:              id,
			Label:           id,
			BackgroundColor: graph.DefaultBackgroundColor,
			TextColor:       graph.DefaultTextColor,
			BorderColor:     graph.DefaultBorderColor,
		})
	}
	return out
}
