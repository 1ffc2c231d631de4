package graph

import (
	"slices"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
)

// VerifyIntegrity enumerates every violation of the five structural
// invariants: unique node ids, resolvable edge endpoints (unless the graph
// is dangling-allowed), partition-only belongs_to targets, an acyclic
// belongs_to forest, and positive weights. It never mutates g.
func VerifyIntegrity(g *Graph) *cerrors.List {
	list := &cerrors.List{}

	seen := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		seen[n.ID]++
	}
	for id, count := range seen {
		if count > 1 {
			list.Add(cerrors.New(cerrors.KindIntegrity, cerrors.CodeDuplicateNodeID, id,
				"node id %q appears %d times", id, count).WithDetails(map[string]any{"id": id, "count": count}))
		}
	}

	edgeSeen := make(map[string]int, len(g.Edges))
	for _, e := range g.Edges {
		edgeSeen[e.ID]++
	}
	for id, count := range edgeSeen {
		if count > 1 {
			list.Add(cerrors.New(cerrors.KindIntegrity, cerrors.CodeDuplicateEdgeID, id,
				"edge id %q appears %d times", id, count).WithDetails(map[string]any{"id": id, "count": count}))
		}
	}

	nodeIndex := indexNodes(g)
	if !g.DanglingAllowed {
		for _, e := range g.Edges {
			if _, ok := nodeIndex[e.Source]; !ok {
				list.Add(cerrors.New(cerrors.KindIntegrity, cerrors.CodeDanglingEdge, e.ID,
					"edge %q source %q does not resolve to a node", e.ID, e.Source))
			}
			if _, ok := nodeIndex[e.Target]; !ok {
				list.Add(cerrors.New(cerrors.KindIntegrity, cerrors.CodeDanglingEdge, e.ID,
					"edge %q target %q does not resolve to a node", e.ID, e.Target))
			}
		}
	}

	for _, n := range g.Nodes {
		if n.BelongsTo == "" {
			continue
		}
		parent, ok := nodeIndex[n.BelongsTo]
		if !ok {
			list.Add(cerrors.New(cerrors.KindIntegrity, cerrors.CodeNonPartitionParent, n.ID,
				"node %q belongs_to unknown node %q", n.ID, n.BelongsTo))
			continue
		}
		if !parent.IsPartition {
			list.Add(cerrors.New(cerrors.KindIntegrity, cerrors.CodeNonPartitionParent, n.ID,
				"node %q belongs_to %q which is not a partition", n.ID, n.BelongsTo))
		}
	}

	if cycle := findHierarchyCycle(g); cycle != "" {
		list.Add(cerrors.New(cerrors.KindIntegrity, cerrors.CodeCyclicHierarchy, cycle,
			"belongs_to relation is cyclic at node %q", cycle))
	}

	for _, n := range g.Nodes {
		if n.Weight < 1 {
			list.Add(cerrors.New(cerrors.KindIntegrity, cerrors.CodeInvalidWeight, n.ID,
				"node %q weight %d must be a positive integer", n.ID, n.Weight))
		}
	}
	for _, e := range g.Edges {
		if e.Weight < 1 {
			list.Add(cerrors.New(cerrors.KindIntegrity, cerrors.CodeInvalidWeight, e.ID,
				"edge %q weight %d must be a positive integer", e.ID, e.Weight))
		}
	}

	return list
}

// indexNodes returns a map from node id to a pointer into g.Nodes. The
// pointers are only valid until g.Nodes is reallocated.
func indexNodes(g *Graph) map[string]*Node {
	idx := make(map[string]*Node, len(g.Nodes))
	for i := range g.Nodes {
		idx[g.Nodes[i].ID] = &g.Nodes[i]
	}
	return idx
}

// findHierarchyCycle runs iterative DFS with white/gray/black coloring over
// the belongs_to relation and returns the id of a node on a cycle, or "" if
// the relation is acyclic.
func findHierarchyCycle(g *Graph) string {
	const (
		white = iota
		gray
		black
	)
	parent := make(map[string]string, len(g.Nodes))
	color := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		color[n.ID] = white
		if n.BelongsTo != "" {
			parent[n.ID] = n.BelongsTo
		}
	}

	for _, n := range g.Nodes {
		if color[n.ID] != white {
			continue
		}
		path := []string{}
		cur := n.ID
		for {
			if color[cur] == black {
				break
			}
			if color[cur] == gray {
				return cur
			}
			color[cur] = gray
			path = append(path, cur)
			next, ok := parent[cur]
			if !ok {
				break
			}
			cur = next
		}
		for _, id := range path {
			color[id] = black
		}
	}
	return ""
}

// RemoveDanglingEdges drops edges whose endpoints are absent from g.Nodes.
// Idempotent.
func RemoveDanglingEdges(g *Graph) {
	idx := indexNodes(g)
	g.Edges = slices.DeleteFunc(g.Edges, func(e Edge) bool {
		_, srcOK := idx[e.Source]
		_, dstOK := idx[e.Target]
		return !srcOK || !dstOK
	})
}

// RemoveUnconnectedNodes drops non-partition nodes not referenced by any
// edge and not a parent (via belongs_to) of a surviving subtree.
func RemoveUnconnectedNodes(g *Graph) {
	referenced := make(map[string]bool, len(g.Nodes))
	for _, e := range g.Edges {
		referenced[e.Source] = true
		referenced[e.Target] = true
	}

	children := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.BelongsTo != "" {
			children[n.BelongsTo]++
		}
	}

	g.Nodes = slices.DeleteFunc(g.Nodes, func(n Node) bool {
		if n.IsPartition {
			return false
		}
		if referenced[n.ID] {
			return false
		}
		return children[n.ID] == 0
	})
}

// GetNonPartitionNodes returns the flow view's nodes: every node with
// IsPartition == false.
func GetNonPartitionNodes(g *Graph) []Node {
	out := make([]Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if !n.IsPartition {
			out = append(out, n)
		}
	}
	return out
}

// GetNonPartitionEdges returns the flow view's edges: every edge whose
// endpoints are both non-partition nodes.
func GetNonPartitionEdges(g *Graph) []Edge {
	partition := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.IsPartition {
			partition[n.ID] = true
		}
	}
	out := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if !partition[e.Source] && !partition[e.Target] {
			out = append(out, e)
		}
	}
	return out
}

// GetHierarchyNodes returns the hierarchy view's nodes: every partition
// node.
func GetHierarchyNodes(g *Graph) []Node {
	out := make([]Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.IsPartition {
			out = append(out, n)
		}
	}
	return out
}

// HierarchyEdge is a synthesized containment edge between a partition and
// its direct child, derived from belongs_to rather than stored explicitly.
type HierarchyEdge struct {
	Parent string
	Child  string
}

// GetHierarchyEdges synthesizes containment edges from every node's
// belongs_to field, parent-first.
func GetHierarchyEdges(g *Graph) []HierarchyEdge {
	out := make([]HierarchyEdge, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.BelongsTo != "" {
			out = append(out, HierarchyEdge{Parent: n.BelongsTo, Child: n.ID})
		}
	}
	return out
}

// EnsurePartitionHierarchy synthesizes a trivial hierarchy (a single
// synthetic root) when g has no partition nodes at all, reparenting every
// existing root-level node under it. It returns whether synthesis occurred.
func EnsurePartitionHierarchy(g *Graph) bool {
	for _, n := range g.Nodes {
		if n.IsPartition {
			return false
		}
	}
	root := Node{
		ID:          syntheticRootID(g),
		Label:       "root",
		IsPartition: true,
		Weight:      1,
	}
	for i := range g.Nodes {
		if g.Nodes[i].BelongsTo == "" {
			g.Nodes[i].BelongsTo = root.ID
		}
	}
	g.Nodes = append(g.Nodes, root)
	return true
}

func syntheticRootID(g *Graph) string {
	id := "__root__"
	existing := indexNodes(g)
	for {
		if _, ok := existing[id]; !ok {
			return id
		}
		id += "_"
	}
}
