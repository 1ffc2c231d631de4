package transform

import (
	"sort"
	"strconv"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/graph"
)

// partitionDepthLimit collapses every descendant below depth d into its
// depth-d ancestor. Edges whose two endpoints both collapse into the same
// ancestor are dropped; every other edge with a collapsed endpoint is
// rewired to that endpoint's surviving ancestor.
func partitionDepthLimit(g *graph.Graph, depth int) (*graph.Graph, error) {
	if depth <= 0 {
		return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, "PartitionDepthLimit",
			"depth must be positive, got %d", depth)
	}
	if graph.EnsurePartitionHierarchy(g) {
		g.AppendAnnotation("Synthesized hierarchy before depth limit")
	}

	depthOf := make(map[string]int, len(g.Nodes))
	byID := make(map[string]graph.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}
	var depthFor func(id string) int
	depthFor = func(id string) int {
		if d, ok := depthOf[id]; ok {
			return d
		}
		n, ok := byID[id]
		if !ok || n.BelongsTo == "" {
			depthOf[id] = 0
			return 0
		}
		d := depthFor(n.BelongsTo) + 1
		depthOf[id] = d
		return d
	}
	for _, n := range g.Nodes {
		depthFor(n.ID)
	}

	// ancestorAt walks id's belongs_to chain up to the nearest ancestor at
	// or below depth, returning id unchanged if it is already shallow enough.
	ancestorAt := func(id string) string {
		cur := id
		for depthOf[cur] > depth {
			n, ok := byID[cur]
			if !ok || n.BelongsTo == "" {
				break
			}
			cur = n.BelongsTo
		}
		return cur
	}

	survivors := make([]graph.Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if depthOf[n.ID] <= depth {
			survivors = append(survivors, n)
		}
	}
	g.Nodes = survivors

	survivorSet := make(map[string]bool, len(survivors))
	for _, n := range survivors {
		survivorSet[n.ID] = true
	}
	for i := range g.Nodes {
		if g.Nodes[i].BelongsTo != "" && !survivorSet[g.Nodes[i].BelongsTo] {
			g.Nodes[i].BelongsTo = ancestorAt(g.Nodes[i].BelongsTo)
		}
	}

	kept := make([]graph.Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		src := ancestorAt(e.Source)
		dst := ancestorAt(e.Target)
		if src == dst && !survivorSet[e.Source] && !survivorSet[e.Target] {
			continue
		}
		if !survivorSet[e.Source] {
			if _, ok := byID[e.Source]; ok {
				e.Source = src
			}
		}
		if !survivorSet[e.Target] {
			if _, ok := byID[e.Target]; ok {
				e.Target = dst
			}
		}
		if e.Source == e.Target && depthOf[e.Source] > depth {
			continue
		}
		kept = append(kept, e)
	}
	g.Edges = kept

	g.AppendAnnotation("Max depth: " + strconv.Itoa(depth))
	return g, nil
}

// partitionWidthLimit retains, per parent partition, the top-w children by
// (weight desc, id asc) and folds the remainder into one synthetic
// aggregate child whose incident edges absorb those of the folded nodes.
func partitionWidthLimit(g *graph.Graph, width int) (*graph.Graph, error) {
	if width <= 0 {
		return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, "PartitionWidthLimit",
			"width must be positive, got %d", width)
	}

	byParent := make(map[string][]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.BelongsTo != "" {
			byParent[n.BelongsTo] = append(byParent[n.BelongsTo], i)
		}
	}

	type summary struct {
		parent     string
		retained   int
		aggregated []string
	}
	var summaries []summary
	redirect := make(map[string]string)
	drop := make(map[int]bool)

	parents := make([]string, 0, len(byParent))
	for p := range byParent {
		parents = append(parents, p)
	}
	sort.Strings(parents)

	for _, parent := range parents {
		idxs := byParent[parent]
		if len(idxs) <= width {
			continue
		}
		sort.Slice(idxs, func(a, b int) bool {
			na, nb := g.Nodes[idxs[a]], g.Nodes[idxs[b]]
			if na.Weight != nb.Weight {
				return na.Weight > nb.Weight
			}
			return na.ID < nb.ID
		})
		retainIdx := idxs[:width]
		dropIdx := idxs[width:]

		aggID := parent + "_agg"
		if _, exists := indexByID(g, aggID); exists {
			aggID = parent + "_agg_" + strconv.Itoa(len(g.Nodes))
		}
		var aggregated []string
		for _, di := range dropIdx {
			drop[di] = true
			aggregated = append(aggregated, g.Nodes[di].ID)
			redirect[g.Nodes[di].ID] = aggID
		}
		aggNode := graph.Node{
			ID:          aggID,
			Label:       "…(" + strconv.Itoa(len(dropIdx)) + " aggregated)",
			IsPartition: true,
			BelongsTo:   parent,
			Weight:      1,
		}
		g.Nodes = append(g.Nodes, aggNode)
		summaries = append(summaries, summary{parent: parent, retained: len(retainIdx), aggregated: aggregated})
	}

	if len(summaries) == 0 {
		return g, nil
	}

	survivors := make([]graph.Node, 0, len(g.Nodes))
	for i, n := range g.Nodes {
		if drop[i] {
			continue
		}
		survivors = append(survivors, n)
	}
	g.Nodes = survivors

	for i := range g.Edges {
		if to, ok := redirect[g.Edges[i].Source]; ok {
			g.Edges[i].Source = to
		}
		if to, ok := redirect[g.Edges[i].Target]; ok {
			g.Edges[i].Target = to
		}
	}

	for _, s := range summaries {
		g.AppendAnnotation("Partition width limit: parent=" + s.parent +
			" retained=" + strconv.Itoa(s.retained) + " aggregated=" + strconv.Itoa(len(s.aggregated)))
	}
	return g, nil
}

func indexByID(g *graph.Graph, id string) (graph.Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return graph.Node{}, false
}

// dropUnconnectedNodes removes non-partition flow nodes with zero incident
// edges and reports the count removed.
func dropUnconnectedNodes(g *graph.Graph) (*graph.Graph, error) {
	incident := make(map[string]bool, len(g.Nodes))
	for _, e := range g.Edges {
		incident[e.Source] = true
		incident[e.Target] = true
	}
	kept := make([]graph.Node, 0, len(g.Nodes))
	removed := 0
	for _, n := range g.Nodes {
		if !n.IsPartition && !incident[n.ID] {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	g.Nodes = kept
	g.AppendAnnotation("Dropped unconnected nodes: " + strconv.Itoa(removed))
	return g, nil
}

// generateHierarchy introduces a single synthetic root, converts belongs_to
// into explicit parent-child edges (including edges to the new root for
// every top-level node), and clears every IsPartition flag. Used by
// flat-view exporters that cannot represent containment directly.
func generateHierarchy(g *graph.Graph) (*graph.Graph, error) {
	rootID := syntheticRootID(g)
	root := graph.Node{ID: rootID, Label: "root", IsPartition: true, Weight: 1}
	for i := range g.Nodes {
		if g.Nodes[i].BelongsTo == "" {
			g.Nodes[i].BelongsTo = rootID
		}
	}
	g.Nodes = append(g.Nodes, root)

	edges := graph.GetHierarchyEdges(g)
	for _, he := range edges {
		g.Edges = append(g.Edges, graph.Edge{
			ID:     "hierarchy:" + he.Parent + "->" + he.Child,
			Source: he.Parent,
			Target: he.Child,
			Label:  "belongs_to",
			Weight: 1,
		})
	}
	for i := range g.Nodes {
		g.Nodes[i].IsPartition = false
	}
	g.AppendAnnotation("Generated explicit hierarchy edges")
	return g, nil
}

func syntheticRootID(g *graph.Graph) string {
	id := "__root__"
	for {
		if _, ok := indexByID(g, id); !ok {
			return id
		}
		id += "_"
	}
}
