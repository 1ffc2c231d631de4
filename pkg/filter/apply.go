package filter

import (
	"slices"

	"github.com/layercake-project/layercake/pkg/graph"
)

// Apply compiles cfg, evaluates its rule group directly against g's own
// collections (the in-memory shortcut a Filter node uses when it is not
// delegating selection to a Graph Repository), and returns the filtered
// graph. It never mutates g.
func Apply(g *graph.Graph, cfg Config) (*graph.Graph, []Warning, error) {
	compiled, err := Compile(cfg)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	matched := make(map[Target]map[string]bool)
	for _, t := range compiled.Config.Targets {
		switch t {
		case TargetNodes:
			ids, ws := EvaluateNodes(g.Nodes, compiled.Config.RuleGroup)
			matched[t] = ids
			warnings = append(warnings, ws...)
		case TargetEdges:
			ids, ws := EvaluateEdges(g.Edges, compiled.Config.RuleGroup)
			matched[t] = ids
			warnings = append(warnings, ws...)
		case TargetLayers:
			ids, ws := EvaluateLayers(g.Layers, compiled.Config.RuleGroup)
			matched[t] = ids
			warnings = append(warnings, ws...)
		}
	}

	return ApplyMatches(g, compiled.Config, matched), warnings, nil
}

// ApplyMatches applies a precomputed per-target match set (as a Graph
// Repository's SelectIds would return) to g's collections, honoring
// Mode and LinkPruning. It never mutates g.
func ApplyMatches(g *graph.Graph, cfg Config, matched map[Target]map[string]bool) *graph.Graph {
	out := g.Clone()

	for t, ids := range matched {
		survive := func(id string) bool {
			_, in := ids[id]
			if cfg.Mode == ModeExclude {
				return !in
			}
			return in
		}
		switch t {
		case TargetNodes:
			out.Nodes = slices.DeleteFunc(out.Nodes, func(n graph.Node) bool { return !survive(n.ID) })
		case TargetEdges:
			out.Edges = slices.DeleteFunc(out.Edges, func(e graph.Edge) bool { return !survive(e.ID) })
		case TargetLayers:
			out.Layers = slices.DeleteFunc(out.Layers, func(l graph.Layer) bool { return !survive(l.ID) })
		}
	}

	switch cfg.LinkPruning {
	case PruneAutoDropDangling:
		graph.RemoveDanglingEdges(out)
	case PruneDropOrphanNodes:
		graph.RemoveDanglingEdges(out)
		removeOrphanNodes(out)
	case PruneRetainEdges:
		out.DanglingAllowed = true
	}

	return out
}

// removeOrphanNodes drops non-partition nodes with no remaining incident
// edge, then (per the documented resolution of the open question in
// spec §9) repeatedly drops partitions left with no surviving
// descendant, since a partition whose entire subtree has been pruned is
// itself orphaned.
func removeOrphanNodes(g *graph.Graph) {
	graph.RemoveUnconnectedNodes(g)

	for {
		childCount := make(map[string]int, len(g.Nodes))
		for _, n := range g.Nodes {
			if n.BelongsTo != "" {
				childCount[n.BelongsTo]++
			}
		}
		referenced := make(map[string]bool, len(g.Nodes))
		for _, e := range g.Edges {
			referenced[e.Source] = true
			referenced[e.Target] = true
		}

		before := len(g.Nodes)
		g.Nodes = slices.DeleteFunc(g.Nodes, func(n graph.Node) bool {
			if !n.IsPartition {
				return false
			}
			return childCount[n.ID] == 0 && !referenced[n.ID]
		})
		if len(g.Nodes) == before {
			return
		}
		graph.RemoveDanglingEdges(g)
	}
}
