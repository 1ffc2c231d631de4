package render

import (
	"sort"

	"github.com/layercake-project/layercake/pkg/graph"
)

// Prepared is the common input every exporter renders from: the graph
// split into its flow and hierarchy views, the derived tree forms, and a
// fully resolved layer palette (spec §4.6).
type Prepared struct {
	GraphName string

	FlowNodes []graph.Node
	FlowEdges []graph.Edge

	HierarchyNodes []graph.Node
	HierarchyEdges []graph.HierarchyEdge

	Tree          []graph.TreeNode
	TreeEdges     []graph.TreeEdge

	Layers map[string]graph.Layer
}

// Prepare splits g into its flow/hierarchy views, builds the tree forms,
// resolves the layer palette (synthesizing default styling for any
// referenced-but-undefined layer id), and applies Config's palette,
// per-dataset overrides, and weight-propagation setting. It never
// mutates g.
func Prepare(g *graph.Graph, cfg Config) Prepared {
	work := g.Clone()
	if !cfg.PropagateWeights {
		resetWeights(work)
	}

	p := Prepared{
		GraphName:      work.Name,
		FlowNodes:      graph.GetNonPartitionNodes(work),
		FlowEdges:      graph.GetNonPartitionEdges(work),
		HierarchyNodes: graph.GetHierarchyNodes(work),
		HierarchyEdges: graph.GetHierarchyEdges(work),
		Tree:           graph.BuildTree(work),
		TreeEdges:      graph.BuildTreeFromEdges(work),
		Layers:         resolvePalette(work, cfg),
	}
	return p
}

func resetWeights(g *graph.Graph) {
	for i := range g.Nodes {
		g.Nodes[i].Weight = 1
	}
	for i := range g.Edges {
		g.Edges[i].Weight = 1
	}
}

// resolvePalette builds the full set of layer ids referenced by any
// node/edge, synthesizing default styling (§3's DefaultBackgroundColor/
// DefaultTextColor/DefaultBorderColor) for any id not in g.Layers, then
// applies Config's global Palette and per-dataset overrides on top.
func resolvePalette(g *graph.Graph, cfg Config) map[string]graph.Layer {
	out := make(map[string]graph.Layer, len(g.Layers))
	for _, l := range g.Layers {
		out[l.ID] = l
	}

	referenced := referencedLayerIDs(g)
	for _, id := range referenced {
		if _, ok := out[id]; !ok {
			out[id] = graph.Layer{
				ID:              id,
				Label:           id,
				BackgroundColor: graph.DefaultBackgroundColor,
				TextColor:       graph.DefaultTextColor,
				BorderColor:     graph.DefaultBorderColor,
			}
		}
	}

	if style, ok := paletteStyles[cfg.Palette]; ok {
		for id, l := range out {
			l.BackgroundColor = style.BackgroundColor
			l.TextColor = style.TextColor
			l.BorderColor = style.BorderColor
			out[id] = l
		}
	}

	if len(cfg.DatasetStyleOverrides) > 0 {
		for id, l := range out {
			if style, ok := cfg.DatasetStyleOverrides[l.Dataset]; ok {
				l.BackgroundColor = style.BackgroundColor
				l.TextColor = style.TextColor
				l.BorderColor = style.BorderColor
				out[id] = l
			}
		}
	}

	return out
}

func referencedLayerIDs(g *graph.Graph) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range g.Nodes {
		if n.Layer != "" && !seen[n.Layer] {
			seen[n.Layer] = true
			out = append(out, n.Layer)
		}
	}
	for _, e := range g.Edges {
		if e.Layer != "" && !seen[e.Layer] {
			seen[e.Layer] = true
			out = append(out, e.Layer)
		}
	}
	sort.Strings(out)
	return out
}

// SortedLayerIDs returns p.Layers' keys in a deterministic order, for
// exporters that must iterate the palette.
func (p Prepared) SortedLayerIDs() []string {
	ids := make([]string, 0, len(p.Layers))
	for id := range p.Layers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
