package transform

import (
	"sort"
	"strconv"
	"strings"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/graph"
)

// invertGraph builds a new graph where each original edge becomes a node
// and each original node becomes an edge between its incident edges.
// Layers carry over unchanged. It fails when the original has multiple
// edges sharing (source, target, layer), an ambiguity the inversion cannot
// represent.
func invertGraph(g *graph.Graph) (*graph.Graph, error) {
	seen := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		key := e.Source + "\x00" + e.Target + "\x00" + e.Layer
		if seen[key] {
			return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, "InvertGraph",
				"multiple edges share source=%q target=%q layer=%q; inversion is undefined", e.Source, e.Target, e.Layer)
		}
		seen[key] = true
	}

	byNode := make(map[string][]graph.Edge, len(g.Nodes))
	for _, e := range g.Edges {
		byNode[e.Source] = append(byNode[e.Source], e)
		byNode[e.Target] = append(byNode[e.Target], e)
	}

	out := graph.New(g.Name)
	out.Layers = append(out.Layers, g.Layers...)

	for _, e := range g.Edges {
		out.Nodes = append(out.Nodes, graph.Node{
			ID:         e.ID,
			Label:      e.Label,
			Layer:      e.Layer,
			Weight:     e.Weight,
			Comment:    e.Comment,
			Dataset:    e.Dataset,
			Attributes: e.Attributes,
		})
	}

	for _, n := range g.Nodes {
		incident := byNode[n.ID]
		sort.Slice(incident, func(i, j int) bool { return incident[i].ID < incident[j].ID })
		for i := 0; i+1 < len(incident); i++ {
			out.Edges = append(out.Edges, graph.Edge{
				ID:         n.ID + ":" + strconv.Itoa(i),
				Source:     incident[i].ID,
				Target:     incident[i+1].ID,
				Label:      n.Label,
				Layer:      n.Layer,
				Weight:     n.Weight,
				Comment:    n.Comment,
				Dataset:    n.Dataset,
				Attributes: n.Attributes,
			})
		}
	}

	out.AppendAnnotation("Inverted graph: nodes<->edges")
	return out, nil
}

// aggregateLayerNodes condenses, within each layer, nodes that share at
// least threshold common neighbors inside the layer (via an anchor node)
// into a single aggregate node, preserving edges to nodes outside the
// group.
func aggregateLayerNodes(g *graph.Graph, threshold int) (*graph.Graph, error) {
	if threshold < 1 {
		return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, "AggregateLayerNodes",
			"threshold must be >= 1, got %d", threshold)
	}

	neighbors := make(map[string]map[string]bool, len(g.Nodes))
	addNeighbor := func(a, b string) {
		if neighbors[a] == nil {
			neighbors[a] = make(map[string]bool)
		}
		neighbors[a][b] = true
	}
	for _, e := range g.Edges {
		addNeighbor(e.Source, e.Target)
		addNeighbor(e.Target, e.Source)
	}

	byLayer := make(map[string][]string)
	layerOf := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.IsPartition {
			continue
		}
		byLayer[n.Layer] = append(byLayer[n.Layer], n.ID)
		layerOf[n.ID] = n.Layer
	}

	redirect := make(map[string]string)
	grouped := make(map[string]bool)
	var aggregates []graph.Node
	var summaries []string

	layers := make([]string, 0, len(byLayer))
	for l := range byLayer {
		layers = append(layers, l)
	}
	sort.Strings(layers)

	for _, layer := range layers {
		ids := byLayer[layer]
		sort.Strings(ids)
		for _, anchor := range ids {
			if grouped[anchor] {
				continue
			}
			var group []string
			for _, other := range ids {
				if other == anchor || grouped[other] {
					continue
				}
				common := 0
				for nb := range neighbors[anchor] {
					if layerOf[nb] == layer && neighbors[other][nb] {
						common++
					}
				}
				if common >= threshold {
					group = append(group, other)
				}
			}
			if len(group) == 0 {
				continue
			}
			group = append(group, anchor)
			sort.Strings(group)
			aggID := "agg:" + layer + ":" + anchor
			for _, id := range group {
				grouped[id] = true
				redirect[id] = aggID
			}
			aggregates = append(aggregates, graph.Node{
				ID:     aggID,
				Label:  strconv.Itoa(len(group)) + " aggregated (" + layer + ")",
				Layer:  layer,
				Weight: 1,
			})
			summaries = append(summaries, "layer="+layer+" anchor="+anchor+" size="+strconv.Itoa(len(group)))
		}
	}

	if len(aggregates) == 0 {
		return g, nil
	}

	kept := make([]graph.Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if redirect[n.ID] != "" {
			continue
		}
		kept = append(kept, n)
	}
	g.Nodes = append(kept, aggregates...)

	for i := range g.Edges {
		src, dst := g.Edges[i].Source, g.Edges[i].Target
		srcAgg, srcOK := redirect[src]
		dstAgg, dstOK := redirect[dst]
		if srcOK {
			g.Edges[i].Source = srcAgg
		}
		if dstOK {
			g.Edges[i].Target = dstAgg
		}
	}
	g.Edges = dedupeSelfLoops(g.Edges)

	for _, s := range summaries {
		g.AppendAnnotation("Aggregated layer nodes: " + s)
	}
	return g, nil
}

func dedupeSelfLoops(edges []graph.Edge) []graph.Edge {
	out := make([]graph.Edge, 0, len(edges))
	for _, e := range edges {
		if e.Source == e.Target && strings.HasPrefix(e.Source, "agg:") {
			continue
		}
		out = append(out, e)
	}
	return out
}

// aggregateEdges folds parallel edges that share (source, target, layer,
// dataset) into one, summing weight and joining comments. Idempotent.
func aggregateEdges(g *graph.Graph) (*graph.Graph, error) {
	type key struct{ source, target, layer, dataset string }
	order := make([]key, 0, len(g.Edges))
	groups := make(map[key][]graph.Edge, len(g.Edges))
	for _, e := range g.Edges {
		k := key{e.Source, e.Target, e.Layer, e.Dataset}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], e)
	}

	folded := make([]graph.Edge, 0, len(order))
	for _, k := range order {
		members := groups[k]
		merged := members[0]
		if len(members) > 1 {
			weight := 0
			var comments []string
			for _, m := range members {
				weight += m.Weight
				if m.Comment != "" {
					comments = append(comments, m.Comment)
				}
			}
			merged.Weight = weight
			merged.Comment = strings.Join(comments, "; ")
		}
		folded = append(folded, merged)
	}
	g.Edges = folded
	g.AppendAnnotation("Aggregated parallel edges")
	return g, nil
}
