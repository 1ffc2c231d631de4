package render

import "github.com/layercake-project/layercake/pkg/graph"

// exportNode, exportEdge, and exportLayer are the JSON/Custom exporters'
// shared wire shapes for [Prepared]'s graph.Node/Edge/Layer values.
// exportLayer's colors carry the leading '#' sentinel the in-memory
// model omits (spec §3); nodes and edges carry only their layer id.
type exportNode struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Layer       string         `json:"layer,omitempty"`
	IsPartition bool           `json:"is_partition"`
	BelongsTo   string         `json:"belongs_to,omitempty"`
	Weight      int            `json:"weight"`
	Comment     string         `json:"comment,omitempty"`
	Dataset     string         `json:"dataset,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

type exportEdge struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Label      string         `json:"label,omitempty"`
	Layer      string         `json:"layer,omitempty"`
	Weight     int            `json:"weight"`
	Comment    string         `json:"comment,omitempty"`
	Dataset    string         `json:"dataset,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type exportLayer struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	BorderColor     string `json:"border_color"`
	Alias           string `json:"alias,omitempty"`
}

type treeNodeView struct {
	ID       string         `json:"id"`
	Label    string         `json:"label"`
	IsLeaf   bool           `json:"is_leaf"`
	Children []treeNodeView `json:"children,omitempty"`
}

type hierarchyEdgeView struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
}

func toExportNodes(nodes []graph.Node) []exportNode {
	out := make([]exportNode, len(nodes))
	for i, n := range nodes {
		out[i] = exportNode{
			ID: n.ID, Label: n.Label, Layer: n.Layer, IsPartition: n.IsPartition,
			BelongsTo: n.BelongsTo, Weight: n.Weight, Comment: n.Comment,
			Dataset: n.Dataset, Attributes: n.Attributes,
		}
	}
	return out
}

func toExportEdges(edges []graph.Edge) []exportEdge {
	out := make([]exportEdge, len(edges))
	for i, e := range edges {
		out[i] = exportEdge{
			ID: e.ID, Source: e.Source, Target: e.Target, Label: e.Label, Layer: e.Layer,
			Weight: e.Weight, Comment: e.Comment, Dataset: e.Dataset, Attributes: e.Attributes,
		}
	}
	return out
}

func toExportLayers(p Prepared) []exportLayer {
	ids := p.SortedLayerIDs()
	out := make([]exportLayer, len(ids))
	for i, id := range ids {
		l := p.Layers[id]
		out[i] = exportLayer{
			ID: l.ID, Label: l.Label, BackgroundColor: "#" + l.BackgroundColor,
			TextColor: "#" + l.TextColor, BorderColor: "#" + l.BorderColor, Alias: l.Alias,
		}
	}
	return out
}

func toTreeViews(nodes []graph.TreeNode) []treeNodeView {
	out := make([]treeNodeView, len(nodes))
	for i, n := range nodes {
		out[i] = treeNodeView{ID: n.ID, Label: n.Label, IsLeaf: n.IsLeaf, Children: toTreeViews(n.Children)}
	}
	return out
}

func toHierarchyEdgeViews(edges []graph.HierarchyEdge) []hierarchyEdgeView {
	out := make([]hierarchyEdgeView, len(edges))
	for i, e := range edges {
		out[i] = hierarchyEdgeView{Parent: e.Parent, Child: e.Child}
	}
	return out
}

func toTreeEdgeViews(edges []graph.TreeEdge) []hierarchyEdgeView {
	out := make([]hierarchyEdgeView, len(edges))
	for i, e := range edges {
		out[i] = hierarchyEdgeView{Parent: e.Parent, Child: e.Child}
	}
	return out
}
