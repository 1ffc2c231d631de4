package render

import (
	"bytes"
	"encoding/json"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
)

// jsonDocument is the pretty-printed shape spec §4.6 fixes for the JSON
// exporter.
type jsonDocument struct {
	HierarchyNodes    []exportNode        `json:"hierarchy_nodes"`
	HierarchyEdges    []hierarchyEdgeView `json:"hierarchy_edges"`
	FlowNodes         []exportNode        `json:"flow_nodes"`
	FlowEdges         []exportEdge        `json:"flow_edges"`
	Tree              []treeNodeView      `json:"tree"`
	Layers            []exportLayer       `json:"layers"`
	HierarchyTreeEdges []hierarchyEdgeView `json:"hierarchy_tree_edges"`
}

// exportJSON renders p as the pretty-printed §4.6 JSON document.
func exportJSON(p Prepared, _ Config) (string, error) {
	doc := jsonDocument{
		HierarchyNodes:     toExportNodes(p.HierarchyNodes),
		HierarchyEdges:     toHierarchyEdgeViews(p.HierarchyEdges),
		FlowNodes:          toExportNodes(p.FlowNodes),
		FlowEdges:          toExportEdges(p.FlowEdges),
		Tree:               toTreeViews(p.Tree),
		Layers:             toExportLayers(p),
		HierarchyTreeEdges: toTreeEdgeViews(p.TreeEdges),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", cerrors.Wrap(cerrors.KindRendering, cerrors.CodeExporterFailure, "json", err,
			"encode JSON artifact")
	}
	return buf.String(), nil
}
