package render

import (
	"encoding/json"
	"fmt"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
)

// exportJSGraph renders p's flow view as a JS-Graph literal: a plain
// JavaScript module exporting a `{nodes, edges}` object, for embedding
// directly in a browser-based viewer without a JSON-parse step.
func exportJSGraph(p Prepared, _ Config) (string, error) {
	payload := struct {
		Nodes []exportNode `json:"nodes"`
		Edges []exportEdge `json:"edges"`
	}{
		Nodes: toExportNodes(p.FlowNodes),
		Edges: toExportEdges(p.FlowEdges),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", cerrors.Wrap(cerrors.KindRendering, cerrors.CodeExporterFailure, "js_graph", err,
			"marshal graph literal")
	}
	return fmt.Sprintf("export const graph = %s;\n", data), nil
}
