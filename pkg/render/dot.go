package render

import (
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
)

// exportDOT renders p's flow view as Graphviz DOT, grounded on the
// teacher's nodelink.ToDOT node/edge emission style. The generated DOT
// is parsed through go-graphviz before being returned, so malformed
// generated DOT surfaces as a Rendering/ExporterFailure rather than an
// unusable artifact.
func exportDOT(p Prepared, cfg Config) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", safeID(p.GraphName))
	b.WriteString("  rankdir=TB;\n")
	b.WriteString("  bgcolor=\"transparent\";\n")
	b.WriteString("  node [shape=box, style=\"rounded,filled\"];\n\n")

	for _, n := range p.FlowNodes {
		l := p.Layers[n.Layer]
		fmt.Fprintf(&b, "  %q [label=%q, fillcolor=%q, fontcolor=%q, color=%q];\n",
			n.ID, n.Label, "#"+l.BackgroundColor, "#"+l.TextColor, "#"+l.BorderColor)
	}
	b.WriteString("\n")
	for _, e := range p.FlowEdges {
		fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", e.Source, e.Target, e.Label)
	}
	b.WriteString("}\n")

	dot := b.String()
	if err := validateDOT(dot); err != nil {
		return "", cerrors.Wrap(cerrors.KindRendering, cerrors.CodeExporterFailure, "dot", err,
			"generated DOT failed to parse")
	}
	return dot, nil
}

func validateDOT(dot string) error {
	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return err
	}
	return g.Close()
}

func safeID(s string) string {
	if s == "" {
		return "graph"
	}
	return s
}
