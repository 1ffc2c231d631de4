package render

import (
	"fmt"
	"strconv"
	"strings"
)

// exportGML renders p's flow view as GML (Graph Modeling Language), the
// format GraphViz/Gephi/yEd share as a common interchange syntax.
func exportGML(p Prepared, _ Config) (string, error) {
	index := make(map[string]int, len(p.FlowNodes))
	var b strings.Builder
	b.WriteString("graph [\n  directed 1\n")

	for i, n := range p.FlowNodes {
		index[n.ID] = i
		l := p.Layers[n.Layer]
		b.WriteString("  node [\n")
		fmt.Fprintf(&b, "    id %d\n", i)
		fmt.Fprintf(&b, "    label %s\n", gmlString(n.Label))
		fmt.Fprintf(&b, "    graphics [ fill %s ]\n", gmlString("#"+l.BackgroundColor))
		b.WriteString("  ]\n")
	}
	for _, e := range p.FlowEdges {
		src, srcOK := index[e.Source]
		tgt, tgtOK := index[e.Target]
		if !srcOK || !tgtOK {
			continue
		}
		b.WriteString("  edge [\n")
		fmt.Fprintf(&b, "    source %d\n", src)
		fmt.Fprintf(&b, "    target %d\n", tgt)
		fmt.Fprintf(&b, "    label %s\n", gmlString(e.Label))
		fmt.Fprintf(&b, "    weight %s\n", strconv.Itoa(e.Weight))
		b.WriteString("  ]\n")
	}
	b.WriteString("]\n")
	return b.String(), nil
}

func gmlString(s string) string {
	return strconv.Quote(s)
}
