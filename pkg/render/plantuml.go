package render

import (
	"fmt"
	"strings"

	"github.com/layercake-project/layercake/pkg/graph"
)

// exportPlantUML renders p's flow view as a PlantUML object diagram.
func exportPlantUML(p Prepared, _ Config) (string, error) {
	var b strings.Builder
	b.WriteString("@startuml\n")
	for _, n := range p.FlowNodes {
		l := p.Layers[n.Layer]
		fmt.Fprintf(&b, "object %q #%s\n", n.Label, l.BackgroundColor)
	}
	for _, e := range p.FlowEdges {
		src := labelOf(p.FlowNodes, e.Source)
		tgt := labelOf(p.FlowNodes, e.Target)
		if e.Label != "" {
			fmt.Fprintf(&b, "%q --> %q : %s\n", src, tgt, e.Label)
		} else {
			fmt.Fprintf(&b, "%q --> %q\n", src, tgt)
		}
	}
	b.WriteString("@enduml\n")
	return b.String(), nil
}

// exportPlantUMLMindmap renders the hierarchy tree as a PlantUML mindmap.
func exportPlantUMLMindmap(p Prepared, _ Config) (string, error) {
	var b strings.Builder
	b.WriteString("@startmindmap\n")
	var walk func(n graph.TreeNode, depth int)
	walk = func(n graph.TreeNode, depth int) {
		fmt.Fprintf(&b, "%s %s\n", strings.Repeat("*", depth+1), n.Label)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, root := range p.Tree {
		walk(root, 0)
	}
	b.WriteString("@endmindmap\n")
	return b.String(), nil
}

// exportPlantUMLWBS renders the hierarchy tree as a PlantUML
// work-breakdown structure.
func exportPlantUMLWBS(p Prepared, _ Config) (string, error) {
	var b strings.Builder
	b.WriteString("@startwbs\n")
	var walk func(n graph.TreeNode, depth int)
	walk = func(n graph.TreeNode, depth int) {
		fmt.Fprintf(&b, "%s %s\n", strings.Repeat("*", depth+1), n.Label)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, root := range p.Tree {
		walk(root, 0)
	}
	b.WriteString("@endwbs\n")
	return b.String(), nil
}

func labelOf(nodes []graph.Node, id string) string {
	for _, n := range nodes {
		if n.ID == id {
			return n.Label
		}
	}
	return id
}
