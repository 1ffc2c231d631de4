package render

import (
	"fmt"
	"strings"

	"github.com/layercake-project/layercake/pkg/graph"
)

// exportMermaid renders p's flow view as a Mermaid flowchart.
func exportMermaid(p Prepared, _ Config) (string, error) {
	var b strings.Builder
	b.WriteString("flowchart TD\n")
	for _, n := range p.FlowNodes {
		fmt.Fprintf(&b, "  %s[%q]\n", mermaidID(n.ID), n.Label)
	}
	for _, e := range p.FlowEdges {
		if e.Label != "" {
			fmt.Fprintf(&b, "  %s -->|%s| %s\n", mermaidID(e.Source), e.Label, mermaidID(e.Target))
		} else {
			fmt.Fprintf(&b, "  %s --> %s\n", mermaidID(e.Source), mermaidID(e.Target))
		}
	}
	return b.String(), nil
}

// exportMermaidMindmap renders the hierarchy tree as a Mermaid mindmap.
func exportMermaidMindmap(p Prepared, _ Config) (string, error) {
	var b strings.Builder
	b.WriteString("mindmap\n")
	var walk func(n graph.TreeNode, depth int)
	walk = func(n graph.TreeNode, depth int) {
		fmt.Fprintf(&b, "%s%s\n", strings.Repeat("  ", depth+1), n.Label)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, root := range p.Tree {
		walk(root, 0)
	}
	return b.String(), nil
}

// exportMermaidTreemap renders the hierarchy tree as a Mermaid treemap,
// using each leaf's node weight as its area.
func exportMermaidTreemap(p Prepared, _ Config) (string, error) {
	weight := make(map[string]int, len(p.HierarchyNodes)+len(p.FlowNodes))
	for _, n := range p.HierarchyNodes {
		weight[n.ID] = n.Weight
	}
	for _, n := range p.FlowNodes {
		weight[n.ID] = n.Weight
	}

	var b strings.Builder
	b.WriteString("treemap-beta\n")
	var walk func(n graph.TreeNode, depth int)
	walk = func(n graph.TreeNode, depth int) {
		indent := strings.Repeat("  ", depth+1)
		if n.IsLeaf {
			fmt.Fprintf(&b, "%s\"%s\": %d\n", indent, n.Label, max(weight[n.ID], 1))
			return
		}
		fmt.Fprintf(&b, "%s\"%s\"\n", indent, n.Label)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, root := range p.Tree {
		walk(root, 0)
	}
	return b.String(), nil
}

func mermaidID(id string) string {
	return strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(id)
}
