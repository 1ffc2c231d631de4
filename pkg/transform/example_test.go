package transform_test

import (
	"fmt"

	"github.com/layercake-project/layercake/pkg/graph"
	"github.com/layercake-project/layercake/pkg/transform"
)

func ExampleApply() {
	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "a", Label: "alpha", Weight: 1}},
	}

	out, err := transform.Apply(g, transform.Spec{Kind: transform.KindNodeLabelMaxLength, MaxLength: 3})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(out.Nodes[0].Label)
	// Output: alp…
}

func ExampleApplySequence() {
	g := &graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", Weight: 1},
			{ID: "isolated", Weight: 1},
		},
		Edges: []graph.Edge{{ID: "e1", Source: "a", Target: "a", Weight: 1}},
	}

	out, err := transform.ApplySequence(g, []transform.Spec{
		{Kind: transform.KindDropUnconnectedNodes},
		{Kind: transform.KindAggregateEdges},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(len(out.Nodes), len(out.Edges))
	// Output: 1 1
}
