package graph_test

import (
	"fmt"

	"github.com/layercake-project/layercake/pkg/graph"
)

func ExampleVerifyIntegrity() {
	g := &graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", Weight: 1},
			{ID: "a", Weight: 1},
		},
	}
	list := graph.VerifyIntegrity(g)
	fmt.Println(list.OK())
	// Output:
	// false
}

func ExampleEnsurePartitionHierarchy() {
	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "a", Weight: 1}, {ID: "b", Weight: 1}},
	}
	synthesized := graph.EnsurePartitionHierarchy(g)
	fmt.Println(synthesized, len(g.Nodes))
	// Output:
	// true 3
}

func ExampleBuildTree() {
	g := &graph.Graph{
		Nodes: []graph.Node{
			{ID: "root", IsPartition: true, Weight: 1},
			{ID: "child", BelongsTo: "root", Weight: 1},
		},
	}
	tree := graph.BuildTree(g)
	fmt.Println(tree[0].ID, tree[0].Children[0].ID)
	// Output:
	// root child
}
