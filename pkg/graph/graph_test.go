package graph

import "testing"

func TestVerifyIntegrityDuplicateNode(t *testing.T) {
	g := &Graph{Nodes: []Node{{ID: "a", Weight: 1}, {ID: "a", Weight: 1}}}
	list := VerifyIntegrity(g)
	if list.OK() {
		t.Fatal("expected duplicate node id error")
	}
}

func TestVerifyIntegrityDanglingEdge(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "a", Weight: 1}},
		Edges: []Edge{{ID: "e1", Source: "a", Target: "ghost", Weight: 1}},
	}
	list := VerifyIntegrity(g)
	if list.OK() {
		t.Fatal("expected dangling edge error")
	}
}

func TestVerifyIntegrityCyclicHierarchy(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "a", IsPartition: true, BelongsTo: "b", Weight: 1},
			{ID: "b", IsPartition: true, BelongsTo: "a", Weight: 1},
		},
	}
	list := VerifyIntegrity(g)
	if list.OK() {
		t.Fatal("expected cyclic hierarchy error")
	}
}

func TestVerifyIntegrityValid(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "root", IsPartition: true, Weight: 1},
			{ID: "a", BelongsTo: "root", Weight: 1},
			{ID: "b", BelongsTo: "root", Weight: 1},
		},
		Edges: []Edge{{ID: "e1", Source: "a", Target: "b", Weight: 1}},
	}
	if list := VerifyIntegrity(g); !list.OK() {
		t.Fatalf("expected no errors, got %v", list.Error())
	}
}

func TestRemoveDanglingEdges(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "a", Weight: 1}},
		Edges: []Edge{
			{ID: "e1", Source: "a", Target: "ghost", Weight: 1},
			{ID: "e2", Source: "a", Target: "a", Weight: 1},
		},
	}
	RemoveDanglingEdges(g)
	if len(g.Edges) != 1 || g.Edges[0].ID != "e2" {
		t.Fatalf("expected only e2 to survive, got %+v", g.Edges)
	}
}

func TestRemoveUnconnectedNodes(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "a", Weight: 1},
			{ID: "lonely", Weight: 1},
			{ID: "p", IsPartition: true, Weight: 1},
		},
		Edges: []Edge{{ID: "e1", Source: "a", Target: "a", Weight: 1}},
	}
	RemoveUnconnectedNodes(g)
	ids := map[string]bool{}
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	if ids["lonely"] {
		t.Fatal("expected lonely node to be removed")
	}
	if !ids["a"] || !ids["p"] {
		t.Fatalf("expected a and p to survive, got %+v", g.Nodes)
	}
}

func TestEnsurePartitionHierarchy(t *testing.T) {
	g := &Graph{Nodes: []Node{{ID: "a", Weight: 1}, {ID: "b", Weight: 1}}}
	if !EnsurePartitionHierarchy(g) {
		t.Fatal("expected synthesis to occur")
	}
	if EnsurePartitionHierarchy(g) {
		t.Fatal("expected no-op on second call")
	}
	var root *Node
	for i := range g.Nodes {
		if g.Nodes[i].IsPartition {
			root = &g.Nodes[i]
		}
	}
	if root == nil {
		t.Fatal("expected a synthesized partition root")
	}
	for _, n := range g.Nodes {
		if !n.IsPartition && n.BelongsTo != root.ID {
			t.Errorf("node %q belongs_to = %q, want %q", n.ID, n.BelongsTo, root.ID)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := &Graph{Nodes: []Node{{ID: "a", Weight: 1, Attributes: map[string]any{"k": "v"}}}}
	clone := g.Clone()
	clone.Nodes[0].Attributes["k"] = "changed"
	if g.Nodes[0].Attributes["k"] != "v" {
		t.Fatal("clone mutation leaked into original")
	}
}
