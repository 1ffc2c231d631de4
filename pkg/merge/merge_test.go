package merge

import (
	"testing"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/graph"
)

// TestResolveDetectsDuplicateID mirrors spec §8 scenario S4.
func TestResolveDetectsDuplicateID(t *testing.T) {
	g1 := graph.New("g1")
	g1.Nodes = []graph.Node{{ID: "n1", Label: "L1", Weight: 1}}
	g2 := graph.New("g2")
	g2.Nodes = []graph.Node{{ID: "n1", Label: "L2", Weight: 1}}

	_, err := Resolve("merged", []*graph.Graph{g1, g2})
	if err == nil {
		t.Fatal("expected a duplicate node id error")
	}
	if !cerrors.Is(err, cerrors.CodeDuplicateNodeID) {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestResolveKeepsNodesFromEverySource(t *testing.T) {
	g1 := graph.New("g1")
	g1.Nodes = []graph.Node{{ID: "n1", Label: "first", Weight: 1}}
	g2 := graph.New("g2")
	g2.Nodes = []graph.Node{{ID: "n2", Label: "second", Weight: 2}}

	out, err := Resolve("merged", []*graph.Graph{g1, g2})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(out.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(out.Nodes))
	}
}

func TestResolveRejectsDanglingEdge(t *testing.T) {
	g1 := graph.New("g1")
	g1.Nodes = []graph.Node{{ID: "a", Weight: 1}}
	g1.Edges = []graph.Edge{{ID: "e1", Source: "a", Target: "ghost", Weight: 1}}

	_, err := Resolve("merged", []*graph.Graph{g1})
	if err == nil {
		t.Fatal("expected an edge endpoint missing error")
	}
	if !cerrors.Is(err, cerrors.CodeEdgeEndpointMissing) {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestResolveUnionsNodesAndEdgesAcrossSources(t *testing.T) {
	g1 := graph.New("g1")
	g1.Nodes = []graph.Node{{ID: "a", Weight: 1}, {ID: "b", Weight: 1}}
	g1.Edges = []graph.Edge{{ID: "e1", Source: "a", Target: "b", Layer: "L", Weight: 1}}
	g2 := graph.New("g2")
	g2.Nodes = []graph.Node{{ID: "c", Weight: 1}}

	out, err := Resolve("merged", []*graph.Graph{g1, g2})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(out.Nodes) != 3 || len(out.Edges) != 1 {
		t.Fatalf("nodes=%d edges=%d, want 3/1", len(out.Nodes), len(out.Edges))
	}
}

// TestResolveCommutativeOnDisjointIDs is spec §8 property 6 (up to
// annotations, which graph.Graph does not carry through merge).
func TestResolveCommutativeOnDisjointIDs(t *testing.T) {
	g1 := graph.New("g1")
	g1.Nodes = []graph.Node{{ID: "a", Weight: 1}}
	g2 := graph.New("g2")
	g2.Nodes = []graph.Node{{ID: "b", Weight: 1}}

	out1, err := Resolve("m", []*graph.Graph{g1, g2})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	out2, err := Resolve("m", []*graph.Graph{g2, g1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(out1.Nodes) != len(out2.Nodes) {
		t.Fatalf("node count differs by order: %d vs %d", len(out1.Nodes), len(out2.Nodes))
	}
}

func TestResolveSynthesizesLayersWhenNoneSupplied(t *testing.T) {
	g1 := graph.New("g1")
	g1.Nodes = []graph.Node{{ID: "a", Layer: "svc", Weight: 1}}

	out, err := Resolve("m", []*graph.Graph{g1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(out.Layers) != 1 || out.Layers[0].ID != "svc" {
		t.Fatalf("layers = %v, want a synthesized 'svc' layer", out.Layers)
	}
	if out.Layers[0].BackgroundColor != graph.DefaultBackgroundColor {
		t.Fatalf("synthesized layer should use default styling, got %q", out.Layers[0].BackgroundColor)
	}
}
