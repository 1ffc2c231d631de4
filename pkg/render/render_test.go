package render

import (
	"strings"
	"testing"

	"github.com/layercake-project/layercake/pkg/graph"
)

func sampleGraph() *graph.Graph {
	g := graph.New("sample")
	g.Layers = []graph.Layer{{ID: "L1", Label: "L1", BackgroundColor: "112233", TextColor: "ffffff", BorderColor: "000000"}}
	g.Nodes = []graph.Node{
		{ID: "a", Label: "alpha", Layer: "L1", Weight: 1},
		{ID: "b", Label: "beta", Layer: "L1", Weight: 2},
	}
	g.Edges = []graph.Edge{{ID: "e1", Source: "a", Target: "b", Layer: "L1", Weight: 1}}
	return g
}

func TestExportJSONDeterministic(t *testing.T) {
	g := sampleGraph()
	cfg := Config{Target: TargetJSON, PropagateWeights: true}

	out1, err := Export(g, cfg, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	out2, err := Export(g, cfg, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if out1 != out2 {
		t.Fatalf("render output is not deterministic")
	}
	if !strings.Contains(out1, `"flow_nodes"`) {
		t.Fatalf("missing flow_nodes key: %s", out1)
	}
}

func TestExportCSVNodesHeaderAndSort(t *testing.T) {
	g := sampleGraph()
	out, err := Export(g, Config{Target: TargetCSVNodes}, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "id,label,layer,is_partition,belongs_to,comment" {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
}

func TestExportCSVMatrixDuplicateIDFails(t *testing.T) {
	g := sampleGraph()
	g.Nodes = append(g.Nodes, graph.Node{ID: "a", Label: "dup", Weight: 1})
	if _, err := Export(g, Config{Target: TargetCSVMatrix}, nil); err == nil {
		t.Fatal("expected an error for a duplicate node id in the matrix exporter")
	}
}

func TestExportWeightReset(t *testing.T) {
	g := sampleGraph()
	out, err := Export(g, Config{Target: TargetCSVMatrix, PropagateWeights: false}, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(out, "1") || strings.Contains(out, "2") {
		t.Fatalf("expected weights reset to 1: %s", out)
	}
}

func TestExportUnsupportedTarget(t *testing.T) {
	g := sampleGraph()
	_, err := Export(g, Config{Target: "bogus"}, nil)
	if err == nil {
		t.Fatal("expected an unsupported format error")
	}
}

func TestExportCustomTemplate(t *testing.T) {
	g := sampleGraph()
	cfg := Config{
		Target:         TargetCustom,
		CustomTemplate: "{{.graph_name}}: {{len .flow_nodes}} nodes",
	}
	out, err := Export(g, cfg, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if out != "sample: 2 nodes" {
		t.Fatalf("out = %q", out)
	}
}

func TestResolvePaletteSynthesizesDefaults(t *testing.T) {
	g := graph.New("g")
	g.Nodes = []graph.Node{{ID: "a", Layer: "missing", Weight: 1}}
	p := Prepare(g, Config{PropagateWeights: true})
	l, ok := p.Layers["missing"]
	if !ok {
		t.Fatal("expected a synthesized layer for a referenced-but-undefined layer id")
	}
	if l.BackgroundColor != graph.DefaultBackgroundColor {
		t.Fatalf("background = %q, want default", l.BackgroundColor)
	}
}
