package dataset

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/layercake-project/layercake/pkg/graph"
)

func TestJSONSourceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g := graph.New("")
	g.Nodes = []graph.Node{{ID: "a", Label: "Alpha", Weight: 1}, {ID: "b", Label: "Beta", Weight: 1}}
	g.Edges = []graph.Edge{{ID: "a_b", Source: "a", Target: "b", Weight: 1}}

	path := filepath.Join(dir, "ds1.json")
	if err := WriteJSON(g, path); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	src := JSONSource{Root: dir}
	got, err := src.ReadDataset(context.Background(), "ds1")
	if err != nil {
		t.Fatalf("ReadDataset: %v", err)
	}
	if len(got.Nodes) != 2 || len(got.Edges) != 1 {
		t.Fatalf("got = %+v", got)
	}
	if got.Name != "ds1" {
		t.Fatalf("expected the dataset id to fill an empty graph name, got %q", got.Name)
	}
	if got.Nodes[0].Dataset != "ds1" {
		t.Fatalf("expected nodes to be stamped with the dataset id, got %+v", got.Nodes[0])
	}
}

func TestJSONSourceMissingFileFails(t *testing.T) {
	src := JSONSource{Root: t.TempDir()}
	if _, err := src.ReadDataset(context.Background(), "ghost"); err == nil {
		t.Fatal("expected an error for a missing dataset file")
	}
}

func TestJSONSourceRejectsMissingEdgeEndpoints(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.json"), `{"name":"bad","nodes":[{"id":"a","weight":1}],"edges":[{"id":"e1","source":"","target":"a","weight":1}]}`)

	src := JSONSource{Root: dir}
	if _, err := src.ReadDataset(context.Background(), "bad"); err == nil {
		t.Fatal("expected an error for an edge missing source")
	}
}
