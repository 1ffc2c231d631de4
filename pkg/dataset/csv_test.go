package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCSVSourceReadsThreeFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ds1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "nodes.csv"), "id,label,layer,weight\na,Alpha,svc,2\nb,Beta,svc,1\n")
	writeFile(t, filepath.Join(dir, "edges.csv"), "source,target,label\na,b,calls\n")
	writeFile(t, filepath.Join(dir, "layers.csv"), "id,label,background_color\nsvc,Service,336699\n")

	src := CSVSource{Root: filepath.Dir(dir)}

	g, err := src.ReadDataset(context.Background(), "ds1")
	if err != nil {
		t.Fatalf("ReadDataset: %v", err)
	}
	if len(g.Nodes) != 2 || len(g.Edges) != 1 || len(g.Layers) != 1 {
		t.Fatalf("g = %+v", g)
	}
	if g.Nodes[0].Dataset != "ds1" || g.Edges[0].ID != "a_b" {
		t.Fatalf("nodes[0] = %+v, edges[0] = %+v", g.Nodes[0], g.Edges[0])
	}
}

func TestCSVSourceAutoGeneratesLayers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ds2")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "nodes.csv"), "id,layer\na,frontend\nb,backend\n")

	src := CSVSource{Root: filepath.Dir(dir)}
	g, err := src.ReadDataset(context.Background(), "ds2")
	if err != nil {
		t.Fatalf("ReadDataset: %v", err)
	}
	if len(g.Layers) != 2 {
		t.Fatalf("expected 2 auto-generated layers, got %d", len(g.Layers))
	}
}

func TestCSVSourceMissingNodesFileFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ds3")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	src := CSVSource{Root: filepath.Dir(dir)}
	if _, err := src.ReadDataset(context.Background(), "ds3"); err == nil {
		t.Fatal("expected an error for a missing nodes.csv")
	}
}

func TestCSVSourceMissingIDFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ds4")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "nodes.csv"), "label\nAlpha\n")
	src := CSVSource{Root: filepath.Dir(dir)}
	if _, err := src.ReadDataset(context.Background(), "ds4"); err == nil {
		t.Fatal("expected an error for a node row missing id")
	}
}
