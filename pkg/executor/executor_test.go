package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/layercake-project/layercake/pkg/filter"
	"github.com/layercake-project/layercake/pkg/graph"
	"github.com/layercake-project/layercake/pkg/plan"
	"github.com/layercake-project/layercake/pkg/render"
	"github.com/layercake-project/layercake/pkg/repository"
	"github.com/layercake-project/layercake/pkg/transform"
)

type stubSource struct {
	graphs map[string]*graph.Graph
	err    error
}

func (s stubSource) ReadDataset(_ context.Context, datasetID string) (*graph.Graph, error) {
	if s.err != nil {
		return nil, s.err
	}
	g, ok := s.graphs[datasetID]
	if !ok {
		return nil, errors.New("dataset not found: " + datasetID)
	}
	return g.Clone(), nil
}

func sampleDataset() *graph.Graph {
	g := graph.New("ds1")
	g.Nodes = []graph.Node{
		{ID: "a", Label: "Alpha", Weight: 1},
		{ID: "b", Label: "Beta", Weight: 1},
		{ID: "c", Label: "Orphan", Weight: 1},
	}
	g.Edges = []graph.Edge{{ID: "a_b", Source: "a", Target: "b", Weight: 1}}
	return g
}

func waitForResult(t *testing.T, h *ExecutionHandle, timeout time.Duration) map[string]NodeResult {
	t.Helper()
	select {
	case <-h.done:
	case <-time.After(timeout):
		t.Fatal("execution did not finish in time")
	}
	return h.Wait()
}

func TestExecutePlanRunsDatasetTransformChain(t *testing.T) {
	src := stubSource{graphs: map[string]*graph.Graph{"ds1": sampleDataset()}}
	repo := repository.NewMemory()
	exec := New(repo, src)

	d := plan.DAG{
		Nodes: map[string]plan.Node{
			"ds":   {ID: "ds", Kind: plan.KindDataSet, DatasetID: "ds1"},
			"xf":   {ID: "xf", Kind: plan.KindTransform, Transforms: []transform.Spec{{Kind: transform.KindDropUnconnectedNodes}}},
			"art":  {ID: "art", Kind: plan.KindGraphArtefact, RenderTarget: render.TargetJSON, RenderConfig: render.Config{Name: "out"}},
		},
		Edges: []plan.Edge{{From: "ds", To: "xf"}, {From: "xf", To: "art"}},
	}

	h, err := exec.ExecutePlan(context.Background(), "proj1", d)
	if err != nil {
		t.Fatalf("ExecutePlan: %v", err)
	}
	results := waitForResult(t, h, time.Second)

	if results["ds"].Status != repository.StatusCompleted {
		t.Fatalf("ds result = %+v", results["ds"])
	}
	if results["xf"].Status != repository.StatusCompleted || results["xf"].Graph == nil {
		t.Fatalf("xf result = %+v", results["xf"])
	}
	if len(results["xf"].Graph.Nodes) != 2 {
		t.Fatalf("expected the orphan node dropped, got %+v", results["xf"].Graph.Nodes)
	}
	if results["art"].Status != repository.StatusCompleted {
		t.Fatalf("art result = %+v", results["art"])
	}

	out, err := exec.ExportNodeOutput(context.Background(), "proj1", "art", render.TargetJSON, render.Config{Name: "out"})
	if err != nil {
		t.Fatalf("ExportNodeOutput: %v", err)
	}
	if out.Filename != "out.json" || out.MIME != "application/json" {
		t.Fatalf("out = %+v", out)
	}
}

func TestExecutePlanFailsFastWithinChainFailsSoftAcrossChains(t *testing.T) {
	src := stubSource{graphs: map[string]*graph.Graph{"ds1": sampleDataset()}}
	repo := repository.NewMemory()
	exec := New(repo, src)

	d := plan.DAG{
		Nodes: map[string]plan.Node{
			"ds":     {ID: "ds", Kind: plan.KindDataSet, DatasetID: "ghost"},
			"xf":     {ID: "xf", Kind: plan.KindTransform, Transforms: []transform.Spec{{Kind: transform.KindDropUnconnectedNodes}}},
			"other":  {ID: "other", Kind: plan.KindDataSet, DatasetID: "ds1"},
		},
		Edges: []plan.Edge{{From: "ds", To: "xf"}},
	}

	h, err := exec.ExecutePlan(context.Background(), "proj1", d)
	if err != nil {
		t.Fatalf("ExecutePlan: %v", err)
	}
	results := waitForResult(t, h, time.Second)

	if results["ds"].Status != repository.StatusError {
		t.Fatalf("expected ds to error on an unknown dataset, got %+v", results["ds"])
	}
	if results["xf"].Status != repository.StatusSkipped {
		t.Fatalf("expected xf to be skipped after its failed upstream, got %+v", results["xf"])
	}
	if results["other"].Status != repository.StatusCompleted {
		t.Fatalf("expected the independent chain to complete, got %+v", results["other"])
	}
}

func TestValidatePlanDAGCatchesMalformedFilter(t *testing.T) {
	repo := repository.NewMemory()
	exec := New(repo, stubSource{})

	d := plan.DAG{
		Nodes: map[string]plan.Node{
			"ds": {ID: "ds", Kind: plan.KindDataSet, DatasetID: "ds1"},
			"f":  {ID: "f", Kind: plan.KindFilter, Filter: &filter.Config{}},
		},
		Edges: []plan.Edge{{From: "ds", To: "f"}},
	}

	list := exec.ValidatePlanDAG(d)
	if list.OK() {
		t.Fatal("expected an error for a filter config naming no targets")
	}
}

func TestPreviewGraphConcatenatesAncestorAnnotations(t *testing.T) {
	src := stubSource{graphs: map[string]*graph.Graph{"ds1": sampleDataset()}}
	repo := repository.NewMemory()
	exec := New(repo, src)

	d := plan.DAG{
		Nodes: map[string]plan.Node{
			"ds": {ID: "ds", Kind: plan.KindDataSet, DatasetID: "ds1"},
			"xf": {ID: "xf", Kind: plan.KindTransform, Transforms: []transform.Spec{{Kind: transform.KindDropUnconnectedNodes}}},
		},
		Edges: []plan.Edge{{From: "ds", To: "xf"}},
	}

	h, err := exec.ExecutePlan(context.Background(), "proj1", d)
	if err != nil {
		t.Fatalf("ExecutePlan: %v", err)
	}
	waitForResult(t, h, time.Second)

	g, annotations, err := exec.PreviewGraph(context.Background(), "proj1", d, "xf")
	if err != nil {
		t.Fatalf("PreviewGraph: %v", err)
	}
	if g == nil || len(g.Nodes) != 2 {
		t.Fatalf("g = %+v", g)
	}
	if len(annotations) == 0 {
		t.Fatalf("expected the transform's own annotation to appear, got %v", annotations)
	}
}
