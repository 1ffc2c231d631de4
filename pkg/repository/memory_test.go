package repository

import (
	"context"
	"testing"

	"github.com/layercake-project/layercake/pkg/filter"
	"github.com/layercake-project/layercake/pkg/graph"
)

func TestMemoryRoundTripsArtifact(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	g := graph.New("g1")
	g.Nodes = []graph.Node{{ID: "a", Label: "alpha", Weight: 1}}

	if err := repo.StoreGraphForDagNode(ctx, "proj", "node1", g, []string{"did a thing"}, StatusCompleted); err != nil {
		t.Fatalf("StoreGraphForDagNode: %v", err)
	}

	got, err := repo.LoadGraphByDagNode(ctx, "proj", "node1")
	if err != nil {
		t.Fatalf("LoadGraphByDagNode: %v", err)
	}
	if got == nil || got.Name != "g1" {
		t.Fatalf("got = %+v", got)
	}

	byID, err := repo.LoadGraphByID(ctx, "g1")
	if err != nil {
		t.Fatalf("LoadGraphByID: %v", err)
	}
	if byID == nil || len(byID.Nodes) != 1 {
		t.Fatalf("byID = %+v", byID)
	}
}

func TestMemoryLoadMissingReturnsNilNoError(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	g, err := repo.LoadGraphByDagNode(ctx, "proj", "ghost")
	if err != nil || g != nil {
		t.Fatalf("expected nil, nil for a missing artifact, got %+v, %v", g, err)
	}
}

func TestMemorySelectIDsEvaluatesFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	g := graph.New("g2")
	g.Nodes = []graph.Node{{ID: "a", Label: "alpha", Weight: 1}, {ID: "b", Label: "beta", Weight: 1}}
	if err := repo.StoreGraphForDagNode(ctx, "proj", "node1", g, nil, StatusCompleted); err != nil {
		t.Fatalf("StoreGraphForDagNode: %v", err)
	}

	cfg := filter.Config{
		Targets: []filter.Target{filter.TargetNodes},
		Mode:    filter.ModeInclude,
		RuleGroup: filter.RuleGroup{
			Combinator: filter.CombinatorAnd,
			Rules: []filter.RuleNode{
				{Rule: &filter.Rule{Field: "node.id", Operator: filter.OpEqual, Value: "a"}},
			},
		},
	}
	ids, err := repo.SelectIDs(ctx, "g2", filter.TargetNodes, cfg)
	if err != nil {
		t.Fatalf("SelectIDs: %v", err)
	}
	if _, ok := ids["a"]; !ok || len(ids) != 1 {
		t.Fatalf("ids = %v, want {a}", ids)
	}
}

func TestMemoryDatasetGraph(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	if g, err := repo.LoadDatasetGraph(ctx, "ds1"); err != nil || g != nil {
		t.Fatalf("expected a cache miss before PutDatasetGraph, got %+v, %v", g, err)
	}

	want := graph.New("ds1-graph")
	repo.PutDatasetGraph("ds1", want)

	got, err := repo.LoadDatasetGraph(ctx, "ds1")
	if err != nil {
		t.Fatalf("LoadDatasetGraph: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want the same graph pointer stored", got)
	}
}
