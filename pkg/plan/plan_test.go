package plan

import (
	"encoding/json"
	"testing"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/filter"
	"github.com/layercake-project/layercake/pkg/transform"
)

func samplePlan() DAG {
	return DAG{
		Nodes: map[string]Node{
			"ds":     {ID: "ds", Kind: KindDataSet, DatasetID: "d1"},
			"xf":     {ID: "xf", Kind: KindTransform, Transforms: []transform.Spec{{Kind: transform.KindAggregateEdges}}},
			"filter": {ID: "filter", Kind: KindFilter, Filter: &filter.Config{Targets: []filter.Target{filter.TargetNodes}, Mode: filter.ModeInclude}},
			"art":    {ID: "art", Kind: KindGraphArtefact},
		},
		Edges: []Edge{
			{From: "ds", To: "xf"},
			{From: "xf", To: "filter"},
			{From: "filter", To: "art"},
		},
	}
}

func TestValidateAcceptsWellFormedPlan(t *testing.T) {
	list := Validate(samplePlan())
	if !list.OK() {
		t.Fatalf("expected a valid plan, got errors: %v", list.Errors)
	}
}

func TestValidateRejectsBadUpstreamCount(t *testing.T) {
	d := samplePlan()
	d.Edges = append(d.Edges, Edge{From: "ds", To: "art"})
	list := Validate(d)
	if list.OK() {
		t.Fatal("expected an upstream-count error for a GraphArtefact with 2 upstreams")
	}
	found := false
	for _, e := range list.Errors {
		if e.Code == cerrors.CodeInvalidUpstreamCount {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CodeInvalidUpstreamCount, got %v", list.Errors)
	}
}

func TestValidateDetectsCycle(t *testing.T) {
	d := DAG{
		Nodes: map[string]Node{
			"a": {ID: "a", Kind: KindTransform, Transforms: []transform.Spec{{Kind: transform.KindAggregateEdges}}},
			"b": {ID: "b", Kind: KindTransform, Transforms: []transform.Spec{{Kind: transform.KindAggregateEdges}}},
		},
		Edges: []Edge{{From: "a", To: "b"}, {From: "b", To: "a"}},
	}
	list := Validate(d)
	if list.OK() {
		t.Fatal("expected a cyclic-plan error")
	}
	found := false
	for _, e := range list.Errors {
		if e.Code == cerrors.CodeCyclicPlan {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CodeCyclicPlan, got %v", list.Errors)
	}
}

func TestValidateWarnsOnZeroDownstreams(t *testing.T) {
	d := samplePlan()
	// "art" has no downstreams, by construction, and GraphArtefact is a
	// legitimate terminal node, so this should be the only warning.
	list := Validate(d)
	if len(list.Warnings) != 1 {
		t.Fatalf("expected exactly 1 warning (for the terminal node), got %d", len(list.Warnings))
	}
}

func TestValidateRejectsUnknownEdgeEndpoint(t *testing.T) {
	d := samplePlan()
	d.Edges = append(d.Edges, Edge{From: "art", To: "ghost"})
	list := Validate(d)
	if list.OK() {
		t.Fatal("expected an unknown-edge-endpoint error")
	}
}

func TestTopologicalOrderRespectsDependencies(t *testing.T) {
	order, err := TopologicalOrder(samplePlan())
	if err != nil {
		t.Fatalf("TopologicalOrder: %v", err)
	}
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	if !(pos["ds"] < pos["xf"] && pos["xf"] < pos["filter"] && pos["filter"] < pos["art"]) {
		t.Fatalf("order %v does not respect dependencies", order)
	}
}

func TestTopologicalOrderFailsOnCycle(t *testing.T) {
	d := DAG{
		Nodes: map[string]Node{
			"a": {ID: "a", Kind: KindTransform},
			"b": {ID: "b", Kind: KindTransform},
		},
		Edges: []Edge{{From: "a", To: "b"}, {From: "b", To: "a"}},
	}
	if _, err := TopologicalOrder(d); err == nil {
		t.Fatal("expected an error for a cyclic DAG")
	}
}

func TestMigrateTransformSpecsFromV1(t *testing.T) {
	raw := json.RawMessage(`{"transformType":"NodeLabelMaxLength","transformConfig":{"max_length":3}}`)
	specs, err := MigrateTransformSpecs(raw)
	if err != nil {
		t.Fatalf("MigrateTransformSpecs: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs (migrated + appended AggregateEdges), got %d", len(specs))
	}
	if specs[0].Kind != transform.KindNodeLabelMaxLength || specs[0].MaxLength != 3 {
		t.Fatalf("specs[0] = %+v", specs[0])
	}
	if specs[1].Kind != transform.KindAggregateEdges {
		t.Fatalf("specs[1] = %+v, want AggregateEdges appended", specs[1])
	}
}

func TestMigrateTransformSpecsFromV2(t *testing.T) {
	raw := json.RawMessage(`{"transforms":[{"kind":"PartitionDepthLimit","depth":1}]}`)
	specs, err := MigrateTransformSpecs(raw)
	if err != nil {
		t.Fatalf("MigrateTransformSpecs: %v", err)
	}
	if len(specs) != 1 || specs[0].Kind != transform.KindPartitionDepthLimit {
		t.Fatalf("specs = %+v", specs)
	}
}

func TestMigrateFilterConfigFromLegacyFiltersArray(t *testing.T) {
	raw := json.RawMessage(`{
		"filters": [
			{"kind": "query", "params": {"query_config": {"targets": ["nodes"], "mode": "include", "rule_group": {"combinator": "", "rules": []}}}}
		]
	}`)
	cfg, err := MigrateFilterConfig(raw)
	if err != nil {
		t.Fatalf("MigrateFilterConfig: %v", err)
	}
	if cfg.FieldMetadataVersion != "v1" {
		t.Fatalf("field_metadata_version = %q, want v1", cfg.FieldMetadataVersion)
	}
	if cfg.RuleGroup.Combinator != filter.CombinatorAnd {
		t.Fatalf("rule group combinator = %q, want default And", cfg.RuleGroup.Combinator)
	}
	if cfg.LinkPruning != filter.PruneAutoDropDangling {
		t.Fatalf("link_pruning = %q, want default AutoDropDangling", cfg.LinkPruning)
	}
}

func TestMigrateFilterConfigFromV2Flat(t *testing.T) {
	raw := json.RawMessage(`{"targets":["nodes","edges"],"mode":"exclude","link_pruning":"retain_edges","rule_group":{"combinator":"or","rules":[]},"field_metadata_version":"v2"}`)
	cfg, err := MigrateFilterConfig(raw)
	if err != nil {
		t.Fatalf("MigrateFilterConfig: %v", err)
	}
	if cfg.Mode != filter.ModeExclude || cfg.FieldMetadataVersion != "v2" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestAncestorsWalksUpstreamInOrder(t *testing.T) {
	anc := Ancestors(samplePlan(), "art")
	if len(anc) != 3 {
		t.Fatalf("ancestors = %v, want 3", anc)
	}
	pos := make(map[string]int, len(anc))
	for i, id := range anc {
		pos[id] = i
	}
	if !(pos["ds"] < pos["xf"] && pos["xf"] < pos["filter"]) {
		t.Fatalf("ancestors %v not in dependency order", anc)
	}
}
