package filter

import (
	"testing"

	"github.com/layercake-project/layercake/pkg/graph"
)

func sampleGraph() *graph.Graph {
	g := graph.New("s3")
	g.Layers = []graph.Layer{{ID: "L", Label: "L"}}
	g.Nodes = []graph.Node{
		{ID: "a", Label: "A", Layer: "L", Weight: 1},
		{ID: "b", Label: "B", Layer: "L", Weight: 1},
		{ID: "c", Label: "C", Layer: "L", Weight: 1},
	}
	g.Edges = []graph.Edge{
		{ID: "e1", Source: "a", Target: "b", Layer: "L", Weight: 1},
		{ID: "e2", Source: "b", Target: "c", Layer: "L", Weight: 1},
	}
	return g
}

// TestIncludeWithLinkPruning mirrors spec §8 scenario S3.
func TestIncludeWithLinkPruning(t *testing.T) {
	g := sampleGraph()
	cfg := Config{
		Targets:     []Target{TargetNodes},
		Mode:        ModeInclude,
		LinkPruning: PruneAutoDropDangling,
		RuleGroup: RuleGroup{
			Combinator: CombinatorAnd,
			Rules: []RuleNode{{Rule: &Rule{
				Field:    "node.id",
				Operator: OpIn,
				Value:    []any{"a", "b"},
			}}},
		},
	}

	out, warnings, err := Apply(g, cfg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(out.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(out.Nodes))
	}
	if len(out.Edges) != 1 || out.Edges[0].ID != "e1" {
		t.Fatalf("edges = %v, want only e1", out.Edges)
	}
}

// TestEmptyRulesIncludeIsIdentity is spec §8 property 5.
func TestEmptyRulesIncludeIsIdentity(t *testing.T) {
	g := sampleGraph()
	cfg := Config{
		Targets:     []Target{TargetNodes, TargetEdges, TargetLayers},
		Mode:        ModeInclude,
		LinkPruning: PruneRetainEdges,
		RuleGroup:   RuleGroup{Combinator: CombinatorOr, Rules: nil},
	}

	out, _, err := Apply(g, cfg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out.Nodes) != len(g.Nodes) || len(out.Edges) != len(g.Edges) || len(out.Layers) != len(g.Layers) {
		t.Fatalf("expected g unchanged for an empty Or group, got nodes=%d edges=%d layers=%d",
			len(out.Nodes), len(out.Edges), len(out.Layers))
	}

	cfg.RuleGroup.Combinator = CombinatorAnd
	out, _, err = Apply(g, cfg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out.Nodes) != len(g.Nodes) || len(out.Edges) != len(g.Edges) || len(out.Layers) != len(g.Layers) {
		t.Fatalf("expected g unchanged for an empty And group, got nodes=%d edges=%d layers=%d",
			len(out.Nodes), len(out.Edges), len(out.Layers))
	}
}

func TestCompileRejectsUnknownPrefix(t *testing.T) {
	_, err := Compile(Config{
		Targets: []Target{TargetNodes},
		Mode:    ModeInclude,
		RuleGroup: RuleGroup{
			Rules: []RuleNode{{Rule: &Rule{Field: "bogus.id", Operator: OpEqual, Value: "x"}}},
		},
	})
	if err == nil {
		t.Fatal("expected a validation error for an unrecognized field prefix")
	}
}

func TestCompileRejectsBadAttrPath(t *testing.T) {
	_, err := Compile(Config{
		Targets: []Target{TargetNodes},
		Mode:    ModeInclude,
		RuleGroup: RuleGroup{
			Rules: []RuleNode{{Rule: &Rule{Field: "attrs.foo.$bar", Operator: OpEqual, Value: "x"}}},
		},
	})
	if err == nil {
		t.Fatal("expected a validation error for an unsanitary attribute path segment")
	}
}

func TestAttrPathMatch(t *testing.T) {
	nodes := []graph.Node{
		{ID: "a", Attributes: map[string]any{"team": "payments", "tier": 1.0}},
		{ID: "b", Attributes: map[string]any{"team": "infra", "tier": 2.0}},
	}
	rg := RuleGroup{
		Combinator: CombinatorAnd,
		Rules: []RuleNode{
			{Rule: &Rule{Field: "attrs.team", Operator: OpEqual, Value: "payments"}},
		},
	}
	matched, warnings := EvaluateNodes(nodes, rg)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if !matched["a"] || matched["b"] {
		t.Fatalf("matched = %v, want only a", matched)
	}
}

func TestUnknownOperatorWarnsAndSkips(t *testing.T) {
	nodes := []graph.Node{{ID: "a", Label: "alpha"}}
	rg := RuleGroup{
		Combinator: CombinatorOr,
		Rules: []RuleNode{
			{Rule: &Rule{Field: "node.label", Operator: "nope", Value: "alpha"}},
		},
	}
	matched, warnings := EvaluateNodes(nodes, rg)
	if len(matched) != 0 {
		t.Fatalf("matched = %v, want none", matched)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
}
