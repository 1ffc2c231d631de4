package plan

import (
	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/filter"
	"github.com/layercake-project/layercake/pkg/render"
	"github.com/layercake-project/layercake/pkg/transform"
)

// Kind tags a Plan DAG node variant, per spec §4.5's table.
type Kind string

// Plan DAG node variants.
const (
	KindDataSet       Kind = "dataset"
	KindGraph         Kind = "graph"
	KindTransform     Kind = "transform"
	KindFilter        Kind = "filter"
	KindMerge         Kind = "merge"
	KindGraphArtefact Kind = "graph_artefact"
	KindTreeArtefact  Kind = "tree_artefact"
)

// mergeMinUpstreams is the fewest upstream nodes a Merge node accepts.
const mergeMinUpstreams = 2

// Node is one Plan DAG node. Only the fields relevant to Kind are
// consulted, mirroring [transform.Spec]'s single-struct-per-catalog
// shape.
type Node struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	// DataSet
	DatasetID string `json:"dataset_id,omitempty"`
	// Graph
	GraphID string `json:"graph_id,omitempty"`
	// Transform
	Transforms []transform.Spec `json:"transforms,omitempty"`
	// Filter
	Filter *filter.Config `json:"filter,omitempty"`
	// Merge
	MergeName string `json:"merge_name,omitempty"`
	// GraphArtefact, TreeArtefact
	RenderTarget render.Target `json:"render_target,omitempty"`
	RenderConfig render.Config `json:"render_config,omitempty"`
}

// Edge is a directed Plan DAG edge from one node id to another.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DAG is a Plan DAG: `{nodes: map<id, PlanNode>, edges: list<(src,tgt)>}`
// per spec §3.
type DAG struct {
	Nodes map[string]Node `json:"nodes"`
	Edges []Edge          `json:"edges"`
}

// Upstreams returns nodeID's upstream node ids, i.e. every edge's From
// where To == nodeID.
func (d DAG) Upstreams(nodeID string) []string {
	var out []string
	for _, e := range d.Edges {
		if e.To == nodeID {
			out = append(out, e.From)
		}
	}
	return out
}

// Downstreams returns nodeID's downstream node ids.
func (d DAG) Downstreams(nodeID string) []string {
	var out []string
	for _, e := range d.Edges {
		if e.From == nodeID {
			out = append(out, e.To)
		}
	}
	return out
}

// checkUpstreamCount validates kind's upstream-count contract from
// spec §4.5's table: DataSet/Graph take 0, Transform/Filter/
// GraphArtefact/TreeArtefact take exactly 1, Merge takes 2 or more.
func checkUpstreamCount(kind Kind, n int) *cerrors.Error {
	switch kind {
	case KindDataSet, KindGraph:
		if n != 0 {
			return cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidUpstreamCount, string(kind),
				"%s nodes take 0 upstreams, got %d", kind, n)
		}
	case KindTransform, KindFilter, KindGraphArtefact, KindTreeArtefact:
		if n != 1 {
			return cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidUpstreamCount, string(kind),
				"%s nodes take exactly 1 upstream, got %d", kind, n)
		}
	case KindMerge:
		if n < mergeMinUpstreams {
			return cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidUpstreamCount, string(kind),
				"merge nodes take at least %d upstreams, got %d", mergeMinUpstreams, n)
		}
	default:
		return cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, string(kind),
			"unknown plan node kind %q", kind)
	}
	return nil
}
