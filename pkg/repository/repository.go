package repository

import (
	"context"
	"time"

	"github.com/layercake-project/layercake/pkg/filter"
	"github.com/layercake-project/layercake/pkg/graph"
)

// Status is a Materialization Artifact's lifecycle state, per spec §3.
type Status string

// Artifact statuses.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
	// StatusSkipped marks a node the executor never ran because an
	// upstream in its dependency chain failed or was cancelled (spec
	// §4.5 step 4, §5).
	StatusSkipped Status = "skipped"
)

// Artifact is the persisted record for one Plan DAG node, addressable
// by (projectID, dagNodeID) and overwritten on each execution.
type Artifact struct {
	DAGNodeID    string
	Name         string
	Graph        *graph.Graph
	Annotations  []string
	Status       Status
	ComputedAt   time.Time
	ErrorMessage string
}

// GraphRepository is the external storage collaborator from spec §4.7.
// Calls may suspend but must be idempotent and race-free with respect
// to a single Plan execution (spec §5); implementations need not be
// safe for concurrent executions of different plans sharing an id
// space, since the executor is the only caller and owns that
// invariant.
type GraphRepository interface {
	// LoadGraphByDagNode returns the most recently stored graph for
	// (projectID, dagNodeID), or nil if none has been stored yet.
	LoadGraphByDagNode(ctx context.Context, projectID, dagNodeID string) (*graph.Graph, error)
	// LoadGraphByID returns the graph addressed directly by graphID
	// (used by a Graph plan node and by SelectIDs), or nil if absent.
	LoadGraphByID(ctx context.Context, graphID string) (*graph.Graph, error)
	// StoreGraphForDagNode persists g as the materialized output of
	// dagNodeID within projectID, along with its annotation log and
	// lifecycle status.
	StoreGraphForDagNode(ctx context.Context, projectID, dagNodeID string, g *graph.Graph, annotations []string, status Status) error
	// LoadDatasetGraph hydrates the graph backing datasetID, or nil if
	// the dataset has never been materialized through this repository.
	// The executor's DataSet node reads raw data via a Dataset Source
	// and does not store the result here.
	LoadDatasetGraph(ctx context.Context, datasetID string) (*graph.Graph, error)
	// SelectIDs returns the set of entity ids matching cfg within
	// graphID's target collection, per spec §4.3/§4.7.
	SelectIDs(ctx context.Context, graphID string, target filter.Target, cfg filter.Config) (map[string]struct{}, error)
}

// selectIDsFromGraph is the shared fallback every in-process
// implementation below delegates to: load the graph and evaluate cfg
// in-memory via pkg/filter. A row-based SQL-backed repository in a
// production deployment would instead translate cfg into a query
// executed by the store itself (spec §4.7's "may be row-based SQL or
// in-memory"); none of this module's reference implementations own
// that translation layer.
func selectIDsFromGraph(g *graph.Graph, target filter.Target, cfg filter.Config) (map[string]struct{}, error) {
	if g == nil {
		return map[string]struct{}{}, nil
	}
	var matched map[string]bool
	switch target {
	case filter.TargetNodes:
		matched, _ = filter.EvaluateNodes(g.Nodes, cfg.RuleGroup)
	case filter.TargetEdges:
		matched, _ = filter.EvaluateEdges(g.Edges, cfg.RuleGroup)
	case filter.TargetLayers:
		matched, _ = filter.EvaluateLayers(g.Layers, cfg.RuleGroup)
	}
	out := make(map[string]struct{}, len(matched))
	for id := range matched {
		out[id] = struct{}{}
	}
	return out, nil
}
