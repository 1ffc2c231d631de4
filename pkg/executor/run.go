package executor

import (
	"context"
	"encoding/json"

	"github.com/layercake-project/layercake/pkg/cache"
	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/filter"
	"github.com/layercake-project/layercake/pkg/graph"
	"github.com/layercake-project/layercake/pkg/merge"
	"github.com/layercake-project/layercake/pkg/plan"
	"github.com/layercake-project/layercake/pkg/render"
	"github.com/layercake-project/layercake/pkg/repository"
	"github.com/layercake-project/layercake/pkg/transform"
)

// ExecutePlan validates d, computes its topological order, and walks
// it asynchronously, returning an [ExecutionHandle] immediately (spec
// §6: `execute_plan(project_id, plan_dag) → ExecutionHandle`).
func (e *Executor) ExecutePlan(ctx context.Context, projectID string, d plan.DAG) (*ExecutionHandle, error) {
	if list := e.ValidatePlanDAG(d); !list.OK() {
		return nil, list
	}
	order, err := plan.TopologicalOrder(d)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	h := newHandle(cancel)

	go e.run(runCtx, projectID, d, order, h)
	return h, nil
}

// run performs the topological walk described in spec §4.5's
// Execution steps 1-4.
func (e *Executor) run(ctx context.Context, projectID string, d plan.DAG, order []string, h *ExecutionHandle) {
	defer h.finish()

	graphCache := make(map[string]*graph.Graph, len(order))
	datasetCache := make(map[string]*graph.Graph)
	failed := make(map[string]bool, len(order))
	cancelled := false

	for i, id := range order {
		node := d.Nodes[id]

		if ctx.Err() != nil {
			cancelled = true
			e.failNode(h, id, repository.StatusError, cerrors.Wrap(cerrors.KindCancellation, cerrors.CodeCancelled, id, ctx.Err(), "execution cancelled"))
			failed[id] = true
			e.skipRemaining(h, order[i+1:], failed)
			break
		}

		if upstreamFailed(d, id, failed) {
			e.markSkipped(h, id, failed)
			continue
		}

		nodeCtx, nodeCancel := e.nodeContext(ctx)
		g, err := e.executeNode(nodeCtx, projectID, d, node, graphCache, datasetCache)
		nodeCancel()
		if err != nil {
			e.Logger.Error("plan node failed", "node", id, "kind", node.Kind, "err", err)
			e.failNode(h, id, repository.StatusError, err)
			failed[id] = true
			continue
		}

		graphCache[id] = g
		if err := e.Repo.StoreGraphForDagNode(ctx, projectID, id, g, g.Annotations, repository.StatusCompleted); err != nil {
			e.Logger.Error("store plan node output failed", "node", id, "err", err)
			e.failNode(h, id, repository.StatusError, err)
			failed[id] = true
			continue
		}

		e.Logger.Info("plan node completed", "node", id, "kind", node.Kind, "nodes", len(g.Nodes), "edges", len(g.Edges))
		h.record(id, NodeResult{Graph: g, Status: repository.StatusCompleted})
		h.emit(ProgressEvent{DAGNodeID: id, Status: repository.StatusCompleted, NodeCount: len(g.Nodes), EdgeCount: len(g.Edges)})
	}
}

func (e *Executor) nodeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.NodeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.NodeTimeout)
}

func upstreamFailed(d plan.DAG, id string, failed map[string]bool) bool {
	for _, up := range d.Upstreams(id) {
		if failed[up] {
			return true
		}
	}
	return false
}

func (e *Executor) failNode(h *ExecutionHandle, id string, status repository.Status, err error) {
	h.record(id, NodeResult{Status: status, Err: err})
	h.emit(ProgressEvent{DAGNodeID: id, Status: status, Err: err})
}

func (e *Executor) markSkipped(h *ExecutionHandle, id string, failed map[string]bool) {
	failed[id] = true
	h.record(id, NodeResult{Status: repository.StatusSkipped})
	h.emit(ProgressEvent{DAGNodeID: id, Status: repository.StatusSkipped})
}

func (e *Executor) skipRemaining(h *ExecutionHandle, remaining []string, failed map[string]bool) {
	for _, id := range remaining {
		e.markSkipped(h, id, failed)
	}
}

// executeNode applies node's operation, given its upstream(s)' already-
// computed graphs in graphCache.
func (e *Executor) executeNode(ctx context.Context, projectID string, d plan.DAG, node plan.Node,
	graphCache, datasetCache map[string]*graph.Graph) (*graph.Graph, error) {

	switch node.Kind {
	case plan.KindDataSet:
		return e.hydrateDataset(ctx, node.DatasetID, datasetCache)

	case plan.KindGraph:
		g, err := e.Repo.LoadGraphByID(ctx, node.GraphID)
		if err != nil {
			return nil, err
		}
		if g == nil {
			return nil, cerrors.New(cerrors.KindRepository, cerrors.CodeRepositoryLoad, node.ID,
				"graph %q not found", node.GraphID)
		}
		return g.Clone(), nil

	case plan.KindTransform:
		up, err := singleUpstream(d, node.ID, graphCache)
		if err != nil {
			return nil, err
		}
		return transform.ApplySequence(up, node.Transforms)

	case plan.KindFilter:
		up, err := singleUpstream(d, node.ID, graphCache)
		if err != nil {
			return nil, err
		}
		if node.Filter == nil {
			return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidRuleGroup, node.ID, "filter node has no config")
		}
		out, warnings, err := filter.Apply(up, *node.Filter)
		for _, w := range warnings {
			e.Logger.Warn("filter warning", "node", node.ID, "path", w.Path, "message", w.Message)
		}
		return out, err

	case plan.KindMerge:
		ups := d.Upstreams(node.ID)
		graphs := make([]*graph.Graph, 0, len(ups))
		for _, up := range ups {
			g, ok := graphCache[up]
			if !ok {
				return nil, cerrors.New(cerrors.KindUpstream, cerrors.CodeUpstreamNotComputed, node.ID,
					"upstream %q has no materialized graph", up)
			}
			graphs = append(graphs, g)
		}
		name := node.MergeName
		if name == "" {
			name = node.ID
		}
		return merge.Resolve(name, graphs)

	case plan.KindGraphArtefact, plan.KindTreeArtefact:
		up, err := singleUpstream(d, node.ID, graphCache)
		if err != nil {
			return nil, err
		}
		cfg := node.RenderConfig
		cfg.Target = node.RenderTarget
		if _, err := render.Export(up, cfg, e.Engine); err != nil {
			return nil, err
		}
		// The artefact node's materialized graph is its (unmodified)
		// input: export_node_output re-renders from it on demand
		// without needing to replay the rest of the DAG.
		return up, nil

	default:
		return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, node.ID,
			"unknown plan node kind %q", node.Kind)
	}
}

func singleUpstream(d plan.DAG, id string, graphCache map[string]*graph.Graph) (*graph.Graph, error) {
	ups := d.Upstreams(id)
	if len(ups) != 1 {
		return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidUpstreamCount, id,
			"expected exactly 1 upstream, got %d", len(ups))
	}
	g, ok := graphCache[ups[0]]
	if !ok {
		return nil, cerrors.New(cerrors.KindUpstream, cerrors.CodeUpstreamNotComputed, id,
			"upstream %q has no materialized graph", ups[0])
	}
	return g, nil
}

// hydrateDataset reads datasetID through the Dataset Source, caching
// within this run (datasetCache) and across runs (e.Cache, keyed by
// [cache.Keyer.DatasetKey]) per spec §4.5 step 2.
func (e *Executor) hydrateDataset(ctx context.Context, datasetID string, datasetCache map[string]*graph.Graph) (*graph.Graph, error) {
	if g, ok := datasetCache[datasetID]; ok {
		return g.Clone(), nil
	}

	key := e.Keyer.DatasetKey(datasetID)
	if data, hit, err := e.Cache.Get(ctx, key); err == nil && hit {
		var g graph.Graph
		if err := json.Unmarshal(data, &g); err == nil {
			datasetCache[datasetID] = &g
			return g.Clone(), nil
		}
	}

	if g, err := e.Repo.LoadDatasetGraph(ctx, datasetID); err == nil && g != nil {
		datasetCache[datasetID] = g
		return g.Clone(), nil
	}

	g, err := e.DatasetSource.ReadDataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	datasetCache[datasetID] = g
	if data, err := json.Marshal(g); err == nil {
		_ = e.Cache.Set(ctx, key, data, cache.TTLDataset)
	}
	return g.Clone(), nil
}
