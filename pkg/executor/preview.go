package executor

import (
	"context"
	"strings"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/graph"
	"github.com/layercake-project/layercake/pkg/plan"
)

// PreviewGraph implements spec §6's `preview_graph(dag_node_id) → Graph
// + concatenated annotations`. It loads dagNodeID's last materialized
// graph from the repository, then walks d's ancestors of dagNodeID in
// topological order (spec §4.5 step 5) and concatenates each
// ancestor's own annotation log ahead of dagNodeID's, so a preview
// reads as the full provenance chain rather than just the node's own
// log.
func (e *Executor) PreviewGraph(ctx context.Context, projectID string, d plan.DAG, dagNodeID string) (*graph.Graph, []string, error) {
	g, err := e.Repo.LoadGraphByDagNode(ctx, projectID, dagNodeID)
	if err != nil {
		return nil, nil, err
	}
	if g == nil {
		return nil, nil, cerrors.New(cerrors.KindUpstream, cerrors.CodeUpstreamNotComputed, dagNodeID,
			"node %q has not been computed", dagNodeID)
	}

	var annotations []string
	for _, ancestorID := range plan.Ancestors(d, dagNodeID) {
		ag, err := e.Repo.LoadGraphByDagNode(ctx, projectID, ancestorID)
		if err != nil {
			return nil, nil, err
		}
		if ag == nil {
			continue
		}
		annotations = append(annotations, ag.Annotations...)
	}
	annotations = append(annotations, g.Annotations...)

	return g, dedupConsecutive(annotations), nil
}

// dedupConsecutive drops immediately-repeated annotation lines, which
// occur when two adjacent nodes in the ancestor walk both log the same
// pass-through text (e.g. an Artefact node's unmodified input).
func dedupConsecutive(lines []string) []string {
	if len(lines) == 0 {
		return lines
	}
	out := lines[:1]
	for _, l := range lines[1:] {
		if strings.TrimSpace(l) == strings.TrimSpace(out[len(out)-1]) {
			continue
		}
		out = append(out, l)
	}
	return out
}
