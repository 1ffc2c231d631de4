package executor

import (
	"context"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/render"
)

// ExportedArtifact is the result of [Executor.ExportNodeOutput], per
// spec §6's `export_node_output(...) → bytes + filename + mime`.
type ExportedArtifact struct {
	Data     []byte
	Filename string
	MIME     string
}

// ExportNodeOutput re-renders dagNodeID's materialized graph through
// target with cfg, without replaying the rest of the Plan DAG. It is
// the read path a UI/API collaborator uses after `plan execute` has
// already stored the node's output graph.
func (e *Executor) ExportNodeOutput(ctx context.Context, projectID, dagNodeID string, target render.Target, cfg render.Config) (*ExportedArtifact, error) {
	g, err := e.Repo.LoadGraphByDagNode(ctx, projectID, dagNodeID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, cerrors.New(cerrors.KindUpstream, cerrors.CodeUpstreamNotComputed, dagNodeID,
			"node %q has not been computed", dagNodeID)
	}

	cfg.Target = target
	body, err := render.Export(g, cfg, e.Engine)
	if err != nil {
		return nil, err
	}

	info := target.Info(cfg)
	name := cfg.Name
	if name == "" {
		name = dagNodeID
	}

	return &ExportedArtifact{
		Data:     []byte(body),
		Filename: name + "." + info.Extension,
		MIME:     info.MIME,
	}, nil
}
