package dataset

import (
	"context"

	"github.com/layercake-project/layercake/pkg/graph"
)

// Source hydrates a dataset id into a [graph.Graph]. DataSet plan nodes
// call this lazily the first time a dataset is needed in an execution;
// the executor caches the result for the rest of the run and in its
// materialization cache.
type Source interface {
	ReadDataset(ctx context.Context, datasetID string) (*graph.Graph, error)
}
