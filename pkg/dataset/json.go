package dataset

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/graph"
)

// JSONSource reads a dataset from a single JSON file at
// Root/<datasetID>.json, decoded directly into [graph.Graph]'s own
// json tags (the teacher's pkg/io instead decoded into a bespoke wire
// shape because its DAG type had no json tags of its own; this domain's
// Graph already carries the tags §4.1 requires, so no intermediate
// shape is needed).
type JSONSource struct {
	Root string
}

var _ Source = JSONSource{}

// ReadDataset implements [Source].
func (s JSONSource) ReadDataset(_ context.Context, datasetID string) (*graph.Graph, error) {
	path := filepath.Join(s.Root, datasetID+".json")
	g, err := ReadJSON(path)
	if err != nil {
		return nil, err
	}
	stampDataset(g, datasetID)
	return g, nil
}

// ReadJSON decodes a single-file graph JSON document at path.
func ReadJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryLoad, path, err, "open json dataset")
	}
	defer f.Close()
	return decodeJSON(f, path)
}

func decodeJSON(r io.Reader, where string) (*graph.Graph, error) {
	var g graph.Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryLoad, where, err, "decode json dataset")
	}
	for _, n := range g.Nodes {
		if n.ID == "" {
			return nil, cerrors.New(cerrors.KindRepository, cerrors.CodeRepositoryLoad, where,
				"node missing required field id")
		}
	}
	for _, e := range g.Edges {
		if e.Source == "" || e.Target == "" {
			return nil, cerrors.New(cerrors.KindRepository, cerrors.CodeRepositoryLoad, where,
				"edge missing required field source or target")
		}
	}
	return &g, nil
}

// WriteJSON writes g as a single JSON document to path, the inverse of
// [ReadJSON], used for dataset round-tripping in tests.
func WriteJSON(g *graph.Graph, path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryStore, path, err, "marshal json dataset")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryStore, path, err, "write json dataset")
	}
	return nil
}

func stampDataset(g *graph.Graph, datasetID string) {
	if g.Name == "" {
		g.Name = datasetID
	}
	for i := range g.Nodes {
		if g.Nodes[i].Dataset == "" {
			g.Nodes[i].Dataset = datasetID
		}
	}
	for i := range g.Edges {
		if g.Edges[i].Dataset == "" {
			g.Edges[i].Dataset = datasetID
		}
	}
	for i := range g.Layers {
		if g.Layers[i].Dataset == "" {
			g.Layers[i].Dataset = datasetID
		}
	}
}
