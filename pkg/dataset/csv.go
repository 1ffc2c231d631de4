package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/graph"
)

// CSVSource reads a dataset from a directory named after the dataset
// id, containing the three-file nodes.csv/edges.csv/layers.csv
// convention: Root/<datasetID>/{nodes,edges,layers}.csv. nodes.csv is
// required; edges.csv and layers.csv are optional.
type CSVSource struct {
	Root string
}

var _ Source = CSVSource{}

// ReadDataset implements [Source].
func (s CSVSource) ReadDataset(_ context.Context, datasetID string) (*graph.Graph, error) {
	dir := filepath.Join(s.Root, datasetID)

	nodes, err := readNodesCSV(filepath.Join(dir, "nodes.csv"), datasetID)
	if err != nil {
		return nil, err
	}

	edges, err := readEdgesCSV(filepath.Join(dir, "edges.csv"), datasetID)
	if err != nil {
		return nil, err
	}

	layers, err := readLayersCSV(filepath.Join(dir, "layers.csv"), datasetID)
	if err != nil {
		return nil, err
	}
	if len(layers) == 0 {
		layers = autoGenerateLayers(nodes)
	}

	g := graph.New(datasetID)
	g.Nodes = nodes
	g.Edges = edges
	g.Layers = layers
	return g, nil
}

func readNodesCSV(path, datasetID string) ([]graph.Node, error) {
	records, header, err := openCSV(path, true)
	if err != nil {
		return nil, err
	}
	idx := columnIndex(header)

	var nodes []graph.Node
	for _, rec := range records {
		id := field(rec, idx, "id")
		if id == "" {
			return nil, cerrors.New(cerrors.KindRepository, cerrors.CodeRepositoryLoad, datasetID,
				"nodes.csv: missing required field id")
		}
		label := field(rec, idx, "label")
		if label == "" {
			label = id
		}
		nodes = append(nodes, graph.Node{
			ID:          id,
			Label:       label,
			Layer:       field(rec, idx, "layer"),
			IsPartition: parseBool(field(rec, idx, "is_partition")),
			BelongsTo:   field(rec, idx, "belongs_to"),
			Weight:      parseWeight(field(rec, idx, "weight")),
			Comment:     field(rec, idx, "comment"),
			Dataset:     datasetID,
		})
	}
	return nodes, nil
}

func readEdgesCSV(path, datasetID string) ([]graph.Edge, error) {
	records, header, err := openCSV(path, false)
	if err != nil {
		return nil, err
	}
	if records == nil {
		return nil, nil
	}
	idx := columnIndex(header)

	var edges []graph.Edge
	for _, rec := range records {
		source := field(rec, idx, "source")
		target := field(rec, idx, "target")
		if source == "" || target == "" {
			return nil, cerrors.New(cerrors.KindRepository, cerrors.CodeRepositoryLoad, datasetID,
				"edges.csv: missing required field source or target")
		}
		id := field(rec, idx, "id")
		if id == "" {
			id = source + "_" + target
		}
		edges = append(edges, graph.Edge{
			ID:      id,
			Source:  source,
			Target:  target,
			Label:   field(rec, idx, "label"),
			Layer:   field(rec, idx, "layer"),
			Weight:  parseWeight(field(rec, idx, "weight")),
			Comment: field(rec, idx, "comment"),
			Dataset: datasetID,
		})
	}
	return edges, nil
}

func readLayersCSV(path, datasetID string) ([]graph.Layer, error) {
	records, header, err := openCSV(path, false)
	if err != nil {
		return nil, err
	}
	if records == nil {
		return nil, nil
	}
	idx := columnIndex(header)

	var layers []graph.Layer
	for _, rec := range records {
		id := field(rec, idx, "id")
		if id == "" {
			return nil, cerrors.New(cerrors.KindRepository, cerrors.CodeRepositoryLoad, datasetID,
				"layers.csv: missing required field id")
		}
		label := field(rec, idx, "label")
		if label == "" {
			label = id
		}
		bg := field(rec, idx, "background_color")
		if bg == "" {
			bg = graph.DefaultBackgroundColor
		}
		text := field(rec, idx, "text_color")
		if text == "" {
			text = graph.DefaultTextColor
		}
		border := field(rec, idx, "border_color")
		if border == "" {
			border = graph.DefaultBorderColor
		}
		layers = append(layers, graph.Layer{
			ID:              id,
			Label:           label,
			BackgroundColor: bg,
			TextColor:       text,
			BorderColor:     border,
			Dataset:         datasetID,
		})
	}
	return layers, nil
}

// openCSV reads and parses all records of path. If the file does not
// exist and required is false, it returns (nil, nil, nil) so the
// caller can treat the file as optional. required files that are
// missing produce an error.
func openCSV(path string, required bool) (records [][]string, header []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil, nil, nil
		}
		return nil, nil, cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryLoad, path, err, "open csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err = r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, nil
		}
		return nil, nil, cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryLoad, path, err, "read header")
	}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, cerrors.Wrap(cerrors.KindRepository, cerrors.CodeRepositoryLoad, path, err, "read record")
		}
		records = append(records, rec)
	}
	return records, header, nil
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	return idx
}

func field(rec []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func parseBool(s string) bool {
	return s == "true" || s == "1" || s == "True" || s == "TRUE"
}

func parseWeight(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return n
}

// autoGenerateLayers synthesizes a layer per distinct Node.Layer value
// when no layers.csv is supplied, cycling through a small fixed palette
// the way csv_io.rs's auto_generate_layers does.
func autoGenerateLayers(nodes []graph.Node) []graph.Layer {
	palette := [][3]string{
		{"e3f2fd", "000000", "2196f3"},
		{"f3e5f5", "000000", "9c27b0"},
		{"e8f5e8", "000000", "4caf50"},
		{"fff3e0", "000000", "ff9800"},
		{"ffebee", "000000", "f44336"},
		{"f1f8e9", "000000", "8bc34a"},
		{"fce4ec", "000000", "e91e63"},
		{"e0f2f1", "000000", "009688"},
	}

	var ids []string
	seen := make(map[string]bool)
	for _, n := range nodes {
		layer := n.Layer
		if layer == "" {
			continue
		}
		if !seen[layer] {
			seen[layer] = true
			ids = append(ids, layer)
		}
	}

	layers := make([]graph.Layer, len(ids))
	for i, id := range ids {
		colors := palette[i%len(palette)]
		layers[i] = graph.Layer{
			ID:              id,
			Label:           id,
			BackgroundColor: colors[0],
			TextColor:       colors[1],
			BorderColor:     colors[2],
		}
	}
	return layers
}
