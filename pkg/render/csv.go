package render

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
)

var csvNodeHeader = []string{"id", "label", "layer", "is_partition", "belongs_to", "comment"}
var csvEdgeHeader = []string{"id", "source", "target", "label", "layer", "comment"}

// exportCSVNodes emits the flow+hierarchy node set with the fixed header
// from spec §4.6, sorted ascending by id.
func exportCSVNodes(p Prepared, _ Config) (string, error) {
	nodes := append(append([]exportNode{}, toExportNodes(p.FlowNodes)...), toExportNodes(p.HierarchyNodes)...)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(csvNodeHeader); err != nil {
		return "", wrapCSVErr("csv_nodes", err)
	}
	for _, n := range nodes {
		row := []string{n.ID, n.Label, n.Layer, strconv.FormatBool(n.IsPartition), n.BelongsTo, n.Comment}
		if err := w.Write(row); err != nil {
			return "", wrapCSVErr("csv_nodes", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", wrapCSVErr("csv_nodes", err)
	}
	return sb.String(), nil
}

// exportCSVEdges emits the flow edge set with the fixed header from
// spec §4.6, sorted ascending by id.
func exportCSVEdges(p Prepared, _ Config) (string, error) {
	edges := toExportEdges(p.FlowEdges)
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(csvEdgeHeader); err != nil {
		return "", wrapCSVErr("csv_edges", err)
	}
	for _, e := range edges {
		row := []string{e.ID, e.Source, e.Target, e.Label, e.Layer, e.Comment}
		if err := w.Write(row); err != nil {
			return "", wrapCSVErr("csv_edges", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", wrapCSVErr("csv_edges", err)
	}
	return sb.String(), nil
}

// exportCSVMatrix emits a square adjacency matrix labeled by node label,
// cell value = edge weight; fails on a duplicate node id (spec §4.6).
func exportCSVMatrix(p Prepared, _ Config) (string, error) {
	nodes := toExportNodes(p.FlowNodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, dup := index[n.ID]; dup {
			return "", cerrors.New(cerrors.KindRendering, cerrors.CodeExporterFailure, "csv_matrix",
				"duplicate node id %q", n.ID)
		}
		index[n.ID] = i
	}

	weights := make([][]int, len(nodes))
	for i := range weights {
		weights[i] = make([]int, len(nodes))
	}
	for _, e := range toExportEdges(p.FlowEdges) {
		si, sok := index[e.Source]
		ti, tok := index[e.Target]
		if sok && tok {
			weights[si][ti] += e.Weight
		}
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	header := make([]string, len(nodes)+1)
	header[0] = ""
	for i, n := range nodes {
		header[i+1] = n.Label
	}
	if err := w.Write(header); err != nil {
		return "", wrapCSVErr("csv_matrix", err)
	}
	for i, n := range nodes {
		row := make([]string, len(nodes)+1)
		row[0] = n.Label
		for j := range nodes {
			row[j+1] = fmt.Sprintf("%d", weights[i][j])
		}
		if err := w.Write(row); err != nil {
			return "", wrapCSVErr("csv_matrix", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", wrapCSVErr("csv_matrix", err)
	}
	return sb.String(), nil
}

func wrapCSVErr(exporter string, err error) error {
	return cerrors.Wrap(cerrors.KindRendering, cerrors.CodeExporterFailure, exporter, err, "write CSV")
}
