package transform

import (
	"fmt"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/graph"
)

// Kind tags a transform variant. Dispatch in [Apply] is a single switch
// over Kind; there is no base type.
type Kind string

// Transform kinds, one per §4.2 catalog entry.
const (
	KindPartitionDepthLimit     Kind = "PartitionDepthLimit"
	KindPartitionWidthLimit     Kind = "PartitionWidthLimit"
	KindDropUnconnectedNodes    Kind = "DropUnconnectedNodes"
	KindNodeLabelMaxLength      Kind = "NodeLabelMaxLength"
	KindEdgeLabelMaxLength      Kind = "EdgeLabelMaxLength"
	KindNodeLabelInsertNewlines Kind = "NodeLabelInsertNewlines"
	KindEdgeLabelInsertNewlines Kind = "EdgeLabelInsertNewlines"
	KindInvertGraph             Kind = "InvertGraph"
	KindGenerateHierarchy       Kind = "GenerateHierarchy"
	KindAggregateLayerNodes     Kind = "AggregateLayerNodes"
	KindAggregateEdges          Kind = "AggregateEdges"
)

// Spec is one configured transform in a Transform node's ordered list.
// Only the fields relevant to Kind are consulted.
type Spec struct {
	Kind      Kind `json:"kind"`
	Depth     int  `json:"depth,omitempty"`     // PartitionDepthLimit
	Width     int  `json:"width,omitempty"`     // PartitionWidthLimit
	MaxLength int  `json:"max_length,omitempty"` // NodeLabelMaxLength, EdgeLabelMaxLength
	WrapWidth int  `json:"wrap_width,omitempty"` // NodeLabelInsertNewlines, EdgeLabelInsertNewlines
	Threshold int  `json:"threshold,omitempty"` // AggregateLayerNodes
}

// Apply runs a single transform against a local copy of g and returns the
// result. On error it returns nil and g is left unmodified: transforms
// never partially mutate their input.
func Apply(g *graph.Graph, spec Spec) (*graph.Graph, error) {
	work := g.Clone()
	switch spec.Kind {
	case KindPartitionDepthLimit:
		return partitionDepthLimit(work, spec.Depth)
	case KindPartitionWidthLimit:
		return partitionWidthLimit(work, spec.Width)
	case KindDropUnconnectedNodes:
		return dropUnconnectedNodes(work)
	case KindNodeLabelMaxLength:
		return nodeLabelMaxLength(work, spec.MaxLength)
	case KindEdgeLabelMaxLength:
		return edgeLabelMaxLength(work, spec.MaxLength)
	case KindNodeLabelInsertNewlines:
		return nodeLabelInsertNewlines(work, spec.WrapWidth)
	case KindEdgeLabelInsertNewlines:
		return edgeLabelInsertNewlines(work, spec.WrapWidth)
	case KindInvertGraph:
		return invertGraph(work)
	case KindGenerateHierarchy:
		return generateHierarchy(work)
	case KindAggregateLayerNodes:
		return aggregateLayerNodes(work, spec.Threshold)
	case KindAggregateEdges:
		return aggregateEdges(work)
	default:
		return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, string(spec.Kind),
			"unknown transform kind %q", spec.Kind)
	}
}

// ApplySequence applies specs left to right, in the order a Transform
// node's configuration lists them. It stops at the first failure.
func ApplySequence(g *graph.Graph, specs []Spec) (*graph.Graph, error) {
	cur := g
	for i, spec := range specs {
		next, err := Apply(cur, spec)
		if err != nil {
			return nil, fmt.Errorf("transform %d (%s): %w", i, spec.Kind, err)
		}
		cur = next
	}
	return cur, nil
}
