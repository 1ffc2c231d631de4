package transform

import (
	"strconv"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/graph"
)

const ellipsis = "…"

// truncateLabel truncates s to maxLen code points, appending an ellipsis
// sentinel when truncation occurs.
func truncateLabel(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ellipsis
	}
	return string(runes[:maxLen]) + ellipsis
}

// wrapLabel inserts a newline at each multiple of width columns, preferring
// the most recent whitespace within the preceding width/4 columns over a
// hard break mid-word.
func wrapLabel(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	lookback := width / 4
	var out []rune
	col := 0
	for i := 0; i < len(runes); i++ {
		out = append(out, runes[i])
		col++
		if col < width {
			continue
		}
		breakAt := -1
		for j := len(out) - 1; j >= 0 && len(out)-1-j <= lookback; j-- {
			if out[j] == ' ' || out[j] == '\t' {
				breakAt = j
				break
			}
		}
		if breakAt >= 0 {
			out[breakAt] = '\n'
			col = len(out) - 1 - breakAt
		} else {
			out = append(out, '\n')
			col = 0
		}
	}
	return string(out)
}

func nodeLabelMaxLength(g *graph.Graph, maxLen int) (*graph.Graph, error) {
	if maxLen <= 0 {
		return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, "NodeLabelMaxLength",
			"max length must be positive, got %d", maxLen)
	}
	for i := range g.Nodes {
		g.Nodes[i].Label = truncateLabel(g.Nodes[i].Label, maxLen)
	}
	g.AppendAnnotation("Node label max length: " + strconv.Itoa(maxLen))
	return g, nil
}

func edgeLabelMaxLength(g *graph.Graph, maxLen int) (*graph.Graph, error) {
	if maxLen <= 0 {
		return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, "EdgeLabelMaxLength",
			"max length must be positive, got %d", maxLen)
	}
	for i := range g.Edges {
		g.Edges[i].Label = truncateLabel(g.Edges[i].Label, maxLen)
	}
	g.AppendAnnotation("Edge label max length: " + strconv.Itoa(maxLen))
	return g, nil
}

func nodeLabelInsertNewlines(g *graph.Graph, width int) (*graph.Graph, error) {
	if width <= 0 {
		return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, "NodeLabelInsertNewlines",
			"wrap width must be positive, got %d", width)
	}
	for i := range g.Nodes {
		g.Nodes[i].Label = wrapLabel(g.Nodes[i].Label, width)
	}
	g.AppendAnnotation("Node label wrap width: " + strconv.Itoa(width))
	return g, nil
}

func edgeLabelInsertNewlines(g *graph.Graph, width int) (*graph.Graph, error) {
	if width <= 0 {
		return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, "EdgeLabelInsertNewlines",
			"wrap width must be positive, got %d", width)
	}
	for i := range g.Edges {
		g.Edges[i].Label = wrapLabel(g.Edges[i].Label, width)
	}
	g.AppendAnnotation("Edge label wrap width: " + strconv.Itoa(width))
	return g, nil
}
