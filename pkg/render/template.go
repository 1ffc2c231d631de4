package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
)

// TemplateEngine is the external-collaborator interface from spec §6:
// `render(template_string, context_json) → string`. The core exposes it
// as an interface so a caller can substitute a richer templating engine
// without changing the exporter contract.
type TemplateEngine interface {
	Render(templateString string, contextJSON []byte) (string, error)
}

// StdTemplateEngine is the default [TemplateEngine], backed by the
// standard library's text/template. No ecosystem templating library in
// the retrieved pack is better suited to rendering an arbitrary
// user-supplied string template than text/template itself; see
// DESIGN.md for this package's one deliberate stdlib choice.
type StdTemplateEngine struct {
	// Partials are named sub-templates available to the top-level
	// template via {{template "name" .}}.
	Partials map[string]string
}

// Render parses templateString (plus any configured partials) and
// executes it against the JSON-decoded context.
func (e StdTemplateEngine) Render(templateString string, contextJSON []byte) (string, error) {
	var ctx any
	if err := json.Unmarshal(contextJSON, &ctx); err != nil {
		return "", cerrors.Wrap(cerrors.KindRendering, cerrors.CodeTemplateFailure, "custom", err,
			"decode template context")
	}

	tmpl := template.New("root")
	for name, body := range e.Partials {
		if _, err := tmpl.New(name).Parse(body); err != nil {
			return "", cerrors.Wrap(cerrors.KindRendering, cerrors.CodeTemplateFailure, "custom", err,
				"parse partial %q", name)
		}
	}
	tmpl, err := tmpl.Parse(templateString)
	if err != nil {
		return "", cerrors.Wrap(cerrors.KindRendering, cerrors.CodeTemplateFailure, "custom", err,
			"parse template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", cerrors.Wrap(cerrors.KindRendering, cerrors.CodeTemplateFailure, "custom", err,
			"execute template")
	}
	return buf.String(), nil
}

// customContext is the canonical shape spec §4.6 fixes for the Custom
// exporter, resolving the drift between historical callers.
type customContext struct {
	GraphName      string             `json:"graph_name"`
	Config         Config             `json:"config"`
	HierarchyNodes []exportNode       `json:"hierarchy_nodes"`
	HierarchyTree  []treeNodeView     `json:"hierarchy_tree"`
	FlowNodes      []exportNode       `json:"flow_nodes"`
	FlowEdges      []exportEdge       `json:"flow_edges"`
	Layers         []exportLayer      `json:"layers"`
}

func exportCustom(p Prepared, cfg Config, engine TemplateEngine) (string, error) {
	if engine == nil {
		engine = StdTemplateEngine{Partials: cfg.CustomPartials}
	}
	ctx := customContext{
		GraphName:      p.GraphName,
		Config:         cfg,
		HierarchyNodes: toExportNodes(p.HierarchyNodes),
		HierarchyTree:  toTreeViews(p.Tree),
		FlowNodes:      toExportNodes(p.FlowNodes),
		FlowEdges:      toExportEdges(p.FlowEdges),
		Layers:         toExportLayers(p),
	}
	data, err := json.Marshal(ctx)
	if err != nil {
		return "", cerrors.Wrap(cerrors.KindRendering, cerrors.CodeExporterFailure, "custom", err,
			"marshal custom template context")
	}
	out, err := engine.Render(cfg.CustomTemplate, data)
	if err != nil {
		return "", fmt.Errorf("custom exporter: %w", err)
	}
	return out, nil
}
