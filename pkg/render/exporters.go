package render

import (
	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/graph"
)

// Exporter renders a prepared view to the target's text form. Custom is
// handled separately by [Export] since it additionally needs a
// [TemplateEngine].
type Exporter func(p Prepared, cfg Config) (string, error)

// Exporters is the catalog of built-in exporters, keyed by [Target].
var Exporters = map[Target]Exporter{
	TargetJSON:            exportJSON,
	TargetCSV:             exportCSVNodes,
	TargetCSVNodes:        exportCSVNodes,
	TargetCSVEdges:        exportCSVEdges,
	TargetCSVMatrix:       exportCSVMatrix,
	TargetDOT:             exportDOT,
	TargetGML:             exportGML,
	TargetMermaid:         exportMermaid,
	TargetMermaidMindmap:  exportMermaidMindmap,
	TargetMermaidTreemap:  exportMermaidTreemap,
	TargetPlantUML:        exportPlantUML,
	TargetPlantUMLMindmap: exportPlantUMLMindmap,
	TargetPlantUMLWBS:     exportPlantUMLWBS,
	TargetJSGraph:         exportJSGraph,
}

// Export prepares g per cfg and renders it through the exporter named by
// cfg.Target. engine is only consulted for TargetCustom; pass nil to use
// [StdTemplateEngine]. Any render failure surfaces as a
// Rendering/ExporterFailure or Rendering/UnsupportedFormat error naming
// the exporter, per spec §4.6.
func Export(g *graph.Graph, cfg Config, engine TemplateEngine) (string, error) {
	p := Prepare(g, cfg)

	if cfg.Target == TargetCustom {
		return exportCustom(p, cfg, engine)
	}

	exporter, ok := Exporters[cfg.Target]
	if !ok {
		return "", cerrors.New(cerrors.KindRendering, cerrors.CodeUnsupportedFormat, string(cfg.Target),
			"unsupported render target %q", cfg.Target)
	}
	return exporter(p, cfg)
}
