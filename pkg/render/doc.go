// Package render implements the render preparation and exporter catalog
// of spec §4.6 and §6: splitting a graph into its flow and hierarchy
// views, resolving a layer palette with per-dataset overrides, and
// rendering the prepared view through one of the format exporters (JSON,
// CSV, DOT, GML, Mermaid, PlantUML, JS-Graph, or a user-supplied
// template).
//
// Every built-in exporter has the shape `(Prepared, Config) (string, error)`
// and is registered in [Exporters]; the Custom exporter is dispatched
// separately because it also needs a [TemplateEngine]. [Export] is the
// single dispatch point a GraphArtefact/TreeArtefact node calls.
package render
