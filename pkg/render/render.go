package render

// Target is a supported render target, per spec §6's table.
type Target string

// Supported render targets.
const (
	TargetDOT               Target = "dot"
	TargetGML               Target = "gml"
	TargetJSON              Target = "json"
	TargetCSV               Target = "csv"
	TargetCSVNodes          Target = "csv_nodes"
	TargetCSVEdges          Target = "csv_edges"
	TargetCSVMatrix         Target = "csv_matrix"
	TargetPlantUML          Target = "plantuml"
	TargetPlantUMLMindmap   Target = "plantuml_mindmap"
	TargetPlantUMLWBS       Target = "plantuml_wbs"
	TargetMermaid           Target = "mermaid"
	TargetMermaidMindmap    Target = "mermaid_mindmap"
	TargetMermaidTreemap    Target = "mermaid_treemap"
	TargetJSGraph           Target = "js_graph"
	TargetCustom            Target = "custom"
)

// TargetInfo carries the user-facing extension and mime type for a
// Target, per spec §6's table.
type TargetInfo struct {
	Extension string
	MIME      string
}

// targetInfo maps every built-in Target to its extension and mime type.
// Custom is absent here: its extension is user-chosen (spec §6).
var targetInfo = map[Target]TargetInfo{
	TargetDOT:             {Extension: "dot", MIME: "text/vnd.graphviz"},
	TargetGML:             {Extension: "gml", MIME: "text/plain"},
	TargetJSON:            {Extension: "json", MIME: "application/json"},
	TargetCSV:             {Extension: "csv", MIME: "text/csv"},
	TargetCSVNodes:        {Extension: "csv", MIME: "text/csv"},
	TargetCSVEdges:        {Extension: "csv", MIME: "text/csv"},
	TargetCSVMatrix:       {Extension: "csv", MIME: "text/csv"},
	TargetPlantUML:        {Extension: "puml", MIME: "text/plain"},
	TargetPlantUMLMindmap: {Extension: "puml", MIME: "text/plain"},
	TargetPlantUMLWBS:     {Extension: "puml", MIME: "text/plain"},
	TargetMermaid:         {Extension: "mermaid", MIME: "text/plain"},
	TargetMermaidMindmap:  {Extension: "mmd", MIME: "text/plain"},
	TargetMermaidTreemap:  {Extension: "mmd", MIME: "text/plain"},
	TargetJSGraph:         {Extension: "js", MIME: "text/plain"},
}

// Info returns t's extension and mime type. Custom targets return the
// config's user-chosen extension and a "text/plain" mime, per spec §6.
func (t Target) Info(cfg Config) TargetInfo {
	if t == TargetCustom {
		ext := cfg.CustomExtension
		if ext == "" {
			ext = "txt"
		}
		return TargetInfo{Extension: ext, MIME: "text/plain"}
	}
	return targetInfo[t]
}

// Palette selects a named style preset applied on top of a layer's own
// colors, per spec §4.6's "per-dataset style overrides from the render
// config (Default | Light | Dark palettes)".
type Palette string

// Supported palettes.
const (
	PaletteDefault Palette = "default"
	PaletteLight   Palette = "light"
	PaletteDark    Palette = "dark"
)

// Style overrides a layer's colors outright; used both for the named
// Palette presets and for the per-dataset overrides map.
type Style struct {
	BackgroundColor string
	TextColor       string
	BorderColor     string
}

// paletteStyles are applied to every layer unless a more specific
// per-dataset override exists.
var paletteStyles = map[Palette]Style{
	PaletteLight: {BackgroundColor: "f5f5f5", TextColor: "222222", BorderColor: "cccccc"},
	PaletteDark:  {BackgroundColor: "1e1e1e", TextColor: "f5f5f5", BorderColor: "444444"},
}

// Config parameterizes render preparation and every exporter.
type Config struct {
	Target Target
	Name   string

	// Palette is the global style preset; PaletteDefault leaves a
	// layer's own colors untouched.
	Palette Palette
	// DatasetStyleOverrides overrides colors per dataset id, taking
	// precedence over Palette.
	DatasetStyleOverrides map[string]Style

	// PropagateWeights, when false, resets every node/edge weight to 1
	// before rendering (spec §4.6).
	PropagateWeights bool

	// CustomTemplate and CustomPartials back the Custom exporter (spec
	// §4.6's template-driven contract).
	CustomTemplate  string
	CustomPartials  map[string]string
	CustomExtension string
}
