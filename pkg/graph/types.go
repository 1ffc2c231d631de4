package graph

// Node is a single entity in a Graph. A partition node represents a
// container; non-partition nodes are flow nodes. BelongsTo, when set,
// always references another node's id that has IsPartition = true.
type Node struct {
	ID          string         `json:"id" bson:"id"`
	Label       string         `json:"label" bson:"label"`
	Layer       string         `json:"layer,omitempty" bson:"layer,omitempty"`
	IsPartition bool           `json:"is_partition" bson:"is_partition"`
	BelongsTo   string         `json:"belongs_to,omitempty" bson:"belongs_to,omitempty"`
	Weight      int            `json:"weight" bson:"weight"`
	Comment     string         `json:"comment,omitempty" bson:"comment,omitempty"`
	Dataset     string         `json:"dataset,omitempty" bson:"dataset,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty" bson:"attributes,omitempty"`
}

// Clone returns a deep copy of the node, safe to mutate independently of
// the original.
func (n Node) Clone() Node {
	n.Attributes = cloneAttrs(n.Attributes)
	return n
}

// Edge is a directed, weighted connection between two node ids. Source and
// Target must resolve to node ids in the owning graph unless the graph is
// transiently dangling-allowed during a transform.
type Edge struct {
	ID         string         `json:"id" bson:"id"`
	Source     string         `json:"source" bson:"source"`
	Target     string         `json:"target" bson:"target"`
	Label      string         `json:"label,omitempty" bson:"label,omitempty"`
	Layer      string         `json:"layer,omitempty" bson:"layer,omitempty"`
	Weight     int            `json:"weight" bson:"weight"`
	Comment    string         `json:"comment,omitempty" bson:"comment,omitempty"`
	Dataset    string         `json:"dataset,omitempty" bson:"dataset,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty" bson:"attributes,omitempty"`
}

// Clone returns a deep copy of the edge.
func (e Edge) Clone() Edge {
	e.Attributes = cloneAttrs(e.Attributes)
	return e
}

// Layer is a style bucket referenced by Node.Layer and Edge.Layer. Colors
// are hex triplets without the leading '#'; renderers add it.
type Layer struct {
	ID              string         `json:"id" bson:"id"`
	Label           string         `json:"label" bson:"label"`
	BackgroundColor string         `json:"background_color" bson:"background_color"`
	TextColor       string         `json:"text_color" bson:"text_color"`
	BorderColor     string         `json:"border_color" bson:"border_color"`
	Alias           string         `json:"alias,omitempty" bson:"alias,omitempty"`
	Dataset         string         `json:"dataset,omitempty" bson:"dataset,omitempty"`
	Attributes      map[string]any `json:"attributes,omitempty" bson:"attributes,omitempty"`
}

// Clone returns a deep copy of the layer.
func (l Layer) Clone() Layer {
	l.Attributes = cloneAttrs(l.Attributes)
	return l
}

// Default layer styling applied by render preparation when a referenced
// layer id is absent from the graph's layer set.
const (
	DefaultBackgroundColor = "222222"
	DefaultTextColor       = "ffffff"
	DefaultBorderColor     = "dddddd"
)

// Graph is a named value with four collections and an annotation log.
// Nodes and edges are ordered sequences; layers are keyed by id.
type Graph struct {
	Name            string   `json:"name" bson:"name"`
	Nodes           []Node   `json:"nodes" bson:"nodes"`
	Edges           []Edge   `json:"edges" bson:"edges"`
	Layers          []Layer  `json:"layers" bson:"layers"`
	Annotations     []string `json:"annotations,omitempty" bson:"annotations,omitempty"`
	DanglingAllowed bool     `json:"dangling_allowed,omitempty" bson:"dangling_allowed,omitempty"`
}

// New returns an empty, trivially valid graph with the given name.
func New(name string) *Graph {
	return &Graph{Name: name}
}

// Clone returns a deep copy of the graph so transforms can work on a local
// copy and swap on success without aliasing the original.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		Name:            g.Name,
		DanglingAllowed: g.DanglingAllowed,
		Nodes:           make([]Node, len(g.Nodes)),
		Edges:           make([]Edge, len(g.Edges)),
		Layers:          make([]Layer, len(g.Layers)),
		Annotations:     append([]string(nil), g.Annotations...),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = n.Clone()
	}
	for i, e := range g.Edges {
		out.Edges[i] = e.Clone()
	}
	for i, l := range g.Layers {
		out.Layers[i] = l.Clone()
	}
	return out
}

// AppendAnnotation appends a markdown log entry describing an applied
// operation. The log is order-preserving across transforms.
func (g *Graph) AppendAnnotation(text string) {
	g.Annotations = append(g.Annotations, text)
}

func cloneAttrs(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
