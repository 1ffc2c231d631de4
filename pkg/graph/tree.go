package graph

import "sort"

// TreeNode is one node of the forest induced by belongs_to: roots are
// nodes with BelongsTo == "", each internal node is a partition, each leaf
// is either a childless partition or a flow node.
type TreeNode struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	IsLeaf   bool       `json:"is_leaf"`
	Children []TreeNode `json:"children,omitempty"`
}

// BuildTree derives the hierarchy forest from g's belongs_to relation.
// Roots are returned sorted by id for deterministic output.
func BuildTree(g *Graph) []TreeNode {
	byParent := make(map[string][]Node, len(g.Nodes))
	var roots []Node
	for _, n := range g.Nodes {
		if n.BelongsTo == "" {
			roots = append(roots, n)
			continue
		}
		byParent[n.BelongsTo] = append(byParent[n.BelongsTo], n)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].ID < roots[j].ID })

	var build func(n Node) TreeNode
	build = func(n Node) TreeNode {
		kids := byParent[n.ID]
		sort.Slice(kids, func(i, j int) bool { return kids[i].ID < kids[j].ID })
		tn := TreeNode{ID: n.ID, Label: n.Label, IsLeaf: len(kids) == 0}
		for _, k := range kids {
			tn.Children = append(tn.Children, build(k))
		}
		return tn
	}

	out := make([]TreeNode, 0, len(roots))
	for _, r := range roots {
		out = append(out, build(r))
	}
	return out
}

// BuildJSONTree is [BuildTree] wrapped under a synthetic forest root for
// exporters that require a single top-level JSON value.
func BuildJSONTree(g *Graph) TreeNode {
	return TreeNode{ID: "", Label: g.Name, Children: BuildTree(g)}
}

// TreeEdge is a parent-child pair in the flattened hierarchy tree form,
// used by exporters that render the tree as an edge list (Mermaid
// mindmap/treemap, PlantUML mindmap/WBS).
type TreeEdge struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
}

// BuildTreeFromEdges flattens [BuildTree] into parent-child pairs ordered
// by a depth-first, id-sorted walk.
func BuildTreeFromEdges(g *Graph) []TreeEdge {
	var edges []TreeEdge
	var walk func(n TreeNode)
	walk = func(n TreeNode) {
		for _, c := range n.Children {
			edges = append(edges, TreeEdge{Parent: n.ID, Child: c.ID})
			walk(c)
		}
	}
	for _, r := range BuildTree(g) {
		walk(r)
	}
	return edges
}
