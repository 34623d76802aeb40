package results

import "github.com/pflow-xyz/go-regalloc/dag"

// GraphOf projects a DAG into the node/edge view consumed by renderers.
// Variable and constant leaves both land in the "variable" group;
// operation nodes carry their operator symbol as the label.
func GraphOf(g *dag.Graph) Graph {
	view := Graph{
		Nodes: make([]GraphNode, 0, len(g.Nodes)),
		Edges: make([]GraphEdge, 0, len(g.Nodes)),
	}
	for id := range g.Nodes {
		n := &g.Nodes[id]
		group := "variable"
		if n.Kind == dag.Operation {
			group = "operation"
		}
		view.Nodes = append(view.Nodes, GraphNode{ID: id, Label: g.Text(id), Group: group})
		for _, operand := range n.Operands {
			view.Edges = append(view.Edges, GraphEdge{From: operand, To: id})
		}
	}
	return view
}
