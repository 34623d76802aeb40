// Package dag converts expression trees into directed acyclic graphs with
// shared common subexpressions, and computes Sethi-Ullman register labels.
//
// Nodes live in an arena and reference each other by stable integer index,
// never by pointer. The arena is append-only: a node is only ever built
// from indices of nodes that already exist, so the graph is acyclic by
// construction. Operand indices are therefore always smaller than the
// index of the node that uses them.
package dag

// Kind classifies a DAG node.
type Kind int

const (
	Variable Kind = iota
	Constant
	Operation
)

func (k Kind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Constant:
		return "constant"
	case Operation:
		return "operation"
	default:
		return "unknown"
	}
}

// Node is a single arena entry. Label is filled by Label, Register by the
// code generator.
type Node struct {
	ID          int
	Kind        Kind
	Name        string // variable name or constant literal
	Op          string // operator, Operation nodes only
	Operands    []int  // ordered; order is significant for non-commutative ops
	Label       int
	ParentCount int // number of operand slots that reference this node
	Register    string
}

// IsLeaf reports whether the node is a variable or constant.
func (n *Node) IsLeaf() bool { return n.Kind != Operation }

// Graph is an arena of nodes plus the root index.
type Graph struct {
	Nodes []Node
	Root  int
}

// Text renders the label text for a node: the name for leaves, the
// operator symbol for operations.
func (g *Graph) Text(id int) string {
	n := &g.Nodes[id]
	if n.IsLeaf() {
		return n.Name
	}
	return n.Op
}

// OperationCount returns the number of operation nodes. The code
// generator emits exactly one instruction per operation node.
func (g *Graph) OperationCount() int {
	count := 0
	for i := range g.Nodes {
		if g.Nodes[i].Kind == Operation {
			count++
		}
	}
	return count
}

// RootLabel returns the label of the root node.
func (g *Graph) RootLabel() int {
	return g.Nodes[g.Root].Label
}

// Expr renders the subexpression rooted at id as infix text.
func (g *Graph) Expr(id int) string {
	n := &g.Nodes[id]
	switch {
	case n.IsLeaf():
		return n.Name
	case len(n.Operands) == 1:
		return n.Op + g.Expr(n.Operands[0])
	default:
		return "(" + g.Expr(n.Operands[0]) + " " + n.Op + " " + g.Expr(n.Operands[1]) + ")"
	}
}

// Commutative reports whether the operator admits operand reordering.
func Commutative(op string) bool {
	return op == "+" || op == "*"
}
