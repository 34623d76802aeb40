package dag

import (
	"fmt"

	"github.com/pflow-xyz/go-regalloc/expr"
)

// Builder constructs a Graph with structural sharing. Two structurally
// identical subexpressions always resolve to the same node: the lookup key
// for a commutative operator sorts the operand ids, so a+b and b+a map to
// one node, while the stored operand order stays exactly as requested.
type Builder struct {
	nodes []Node
	index map[string]int
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// Leaf interns a variable or constant node and returns its index.
func (b *Builder) Leaf(kind Kind, name string) int {
	key := fmt.Sprintf("leaf/%d/%s", kind, name)
	if id, ok := b.index[key]; ok {
		return id
	}
	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{ID: id, Kind: kind, Name: name})
	b.index[key] = id
	return id
}

// Op interns an operation node over already-built operand indices and
// returns its index. Reusing an existing node increments the parent count
// of nothing; a fresh node increments the parent count of each operand.
func (b *Builder) Op(op string, operands ...int) int {
	key := opKey(op, operands)
	if id, ok := b.index[key]; ok {
		return id
	}
	id := len(b.nodes)
	stored := make([]int, len(operands))
	copy(stored, operands)
	b.nodes = append(b.nodes, Node{ID: id, Kind: Operation, Op: op, Operands: stored})
	b.index[key] = id
	for _, operand := range operands {
		b.nodes[operand].ParentCount++
	}
	return id
}

// Finish seals the arena into a Graph rooted at the given index.
func (b *Builder) Finish(root int) *Graph {
	return &Graph{Nodes: b.nodes, Root: root}
}

// opKey normalizes the structural key. Only the key is normalized for
// commutative operators; stored operand order is never touched.
func opKey(op string, operands []int) string {
	ids := operands
	if Commutative(op) && len(operands) == 2 && operands[0] > operands[1] {
		ids = []int{operands[1], operands[0]}
	}
	key := "op/" + op
	for _, id := range ids {
		key += fmt.Sprintf("/%d", id)
	}
	return key
}

// Build converts a syntax tree into a DAG, unifying structurally
// identical subexpressions bottom-up.
func Build(root expr.Node) *Graph {
	b := NewBuilder()
	return b.Finish(b.build(root))
}

func (b *Builder) build(node expr.Node) int {
	switch n := node.(type) {
	case *expr.Ident:
		return b.Leaf(Variable, n.Name)
	case *expr.Number:
		return b.Leaf(Constant, n.Literal)
	case *expr.Unary:
		operand := b.build(n.Operand)
		return b.Op(n.Operator, operand)
	case *expr.Binary:
		left := b.build(n.Left)
		right := b.build(n.Right)
		return b.Op(n.Operator, left, right)
	default:
		// Parse never produces other node types.
		panic(fmt.Sprintf("dag: unknown expression node %T", node))
	}
}

// Parents returns, for every node, the ids of the nodes that reference it,
// in arena order. Arena order is also creation order, so the first entry
// is the first-encountered parent.
func (g *Graph) Parents() [][]int {
	parents := make([][]int, len(g.Nodes))
	for id := range g.Nodes {
		for _, operand := range g.Nodes[id].Operands {
			parents[operand] = append(parents[operand], id)
		}
	}
	return parents
}
