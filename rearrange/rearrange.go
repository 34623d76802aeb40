// Package rearrange searches a bounded space of algebraically equivalent
// DAG shapes for one with a lower root label.
//
// Only the commutative/associative operator families + and * are
// rewritten; -, /, ^, and unary minus keep their operand order. The
// search is a fixed set of whole-DAG strategies over maximal same-operator
// chains, so it runs in time linear in DAG size. It is a heuristic, not a
// global optimum, for chains longer than a small constant.
package rearrange

import (
	"sort"

	"github.com/pflow-xyz/go-regalloc/dag"
)

type strategy int

const (
	// original rebuilds the DAG unchanged: the idempotent fallback.
	original strategy = iota
	// canonical reorders each chain by descending operand label and
	// brackets it left-skewed, the classic register-minimizing shape.
	canonical
	// balanced brackets each reordered chain as a balanced tree.
	balanced
)

// Rearrange returns an algebraically equivalent DAG whose root label is
// never higher than the input's. When no rewrite improves the label it
// returns a structural copy of the input. The multiset of leaves combined
// by each commutative chain is invariant under every applied rewrite.
//
// Ties between shapes with the same root label are broken by total node
// count, then by a fixed strategy order.
func Rearrange(g *dag.Graph) *dag.Graph {
	best := rebuild(g, original)
	for _, s := range []strategy{canonical, balanced} {
		candidate := rebuild(g, s)
		if better(candidate, best) {
			best = candidate
		}
	}
	return best
}

func better(candidate, best *dag.Graph) bool {
	if candidate.RootLabel() != best.RootLabel() {
		return candidate.RootLabel() < best.RootLabel()
	}
	return len(candidate.Nodes) < len(best.Nodes)
}

// rebuild copies g into a fresh arena, rewriting commutative chains
// according to the strategy. Shared nodes stay shared: structural
// interning in the builder reunifies identical subexpressions.
func rebuild(g *dag.Graph, s strategy) *dag.Graph {
	b := dag.NewBuilder()
	memo := make(map[int]int)

	var visit func(id int) int
	visit = func(id int) int {
		if built, ok := memo[id]; ok {
			return built
		}
		n := &g.Nodes[id]

		var built int
		switch {
		case n.IsLeaf():
			built = b.Leaf(n.Kind, n.Name)
		case s != original && dag.Commutative(n.Op):
			members := chain(g, id, n.Op)
			operands := make([]member, len(members))
			for i, m := range members {
				operands[i] = member{id: visit(m), weight: g.Nodes[m].Label}
			}
			// Heavier operands first; stable so equal weights keep
			// their source order.
			sort.SliceStable(operands, func(i, j int) bool {
				return operands[i].weight > operands[j].weight
			})
			if s == balanced {
				built = bracketBalanced(b, n.Op, operands)
			} else {
				built = bracketLeftSkewed(b, n.Op, operands)
			}
		default:
			rebuilt := make([]int, len(n.Operands))
			for i, operand := range n.Operands {
				rebuilt[i] = visit(operand)
			}
			built = b.Op(n.Op, rebuilt...)
		}

		memo[id] = built
		return built
	}

	root := visit(g.Root)
	return dag.Label(b.Finish(root))
}

type member struct {
	id     int
	weight int
}

// chain collects the maximal operand list of a same-operator chain. A
// chain member that is itself shared (ParentCount > 1) stays atomic, so
// regrouping never breaks structural sharing.
func chain(g *dag.Graph, id int, op string) []int {
	var members []int
	for _, operand := range g.Nodes[id].Operands {
		o := &g.Nodes[operand]
		if o.Kind == dag.Operation && o.Op == op && o.ParentCount == 1 {
			members = append(members, chain(g, operand, op)...)
		} else {
			members = append(members, operand)
		}
	}
	return members
}

func bracketLeftSkewed(b *dag.Builder, op string, operands []member) int {
	acc := operands[0].id
	for _, m := range operands[1:] {
		acc = b.Op(op, acc, m.id)
	}
	return acc
}

func bracketBalanced(b *dag.Builder, op string, operands []member) int {
	if len(operands) == 1 {
		return operands[0].id
	}
	mid := (len(operands) + 1) / 2
	left := bracketBalanced(b, op, operands[:mid])
	right := bracketBalanced(b, op, operands[mid:])
	return b.Op(op, left, right)
}
