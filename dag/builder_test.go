package dag

import (
	"testing"

	"github.com/pflow-xyz/go-regalloc/expr"
)

func mustBuild(t *testing.T, input string) *Graph {
	t.Helper()
	tree, err := expr.Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", input, err)
	}
	return Build(tree)
}

func TestBuildSharesCommonSubexpressions(t *testing.T) {
	g := mustBuild(t, "(a+b)*(a+b)")

	// a, b, a+b, and the multiplication: four nodes, not six.
	if len(g.Nodes) != 4 {
		t.Fatalf("Expected 4 nodes, got %d", len(g.Nodes))
	}

	root := &g.Nodes[g.Root]
	if root.Op != "*" {
		t.Fatalf("Expected root operator '*', got %q", root.Op)
	}
	if len(root.Operands) != 2 || root.Operands[0] != root.Operands[1] {
		t.Fatalf("Expected both operands to be the shared node, got %v", root.Operands)
	}

	shared := &g.Nodes[root.Operands[0]]
	if shared.Op != "+" {
		t.Errorf("Expected shared node operator '+', got %q", shared.Op)
	}
	if shared.ParentCount != 2 {
		t.Errorf("Expected shared node parent count 2, got %d", shared.ParentCount)
	}
}

func TestBuildCommutativeNormalization(t *testing.T) {
	// a+b and b+a are interchangeable, so they map to one node.
	g := mustBuild(t, "(a+b)*(b+a)")
	if len(g.Nodes) != 4 {
		t.Errorf("Expected 4 nodes for commutative sharing, got %d", len(g.Nodes))
	}

	// a-b and b-a are not interchangeable.
	g = mustBuild(t, "(a-b)*(b-a)")
	if len(g.Nodes) != 5 {
		t.Errorf("Expected 5 nodes for non-commutative operands, got %d", len(g.Nodes))
	}
}

func TestBuildPreservesOperandOrder(t *testing.T) {
	g := mustBuild(t, "b - a")
	root := &g.Nodes[g.Root]
	if g.Nodes[root.Operands[0]].Name != "b" || g.Nodes[root.Operands[1]].Name != "a" {
		t.Errorf("Expected operand order [b a], got [%s %s]",
			g.Nodes[root.Operands[0]].Name, g.Nodes[root.Operands[1]].Name)
	}

	// Normalization applies to the lookup key only: b+a keeps its written
	// order even though it shares a node key with a+b.
	g = mustBuild(t, "b + a")
	root = &g.Nodes[g.Root]
	if g.Nodes[root.Operands[0]].Name != "b" || g.Nodes[root.Operands[1]].Name != "a" {
		t.Errorf("Expected operand order [b a], got [%s %s]",
			g.Nodes[root.Operands[0]].Name, g.Nodes[root.Operands[1]].Name)
	}
}

func TestBuildParentCounts(t *testing.T) {
	g := mustBuild(t, "a*b + a*c + a")
	var a *Node
	for i := range g.Nodes {
		if g.Nodes[i].Kind == Variable && g.Nodes[i].Name == "a" {
			a = &g.Nodes[i]
		}
	}
	if a == nil {
		t.Fatal("Expected a node for variable a")
	}
	if a.ParentCount != 3 {
		t.Errorf("Expected parent count 3 for a, got %d", a.ParentCount)
	}
}

func TestBuildOperandsPrecedeUsers(t *testing.T) {
	g := mustBuild(t, "(a + b) * (c - d / e)")
	for id := range g.Nodes {
		for _, operand := range g.Nodes[id].Operands {
			if operand >= id {
				t.Errorf("Node %d references operand %d, which does not precede it", id, operand)
			}
		}
	}
}

func TestBuildConstantsAndVariablesDistinct(t *testing.T) {
	g := mustBuild(t, "x + 2 + 2 + x")
	variables, constants := 0, 0
	for i := range g.Nodes {
		switch g.Nodes[i].Kind {
		case Variable:
			variables++
		case Constant:
			constants++
		}
	}
	if variables != 1 {
		t.Errorf("Expected 1 variable node, got %d", variables)
	}
	if constants != 1 {
		t.Errorf("Expected 1 constant node, got %d", constants)
	}
}
