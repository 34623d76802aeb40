package expr

import (
	"fmt"
	"math"
	"strconv"
)

// Node is a node in the ordered binary syntax tree.
type Node interface {
	String() string
}

// Ident is a variable reference.
type Ident struct {
	Name string
}

func (i *Ident) String() string { return i.Name }

// Number is a numeric literal. Literal keeps the source spelling so the
// DAG can key constants by their written form.
type Number struct {
	Value   float64
	Literal string
}

func (n *Number) String() string { return n.Literal }

// Unary is a prefix operation. The only prefix operator is '-'.
type Unary struct {
	Operator string
	Operand  Node
}

func (u *Unary) String() string {
	return fmt.Sprintf("(%s%s)", u.Operator, u.Operand)
}

// Binary is an infix operation. Left/Right order matches the source text.
type Binary struct {
	Operator string
	Left     Node
	Right    Node
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Operator, b.Right)
}

// Eval evaluates the tree with the given variable bindings.
func Eval(node Node, bindings map[string]float64) (float64, error) {
	switch n := node.(type) {
	case *Ident:
		v, ok := bindings[n.Name]
		if !ok {
			return 0, fmt.Errorf("unbound variable %q", n.Name)
		}
		return v, nil
	case *Number:
		return n.Value, nil
	case *Unary:
		v, err := Eval(n.Operand, bindings)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case *Binary:
		left, err := Eval(n.Left, bindings)
		if err != nil {
			return 0, err
		}
		right, err := Eval(n.Right, bindings)
		if err != nil {
			return 0, err
		}
		return applyOperator(n.Operator, left, right)
	default:
		return 0, fmt.Errorf("unknown node type %T", node)
	}
}

func applyOperator(op string, left, right float64) (float64, error) {
	switch op {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return left / right, nil
	case "^":
		return math.Pow(left, right), nil
	default:
		return 0, fmt.Errorf("unknown operator %q", op)
	}
}

// ParseNumber converts a numeric literal back to its value.
func ParseNumber(literal string) (float64, bool) {
	v, err := strconv.ParseFloat(literal, 64)
	return v, err == nil
}
