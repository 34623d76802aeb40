// Package codegen walks a labeled expression DAG in evaluation order,
// assigns and releases virtual registers, and emits a three-address
// instruction sequence with a matching human-readable allocation trace.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pflow-xyz/go-regalloc/dag"
)

// Operand is one source slot of an instruction. A value read from a
// register carries the register name; a leaf read straight from memory
// carries its name or literal text.
type Operand struct {
	Register string `json:"register,omitempty"`
	Text     string `json:"text,omitempty"`
}

func (o Operand) String() string {
	if o.Register != "" {
		return o.Register
	}
	return o.Text
}

// Instruction is one three-address instruction: a destination register,
// an operator, and one or two source operands.
type Instruction struct {
	Dest     string    `json:"dest"`
	Op       string    `json:"op"`
	Operands []Operand `json:"operands"`
}

func (in Instruction) String() string {
	if len(in.Operands) == 1 {
		return fmt.Sprintf("%s = %s%s", in.Dest, in.Op, in.Operands[0])
	}
	return fmt.Sprintf("%s = %s %s %s", in.Dest, in.Operands[0], in.Op, in.Operands[1])
}

// LiveRange is the span of instruction indices during which a node's
// value occupies its register, from assignment to last consuming use.
type LiveRange struct {
	Node     int    `json:"node"`
	Register string `json:"register"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// Allocation is the result of code generation for one DAG.
type Allocation struct {
	Instructions []Instruction
	Steps        []string
	MinRegisters int // root label
	PoolSize     int // registers actually drawn from the pool
	LiveRanges   []LiveRange
}

// Summary renders the allocation as human-readable text: instructions,
// numbered steps, live ranges, and the register minimum.
func (a *Allocation) Summary() string {
	var b strings.Builder

	b.WriteString("Three-address code:\n")
	for _, in := range a.Instructions {
		fmt.Fprintf(&b, "  %s\n", in)
	}

	b.WriteString("\nAllocation steps:\n")
	for i, step := range a.Steps {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
	}

	b.WriteString("\nLive ranges:\n")
	for _, r := range a.LiveRanges {
		fmt.Fprintf(&b, "  node %d in %s: instructions %d..%d\n",
			r.Node, r.Register, r.Start, r.End)
	}

	fmt.Fprintf(&b, "\nMinimum registers required: %d\n", a.MinRegisters)
	return b.String()
}

// BudgetError reports that a caller-supplied register budget is smaller
// than the expression requires. Needed is the pool size at the point of
// failure; sharing in the DAG can demand more registers still, so it is
// a lower bound on the true requirement. Spilling is not supported.
type BudgetError struct {
	Needed int
	Budget int
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("expression needs %d registers but the budget allows %d", e.Needed, e.Budget)
}

// Generate emits code for the DAG with an unbounded register pool. The
// pool starts at the root label and grows only if the DAG's sharing
// pattern demands it.
func Generate(g *dag.Graph) (*Allocation, error) {
	return GenerateWithBudget(g, 0)
}

// GenerateWithBudget emits code with a fixed register budget. A budget of
// zero means unbounded. Exceeding a positive budget returns *BudgetError.
func GenerateWithBudget(g *dag.Graph, budget int) (*Allocation, error) {
	rootLabel := g.RootLabel()
	if budget > 0 && budget < rootLabel {
		return nil, &BudgetError{Needed: rootLabel, Budget: budget}
	}

	gen := &generator{
		g:       g,
		pool:    &registerPool{budget: budget},
		live:    make([]int, len(g.Nodes)),
		visited: make([]bool, len(g.Nodes)),
		ranges:  make(map[int]*LiveRange),
	}
	for id := range g.Nodes {
		gen.live[id] = g.Nodes[id].ParentCount
	}

	if err := gen.emit(g.Root); err != nil {
		return nil, err
	}

	return &Allocation{
		Instructions: gen.instructions,
		Steps:        gen.steps,
		MinRegisters: rootLabel,
		PoolSize:     gen.pool.high,
		LiveRanges:   gen.sortedRanges(),
	}, nil
}

// registerPool hands out virtual registers R1..Rk, always reusing the
// lowest-numbered free register first.
type registerPool struct {
	free   []int
	next   int // highest register number handed out so far
	high   int
	budget int
}

func (p *registerPool) alloc() (string, error) {
	if len(p.free) > 0 {
		sort.Ints(p.free)
		r := p.free[0]
		p.free = p.free[1:]
		return registerName(r), nil
	}
	if p.budget > 0 && p.next >= p.budget {
		return "", &BudgetError{Needed: p.next + 1, Budget: p.budget}
	}
	p.next++
	if p.next > p.high {
		p.high = p.next
	}
	return registerName(p.next), nil
}

func (p *registerPool) release(name string) {
	var r int
	if n, _ := fmt.Sscanf(name, "R%d", &r); n != 1 {
		return
	}
	p.free = append(p.free, r)
}

func registerName(r int) string { return fmt.Sprintf("R%d", r) }

type generator struct {
	g            *dag.Graph
	pool         *registerPool
	live         []int // per-node uses not yet consumed
	visited      []bool
	instructions []Instruction
	steps        []string
	ranges       map[int]*LiveRange
}

// emit evaluates the node rooted at id. An operation node is visited for
// code emission exactly once; later encounters reuse its register.
func (gen *generator) emit(id int) error {
	if gen.visited[id] {
		return nil
	}
	gen.visited[id] = true

	n := &gen.g.Nodes[id]
	if n.IsLeaf() {
		// Leaves contribute when first consumed by an operation.
		return nil
	}

	// Evaluate the child with the larger label first so the heavier
	// subtree is not blocked by registers held for the lighter one.
	// Ties keep source order.
	order := make([]int, len(n.Operands))
	copy(order, n.Operands)
	sort.SliceStable(order, func(i, j int) bool {
		return gen.g.Nodes[order[i]].Label > gen.g.Nodes[order[j]].Label
	})
	for _, operand := range order {
		if err := gen.emit(operand); err != nil {
			return err
		}
	}

	return gen.emitInstruction(id)
}

func (gen *generator) emitInstruction(id int) error {
	n := &gen.g.Nodes[id]
	index := len(gen.instructions)
	var notes []string

	// A left-occupying leaf (label 1) is assigned a register at its first
	// consumption; it is never loaded by a separate instruction.
	for _, operand := range n.Operands {
		o := &gen.g.Nodes[operand]
		if o.IsLeaf() && o.Label >= 1 && o.Register == "" {
			reg, err := gen.pool.alloc()
			if err != nil {
				return err
			}
			o.Register = reg
			gen.ranges[operand] = &LiveRange{Node: operand, Register: reg, Start: index, End: index}
			notes = append(notes, fmt.Sprintf("%s occupies %s", o.Name, reg))
		}
	}

	// Source operands: register for computed values, name or literal for
	// leaves read directly from memory.
	operands := make([]Operand, len(n.Operands))
	for i, operand := range n.Operands {
		o := &gen.g.Nodes[operand]
		if o.Kind == dag.Operation {
			operands[i] = Operand{Register: o.Register}
		} else {
			operands[i] = Operand{Text: o.Name}
		}
	}

	// Consume the uses; registers come back to the pool at last use.
	for _, operand := range n.Operands {
		gen.live[operand]--
		o := &gen.g.Nodes[operand]
		if r := gen.ranges[operand]; r != nil {
			r.End = index
		}
		if gen.live[operand] == 0 && o.Register != "" {
			gen.pool.release(o.Register)
			notes = append(notes, fmt.Sprintf("%s freed (last use of %s)", o.Register, gen.g.Expr(operand)))
			o.Register = ""
		}
	}

	dest, err := gen.pool.alloc()
	if err != nil {
		return err
	}
	n.Register = dest
	gen.ranges[id] = &LiveRange{Node: id, Register: dest, Start: index, End: index}

	in := Instruction{Dest: dest, Op: n.Op, Operands: operands}
	gen.instructions = append(gen.instructions, in)

	step := fmt.Sprintf("%s: assign %s to %s", in, dest, gen.g.Expr(id))
	if len(notes) > 0 {
		step += "; " + strings.Join(notes, "; ")
	}
	gen.steps = append(gen.steps, step)
	return nil
}

func (gen *generator) sortedRanges() []LiveRange {
	ranges := make([]LiveRange, 0, len(gen.ranges))
	for _, r := range gen.ranges {
		ranges = append(ranges, *r)
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start != ranges[j].Start {
			return ranges[i].Start < ranges[j].Start
		}
		return ranges[i].Node < ranges[j].Node
	})
	return ranges
}
