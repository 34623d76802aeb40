package codegen

import (
	"errors"
	"strings"
	"testing"

	"github.com/pflow-xyz/go-regalloc/dag"
	"github.com/pflow-xyz/go-regalloc/expr"
	"github.com/pflow-xyz/go-regalloc/rearrange"
)

func buildLabeled(t *testing.T, input string) *dag.Graph {
	t.Helper()
	tree, err := expr.Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", input, err)
	}
	return dag.Label(dag.Build(tree))
}

func instructionStrings(a *Allocation) []string {
	out := make([]string, len(a.Instructions))
	for i, in := range a.Instructions {
		out[i] = in.String()
	}
	return out
}

func TestGenerateReferenceExpression(t *testing.T) {
	g := buildLabeled(t, "a + b * (c + d) - e")
	a, err := Generate(g)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	expected := []string{
		"R1 = c + d",
		"R1 = b * R1",
		"R1 = a + R1",
		"R1 = R1 - e",
	}
	got := instructionStrings(a)
	if len(got) != len(expected) {
		t.Fatalf("Expected %d instructions, got %d: %v", len(expected), len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Expected instruction %d %q, got %q", i, expected[i], got[i])
		}
	}
	if a.MinRegisters != 2 {
		t.Errorf("Expected MinRegisters 2, got %d", a.MinRegisters)
	}
	if a.PoolSize != 2 {
		t.Errorf("Expected PoolSize 2, got %d", a.PoolSize)
	}
}

func TestGenerateSharedSubexpression(t *testing.T) {
	g := buildLabeled(t, "(a+b)*(a+b)")
	a, err := Generate(g)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	expected := []string{
		"R1 = a + b",
		"R1 = R1 * R1",
	}
	got := instructionStrings(a)
	if len(got) != len(expected) {
		t.Fatalf("Expected %d instructions, got %d: %v", len(expected), len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Expected instruction %d %q, got %q", i, expected[i], got[i])
		}
	}
	// The shared value holds one register across both uses.
	if a.PoolSize != 1 {
		t.Errorf("Expected PoolSize 1, got %d", a.PoolSize)
	}
}

func TestGenerateUnary(t *testing.T) {
	g := buildLabeled(t, "-a * b")
	a, err := Generate(g)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	expected := []string{
		"R1 = -a",
		"R1 = R1 * b",
	}
	got := instructionStrings(a)
	if len(got) != len(expected) {
		t.Fatalf("Expected %d instructions, got %d: %v", len(expected), len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Expected instruction %d %q, got %q", i, expected[i], got[i])
		}
	}
}

func TestGenerateOneStepPerInstruction(t *testing.T) {
	inputs := []string{
		"a + b",
		"a + b * (c + d) - e",
		"(a+b)*(a+b)",
		"-a * (b + c) / d",
		"a * b + a * c + a",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			g := buildLabeled(t, input)
			a, err := Generate(g)
			if err != nil {
				t.Fatalf("Generate returned error: %v", err)
			}
			ops := g.OperationCount()
			if len(a.Instructions) != ops {
				t.Errorf("Expected %d instructions, got %d", ops, len(a.Instructions))
			}
			if len(a.Steps) != ops {
				t.Errorf("Expected %d steps, got %d", ops, len(a.Steps))
			}
		})
	}
}

func TestGenerateSingleLeaf(t *testing.T) {
	g := buildLabeled(t, "a")
	a, err := Generate(g)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(a.Instructions) != 0 {
		t.Errorf("Expected no instructions, got %d", len(a.Instructions))
	}
	if a.MinRegisters != 1 {
		t.Errorf("Expected MinRegisters 1, got %d", a.MinRegisters)
	}
}

func TestGenerateBudgetError(t *testing.T) {
	g := buildLabeled(t, "(a + b) * (c + d)")
	_, err := GenerateWithBudget(g, 1)
	if err == nil {
		t.Fatal("Expected a budget error, got nil")
	}
	var be *BudgetError
	if !errors.As(err, &be) {
		t.Fatalf("Expected *BudgetError, got %T", err)
	}
	if be.Needed != 2 || be.Budget != 1 {
		t.Errorf("Expected Needed 2 Budget 1, got Needed %d Budget %d", be.Needed, be.Budget)
	}

	if _, err := GenerateWithBudget(g, 2); err != nil {
		t.Errorf("Expected budget 2 to suffice, got error: %v", err)
	}
}

func TestGenerateBudgetExceededBySharing(t *testing.T) {
	// The shared leaf a holds a register across three uses, pushing the
	// pool one past the root label; the budget check upfront passes and
	// the failure surfaces mid-run.
	g := buildLabeled(t, "a * b + a * c + a")
	if g.RootLabel() != 2 {
		t.Fatalf("Expected root label 2, got %d", g.RootLabel())
	}

	a, err := Generate(g)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if a.PoolSize != 3 {
		t.Fatalf("Expected PoolSize 3, got %d", a.PoolSize)
	}

	g = buildLabeled(t, "a * b + a * c + a")
	_, err = GenerateWithBudget(g, 2)
	if err == nil {
		t.Fatal("Expected a budget error, got nil")
	}
	var be *BudgetError
	if !errors.As(err, &be) {
		t.Fatalf("Expected *BudgetError, got %T", err)
	}
	// Needed reports the pool size at the point of failure, a lower
	// bound on the full requirement.
	if be.Needed != 3 || be.Budget != 2 {
		t.Errorf("Expected Needed 3 Budget 2, got Needed %d Budget %d", be.Needed, be.Budget)
	}
	if be.Needed <= be.Budget {
		t.Errorf("Expected Needed above the budget, got %d <= %d", be.Needed, be.Budget)
	}
}

func TestRegisterPoolReuse(t *testing.T) {
	p := &registerPool{}
	names := make([]string, 3)
	for i := range names {
		r, err := p.alloc()
		if err != nil {
			t.Fatalf("alloc returned error: %v", err)
		}
		names[i] = r
	}
	if names[0] != "R1" || names[1] != "R2" || names[2] != "R3" {
		t.Fatalf("Expected R1 R2 R3, got %v", names)
	}

	p.release("R3")
	p.release("R1")
	if r, _ := p.alloc(); r != "R1" {
		t.Errorf("Expected lowest free register R1, got %s", r)
	}
	if r, _ := p.alloc(); r != "R3" {
		t.Errorf("Expected R3, got %s", r)
	}

	// A malformed name is dropped rather than freeing register 0.
	p.release("bogus")
	if r, _ := p.alloc(); r != "R4" {
		t.Errorf("Expected fresh R4, got %s", r)
	}
	if p.high != 4 {
		t.Errorf("Expected pool high 4, got %d", p.high)
	}
}

func TestGenerateStepNotes(t *testing.T) {
	g := buildLabeled(t, "a + b")
	a, err := Generate(g)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(a.Steps) != 1 {
		t.Fatalf("Expected 1 step, got %d", len(a.Steps))
	}
	expected := "R1 = a + b: assign R1 to (a + b); a occupies R1; R1 freed (last use of a)"
	if a.Steps[0] != expected {
		t.Errorf("Expected step %q, got %q", expected, a.Steps[0])
	}
}

func TestGenerateLiveRanges(t *testing.T) {
	g := buildLabeled(t, "a + b * (c + d) - e")
	a, err := Generate(g)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	last := len(a.Instructions) - 1
	for _, r := range a.LiveRanges {
		if r.Start > r.End {
			t.Errorf("Expected Start <= End for node %d, got [%d, %d]", r.Node, r.Start, r.End)
		}
		if r.Start < 0 || r.End > last {
			t.Errorf("Expected range within [0, %d] for node %d, got [%d, %d]", last, r.Node, r.Start, r.End)
		}
		if r.Register == "" {
			t.Errorf("Expected a register for node %d", r.Node)
		}
	}
	// Two values may hand a register off within one instruction (source
	// freed, destination assigned), so only interior overlap is a conflict.
	byRegister := make(map[string][]LiveRange)
	for _, r := range a.LiveRanges {
		byRegister[r.Register] = append(byRegister[r.Register], r)
	}
	for reg, ranges := range byRegister {
		for i := 0; i < len(ranges); i++ {
			for j := i + 1; j < len(ranges); j++ {
				r1, r2 := ranges[i], ranges[j]
				if r1.Start < r2.End && r2.Start < r1.End {
					t.Errorf("Ranges for %s overlap: node %d [%d, %d] and node %d [%d, %d]",
						reg, r1.Node, r1.Start, r1.End, r2.Node, r2.Start, r2.End)
				}
			}
		}
	}
}

func TestSummary(t *testing.T) {
	g := buildLabeled(t, "a + b")
	a, err := Generate(g)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	s := a.Summary()
	for _, want := range []string{
		"R1 = a + b",
		"1. R1 = a + b: assign R1 to (a + b)",
		"Minimum registers required: 1",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected summary to contain %q, got:\n%s", want, s)
		}
	}
}

func TestExecuteRoundTrip(t *testing.T) {
	// Binding values are exact binary fractions, so regrouped sums and
	// products stay bit-identical to the tree evaluation.
	bindingSets := []map[string]float64{
		{"a": 2, "b": 3, "c": 5, "d": 7, "e": 11},
		{"a": 1.5, "b": 0.5, "c": 4, "d": 3, "e": 2},
		{"a": 10, "b": 1, "c": 0.25, "d": 6, "e": 8},
	}
	inputs := []string{
		"a + b",
		"a + b * (c + d) - e",
		"(a+b)*(a+b)",
		"a - b / c",
		"-a * (b + c)",
		"a ^ b + c",
		"2 * a + 0.5",
		"a * b + a * c + a",
		"a + (b + c)",
		"a * (b * c)",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tree, err := expr.Parse(input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", input, err)
			}

			original := dag.Label(dag.Build(tree))
			rearranged := rearrange.Rearrange(original)

			halves := []struct {
				name string
				g    *dag.Graph
			}{
				{"original", original},
				{"rearranged", rearranged},
			}
			for _, half := range halves {
				a, err := Generate(half.g)
				if err != nil {
					t.Fatalf("Generate(%s) returned error: %v", half.name, err)
				}
				for i, bindings := range bindingSets {
					expected, err := expr.Eval(tree, bindings)
					if err != nil {
						t.Fatalf("Eval returned error: %v", err)
					}
					got, err := Execute(a.Instructions, bindings)
					if err != nil {
						t.Fatalf("Execute(%s) returned error: %v", half.name, err)
					}
					if got != expected {
						t.Errorf("Expected %v, got %v (%s, binding set %d)", expected, got, half.name, i)
					}
				}
			}
		})
	}
}

func TestExecuteErrors(t *testing.T) {
	if _, err := Execute(nil, nil); err == nil {
		t.Error("Expected an error for an empty instruction list")
	}

	g := buildLabeled(t, "a + b")
	a, err := Generate(g)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := Execute(a.Instructions, map[string]float64{"a": 1}); err == nil {
		t.Error("Expected an error for an unbound variable")
	}

	g = buildLabeled(t, "a / b")
	a, err = Generate(g)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := Execute(a.Instructions, map[string]float64{"a": 1, "b": 0}); err == nil {
		t.Error("Expected an error for division by zero")
	}
}
