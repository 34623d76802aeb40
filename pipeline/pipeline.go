// Package pipeline wires the compiler stages into a single entry point:
// parse, build the DAG, label it, rearrange, and generate code for both
// the original and the rearranged DAG.
//
// Each invocation owns its arenas; the two halves never share mutable
// state, so the whole pipeline is a pure function of the input string.
package pipeline

import (
	"github.com/pflow-xyz/go-regalloc/codegen"
	"github.com/pflow-xyz/go-regalloc/dag"
	"github.com/pflow-xyz/go-regalloc/expr"
	"github.com/pflow-xyz/go-regalloc/rearrange"
	"github.com/pflow-xyz/go-regalloc/results"
)

// Options configures a compilation.
type Options struct {
	// Budget caps the register pool. Zero means the pool sizes itself to
	// the root label and grows if the DAG's sharing demands it.
	Budget int
}

// Compile runs the full pipeline over one expression. Failures (parse
// errors, exceeded budgets) come back as an error bundle, never as a
// partial result.
func Compile(expression string) *results.Bundle {
	return CompileWithOptions(expression, Options{})
}

// CompileWithOptions is Compile with a register budget.
func CompileWithOptions(expression string, opts Options) *results.Bundle {
	tree, err := expr.Parse(expression)
	if err != nil {
		return results.Failure(expression, err)
	}

	original := dag.Label(dag.Build(tree))
	rearranged := rearrange.Rearrange(original)

	originalReport, err := report(original, opts)
	if err != nil {
		return results.Failure(expression, err)
	}
	rearrangedReport, err := report(rearranged, opts)
	if err != nil {
		return results.Failure(expression, err)
	}

	return &results.Bundle{
		Version:    results.SchemaVersion,
		Success:    true,
		Expression: expression,
		Original:   originalReport,
		Rearranged: rearrangedReport,
	}
}

func report(g *dag.Graph, opts Options) (*results.Report, error) {
	alloc, err := codegen.GenerateWithBudget(g, opts.Budget)
	if err != nil {
		return nil, err
	}

	code := make([]string, len(alloc.Instructions))
	for i, in := range alloc.Instructions {
		code[i] = in.String()
	}
	ranges := make([]results.LiveRange, len(alloc.LiveRanges))
	for i, r := range alloc.LiveRanges {
		ranges[i] = results.LiveRange{Node: r.Node, Register: r.Register, Start: r.Start, End: r.End}
	}

	return &results.Report{
		Graph:            results.GraphOf(g),
		MinRegisters:     alloc.MinRegisters,
		ThreeAddressCode: code,
		Steps:            alloc.Steps,
		LiveRanges:       ranges,
	}, nil
}
