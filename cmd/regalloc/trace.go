package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-regalloc/codegen"
	"github.com/pflow-xyz/go-regalloc/dag"
	"github.com/pflow-xyz/go-regalloc/expr"
	"github.com/pflow-xyz/go-regalloc/rearrange"
)

func trace(args []string) error {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	budget := fs.Int("budget", 0, "Register budget (0 = size the pool to the root label)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: regalloc trace <expression> [options]

Show node labels, emitted instructions, allocation steps, and live ranges
for the original and the rearranged DAG.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("expression required")
	}

	expression := fs.Arg(0)
	tree, err := expr.Parse(expression)
	if err != nil {
		return err
	}

	original := dag.Label(dag.Build(tree))
	rearranged := rearrange.Rearrange(original)

	if err := printTrace("Original DAG", original, *budget); err != nil {
		return err
	}
	fmt.Println()
	return printTrace("Rearranged DAG", rearranged, *budget)
}

func printTrace(title string, g *dag.Graph, budget int) error {
	alloc, err := codegen.GenerateWithBudget(g, budget)
	if err != nil {
		return err
	}

	fmt.Printf("=== %s ===\n\n", title)

	fmt.Println("Node labels:")
	for id := range g.Nodes {
		n := &g.Nodes[id]
		fmt.Printf("  node %d (%s %s): label %d, parents %d\n",
			id, n.Kind, g.Text(id), n.Label, n.ParentCount)
	}
	fmt.Println()

	fmt.Print(alloc.Summary())
	return nil
}
