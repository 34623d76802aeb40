package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-regalloc/dag"
	"github.com/pflow-xyz/go-regalloc/expr"
	"github.com/pflow-xyz/go-regalloc/rearrange"
	"github.com/pflow-xyz/go-regalloc/results"
)

func graph(args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	rearranged := fs.Bool("rearranged", false, "Project the rearranged DAG instead of the original")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: regalloc graph <expression> [options]

Emit the node/edge projection of an expression DAG as JSON. Edges point
from operand to operation.

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

	tree, err := expr.Parse(fs.Arg(0))
	if err != nil {
		return err
	}

	g := dag.Label(dag.Build(tree))
	if *rearranged {
		g = rearrange.Rearrange(g)
	}

	data, err := json.MarshalIndent(results.GraphOf(g), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
