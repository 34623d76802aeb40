package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pflow-xyz/go-regalloc/codegen"
	"github.com/pflow-xyz/go-regalloc/dag"
	"github.com/pflow-xyz/go-regalloc/expr"
)

func eval(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	viaCode := fs.Bool("code", false, "Evaluate the emitted three-address code instead of the syntax tree")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: regalloc eval <expression> [name=value ...] [options]

Parse an expression and evaluate it with the given variable bindings.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  regalloc eval "a + b * c" a=1 b=2 c=3
  regalloc eval "(a+b)*(a+b)" a=2 b=3 --code
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("expression required")
	}

	expression := fs.Arg(0)
	bindings := make(map[string]float64)
	for _, arg := range fs.Args()[1:] {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("binding %q is not of the form name=value", arg)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("binding %q: %w", arg, err)
		}
		bindings[name] = v
	}

	tree, err := expr.Parse(expression)
	if err != nil {
		return err
	}

	var value float64
	if *viaCode {
		alloc, err := codegen.Generate(dag.Label(dag.Build(tree)))
		if err != nil {
			return err
		}
		value, err = codegen.Execute(alloc.Instructions, bindings)
		if err != nil {
			return err
		}
	} else {
		value, err = expr.Eval(tree, bindings)
		if err != nil {
			return err
		}
	}

	fmt.Printf("%g\n", value)
	return nil
}
