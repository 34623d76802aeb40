package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-regalloc/pipeline"
	"github.com/pflow-xyz/go-regalloc/results"
	"github.com/pflow-xyz/go-regalloc/runlog"
)

func compile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	budget := fs.Int("budget", 0, "Register budget (0 = size the pool to the root label)")
	output := fs.String("output", "", "Write the bundle JSON to a file instead of stdout")
	dbPath := fs.String("db", "", "Record the run in a run log database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: regalloc compile <expression> [options]

Compile an arithmetic expression into register-allocated three-address
code for both the original and the rearranged DAG.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Print the bundle
  regalloc compile "a + b * (c + d) - e"

  # Enforce a register budget
  regalloc compile "(a+b)*(c+d)" --budget 2

  # Save and record
  regalloc compile "a*b + a*b" --output bundle.json --db runs.db
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
	bundle := pipeline.CompileWithOptions(expression, pipeline.Options{Budget: *budget})

	if *dbPath != "" {
		store, err := runlog.Open(*dbPath)
		if err != nil {
			return fmt.Errorf("open run log: %w", err)
		}
		defer store.Close()

		run, err := store.Record(bundle)
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Recorded run %s\n", run.ID)
	}

	if *output != "" {
		if err := results.WriteJSON(bundle, *output); err != nil {
			return fmt.Errorf("save bundle: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved bundle to %s\n", *output)
		return nil
	}

	text, err := results.ToJSON(bundle)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
