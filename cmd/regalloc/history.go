package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-regalloc/runlog"
)

func history(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	dbPath := fs.String("db", "runs.db", "Run log database path")
	limit := fs.Int("limit", 20, "Maximum number of runs to list")
	expression := fs.String("expression", "", "Only list runs for this exact expression")
	show := fs.String("show", "", "Print the full bundle JSON for a run ID")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: regalloc history [options]

List compilation runs recorded with 'regalloc compile --db'.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  regalloc history --db runs.db
  regalloc history --db runs.db --expression "a + b * c"
  regalloc history --db runs.db --show 2f1c...
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := runlog.Open(*dbPath)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer store.Close()

	if *show != "" {
		run, err := store.Get(*show)
		if err != nil {
			return fmt.Errorf("load run: %w", err)
		}
		fmt.Println(string(run.Bundle))
		return nil
	}

	var runs []*runlog.Run
	if *expression != "" {
		runs, err = store.ByExpression(*expression)
	} else {
		runs, err = store.Recent(*limit)
	}
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	for _, run := range runs {
		status := "ok"
		if !run.Success {
			status = "error: " + run.Error
		}
		fmt.Printf("%s  %s  %q  registers %d -> %d, %d instructions  [%s]\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"), run.ID, run.Expression,
			run.OriginalRegisters, run.RearrangedRegisters, run.Instructions, status)
	}
	return nil
}
