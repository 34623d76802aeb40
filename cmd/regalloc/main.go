package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "compile":
		if err := compile(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "trace":
		if err := trace(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "graph":
		if err := graph(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "eval":
		if err := eval(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "history":
		if err := history(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("regalloc version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`regalloc - expression DAG register allocation tool

Usage:
  regalloc <command> [options]

Commands:
  compile    Compile an expression and emit the result bundle as JSON
  trace      Show the allocation trace for original and rearranged DAGs
  graph      Emit the node/edge graph projection as JSON
  eval       Parse and evaluate an expression with variable bindings
  history    List recorded runs from a run log database
  help       Show this help message
  version    Show version information

Examples:
  # Compile an expression
  regalloc compile "a + b * (c + d) - e"

  # Save the bundle and record the run
  regalloc compile "a + b * (c + d) - e" --output bundle.json --db runs.db

  # Show the allocation trace
  regalloc trace "(a+b)*(a+b)"

  # Evaluate with bindings
  regalloc eval "a + b * c" a=1 b=2 c=3

For command-specific help, run:
  regalloc <command> --help`)
}
