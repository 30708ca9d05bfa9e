// Command fixcore is a small demo driver over the typing core: each
// subcommand runs one hand-built program through a stage of the
// pipeline (§4-§5) and prints what that stage observed, grounded on
// the seed scenarios §8 lists as literal inputs and expected
// observables.
//
// Modeled on cmd/ailang's flag/switch dispatch, restructured onto
// cobra the way termfx-morfx's demo/cmd/main.go wires subcommands,
// since SPEC_FULL.md commits cobra to cmd/fixcore's subcommand
// structure specifically.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sunholo/fixcore/internal/diag"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// traceFlag, when set, pretty-prints every intermediate value a
// subcommand produces via diag.Dump in addition to the final summary.
var traceFlag bool

func main() {
	root := &cobra.Command{
		Use:   "fixcore",
		Short: "A demo driver over the typing core, monomorphizer, optimizer, and compile-unit planner",
		Long:  "fixcore exercises the typing core's pipeline stages against small built-in programs illustrating each of its seed scenarios.",
	}
	root.PersistentFlags().BoolVar(&traceFlag, "trace", false, "pretty-print intermediate values with kr/pretty")

	root.AddCommand(
		newTypecheckCmd(),
		newMonoCmd(),
		newOptimizeCmd(),
		newPlanCmd(),
		newCacheCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		os.Exit(1)
	}
}

// printErrors renders a diag.Errors buffer the way a failing subcommand
// reports its accumulated failures, one line per error.
func printErrors(errs diag.Errors) {
	for _, e := range errs.All() {
		fmt.Fprintf(os.Stderr, "%s %s\n", red(string(e.Code)), e.Error())
	}
}

func traceDump(label string, v any) {
	if !traceFlag {
		return
	}
	fmt.Printf("%s\n%s\n", dim(label+":"), diag.Dump(v))
}
