package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/optimize"
	"github.com/sunholo/fixcore/internal/tytype"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

func newOptimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Run the eta-expansion pass and show that Std::fix is left alone",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimizeScenario()
		},
	}
}

// runOptimizeScenario covers scenario 6: a symbol named Std::fix is
// observed unchanged after eta expansion while an ordinary
// under-saturated symbol of the same shape is rewritten to expose its
// full declared arity.
func runOptimizeScenario() error {
	fmt.Println(bold("Eta expansion: Std::fix is exempt, everything else isn't"))

	intTy := &tytype.Con{Name: name.New("Int"), Kind: kind.Star{}}
	arity2 := &tytype.Fun{Param: intTy, Result: &tytype.Fun{Param: intTy, Result: intTy}}

	underSaturated := func() typedexpr.Expr {
		inner := typedexpr.NewVar(diag.Span{}, name.New("x")).WithType(intTy)
		return typedexpr.NewLam(diag.Span{}, []string{"x"}, inner).WithType(arity2)
	}

	fixName := name.New("Std", "fix")
	applyName := name.New("apply")

	prog := optimize.Program{
		Symbols: []typedexpr.InstantiatedSymbol{
			{MangledName: fixName.String(), Original: fixName, Body: underSaturated()},
			{MangledName: applyName.String(), Original: applyName, Body: underSaturated()},
		},
		Roots: []string{fixName.String(), applyName.String()},
	}

	cfg := optimize.Config{
		FuncPtrArgsMax: 8,
		Enabled:        func(pass string) bool { return pass == "eta_expand" },
	}
	out, errs := optimize.Run(prog, cfg)
	traceDump("optimized", out)
	if !errs.OK() {
		printErrors(errs)
		return nil
	}

	for _, sym := range out.Symbols {
		depth := lamDepth(sym.Body)
		if sym.Original.String() == fixName.String() {
			fmt.Printf("  %s: lambda depth %d (expect 1, unchanged)\n", yellow(sym.MangledName), depth)
		} else {
			fmt.Printf("  %s: lambda depth %d (expect 2, expanded to its full declared arity)\n", yellow(sym.MangledName), depth)
		}
	}
	return nil
}

func lamDepth(e typedexpr.Expr) int {
	depth := 0
	for {
		lam, ok := e.(typedexpr.Lam)
		if !ok {
			return depth
		}
		depth++
		e = lam.Body
	}
}
