package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sunholo/fixcore/internal/compiler"
	"github.com/sunholo/fixcore/internal/config"
	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/tytype"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

func newMonoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mono",
		Short: "Compile the identity scenario and print each monomorphized specialization",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonoScenario()
		},
	}
}

// runMonoScenario covers scenario 1's continuation: `id` applied to
// both Int and Bool monomorphizes into two distinct InstantiatedSymbols
// keyed by mangle(name, tau), even though the source declares `id`
// exactly once.
func runMonoScenario() error {
	fmt.Println(bold("Monomorphization: id applied at two types"))

	idName := name.New("id")
	idBody := typedexpr.NewLam(diag.Span{}, []string{"x"}, typedexpr.NewVar(diag.Span{}, name.New("x")))

	intTy := &tytype.Con{Name: name.New("Int"), Kind: kind.Star{}}
	boolTy := &tytype.Con{Name: name.New("Bool"), Kind: kind.Star{}}

	useIntName := name.New("useInt")
	useBoolName := name.New("useBool")
	useInt := typedexpr.NewApp(diag.Span{}, typedexpr.NewVar(diag.Span{}, idName), []typedexpr.Expr{
		typedexpr.NewVar(diag.Span{}, name.New("anInt")),
	})
	useBool := typedexpr.NewApp(diag.Span{}, typedexpr.NewVar(diag.Span{}, idName), []typedexpr.Expr{
		typedexpr.NewVar(diag.Span{}, name.New("aBool")),
	})

	mod := compiler.Module{
		Decls: []compiler.Decl{
			{Name: idName, Body: idBody},
			{Name: name.New("anInt"), Body: typedexpr.Llvm{Text: "demo int constant", Declared: intTy}},
			{Name: name.New("aBool"), Body: typedexpr.Llvm{Text: "demo bool constant", Declared: boolTy}},
			{Name: useIntName, Body: useInt},
			{Name: useBoolName, Body: useBool},
		},
		Exports: []name.Name{useIntName, useBoolName},
	}

	ctx := compiler.New(config.Default(), "fixcore-demo", nil)
	result := compiler.Compile(ctx, mod)
	traceDump("instances", result.Instances)

	if !result.Errors.OK() {
		printErrors(result.Errors)
		return nil
	}

	fmt.Printf("  %d reachable instantiated symbols:\n", len(result.Instances))
	idSpecializations := 0
	for _, inst := range result.Instances {
		fmt.Printf("    %s  (from %s)\n", yellow(inst.MangledName), inst.Original)
		if inst.Original.String() == "id" {
			idSpecializations++
		}
	}
	fmt.Printf("  id specializations: %d (expect 2, one per concrete call site)\n", idSpecializations)
	return nil
}
