package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/scheme"
	"github.com/sunholo/fixcore/internal/solver"
	"github.com/sunholo/fixcore/internal/tytype"
	"github.com/sunholo/fixcore/internal/typecheck"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

func newTypecheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "typecheck",
		Short: "Run the built-in typing-core scenarios and print each one's inferred scheme",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypecheckScenarios()
		},
	}
}

func star() kind.Kind { return kind.Star{} }

func newChecker() *typecheck.Checker {
	kinds := kind.NewEnv()
	scope := kind.NewScope()
	types := tytype.NewTypeEnv()
	fresh := tytype.NewFresh()
	traits := solver.NewTraitEnv(kinds, scope, fresh)
	return typecheck.New(kinds, scope, types, traits, fresh)
}

// runTypecheckScenarios walks scenarios 1-5 of §8 in order, printing
// each one's inferred scheme or the error it produces.
func runTypecheckScenarios() error {
	fmt.Println(bold("Typing core scenarios"))

	identityPolymorphism()
	simpleClassResolution()
	deferredPredicate()
	occursCheck()
	associatedTypeReduction()

	return nil
}

func identityPolymorphism() {
	fmt.Printf("\n%s identity polymorphism: id = \\x. x\n", cyan("1."))
	c := newChecker()
	env := typecheck.NewEnv()

	idExpr := typedexpr.NewLam(diag.Span{}, []string{"x"}, typedexpr.NewVar(diag.Span{}, name.New("x")))
	typed := c.CheckSymbol(env, idExpr)
	traceDump("typed", typed)

	if !c.Errors.OK() {
		printErrors(c.Errors)
		return
	}
	fmt.Printf("  scheme: %s\n", green(typed.Scheme.String()))

	intSub := tytype.Substitution{typed.Scheme.Vars[0]: &tytype.Con{Name: name.New("Int"), Kind: star()}}
	boolSub := tytype.Substitution{typed.Scheme.Vars[0]: &tytype.Con{Name: name.New("Bool"), Kind: star()}}
	fmt.Printf("  applied to Int  -> mangled name %s\n", yellow(typedexpr.Mangle(name.New("id"), intSub)))
	fmt.Printf("  applied to Bool -> mangled name %s\n", yellow(typedexpr.Mangle(name.New("id"), boolSub)))
}

func simpleClassResolution() {
	fmt.Printf("\n%s simple class resolution: eq 1 2 given instance Eq Int\n", cyan("2."))
	c := newChecker()
	intName := name.New("Int")
	c.Kinds.DeclareTyCon(intName, star())
	intTy := &tytype.Con{Name: intName, Kind: star()}
	boolTy := &tytype.Con{Name: name.New("Bool"), Kind: star()}

	eqTrait := name.New("Eq")
	eqScheme := scheme.Scheme{
		Vars: []string{"a"},
		Qual: scheme.QualType{
			Constraints: []tytype.Predicate{{Trait: eqTrait, Ty: &tytype.Var{Name: "a", Kind: star()}}},
			Ty: &tytype.Fun{
				Param: &tytype.Var{Name: "a", Kind: star()},
				Result: &tytype.Fun{
					Param:  &tytype.Var{Name: "a", Kind: star()},
					Result: boolTy,
				},
			},
		},
	}

	if err := c.Traits.Add(solver.TraitInstance{Qual: solver.QualPredicate{Head: tytype.Predicate{Trait: eqTrait, Ty: intTy}}}); err != nil {
		printErrors(c.Errors)
		return
	}

	env := typecheck.NewEnv()
	env.BindScheme("eq", eqScheme)
	env.BindVar("one", intTy)
	env.BindVar("two", intTy)

	call := typedexpr.NewApp(diag.Span{}, typedexpr.NewVar(diag.Span{}, name.New("eq")), []typedexpr.Expr{
		typedexpr.NewVar(diag.Span{}, name.New("one")),
		typedexpr.NewVar(diag.Span{}, name.New("two")),
	})
	typed := c.CheckSymbol(env, call)
	traceDump("typed", typed)

	if !c.Errors.OK() {
		printErrors(c.Errors)
		return
	}
	fmt.Printf("  scheme: %s (expect no residual predicates)\n", green(typed.Scheme.String()))
}

func deferredPredicate() {
	fmt.Printf("\n%s deferred predicate: \\x. eq x x\n", cyan("3."))
	c := newChecker()
	boolTy := &tytype.Con{Name: name.New("Bool"), Kind: star()}
	eqTrait := name.New("Eq")
	eqScheme := scheme.Scheme{
		Vars: []string{"a"},
		Qual: scheme.QualType{
			Constraints: []tytype.Predicate{{Trait: eqTrait, Ty: &tytype.Var{Name: "a", Kind: star()}}},
			Ty: &tytype.Fun{
				Param: &tytype.Var{Name: "a", Kind: star()},
				Result: &tytype.Fun{
					Param:  &tytype.Var{Name: "a", Kind: star()},
					Result: boolTy,
				},
			},
		},
	}

	env := typecheck.NewEnv()
	env.BindScheme("eq", eqScheme)

	body := typedexpr.NewApp(diag.Span{}, typedexpr.NewVar(diag.Span{}, name.New("eq")), []typedexpr.Expr{
		typedexpr.NewVar(diag.Span{}, name.New("x")),
		typedexpr.NewVar(diag.Span{}, name.New("x")),
	})
	lam := typedexpr.NewLam(diag.Span{}, []string{"x"}, body)
	typed := c.CheckSymbol(env, lam)
	traceDump("typed", typed)

	if !c.Errors.OK() {
		printErrors(c.Errors)
		return
	}
	fmt.Printf("  scheme: %s\n", green(typed.Scheme.String()))
	fmt.Printf("  residual constraints on scheme: %d (expect 1, the Eq predicate)\n", len(typed.Scheme.Qual.Constraints))
}

func occursCheck() {
	fmt.Printf("\n%s occurs check: \\f. f f\n", cyan("4."))
	c := newChecker()
	env := typecheck.NewEnv()

	body := typedexpr.NewApp(diag.Span{}, typedexpr.NewVar(diag.Span{}, name.New("f")), []typedexpr.Expr{
		typedexpr.NewVar(diag.Span{}, name.New("f")),
	})
	lam := typedexpr.NewLam(diag.Span{}, []string{"f"}, body)
	c.CheckSymbol(env, lam)

	if c.Errors.OK() {
		fmt.Println(red("  expected an OccursCheck error, got none"))
		return
	}
	printErrors(c.Errors)
}

func associatedTypeReduction() {
	fmt.Printf("\n%s associated type reduction: class C a { type F a } / instance C Int { type F Int = Bool }\n", cyan("5."))

	cTrait := name.New("C")
	fAssoc := name.New("F")
	intName := name.New("Int")
	boolName := name.New("Bool")
	kinds := kind.NewEnv()
	scope := kind.NewScope()
	kinds.DeclareTyCon(intName, star())
	kinds.DeclareTyCon(boolName, star())
	intTy := &tytype.Con{Name: intName, Kind: star()}
	boolTy := &tytype.Con{Name: boolName, Kind: star()}
	fresh := tytype.NewFresh()
	traits := solver.NewTraitEnv(kinds, scope, fresh)

	inst := solver.TraitInstance{Qual: solver.QualPredicate{
		Head: tytype.Predicate{Trait: cTrait, Ty: intTy},
		Equalities: []tytype.Equality{
			{Assoc: fAssoc, Trait: cTrait, Args: []tytype.Type{intTy}, Value: boolTy},
		},
	}}
	if err := traits.Add(inst); err != nil {
		fmt.Println(red("  unexpected error declaring instance:"), err)
		return
	}

	target := fresh.Var(star())
	reduced := solver.Goals{Eqs: []tytype.Equality{
		{Assoc: fAssoc, Trait: cTrait, Args: []tytype.Type{intTy}, Value: target},
	}}
	result, err := solver.Solve(traits, reduced, 10)
	if err != nil {
		fmt.Println(red("  unexpected error reducing F Int:"), err)
		return
	}
	fmt.Printf("  F Int = %s (residual: %d, expect 0)\n", green(tytype.Apply(result.Sub, target).String()), len(result.Residual.Eqs))

	varArg := fresh.Var(star())
	residual := solver.Goals{Eqs: []tytype.Equality{
		{Assoc: fAssoc, Trait: cTrait, Args: []tytype.Type{varArg}, Value: boolTy},
	}}
	residualResult, err := solver.Solve(solver.NewTraitEnv(kinds, scope, fresh), residual, 10)
	if err != nil {
		fmt.Println(red("  unexpected error on F alpha:"), err)
		return
	}
	fmt.Printf("  F alpha = Bool residual equalities: %d (expect 1, persists as a residual)\n", len(residualResult.Residual.Eqs))
}
