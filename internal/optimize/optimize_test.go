package optimize

import (
	"testing"

	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/tytype"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

func intTy() tytype.Type { return &tytype.Con{Name: name.New("Int"), Kind: kind.Star{}} }

func fn(params ...tytype.Type) tytype.Type {
	result := params[len(params)-1]
	for i := len(params) - 2; i >= 0; i-- {
		result = &tytype.Fun{Param: params[i], Result: result}
	}
	return result
}

func v(n string, ty tytype.Type) typedexpr.Var {
	return typedexpr.NewVar(diag.Span{}, name.New(n)).WithType(ty).(typedexpr.Var)
}

func TestSimplifyNamesRewritesDefinitionAndCallSites(t *testing.T) {
	addBody := typedexpr.NewLam(diag.Span{}, []string{"x"}, v("x", intTy())).WithType(fn(intTy(), intTy()))
	mainBody := typedexpr.NewApp(diag.Span{}, v("Main::add$deadbeef00000", fn(intTy(), intTy())), []typedexpr.Expr{v("n", intTy())}).WithType(intTy())

	prog := Program{
		Symbols: []typedexpr.InstantiatedSymbol{
			{MangledName: "Main::add$deadbeef00000", Original: name.New("Main", "add"), Body: addBody},
			{MangledName: "Main::main$0000000000aa", Original: name.New("Main", "main"), Body: mainBody},
		},
		Roots: []string{"Main::main$0000000000aa"},
	}

	out := simplifyNames(prog)

	names := map[string]bool{}
	for _, sym := range out.Symbols {
		names[sym.MangledName] = true
	}
	if names["Main::add$deadbeef00000"] || names["Main::main$0000000000aa"] {
		t.Fatalf("expected original hash-suffixed names to be gone, got %v", names)
	}

	var mainSym typedexpr.InstantiatedSymbol
	for _, sym := range out.Symbols {
		if sym.Original.String() == "Main::main" {
			mainSym = sym
		}
	}
	app, ok := mainSym.Body.(typedexpr.App)
	if !ok {
		t.Fatalf("expected main's body to remain an App, got %T", mainSym.Body)
	}
	callee, ok := app.Fn.(typedexpr.Var)
	if !ok {
		t.Fatalf("expected App.Fn to remain a Var, got %T", app.Fn)
	}
	if callee.Name.String() != out.Symbols[0].MangledName && callee.Name.String() != out.Symbols[1].MangledName {
		t.Fatalf("call site %q was not rewritten to a simplified name", callee.Name)
	}
	if len(out.Roots) != 1 || out.Roots[0] == "Main::main$0000000000aa" {
		t.Fatalf("expected Roots to track the rename, got %v", out.Roots)
	}
}

func TestRemoveTypeAnnotationsUnwrapsInner(t *testing.T) {
	inner := v("x", intTy())
	anno := typedexpr.NewTyAnno(diag.Span{}, inner, intTy()).WithType(intTy())
	sym := typedexpr.InstantiatedSymbol{MangledName: "Main::id$0", Body: anno}

	out := removeTypeAnnotations(Program{Symbols: []typedexpr.InstantiatedSymbol{sym}})

	if _, ok := out.Symbols[0].Body.(typedexpr.TyAnno); ok {
		t.Fatalf("expected TyAnno to be unwrapped, got %T", out.Symbols[0].Body)
	}
	if out.Symbols[0].Body.(typedexpr.Var).Name.String() != "x" {
		t.Fatalf("expected the wrapped Var to survive, got %#v", out.Symbols[0].Body)
	}
}

func TestInlineLocalLetsEliminatesSingleUseLet(t *testing.T) {
	// let y = x in y  ==>  x
	letBody := typedexpr.NewLet(diag.Span{}, "y", v("x", intTy()), v("y", intTy())).WithType(intTy())
	sym := typedexpr.InstantiatedSymbol{MangledName: "Main::f$0", Body: letBody}

	out := inlineLocalLets(Program{Symbols: []typedexpr.InstantiatedSymbol{sym}})

	result, ok := out.Symbols[0].Body.(typedexpr.Var)
	if !ok || result.Name.String() != "x" {
		t.Fatalf("expected let-elimination to leave bare `x`, got %#v", out.Symbols[0].Body)
	}
}

func TestInlineLocalLetsBetaReducesLambdaAppliedToVariable(t *testing.T) {
	// (\p -> p) x  ==>  x
	lam := typedexpr.NewLam(diag.Span{}, []string{"p"}, v("p", intTy())).WithType(fn(intTy(), intTy()))
	app := typedexpr.NewApp(diag.Span{}, lam, []typedexpr.Expr{v("x", intTy())}).WithType(intTy())
	sym := typedexpr.InstantiatedSymbol{MangledName: "Main::f$0", Body: app}

	out := inlineLocalLets(Program{Symbols: []typedexpr.InstantiatedSymbol{sym}})

	result, ok := out.Symbols[0].Body.(typedexpr.Var)
	if !ok || result.Name.String() != "x" {
		t.Fatalf("expected application inlining to leave bare `x`, got %#v", out.Symbols[0].Body)
	}
}

func TestDecaptureLiftsClosedNestedLambda(t *testing.T) {
	// Main::outer = \x -> (\y -> y) x -- the inner lambda captures nothing.
	innerLam := typedexpr.NewLam(diag.Span{}, []string{"y"}, v("y", intTy())).WithType(fn(intTy(), intTy()))
	outerBody := typedexpr.NewApp(diag.Span{}, innerLam, []typedexpr.Expr{v("x", intTy())}).WithType(intTy())
	outerLam := typedexpr.NewLam(diag.Span{}, []string{"x"}, outerBody).WithType(fn(intTy(), intTy()))
	sym := typedexpr.InstantiatedSymbol{MangledName: "Main::outer$0", Original: name.New("Main", "outer"), Body: outerLam}

	out := decapture(Program{Symbols: []typedexpr.InstantiatedSymbol{sym}})

	if len(out.Symbols) != 2 {
		t.Fatalf("expected the closed inner lambda to be lifted into its own symbol, got %d symbols", len(out.Symbols))
	}

	var outerOut, liftedOut *typedexpr.InstantiatedSymbol
	for i := range out.Symbols {
		if out.Symbols[i].MangledName == "Main::outer$0" {
			outerOut = &out.Symbols[i]
		} else {
			liftedOut = &out.Symbols[i]
		}
	}
	if outerOut == nil || liftedOut == nil {
		t.Fatalf("expected one original and one lifted symbol")
	}
	if _, ok := liftedOut.Body.(typedexpr.Lam); !ok {
		t.Fatalf("expected the lifted symbol's body to be the Lam itself, got %T", liftedOut.Body)
	}

	lam := outerOut.Body.(typedexpr.Lam)
	app, ok := lam.Body.(typedexpr.App)
	if !ok {
		t.Fatalf("expected outer's body to remain an App, got %T", lam.Body)
	}
	if _, ok := app.Fn.(typedexpr.Var); !ok {
		t.Fatalf("expected the lifted lambda's call site to become a Var, got %T", app.Fn)
	}
}

func TestEtaExpandAddsMissingParameters(t *testing.T) {
	// declared: Int -> Int -> Int, but the body only takes one parameter
	// (as if it evaluates to a partially-applied function of the rest).
	declared := fn(intTy(), intTy(), intTy())
	compose := v("Main::compose$0", fn(intTy(), intTy()))
	lam := typedexpr.NewLam(diag.Span{}, []string{"x"}, compose).WithType(declared)
	sym := typedexpr.InstantiatedSymbol{MangledName: "Main::twoArg$0", Original: name.New("Main", "twoArg"), Body: lam}

	out := etaExpand(Program{Symbols: []typedexpr.InstantiatedSymbol{sym}})

	outer, ok := out.Symbols[0].Body.(typedexpr.Lam)
	if !ok || outer.Params[0] != "x" {
		t.Fatalf("expected outer param `x` preserved, got %#v", out.Symbols[0].Body)
	}
	inner, ok := outer.Body.(typedexpr.Lam)
	if !ok {
		t.Fatalf("expected one synthesized parameter lambda, got %T", outer.Body)
	}
	app, ok := inner.Body.(typedexpr.App)
	if !ok || len(app.Args) != 1 {
		t.Fatalf("expected the synthesized body to apply the new parameter, got %#v", inner.Body)
	}
}

func TestEtaExpandSkipsFixCombinator(t *testing.T) {
	body := v("Main::fixImpl$0", fn(intTy(), intTy())).WithType(fn(intTy(), intTy(), intTy()))
	sym := typedexpr.InstantiatedSymbol{MangledName: "Main::fix$0", Original: name.New("Main", "fix"), Body: body}

	out := etaExpand(Program{Symbols: []typedexpr.InstantiatedSymbol{sym}})

	if out.Symbols[0].Body.(typedexpr.Var).Name.String() != "Main::fixImpl$0" {
		t.Fatalf("expected fix's body to be left untouched, got %#v", out.Symbols[0].Body)
	}
}

func TestUncurryGroupsLambdaAndApplicationChains(t *testing.T) {
	// \x -> \y -> x, applied as ((f a) b).
	innerLam := typedexpr.NewLam(diag.Span{}, []string{"y"}, v("x", intTy())).WithType(fn(intTy(), intTy()))
	outerLam := typedexpr.NewLam(diag.Span{}, []string{"x"}, innerLam).WithType(fn(intTy(), intTy(), intTy()))
	sym := typedexpr.InstantiatedSymbol{MangledName: "Main::const$0", Body: outerLam}

	fRef := v("Main::const$0", fn(intTy(), intTy(), intTy()))
	partial := typedexpr.NewApp(diag.Span{}, fRef, []typedexpr.Expr{v("a", intTy())}).WithType(fn(intTy(), intTy()))
	full := typedexpr.NewApp(diag.Span{}, partial, []typedexpr.Expr{v("b", intTy())}).WithType(intTy())
	caller := typedexpr.InstantiatedSymbol{MangledName: "Main::main$0", Body: full}

	out := uncurry(Program{Symbols: []typedexpr.InstantiatedSymbol{sym, caller}}, DefaultConfig())

	var constOut, mainOut typedexpr.InstantiatedSymbol
	for _, s := range out.Symbols {
		if s.MangledName == "Main::const$0" {
			constOut = s
		} else {
			mainOut = s
		}
	}

	lam, ok := constOut.Body.(typedexpr.Lam)
	if !ok || len(lam.Params) != 2 {
		t.Fatalf("expected a single two-parameter Lam, got %#v", constOut.Body)
	}

	app, ok := mainOut.Body.(typedexpr.App)
	if !ok || len(app.Args) != 2 {
		t.Fatalf("expected the two single-argument applications to be grouped into one, got %#v", mainOut.Body)
	}
}

func TestEliminateDeadSymbolsDropsUnreachable(t *testing.T) {
	live := typedexpr.InstantiatedSymbol{MangledName: "Main::main$0", Body: v("Main::helper$0", intTy())}
	helper := typedexpr.InstantiatedSymbol{MangledName: "Main::helper$0", Body: v("x", intTy())}
	dead := typedexpr.InstantiatedSymbol{MangledName: "Main::unused$0", Body: v("x", intTy())}

	out := eliminateDeadSymbols(Program{
		Symbols: []typedexpr.InstantiatedSymbol{live, helper, dead},
		Roots:   []string{"Main::main$0"},
	})

	if len(out.Symbols) != 2 {
		t.Fatalf("expected exactly the reachable pair to survive, got %d symbols", len(out.Symbols))
	}
	for _, sym := range out.Symbols {
		if sym.MangledName == "Main::unused$0" {
			t.Fatalf("expected unreachable symbol to be eliminated")
		}
	}
}

func TestRunAppliesAllPassesWithoutErrors(t *testing.T) {
	body := typedexpr.NewLet(diag.Span{}, "ignored", v("x", intTy()), v("x", intTy())).WithType(intTy())
	sym := typedexpr.InstantiatedSymbol{MangledName: "Main::main$aaaaaaaaaaaa", Original: name.New("Main", "main"), Body: body}

	prog, errs := Run(Program{Symbols: []typedexpr.InstantiatedSymbol{sym}, Roots: []string{"Main::main$aaaaaaaaaaaa"}}, DefaultConfig())
	if !errs.OK() {
		t.Fatalf("unexpected errors: %v", errs.All())
	}
	if len(prog.Symbols) != 1 {
		t.Fatalf("expected the single reachable symbol to survive the full pipeline, got %d", len(prog.Symbols))
	}
}
