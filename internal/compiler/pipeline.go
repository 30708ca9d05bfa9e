package compiler

import (
	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/mono"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/optimize"
	"github.com/sunholo/fixcore/internal/planner"
	"github.com/sunholo/fixcore/internal/scheme"
	"github.com/sunholo/fixcore/internal/typecheck"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

// Result is one compile's final output: every reachable, optimized
// InstantiatedSymbol, and the compile-unit plan over their mangled
// names (§4.9) — empty if ctx.DirCache is nil.
type Result struct {
	Instances []typedexpr.InstantiatedSymbol
	Units     []planner.Unit
	Errors    diag.Errors
}

// Compile runs every §5 stage over mod in order, stopping at the first
// stage whose Errors buffer is non-empty rather than cascading into
// stages downstream that would only produce noise from the same root
// cause (§7).
//
// Name resolution and kind checking are not separate traversals here:
// ctx.Resolver is populated from mod's declared names for later lookups
// (§4.1), and kind checking is the already-shared ctx.Kinds/ctx.Scope a
// Checker consults as it goes (§4.2) — the caller declares every type
// constructor, trait, and associated type mod's bodies reference into
// ctx.Kinds before calling Compile, the same way internal/typecheck's
// own tests populate Checker.Structs/Checker.Ffi directly rather than
// deriving them from a separate declaration pass.
func Compile(ctx *CompilerContext, mod Module) Result {
	for _, d := range mod.Decls {
		ctx.Resolver.Declare(name.KindValue, d.Name)
	}

	symbols, errs := typecheckModule(ctx, mod)
	if !errs.OK() {
		return Result{Errors: errs}
	}

	monoProg := &mono.Program{Symbols: symbols, Exports: mod.Exports, Main: mod.Main}
	monoResult := mono.Run(monoProg, ctx.Kinds, ctx.Scope)
	if !monoResult.Errors.OK() {
		return Result{Errors: monoResult.Errors}
	}

	optProg := optimize.Program{Symbols: monoResult.Instances, Roots: roots(mod)}
	optCfg := optimize.Config{
		FuncPtrArgsMax: ctx.Config.FuncPtrArgsMax,
		Enabled:        ctx.Config.OptimizationEnabled,
	}
	optimized, optErrs := optimize.Run(optProg, optCfg)
	if !optErrs.OK() {
		return Result{Errors: optErrs}
	}

	var units []planner.Unit
	if ctx.DirCache != nil {
		names := make([]string, len(optimized.Symbols))
		for i, sym := range optimized.Symbols {
			names[i] = sym.MangledName
		}
		units = planner.Plan(names, ctx.DirCache)
	}

	return Result{Instances: optimized.Symbols, Units: units}
}

// roots computes the mangled root names dead-symbol elimination must
// never discard: the entry point plus every export, each instantiated
// at the empty substitution the way Compile's own monomorphization
// entry points are (mono.Run enters Main/Exports with
// tytype.Substitution{}).
func roots(mod Module) []string {
	var out []string
	if len(mod.Main.Segments()) > 0 {
		out = append(out, typedexpr.Mangle(mod.Main, nil))
	}
	for _, exp := range mod.Exports {
		out = append(out, typedexpr.Mangle(exp, nil))
	}
	return out
}

// typecheckModule checks every declaration in order against a shared
// root environment, so later declarations may call earlier ones. Each
// declaration's own name is bound monomorphically in its own extended
// scope before its body is checked, so direct self-recursion unifies
// against a single, non-generalized type the way classical HM letrec
// requires (a call to oneself at a genuinely varying type is exactly
// the polymorphic-recursion case internal/mono's monomorphizer rejects
// downstream, not something this stage tries to generalize through).
func typecheckModule(ctx *CompilerContext, mod Module) (map[string]typedexpr.Symbol, diag.Errors) {
	checker := typecheck.New(ctx.Kinds, ctx.Scope, ctx.Types, ctx.Traits, ctx.Fresh)
	rootEnv := typecheck.NewEnv()
	symbols := make(map[string]typedexpr.Symbol, len(mod.Decls))

	for _, d := range mod.Decls {
		key := d.Name.String()

		if cached, ok := lookupCache(ctx, d.Name); ok {
			rootEnv.BindScheme(key, cached.Scheme)
			symbols[key] = typedexpr.Symbol{Name: d.Name, Typed: cached}
			continue
		}

		selfScope := rootEnv.Extend()
		selfScope.BindVar(key, ctx.Fresh.Var(kind.Star{}))

		typed := checker.CheckSymbol(selfScope, d.Body)
		rootEnv.BindScheme(key, typed.Scheme)
		symbols[key] = typedexpr.Symbol{Name: d.Name, Typed: typed}

		saveCache(ctx, d.Name, typed)
	}

	return symbols, checker.Errors
}

func lookupCache(ctx *CompilerContext, n name.Name) (typedexpr.TypedExpr, bool) {
	if typed, ok := ctx.Memory.LoadCache(n, scheme.Scheme{}, ctx.VersionHash); ok {
		return typed, true
	}
	if typed, ok := ctx.Files.LoadCache(n, scheme.Scheme{}, ctx.VersionHash); ok {
		ctx.Memory.SaveCache(typed, n, scheme.Scheme{}, ctx.VersionHash)
		return typed, true
	}
	return typedexpr.TypedExpr{}, false
}

func saveCache(ctx *CompilerContext, n name.Name, typed typedexpr.TypedExpr) {
	ctx.Memory.SaveCache(typed, n, scheme.Scheme{}, ctx.VersionHash)
	ctx.Files.SaveCache(typed, n, scheme.Scheme{}, ctx.VersionHash)
}
