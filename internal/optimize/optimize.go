// Package optimize implements §4.8's whole-program optimizer: a fixed
// sequence of rewrites over the monomorphizer's output, each preserving
// the typing relation at a coarse level (every rewritten node keeps a
// valid Type()) while never widening a symbol's effective arity or
// scheme.
//
// No file in the retrieval pack runs an optimizer over a typed tree in
// this shape (the teacher interprets dictionaries at eval time instead
// of specializing and rewriting ahead of codegen), so each pass below is
// grounded on its own original_source/src/optimization/*.rs file rather
// than on one teacher package, with the traversal idiom borrowed from
// internal/mono's type-switch walker.
package optimize

import (
	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

// Config bounds the optimizer's rewrites; both knobs come from
// CompilerContext (internal/config) in a full pipeline run.
type Config struct {
	// FuncPtrArgsMax caps how many parameters the uncurrying pass will
	// group into a single function pointer before it stops merging.
	FuncPtrArgsMax int

	// Enabled gates whether a given pass name runs at all. A nil
	// Enabled runs every pass, matching internal/config.Config's own
	// "empty list means all passes run" default. Pass names match
	// internal/config's enabled_optimizations entries: "simplify_names",
	// "remove_type_annotations", "inline_local_lets", "decapture",
	// "eta_expand", "uncurry", "dead_code".
	Enabled func(pass string) bool
}

// DefaultConfig matches the Fixlang reference's FUNPTR_ARGS_MAX.
func DefaultConfig() Config {
	return Config{FuncPtrArgsMax: 8}
}

func (cfg Config) enabled(pass string) bool {
	return cfg.Enabled == nil || cfg.Enabled(pass)
}

// Program is the optimizer's input and output: every InstantiatedSymbol
// reachable from monomorphization, plus which mangled names are roots
// (never eligible for dead-symbol elimination).
type Program struct {
	Symbols []typedexpr.InstantiatedSymbol
	// Roots holds the mangled names of the entry point and every
	// exported value's instantiations — dead-symbol elimination starts
	// its reachability walk here.
	Roots []string
}

// Run applies every §4.8 pass to prog in declared order, returning the
// rewritten program. Passes never fail outright (a malformed node is
// left untouched and warned about via diag.Warnf), so the returned
// diag.Errors is always empty.
func Run(prog Program, cfg Config) (Program, diag.Errors) {
	var errs diag.Errors

	if cfg.enabled("simplify_names") {
		prog = simplifyNames(prog)
	}
	if cfg.enabled("remove_type_annotations") {
		prog = removeTypeAnnotations(prog)
	}
	if cfg.enabled("inline_local_lets") {
		prog = inlineLocalLets(prog)
	}
	if cfg.enabled("decapture") {
		prog = decapture(prog)
	}
	if cfg.enabled("eta_expand") {
		prog = etaExpand(prog)
	}
	if cfg.enabled("uncurry") {
		prog = uncurry(prog, cfg)
	}
	if cfg.enabled("dead_code") {
		prog = eliminateDeadSymbols(prog)
	}

	return prog, errs
}
