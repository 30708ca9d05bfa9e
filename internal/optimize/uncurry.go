package optimize

import (
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/tytype"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

// isFixCombinator reports whether n names the fixed-point combinator
// `fix`, the one symbol eta-expansion must never touch: expanding it
// would add parameters its LLVM lowering doesn't expect, breaking the
// arity assumption codegen relies on (original_source's eta_expand.rs
// imports this exact check from its own uncurry module under the name
// is_std_fix).
func isFixCombinator(n name.Name) bool {
	return n.Leaf() == "fix"
}

// arrowDepth counts how many Fun layers wrap t — a symbol's declared
// arity before any lambda has been inspected.
func arrowDepth(t tytype.Type) int {
	fn, ok := t.(*tytype.Fun)
	if !ok {
		return 0
	}
	return 1 + arrowDepth(fn.Result)
}

// collectDomains returns the parameter types of t's first n Fun
// layers, in order.
func collectDomains(t tytype.Type, n int) []tytype.Type {
	doms := make([]tytype.Type, 0, n)
	cur := t
	for i := 0; i < n; i++ {
		fn, ok := cur.(*tytype.Fun)
		if !ok {
			break
		}
		doms = append(doms, fn.Param)
		cur = fn.Result
	}
	return doms
}

// codomain returns what remains of t after stripping its first n Fun
// layers.
func codomain(t tytype.Type, n int) tytype.Type {
	cur := t
	for i := 0; i < n; i++ {
		fn, ok := cur.(*tytype.Fun)
		if !ok {
			return cur
		}
		cur = fn.Result
	}
	return cur
}

// uncurry replaces each symbol's chain of single-parameter Lams (and,
// correspondingly, every application chain against it) with one
// multi-parameter Lam/App, up to cfg.FuncPtrArgsMax parameters — past
// that bound it stops grouping and leaves the remaining chain curried,
// matching §4.8 item 6's "respects FUNPTR_ARGS_MAX as an upper bound."
func uncurry(prog Program, cfg Config) Program {
	groups := make(map[string]int, len(prog.Symbols))
	out := make([]typedexpr.InstantiatedSymbol, len(prog.Symbols))
	for i, sym := range prog.Symbols {
		params, body := uncurryParamChain(sym.Body, cfg.FuncPtrArgsMax)
		if len(params) > 1 {
			sym.Body = typedexpr.NewLam(sym.Body.Span(), params, body).WithType(sym.Body.Type())
			groups[sym.MangledName] = len(params)
		}
		out[i] = sym
	}

	for i, sym := range out {
		out[i].Body = groupApplications(sym.Body, groups)
	}

	return Program{Symbols: out, Roots: prog.Roots}
}

// uncurryParamChain descends through up to max nested single-parameter
// Lams, returning the flattened parameter list and the first non-Lam
// (or max-deep) body.
func uncurryParamChain(e typedexpr.Expr, max int) ([]string, typedexpr.Expr) {
	var params []string
	for len(params) < max {
		lam, ok := e.(typedexpr.Lam)
		if !ok || len(lam.Params) != 1 {
			break
		}
		params = append(params, lam.Params[0])
		e = lam.Body
	}
	return params, e
}

// groupApplications rewrites App(App(...App(f, a1), a2...), ak) chains
// against a symbol known (via groups) to now take k parameters into one
// App carrying all k arguments, recursing into every subexpression.
func groupApplications(e typedexpr.Expr, groups map[string]int) typedexpr.Expr {
	switch n := e.(type) {
	case typedexpr.App:
		fn := groupApplications(n.Fn, groups)
		args := make([]typedexpr.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = groupApplications(a, groups)
		}

		// Collapse a left-nested chain of single-argument Apps whose
		// innermost Fn names a symbol uncurried to arity len(chain), the
		// number of arguments across the whole chain.
		chain := args
		head := fn
		for {
			inner, ok := head.(typedexpr.App)
			if !ok || len(inner.Args) != 1 {
				break
			}
			chain = append([]typedexpr.Expr{inner.Args[0]}, chain...)
			head = inner.Fn
		}
		if v, ok := head.(typedexpr.Var); ok {
			if want, ok := groups[v.Name.String()]; ok && want == len(chain) && len(chain) > len(args) {
				return typedexpr.NewApp(n.Span(), head, chain).WithType(n.Type())
			}
		}

		n.Fn = fn
		n.Args = args
		return n
	case typedexpr.Lam:
		n.Body = groupApplications(n.Body, groups)
		return n
	case typedexpr.Let:
		n.Value = groupApplications(n.Value, groups)
		n.Body = groupApplications(n.Body, groups)
		return n
	case typedexpr.If:
		n.Cond = groupApplications(n.Cond, groups)
		n.Then = groupApplications(n.Then, groups)
		n.Else = groupApplications(n.Else, groups)
		return n
	case typedexpr.Match:
		n.Scrutinee = groupApplications(n.Scrutinee, groups)
		arms := make([]typedexpr.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = typedexpr.MatchArm{Constructor: arm.Constructor, Bindings: arm.Bindings, Body: groupApplications(arm.Body, groups)}
		}
		n.Arms = arms
		return n
	case typedexpr.TyAnno:
		n.Inner = groupApplications(n.Inner, groups)
		return n
	case typedexpr.MakeStruct:
		fields := make([]typedexpr.FieldInit, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = typedexpr.FieldInit{Field: f.Field, Value: groupApplications(f.Value, groups)}
		}
		n.Fields = fields
		return n
	case typedexpr.ArrayLit:
		elems := make([]typedexpr.Expr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = groupApplications(el, groups)
		}
		n.Elems = elems
		return n
	case typedexpr.FfiCall:
		args := make([]typedexpr.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = groupApplications(a, groups)
		}
		n.Args = args
		return n
	case typedexpr.Eval:
		n.Inner = groupApplications(n.Inner, groups)
		return n
	default:
		return e
	}
}
