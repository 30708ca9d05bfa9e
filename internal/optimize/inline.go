package optimize

import "github.com/sunholo/fixcore/internal/typedexpr"

// inlineLocalLets runs two micro-passes to a fixed point per symbol, as
// §4.8 item 3 describes: let-elimination substitutes away a let binding
// used exactly once, and application inlining β-reduces an application
// of a syntactic lambda to a variable argument. A global lambda arity
// table gates the latter: a call to a global is inlined only when the
// global has arity 1, its body is a single-parameter lambda, and the call
// passes exactly one variable argument; calls to globals of any other
// arity are left alone.
//
// Grounded on original_source/src/optimization/inline_local.rs, which
// builds the same global-arity map once via
// let_elimination::create_global_lambda_to_arity_map and then loops
// run_on_expr_once from both micro-passes per symbol until neither
// reports a change.
func inlineLocalLets(prog Program) Program {
	arity := buildGlobalArity(prog)
	bodies := make(map[string]typedexpr.Expr, len(prog.Symbols))
	for _, sym := range prog.Symbols {
		bodies[sym.MangledName] = sym.Body
	}

	out := make([]typedexpr.InstantiatedSymbol, len(prog.Symbols))
	for i, sym := range prog.Symbols {
		body := sym.Body
		for {
			var changed, c2 bool
			body, changed = letEliminationOnce(body)
			body, c2 = appInlineOnce(body, arity, bodies)
			if !changed && !c2 {
				break
			}
		}
		sym.Body = body
		out[i] = sym
	}
	return Program{Symbols: out, Roots: prog.Roots}
}

// buildGlobalArity records, for each symbol, the number of leading
// single-parameter Lam layers wrapping its body — its "declared" arity
// before uncurrying has run.
func buildGlobalArity(prog Program) map[string]int {
	out := make(map[string]int, len(prog.Symbols))
	for _, sym := range prog.Symbols {
		depth := 0
		body := sym.Body
		for {
			lam, ok := body.(typedexpr.Lam)
			if !ok || len(lam.Params) != 1 {
				break
			}
			depth++
			body = lam.Body
		}
		out[sym.MangledName] = depth
	}
	return out
}

// letEliminationOnce performs one top-down pass, substituting away
// every Let whose bound name is referenced exactly once in its body.
func letEliminationOnce(e typedexpr.Expr) (typedexpr.Expr, bool) {
	switch n := e.(type) {
	case typedexpr.Let:
		value, c1 := letEliminationOnce(n.Value)
		body, c2 := letEliminationOnce(n.Body)
		n.Value = value
		n.Body = body
		if countVarUses(n.Body, n.Name) == 1 {
			return substituteVar(n.Body, n.Name, n.Value), true
		}
		return n, c1 || c2
	case typedexpr.Lam:
		body, changed := letEliminationOnce(n.Body)
		n.Body = body
		return n, changed
	case typedexpr.App:
		fn, changed := letEliminationOnce(n.Fn)
		n.Fn = fn
		args := make([]typedexpr.Expr, len(n.Args))
		for i, a := range n.Args {
			na, c := letEliminationOnce(a)
			args[i] = na
			changed = changed || c
		}
		n.Args = args
		return n, changed
	case typedexpr.If:
		cond, c1 := letEliminationOnce(n.Cond)
		then, c2 := letEliminationOnce(n.Then)
		els, c3 := letEliminationOnce(n.Else)
		n.Cond, n.Then, n.Else = cond, then, els
		return n, c1 || c2 || c3
	case typedexpr.Match:
		scrutinee, changed := letEliminationOnce(n.Scrutinee)
		n.Scrutinee = scrutinee
		arms := make([]typedexpr.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			body, c := letEliminationOnce(arm.Body)
			arms[i] = typedexpr.MatchArm{Constructor: arm.Constructor, Bindings: arm.Bindings, Body: body}
			changed = changed || c
		}
		n.Arms = arms
		return n, changed
	case typedexpr.TyAnno:
		inner, changed := letEliminationOnce(n.Inner)
		n.Inner = inner
		return n, changed
	case typedexpr.MakeStruct:
		var changed bool
		fields := make([]typedexpr.FieldInit, len(n.Fields))
		for i, f := range n.Fields {
			v, c := letEliminationOnce(f.Value)
			fields[i] = typedexpr.FieldInit{Field: f.Field, Value: v}
			changed = changed || c
		}
		n.Fields = fields
		return n, changed
	case typedexpr.ArrayLit:
		var changed bool
		elems := make([]typedexpr.Expr, len(n.Elems))
		for i, el := range n.Elems {
			v, c := letEliminationOnce(el)
			elems[i] = v
			changed = changed || c
		}
		n.Elems = elems
		return n, changed
	case typedexpr.FfiCall:
		var changed bool
		args := make([]typedexpr.Expr, len(n.Args))
		for i, a := range n.Args {
			v, c := letEliminationOnce(a)
			args[i] = v
			changed = changed || c
		}
		n.Args = args
		return n, changed
	case typedexpr.Eval:
		inner, changed := letEliminationOnce(n.Inner)
		n.Inner = inner
		return n, changed
	default:
		return e, false
	}
}

// appInlineOnce performs one top-down pass, β-reducing an application
// of a syntactic single-parameter lambda (local, or an arity-1 global) to
// a single variable argument.
func appInlineOnce(e typedexpr.Expr, arity map[string]int, bodies map[string]typedexpr.Expr) (typedexpr.Expr, bool) {
	switch n := e.(type) {
	case typedexpr.App:
		fn, changed := appInlineOnce(n.Fn, arity, bodies)
		args := make([]typedexpr.Expr, len(n.Args))
		for i, a := range n.Args {
			na, c := appInlineOnce(a, arity, bodies)
			args[i] = na
			changed = changed || c
		}

		if lam, ok := fn.(typedexpr.Lam); ok && len(lam.Params) == 1 && len(args) == 1 {
			if v, ok := args[0].(typedexpr.Var); ok {
				return substituteVar(lam.Body, lam.Params[0], v), true
			}
		}
		if vfn, ok := fn.(typedexpr.Var); ok && len(args) == 1 {
			if a, ok1 := arity[vfn.Name.String()]; ok1 && a == 1 {
				if v, ok2 := args[0].(typedexpr.Var); ok2 {
					if globalBody, ok3 := bodies[vfn.Name.String()]; ok3 {
						if lam2, ok4 := globalBody.(typedexpr.Lam); ok4 && len(lam2.Params) == 1 {
							return substituteVar(lam2.Body, lam2.Params[0], v), true
						}
					}
				}
			}
		}

		n.Fn = fn
		n.Args = args
		return n, changed
	case typedexpr.Lam:
		body, changed := appInlineOnce(n.Body, arity, bodies)
		n.Body = body
		return n, changed
	case typedexpr.Let:
		value, c1 := appInlineOnce(n.Value, arity, bodies)
		body, c2 := appInlineOnce(n.Body, arity, bodies)
		n.Value, n.Body = value, body
		return n, c1 || c2
	case typedexpr.If:
		cond, c1 := appInlineOnce(n.Cond, arity, bodies)
		then, c2 := appInlineOnce(n.Then, arity, bodies)
		els, c3 := appInlineOnce(n.Else, arity, bodies)
		n.Cond, n.Then, n.Else = cond, then, els
		return n, c1 || c2 || c3
	case typedexpr.Match:
		scrutinee, changed := appInlineOnce(n.Scrutinee, arity, bodies)
		n.Scrutinee = scrutinee
		arms := make([]typedexpr.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			body, c := appInlineOnce(arm.Body, arity, bodies)
			arms[i] = typedexpr.MatchArm{Constructor: arm.Constructor, Bindings: arm.Bindings, Body: body}
			changed = changed || c
		}
		n.Arms = arms
		return n, changed
	case typedexpr.TyAnno:
		inner, changed := appInlineOnce(n.Inner, arity, bodies)
		n.Inner = inner
		return n, changed
	case typedexpr.MakeStruct:
		var changed bool
		fields := make([]typedexpr.FieldInit, len(n.Fields))
		for i, f := range n.Fields {
			v, c := appInlineOnce(f.Value, arity, bodies)
			fields[i] = typedexpr.FieldInit{Field: f.Field, Value: v}
			changed = changed || c
		}
		n.Fields = fields
		return n, changed
	case typedexpr.ArrayLit:
		var changed bool
		elems := make([]typedexpr.Expr, len(n.Elems))
		for i, el := range n.Elems {
			v, c := appInlineOnce(el, arity, bodies)
			elems[i] = v
			changed = changed || c
		}
		n.Elems = elems
		return n, changed
	case typedexpr.FfiCall:
		var changed bool
		args := make([]typedexpr.Expr, len(n.Args))
		for i, a := range n.Args {
			v, c := appInlineOnce(a, arity, bodies)
			args[i] = v
			changed = changed || c
		}
		n.Args = args
		return n, changed
	case typedexpr.Eval:
		inner, changed := appInlineOnce(n.Inner, arity, bodies)
		n.Inner = inner
		return n, changed
	default:
		return e, false
	}
}

// countVarUses counts references to target that are not shadowed by a
// closer binder of the same name.
func countVarUses(e typedexpr.Expr, target string) int {
	switch n := e.(type) {
	case typedexpr.Var:
		if n.Name.String() == target {
			return 1
		}
		return 0
	case typedexpr.Lam:
		for _, p := range n.Params {
			if p == target {
				return 0
			}
		}
		return countVarUses(n.Body, target)
	case typedexpr.App:
		c := countVarUses(n.Fn, target)
		for _, a := range n.Args {
			c += countVarUses(a, target)
		}
		return c
	case typedexpr.Let:
		c := countVarUses(n.Value, target)
		if n.Name == target {
			return c
		}
		return c + countVarUses(n.Body, target)
	case typedexpr.If:
		return countVarUses(n.Cond, target) + countVarUses(n.Then, target) + countVarUses(n.Else, target)
	case typedexpr.Match:
		c := countVarUses(n.Scrutinee, target)
		for _, arm := range n.Arms {
			if !containsString(arm.Bindings, target) {
				c += countVarUses(arm.Body, target)
			}
		}
		return c
	case typedexpr.TyAnno:
		return countVarUses(n.Inner, target)
	case typedexpr.MakeStruct:
		c := 0
		for _, f := range n.Fields {
			c += countVarUses(f.Value, target)
		}
		return c
	case typedexpr.ArrayLit:
		c := 0
		for _, el := range n.Elems {
			c += countVarUses(el, target)
		}
		return c
	case typedexpr.FfiCall:
		c := 0
		for _, a := range n.Args {
			c += countVarUses(a, target)
		}
		return c
	case typedexpr.Eval:
		return countVarUses(n.Inner, target)
	default:
		return 0
	}
}

// substituteVar replaces every unshadowed reference to target with
// repl.
func substituteVar(e typedexpr.Expr, target string, repl typedexpr.Expr) typedexpr.Expr {
	switch n := e.(type) {
	case typedexpr.Var:
		if n.Name.String() == target {
			return repl
		}
		return n
	case typedexpr.Lam:
		for _, p := range n.Params {
			if p == target {
				return n
			}
		}
		n.Body = substituteVar(n.Body, target, repl)
		return n
	case typedexpr.App:
		n.Fn = substituteVar(n.Fn, target, repl)
		args := make([]typedexpr.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = substituteVar(a, target, repl)
		}
		n.Args = args
		return n
	case typedexpr.Let:
		n.Value = substituteVar(n.Value, target, repl)
		if n.Name != target {
			n.Body = substituteVar(n.Body, target, repl)
		}
		return n
	case typedexpr.If:
		n.Cond = substituteVar(n.Cond, target, repl)
		n.Then = substituteVar(n.Then, target, repl)
		n.Else = substituteVar(n.Else, target, repl)
		return n
	case typedexpr.Match:
		n.Scrutinee = substituteVar(n.Scrutinee, target, repl)
		arms := make([]typedexpr.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			body := arm.Body
			if !containsString(arm.Bindings, target) {
				body = substituteVar(body, target, repl)
			}
			arms[i] = typedexpr.MatchArm{Constructor: arm.Constructor, Bindings: arm.Bindings, Body: body}
		}
		n.Arms = arms
		return n
	case typedexpr.TyAnno:
		n.Inner = substituteVar(n.Inner, target, repl)
		return n
	case typedexpr.MakeStruct:
		fields := make([]typedexpr.FieldInit, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = typedexpr.FieldInit{Field: f.Field, Value: substituteVar(f.Value, target, repl)}
		}
		n.Fields = fields
		return n
	case typedexpr.ArrayLit:
		elems := make([]typedexpr.Expr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = substituteVar(el, target, repl)
		}
		n.Elems = elems
		return n
	case typedexpr.FfiCall:
		args := make([]typedexpr.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = substituteVar(a, target, repl)
		}
		n.Args = args
		return n
	case typedexpr.Eval:
		n.Inner = substituteVar(n.Inner, target, repl)
		return n
	default:
		return e
	}
}

func containsString(xs []string, target string) bool {
	for _, x := range xs {
		if x == target {
			return true
		}
	}
	return false
}
