package optimize

import "github.com/sunholo/fixcore/internal/typedexpr"

// walk rebuilds e bottom-up: every child is walked first, then post is
// applied to the rebuilt node itself. Passes that only need to rewrite
// (or unwrap) one node shape in isolation — remove-type-annotations,
// simplify-names's reference rewriting — drive themselves entirely off
// this one traversal.
func walk(e typedexpr.Expr, post func(typedexpr.Expr) typedexpr.Expr) typedexpr.Expr {
	switch n := e.(type) {
	case typedexpr.Lam:
		n.Body = walk(n.Body, post)
		return post(n)
	case typedexpr.App:
		n.Fn = walk(n.Fn, post)
		args := make([]typedexpr.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = walk(a, post)
		}
		n.Args = args
		return post(n)
	case typedexpr.Let:
		n.Value = walk(n.Value, post)
		n.Body = walk(n.Body, post)
		return post(n)
	case typedexpr.If:
		n.Cond = walk(n.Cond, post)
		n.Then = walk(n.Then, post)
		n.Else = walk(n.Else, post)
		return post(n)
	case typedexpr.Match:
		n.Scrutinee = walk(n.Scrutinee, post)
		arms := make([]typedexpr.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = typedexpr.MatchArm{Constructor: arm.Constructor, Bindings: arm.Bindings, Body: walk(arm.Body, post)}
		}
		n.Arms = arms
		return post(n)
	case typedexpr.TyAnno:
		n.Inner = walk(n.Inner, post)
		return post(n)
	case typedexpr.MakeStruct:
		fields := make([]typedexpr.FieldInit, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = typedexpr.FieldInit{Field: f.Field, Value: walk(f.Value, post)}
		}
		n.Fields = fields
		return post(n)
	case typedexpr.ArrayLit:
		elems := make([]typedexpr.Expr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = walk(el, post)
		}
		n.Elems = elems
		return post(n)
	case typedexpr.FfiCall:
		args := make([]typedexpr.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = walk(a, post)
		}
		n.Args = args
		return post(n)
	case typedexpr.Eval:
		n.Inner = walk(n.Inner, post)
		return post(n)
	default: // Var, Llvm: leaves
		return post(e)
	}
}

func extend(bound map[string]bool, names ...string) map[string]bool {
	inner := make(map[string]bool, len(bound)+len(names))
	for k, v := range bound {
		inner[k] = v
	}
	for _, n := range names {
		inner[n] = true
	}
	return inner
}

// freeVars appends to acc every Var reference in e that names neither a
// locally bound identifier (per bound) nor a known global (per
// globals) — the set of names a closure over e would have to capture.
func freeVars(e typedexpr.Expr, bound map[string]bool, globals map[string]bool, acc map[string]bool) {
	switch n := e.(type) {
	case typedexpr.Var:
		key := n.Name.String()
		if bound[key] || globals[key] {
			return
		}
		acc[key] = true
	case typedexpr.Lam:
		freeVars(n.Body, extend(bound, n.Params...), globals, acc)
	case typedexpr.App:
		freeVars(n.Fn, bound, globals, acc)
		for _, a := range n.Args {
			freeVars(a, bound, globals, acc)
		}
	case typedexpr.Let:
		freeVars(n.Value, bound, globals, acc)
		freeVars(n.Body, extend(bound, n.Name), globals, acc)
	case typedexpr.If:
		freeVars(n.Cond, bound, globals, acc)
		freeVars(n.Then, bound, globals, acc)
		freeVars(n.Else, bound, globals, acc)
	case typedexpr.Match:
		freeVars(n.Scrutinee, bound, globals, acc)
		for _, arm := range n.Arms {
			freeVars(arm.Body, extend(bound, arm.Bindings...), globals, acc)
		}
	case typedexpr.TyAnno:
		freeVars(n.Inner, bound, globals, acc)
	case typedexpr.MakeStruct:
		for _, f := range n.Fields {
			freeVars(f.Value, bound, globals, acc)
		}
	case typedexpr.ArrayLit:
		for _, el := range n.Elems {
			freeVars(el, bound, globals, acc)
		}
	case typedexpr.FfiCall:
		for _, a := range n.Args {
			freeVars(a, bound, globals, acc)
		}
	case typedexpr.Eval:
		freeVars(n.Inner, bound, globals, acc)
	}
}
