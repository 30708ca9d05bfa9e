package optimize

import (
	"fmt"

	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

// decapture lifts every closed nested lambda — one whose free variables
// are all globals, none captured from an enclosing scope — out to a
// fresh top-level InstantiatedSymbol, replacing it at its original site
// with a reference to that new symbol. §4.8 item 4 describes this as a
// precondition for uncurrying rather than an optimization in its own
// right: uncurrying only needs to reason about a lambda's own
// parameter chain, which is simplest when every lambda it touches
// already carries an empty capture set.
func decapture(prog Program) Program {
	globals := make(map[string]bool, len(prog.Symbols))
	for _, sym := range prog.Symbols {
		globals[sym.MangledName] = true
	}

	var lifted []typedexpr.InstantiatedSymbol
	counter := 0

	var rewrite func(e typedexpr.Expr, bound map[string]bool, owner name.Name) typedexpr.Expr
	rewrite = func(e typedexpr.Expr, bound map[string]bool, owner name.Name) typedexpr.Expr {
		switch n := e.(type) {
		case typedexpr.Lam:
			inner := extend(bound, n.Params...)
			n.Body = rewrite(n.Body, inner, owner)

			acc := map[string]bool{}
			freeVars(n, bound, globals, acc)
			if len(acc) > 0 {
				return n
			}

			counter++
			liftedName := name.New(fmt.Sprintf("%s$lift%d", owner.String(), counter))
			lifted = append(lifted, typedexpr.InstantiatedSymbol{
				MangledName: liftedName.String(),
				Original:    liftedName,
				Body:        n,
			})
			return typedexpr.NewVar(n.Span(), liftedName).WithType(n.Type())

		case typedexpr.App:
			n.Fn = rewrite(n.Fn, bound, owner)
			args := make([]typedexpr.Expr, len(n.Args))
			for i, a := range n.Args {
				args[i] = rewrite(a, bound, owner)
			}
			n.Args = args
			return n
		case typedexpr.Let:
			n.Value = rewrite(n.Value, bound, owner)
			n.Body = rewrite(n.Body, extend(bound, n.Name), owner)
			return n
		case typedexpr.If:
			n.Cond = rewrite(n.Cond, bound, owner)
			n.Then = rewrite(n.Then, bound, owner)
			n.Else = rewrite(n.Else, bound, owner)
			return n
		case typedexpr.Match:
			n.Scrutinee = rewrite(n.Scrutinee, bound, owner)
			arms := make([]typedexpr.MatchArm, len(n.Arms))
			for i, arm := range n.Arms {
				arms[i] = typedexpr.MatchArm{
					Constructor: arm.Constructor,
					Bindings:    arm.Bindings,
					Body:        rewrite(arm.Body, extend(bound, arm.Bindings...), owner),
				}
			}
			n.Arms = arms
			return n
		case typedexpr.TyAnno:
			n.Inner = rewrite(n.Inner, bound, owner)
			return n
		case typedexpr.MakeStruct:
			fields := make([]typedexpr.FieldInit, len(n.Fields))
			for i, f := range n.Fields {
				fields[i] = typedexpr.FieldInit{Field: f.Field, Value: rewrite(f.Value, bound, owner)}
			}
			n.Fields = fields
			return n
		case typedexpr.ArrayLit:
			elems := make([]typedexpr.Expr, len(n.Elems))
			for i, el := range n.Elems {
				elems[i] = rewrite(el, bound, owner)
			}
			n.Elems = elems
			return n
		case typedexpr.FfiCall:
			args := make([]typedexpr.Expr, len(n.Args))
			for i, a := range n.Args {
				args[i] = rewrite(a, bound, owner)
			}
			n.Args = args
			return n
		case typedexpr.Eval:
			n.Inner = rewrite(n.Inner, bound, owner)
			return n
		default:
			return e
		}
	}

	out := make([]typedexpr.InstantiatedSymbol, len(prog.Symbols))
	for i, sym := range prog.Symbols {
		// The symbol's own outer lambda chain is already global; only
		// lambdas nested inside its body are lift candidates.
		body := sym.Body
		if lam, ok := body.(typedexpr.Lam); ok {
			inner := extend(map[string]bool{}, lam.Params...)
			lam.Body = rewrite(lam.Body, inner, sym.Original)
			body = lam
		} else {
			body = rewrite(body, map[string]bool{}, sym.Original)
		}
		sym.Body = body
		out[i] = sym
	}
	out = append(out, lifted...)

	return Program{Symbols: out, Roots: prog.Roots}
}
