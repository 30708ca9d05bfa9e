package optimize

import (
	"fmt"

	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/tytype"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

// etaExpand rewrites a symbol `f = e` to `f = λx1…xk. e x1 … xk` when
// e's own lambda chain supplies fewer parameters than f's declared
// arity n (read off f's own Fun type, which uncurrying has not yet
// flattened), where k = n - arity_of(e). It never touches the `fix`
// combinator (isFixCombinator) and, matching
// original_source/src/optimization/eta_expand.rs, skips (with a
// warning rather than an error) any symbol whose lambda chain contains
// a multi-parameter Lam before reaching the needed depth — that shape
// only exists post-uncurrying, where eta expansion no longer applies.
func etaExpand(prog Program) Program {
	out := make([]typedexpr.InstantiatedSymbol, len(prog.Symbols))
	for i, sym := range prog.Symbols {
		out[i] = etaExpandSymbol(sym)
	}
	return Program{Symbols: out, Roots: prog.Roots}
}

func etaExpandSymbol(sym typedexpr.InstantiatedSymbol) typedexpr.InstantiatedSymbol {
	if isFixCombinator(sym.Original) {
		return sym
	}

	var params []string
	body := sym.Body
	for {
		lam, ok := body.(typedexpr.Lam)
		if !ok {
			break
		}
		if len(lam.Params) != 1 {
			diag.Warnf("eta expansion found a multi-parameter lambda in %s, skipping", sym.Original)
			return sym
		}
		params = append(params, lam.Params[0])
		body = lam.Body
	}

	declaredArity := arrowDepth(sym.Body.Type())
	if len(params) >= declaredArity {
		return sym
	}
	needed := declaredArity - len(params)

	existing := make(map[string]bool, len(params)+needed)
	for _, p := range params {
		existing[p] = true
	}
	extra := make([]string, 0, needed)
	next := 0
	for len(extra) < needed {
		cand := fmt.Sprintf("#v%d", next)
		next++
		if !existing[cand] {
			extra = append(extra, cand)
			existing[cand] = true
		}
	}

	doms := collectDomains(sym.Body.Type(), declaredArity)
	resultTy := codomain(sym.Body.Type(), declaredArity)

	appArgs := make([]typedexpr.Expr, needed)
	for i, p := range extra {
		appArgs[i] = typedexpr.NewVar(body.Span(), name.New(p)).WithType(doms[len(params)+i])
	}
	wrapped := typedexpr.Expr(typedexpr.NewApp(body.Span(), body, appArgs).WithType(resultTy))

	for i := len(extra) - 1; i >= 0; i-- {
		paramTy := doms[len(params)+i]
		lamTy := &tytype.Fun{Param: paramTy, Result: wrapped.Type()}
		wrapped = typedexpr.NewLam(body.Span(), []string{extra[i]}, wrapped).WithType(lamTy)
	}

	sym.Body = rewrapParams(sym.Body, len(params), wrapped)
	return sym
}

// rewrapParams descends depth levels into e's own single-parameter Lam
// chain (the same chain etaExpandSymbol already destructured) and
// replaces the terminal body with newInner, preserving every outer
// Lam's span and declared type.
func rewrapParams(e typedexpr.Expr, depth int, newInner typedexpr.Expr) typedexpr.Expr {
	if depth == 0 {
		return newInner
	}
	lam := e.(typedexpr.Lam)
	lam.Body = rewrapParams(lam.Body, depth-1, newInner)
	return lam
}
