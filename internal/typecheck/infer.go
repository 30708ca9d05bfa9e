package typecheck

import (
	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/scheme"
	"github.com/sunholo/fixcore/internal/solver"
	"github.com/sunholo/fixcore/internal/tytype"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

// con builds a nullary type constructor reference by bare name, used
// for the built-in types (Bool) the checker itself needs regardless of
// what the program declares.
func con(n string) tytype.Type {
	return &tytype.Con{Name: name.New(n), Kind: star()}
}

// arrayCon is the built-in Array type constructor, of kind * -> *.
func arrayCon() tytype.Type {
	return &tytype.Con{Name: name.New("Array"), Kind: kind.Arrow{From: star(), To: star()}}
}

// Infer dispatches on e's dynamic type, implementing the §4.5
// per-construct contracts, and returns a sealed copy of e (WithType)
// together with its inferred type. Errors are recorded in c.Errors;
// inference does not stop at the first one, so the returned type for a
// failing node is a best-effort placeholder (usually a fresh variable).
func (c *Checker) Infer(env *Env, e typedexpr.Expr) (typedexpr.Expr, tytype.Type) {
	switch n := e.(type) {
	case typedexpr.Var:
		return c.inferVar(env, n)
	case typedexpr.Lam:
		return c.inferLam(env, n)
	case typedexpr.App:
		return c.inferApp(env, n)
	case typedexpr.Let:
		return c.inferLet(env, n)
	case typedexpr.If:
		return c.inferIf(env, n)
	case typedexpr.Match:
		return c.inferMatch(env, n)
	case typedexpr.TyAnno:
		return c.inferTyAnno(env, n)
	case typedexpr.MakeStruct:
		return c.inferMakeStruct(env, n)
	case typedexpr.ArrayLit:
		return c.inferArrayLit(env, n)
	case typedexpr.FfiCall:
		return c.inferFfiCall(env, n)
	case typedexpr.Llvm:
		return n.WithType(n.Declared), n.Declared
	case typedexpr.Eval:
		inner, ty := c.Infer(env, n.Inner)
		sealed := typedexpr.Eval{Inner: inner}
		return sealed.WithType(ty), ty
	default:
		f := c.fresh()
		return e, f
	}
}

// inferVar: look up n; if it's a monomorphic (locally bound) variable
// use its type directly, otherwise instantiate its scheme (fresh vars;
// emit constraints for predicates/equalities) (§4.5).
func (c *Checker) inferVar(env *Env, v typedexpr.Var) (typedexpr.Expr, tytype.Type) {
	leaf := v.Name.String()
	if ty, ok := env.LookupVar(leaf); ok {
		return v.WithType(ty), ty
	}
	if sch, ok := env.LookupScheme(leaf); ok {
		qual := scheme.Instantiate(sch, c.Fresh)
		c.goals.Preds = append(c.goals.Preds, qual.Constraints...)
		c.goals.Eqs = append(c.goals.Eqs, qual.Equalities...)
		return v.WithType(qual.Ty), qual.Ty
	}
	c.Errors.Add(diag.NewUnknownName(leaf))
	f := c.fresh()
	return v.WithType(f), f
}

// inferLam: fresh arg types; infer body under extended scope; result is
// the curried function type over the fresh parameter types (§4.5).
func (c *Checker) inferLam(env *Env, l typedexpr.Lam) (typedexpr.Expr, tytype.Type) {
	inner := env.Extend()
	paramTys := make([]tytype.Type, len(l.Params))
	for i, p := range l.Params {
		pv := c.fresh()
		paramTys[i] = pv
		inner.BindVar(p, pv)
	}
	body, bodyTy := c.Infer(inner, l.Body)
	ty := bodyTy
	for i := len(paramTys) - 1; i >= 0; i-- {
		ty = &tytype.Fun{Param: paramTys[i], Result: ty}
	}
	sealed := typedexpr.Lam{Params: l.Params, Body: body}
	return sealed.WithType(ty), ty
}

// inferApp: infer f : T, each xi : Ti; unify T ~ T1 -> T2 -> ... -> R
// (§4.5).
func (c *Checker) inferApp(env *Env, a typedexpr.App) (typedexpr.Expr, tytype.Type) {
	fn, fnTy := c.Infer(env, a.Fn)
	args := make([]typedexpr.Expr, len(a.Args))
	argTys := make([]tytype.Type, len(a.Args))
	for i, arg := range a.Args {
		typed, ty := c.Infer(env, arg)
		args[i] = typed
		argTys[i] = ty
	}
	result := c.fresh()
	expected := tytype.Type(result)
	for i := len(argTys) - 1; i >= 0; i-- {
		expected = &tytype.Fun{Param: argTys[i], Result: expected}
	}
	c.unify(fnTy, expected)
	resTy := tytype.Apply(c.sub, result)
	sealed := typedexpr.App{Fn: fn, Args: args}
	return sealed.WithType(resTy), resTy
}

// inferLet: infer e : Te; generalize to a scheme over Te's free
// variables not free in the outer context; bind pattern; infer body
// (§4.5).
func (c *Checker) inferLet(env *Env, l typedexpr.Let) (typedexpr.Expr, tytype.Type) {
	predsBefore, eqsBefore := len(c.goals.Preds), len(c.goals.Eqs)
	value, valueTy := c.Infer(env, l.Value)

	ownPreds := make([]tytype.Predicate, len(c.goals.Preds)-predsBefore)
	for i, p := range c.goals.Preds[predsBefore:] {
		ownPreds[i] = p.Substitute(c.sub)
	}
	ownEqs := make([]tytype.Equality, len(c.goals.Eqs)-eqsBefore)
	for i, eq := range c.goals.Eqs[eqsBefore:] {
		ownEqs[i] = eq.Substitute(c.sub)
	}
	c.goals.Preds = c.goals.Preds[:predsBefore]
	c.goals.Eqs = c.goals.Eqs[:eqsBefore]

	result, err := solver.Solve(c.Traits, solver.Goals{Preds: ownPreds, Eqs: ownEqs}, 64)
	var residual solver.Goals
	if err != nil {
		c.addErr(err)
	} else {
		c.sub = tytype.Compose(result.Sub, c.sub)
		residual = result.Residual
	}

	qual := scheme.QualType{
		Constraints: residual.Preds,
		Equalities:  residual.Eqs,
		Ty:          tytype.Apply(c.sub, valueTy),
	}
	sch, keptPreds, keptEqs := scheme.Generalize(qual, env.FreeVars())
	c.goals.Preds = append(c.goals.Preds, keptPreds...)
	c.goals.Eqs = append(c.goals.Eqs, keptEqs...)

	inner := env.Extend()
	inner.BindScheme(l.Name, sch)
	body, bodyTy := c.Infer(inner, l.Body)

	sealed := typedexpr.Let{Name: l.Name, Value: value, Body: body}
	return sealed.WithType(bodyTy), bodyTy
}

// inferIf: c : Bool; t ~ e (§4.5).
func (c *Checker) inferIf(env *Env, i typedexpr.If) (typedexpr.Expr, tytype.Type) {
	cond, condTy := c.Infer(env, i.Cond)
	c.unify(condTy, con("Bool"))
	then, thenTy := c.Infer(env, i.Then)
	els, elseTy := c.Infer(env, i.Else)
	result := c.unify(thenTy, elseTy)
	sealed := typedexpr.If{Cond: cond, Then: then, Else: els}
	return sealed.WithType(result), result
}

// inferMatch: infer scrutinee; for each arm unify pattern types with
// scrutinee and arm bodies with a common result (§4.5). Constructor
// signatures are out of scope here (no declared-constructor table), so
// each arm's bindings are given fresh, independent types; the arms'
// bodies are unified with each other and that shared type is the
// Match's result.
func (c *Checker) inferMatch(env *Env, m typedexpr.Match) (typedexpr.Expr, tytype.Type) {
	scrutinee, _ := c.Infer(env, m.Scrutinee)
	result := tytype.Type(c.fresh())
	arms := make([]typedexpr.MatchArm, len(m.Arms))
	for i, arm := range m.Arms {
		inner := env.Extend()
		for _, b := range arm.Bindings {
			inner.BindVar(b, c.fresh())
		}
		body, bodyTy := c.Infer(inner, arm.Body)
		result = c.unify(result, bodyTy)
		arms[i] = typedexpr.MatchArm{Constructor: arm.Constructor, Bindings: arm.Bindings, Body: body}
	}
	sealed := typedexpr.Match{Scrutinee: scrutinee, Arms: arms}
	return sealed.WithType(result), result
}

// inferTyAnno: unify inferred type with T after alias expansion and
// kind checking (§4.5).
func (c *Checker) inferTyAnno(env *Env, a typedexpr.TyAnno) (typedexpr.Expr, tytype.Type) {
	expanded, err := c.Types.Expand(a.Ann)
	if err != nil {
		c.addErr(err)
		expanded = a.Ann
	}
	if _, err := tytype.KindOf(expanded, c.Kinds, c.Scope); err != nil {
		c.addErr(err)
	}
	inner, innerTy := c.Infer(env, a.Inner)
	result := c.unify(innerTy, expanded)
	sealed := typedexpr.TyAnno{Inner: inner, Ann: expanded}
	return sealed.WithType(result), result
}

// inferMakeStruct: type derived from the struct declaration, not
// inferred (§4.5); each field's expression is still checked against the
// declared field type.
func (c *Checker) inferMakeStruct(env *Env, m typedexpr.MakeStruct) (typedexpr.Expr, tytype.Type) {
	decl, ok := c.Structs[m.Struct.String()]
	if !ok {
		c.Errors.Add(diag.NewUnknownName(m.Struct.String()))
		f := c.fresh()
		return m.WithType(f), f
	}
	declaredField := make(map[string]tytype.Type, len(decl.Fields))
	for _, f := range decl.Fields {
		declaredField[f.Name] = f.Type
	}
	fields := make([]typedexpr.FieldInit, len(m.Fields))
	for i, f := range m.Fields {
		typed, ty := c.Infer(env, f.Value)
		if declared, ok := declaredField[f.Field]; ok {
			c.unify(ty, declared)
		}
		fields[i] = typedexpr.FieldInit{Field: f.Field, Value: typed}
	}
	sealed := typedexpr.MakeStruct{Struct: m.Struct, Fields: fields}
	return sealed.WithType(decl.Type), decl.Type
}

// inferArrayLit: every element must share a common type; an empty
// array literal gets a fresh element type (§4.5: "no novel inference
// rules" — this is ordinary unification against each successive
// element, not a new rule).
func (c *Checker) inferArrayLit(env *Env, a typedexpr.ArrayLit) (typedexpr.Expr, tytype.Type) {
	elemTy := tytype.Type(c.fresh())
	elems := make([]typedexpr.Expr, len(a.Elems))
	for i, el := range a.Elems {
		typed, ty := c.Infer(env, el)
		elemTy = c.unify(elemTy, ty)
		elems[i] = typed
	}
	arrayTy := &tytype.App{Head: arrayCon(), Arg: elemTy}
	sealed := typedexpr.ArrayLit{Elems: elems}
	return sealed.WithType(arrayTy), arrayTy
}

// inferFfiCall: types derived from the declared FFI signature; no
// novel inference rule (§4.5).
func (c *Checker) inferFfiCall(env *Env, f typedexpr.FfiCall) (typedexpr.Expr, tytype.Type) {
	sig, ok := c.Ffi[f.Symbol]
	if !ok {
		c.Errors.Add(diag.NewUnknownName(f.Symbol))
		fv := c.fresh()
		return f.WithType(fv), fv
	}
	args := make([]typedexpr.Expr, len(f.Args))
	for i, arg := range f.Args {
		typed, ty := c.Infer(env, arg)
		args[i] = typed
		if i < len(sig.Params) {
			c.unify(ty, sig.Params[i])
		}
	}
	sealed := typedexpr.FfiCall{Symbol: f.Symbol, Args: args}
	return sealed.WithType(sig.Result), sig.Result
}
