// Package mono implements §4.7's monomorphizer: starting from the
// reachable roots (main plus every exported value), it walks each
// symbol's body, and every global value used at a concrete type is
// queued for specialization under mangle(name, τ). Specialization
// substitutes the call site's concrete type for the symbol's own
// scheme variables throughout its body and rewrites the call site
// itself to name that specific specialization, so two uses of the same
// generic value at different types end up calling two distinct
// InstantiatedSymbols. Symbols whose specialization yields an
// identical mangled name are memoized.
//
// No file in the retrieval pack implements monomorphization directly
// (the teacher interprets type classes via dictionary passing instead
// of specializing per type, and the Fixlang reference only
// monomorphizes built-in numeric literals). The traversal skeleton is
// grounded on internal/elaborate/scc.go's CallGraph — adapted from
// surface-level mutual-recursion detection to instantiation-chain
// cycle detection, since both problems reduce to "don't follow an
// edge back into a node already active on the current path."
package mono

import (
	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/scheme"
	"github.com/sunholo/fixcore/internal/tytype"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

// Program is the monomorphizer's input: every top-level symbol by its
// fully qualified name, plus which of them are reachable roots (§4.7:
// "main plus all exported values").
type Program struct {
	Symbols map[string]typedexpr.Symbol
	Exports []name.Name
	Main    name.Name // zero value (no segments) means no entry point
}

// Result is the monomorphizer's output: one InstantiatedSymbol per
// distinct (name, τ) pair reached from a root, plus any errors raised
// along the way (unknown names, rejected polymorphic recursion).
type Result struct {
	Instances []typedexpr.InstantiatedSymbol
	Errors    diag.Errors
}

// Run monomorphizes prog, using kinds/scope to match a call site's
// concrete type against the callee's own scheme.
func Run(prog *Program, kinds *kind.Env, scope *kind.Scope) Result {
	m := &monomorphizer{prog: prog, kinds: kinds, scope: scope, seen: map[string]bool{}}

	if len(prog.Main.Segments()) > 0 {
		m.enter(prog.Main, tytype.Substitution{}, map[string]string{})
	}
	for _, exp := range prog.Exports {
		m.enter(exp, tytype.Substitution{}, map[string]string{})
	}

	return Result{Instances: m.out, Errors: m.errors}
}

type monomorphizer struct {
	prog   *Program
	kinds  *kind.Env
	scope  *kind.Scope
	seen   map[string]bool
	out    []typedexpr.InstantiatedSymbol
	errors diag.Errors
}

// enter returns the mangled name for (n, subst), queuing and
// specializing the symbol's body the first time this exact mangled
// name is reached. path maps each leaf symbol name currently active on
// this instantiation chain to the mangled name it was entered under —
// reaching the same leaf name again under a *different* mangled name
// is rejected as polymorphic recursion (§4.7); reaching it again under
// the identical mangled name is ordinary (terminating) recursion and
// is left to the `seen` memo to short-circuit.
func (m *monomorphizer) enter(n name.Name, subst tytype.Substitution, path map[string]string) string {
	mangled := typedexpr.Mangle(n, subst)
	if m.seen[mangled] {
		return mangled
	}
	if prior, onPath := path[n.String()]; onPath && prior != mangled {
		m.errors.Add(diag.NewPolymorphicRecursion(n.String()))
		return mangled
	}

	sym, ok := m.prog.Symbols[n.String()]
	if !ok {
		m.errors.Add(diag.NewUnknownName(n.String()))
		return mangled
	}
	m.seen[mangled] = true

	childPath := make(map[string]string, len(path)+1)
	for k, v := range path {
		childPath[k] = v
	}
	childPath[n.String()] = mangled

	body := m.process(sym.Typed.Expr, subst, map[string]bool{}, childPath)
	m.out = append(m.out, typedexpr.InstantiatedSymbol{
		MangledName: mangled,
		Original:    n,
		Subst:       subst,
		Body:        body,
	})
	return mangled
}

// process specializes e's types through subst and, for every reference
// to another global symbol, resolves and rewrites it to that
// reference's own mangled name — so the returned tree calls concrete
// specializations rather than the original generic definitions. bound
// tracks which leaf names are locally bound (lambda params, let
// bindings, match bindings) so a local variable is never mistaken for
// a global call site.
func (m *monomorphizer) process(e typedexpr.Expr, subst tytype.Substitution, bound map[string]bool, path map[string]string) typedexpr.Expr {
	switch n := e.(type) {
	case typedexpr.Var:
		concreteTy := tytype.Apply(subst, n.Type())
		if bound[n.Name.String()] {
			return n.WithType(concreteTy)
		}
		sym, ok := m.prog.Symbols[n.Name.String()]
		if !ok {
			return n.WithType(concreteTy)
		}
		callSubst := m.match(sym.Typed.Scheme, concreteTy)
		mangled := m.enter(n.Name, callSubst, path)
		n.Name = name.New(mangled)
		return n.WithType(concreteTy)

	case typedexpr.Lam:
		inner := extend(bound, n.Params...)
		n.Body = m.process(n.Body, subst, inner, path)
		return n.WithType(tytype.Apply(subst, n.Type()))

	case typedexpr.App:
		n.Fn = m.process(n.Fn, subst, bound, path)
		args := make([]typedexpr.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = m.process(a, subst, bound, path)
		}
		n.Args = args
		return n.WithType(tytype.Apply(subst, n.Type()))

	case typedexpr.Let:
		n.Value = m.process(n.Value, subst, bound, path)
		n.Body = m.process(n.Body, subst, extend(bound, n.Name), path)
		return n.WithType(tytype.Apply(subst, n.Type()))

	case typedexpr.If:
		n.Cond = m.process(n.Cond, subst, bound, path)
		n.Then = m.process(n.Then, subst, bound, path)
		n.Else = m.process(n.Else, subst, bound, path)
		return n.WithType(tytype.Apply(subst, n.Type()))

	case typedexpr.Match:
		n.Scrutinee = m.process(n.Scrutinee, subst, bound, path)
		arms := make([]typedexpr.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = typedexpr.MatchArm{
				Constructor: arm.Constructor,
				Bindings:    arm.Bindings,
				Body:        m.process(arm.Body, subst, extend(bound, arm.Bindings...), path),
			}
		}
		n.Arms = arms
		return n.WithType(tytype.Apply(subst, n.Type()))

	case typedexpr.TyAnno:
		n.Inner = m.process(n.Inner, subst, bound, path)
		n.Ann = tytype.Apply(subst, n.Ann)
		return n.WithType(tytype.Apply(subst, n.Type()))

	case typedexpr.MakeStruct:
		fields := make([]typedexpr.FieldInit, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = typedexpr.FieldInit{Field: f.Field, Value: m.process(f.Value, subst, bound, path)}
		}
		n.Fields = fields
		return n.WithType(tytype.Apply(subst, n.Type()))

	case typedexpr.ArrayLit:
		elems := make([]typedexpr.Expr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = m.process(el, subst, bound, path)
		}
		n.Elems = elems
		return n.WithType(tytype.Apply(subst, n.Type()))

	case typedexpr.FfiCall:
		args := make([]typedexpr.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = m.process(a, subst, bound, path)
		}
		n.Args = args
		return n.WithType(tytype.Apply(subst, n.Type()))

	case typedexpr.Llvm:
		n.Declared = tytype.Apply(subst, n.Declared)
		return n.WithType(n.Declared)

	case typedexpr.Eval:
		n.Inner = m.process(n.Inner, subst, bound, path)
		return n.WithType(tytype.Apply(subst, n.Type()))

	default:
		return e
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

// match derives the substitution over sch's own quantified variables
// that makes sch's generic type equal the concrete type observed at
// one call site, by unifying the two and keeping only the bindings for
// sch's variables. A scheme with no quantified variables needs no
// unification at all.
func (m *monomorphizer) match(sch scheme.Scheme, concrete tytype.Type) tytype.Substitution {
	if len(sch.Vars) == 0 {
		return tytype.Substitution{}
	}
	u := tytype.NewUnifier(m.kinds, m.scope)
	sub, err := u.Unify(sch.Qual.Ty, concrete, tytype.Substitution{})
	if err != nil {
		if de, ok := err.(*diag.Error); ok {
			m.errors.Add(de)
		}
		return tytype.Substitution{}
	}
	quantified := make(map[string]bool, len(sch.Vars))
	for _, v := range sch.Vars {
		quantified[v] = true
	}
	restricted := tytype.Substitution{}
	for k, v := range sub {
		if quantified[k] {
			restricted[k] = v
		}
	}
	return restricted
}
