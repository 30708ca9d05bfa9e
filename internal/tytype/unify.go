package tytype

import (
	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/kind"
)

// Unifier computes most general unifiers over Type, suspending goals
// that involve a non-reducible associated-type application instead of
// failing outright (§4.4 reduces those separately).
//
// Grounded on internal/types/unification.go's Unify(sub) (Substitution,
// error) per-case switch with swap-and-retry for variables.
type Unifier struct {
	env   *kind.Env
	scope *kind.Scope
	// Residual collects suspended AssocTy goals produced during this
	// unification run, to be handed to the solver as Equalities.
	Residual []Equality
}

// NewUnifier creates a Unifier that checks kinds against env/scope.
func NewUnifier(env *kind.Env, scope *kind.Scope) *Unifier {
	return &Unifier{env: env, scope: scope}
}

// Unify attempts to unify a and b under sub, returning an updated
// substitution. A goal whose either side is a non-reducible associated-
// type application is suspended (appended to u.Residual) rather than
// failed, whatever the other side is, unless that side is a variable
// (variables are bound first).
func (u *Unifier) Unify(a, b Type, sub Substitution) (Substitution, error) {
	a = Apply(sub, a)
	b = Apply(sub, b)

	if a.Equals(b) {
		return sub, nil
	}

	if av, ok := a.(*Var); ok {
		return u.bindVar(av, b, sub)
	}
	if bv, ok := b.(*Var); ok {
		return u.bindVar(bv, a, sub)
	}

	if aAssoc, ok := a.(*AssocTy); ok {
		return u.suspend(aAssoc, b, sub)
	}
	if bAssoc, ok := b.(*AssocTy); ok {
		return u.suspend(bAssoc, a, sub)
	}

	switch a := a.(type) {
	case *Con:
		if b, ok := b.(*Con); ok && a.Name.Equals(b.Name) {
			return sub, nil
		}
		return nil, diag.NewTypeMismatch(a.String(), b.String())

	case *Fun:
		bf, ok := b.(*Fun)
		if !ok {
			return nil, diag.NewTypeMismatch(a.String(), b.String())
		}
		sub, err := u.Unify(a.Param, bf.Param, sub)
		if err != nil {
			return nil, err
		}
		return u.Unify(a.Result, bf.Result, sub)

	case *App:
		bApp, ok := b.(*App)
		if !ok {
			return nil, diag.NewTypeMismatch(a.String(), b.String())
		}
		sub, err := u.Unify(a.Head, bApp.Head, sub)
		if err != nil {
			return nil, err
		}
		return u.Unify(Apply(sub, a.Arg), Apply(sub, bApp.Arg), sub)
	}

	return nil, diag.NewTypeMismatch(a.String(), b.String())
}

// suspend defers a goal whose LHS is a non-reducible AssocTy application
// against an arbitrary non-variable RHS, recording it as a residual
// equality (§4.4: the solver, not the unifier, performs reduction). A
// variable RHS never reaches here: Unify binds the variable to the
// AssocTy application instead.
func (u *Unifier) suspend(assoc *AssocTy, rhs Type, sub Substitution) (Substitution, error) {
	u.Residual = append(u.Residual, Equality{
		Assoc: assoc.Assoc,
		Trait: assoc.Trait,
		Args:  assoc.Args,
		Value: rhs,
	})
	return sub, nil
}

func (u *Unifier) bindVar(v *Var, t Type, sub Substitution) (Substitution, error) {
	if other, ok := t.(*Var); ok && other.Name == v.Name {
		return sub, nil
	}
	if u.occurs(v.Name, t) {
		return nil, diag.NewOccursCheck(v.Name, t.String())
	}
	tk, err := KindOf(t, u.env, u.scope)
	if err != nil {
		return nil, err
	}
	if !v.Kind.Equals(tk) {
		return nil, diag.NewKindMismatch(v.Name, v.Kind.String(), tk.String())
	}
	next := Substitution{v.Name: t}
	return Compose(next, sub), nil
}

// occurs reports whether varName appears free in t (the occurs check).
func (u *Unifier) occurs(varName string, t Type) bool {
	_, present := Free(t)[varName]
	return present
}
