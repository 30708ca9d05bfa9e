// Package scheme implements §4.5's scheme layer: wrapping an inferred
// type plus its residual predicates/equalities into a QualType, and
// quantifying a QualType over its free variables into a Scheme.
//
// Grounded on internal/types/scheme.go's Scheme{Vars, Type} shape,
// widened to carry qualified predicates/equalities per QualType and to
// track predicate residue per variable at instantiation time.
package scheme

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/solver"
	"github.com/sunholo/fixcore/internal/tytype"
)

// QualType is an inferred type together with the predicates and
// associated-type equalities it still carries, unresolved, at the point
// generalization or instantiation inspects it.
type QualType struct {
	Constraints []tytype.Predicate
	Equalities  []tytype.Equality
	Ty          tytype.Type
}

func (q QualType) String() string {
	if len(q.Constraints) == 0 && len(q.Equalities) == 0 {
		return q.Ty.String()
	}
	parts := make([]string, 0, len(q.Constraints)+len(q.Equalities))
	for _, c := range q.Constraints {
		parts = append(parts, c.String())
	}
	for _, e := range q.Equalities {
		parts = append(parts, e.String())
	}
	return fmt.Sprintf("(%s) => %s", strings.Join(parts, ", "), q.Ty)
}

// Substitute applies sub to every component of q.
func (q QualType) Substitute(sub tytype.Substitution) QualType {
	constraints := make([]tytype.Predicate, len(q.Constraints))
	for i, c := range q.Constraints {
		constraints[i] = c.Substitute(sub)
	}
	equalities := make([]tytype.Equality, len(q.Equalities))
	for i, e := range q.Equalities {
		equalities[i] = e.Substitute(sub)
	}
	return QualType{Constraints: constraints, Equalities: equalities, Ty: q.Ty.Substitute(sub)}
}

// FreeVars returns the free type variables across q's type, constraints
// and equalities.
func (q QualType) FreeVars() map[string]*tytype.Var {
	acc := make(map[string]*tytype.Var)
	q.Ty.FreeVars(acc)
	for _, c := range q.Constraints {
		c.Ty.FreeVars(acc)
	}
	for _, e := range q.Equalities {
		for _, arg := range e.Args {
			arg.FreeVars(acc)
		}
		e.Value.FreeVars(acc)
	}
	return acc
}

// Scheme is a qualified type closed over a set of quantified variables
// (§4.2 DATA MODEL): `∀ vars. constraints, equalities => ty`.
type Scheme struct {
	Vars []string
	Qual QualType
}

func (s Scheme) String() string {
	if len(s.Vars) == 0 {
		return s.Qual.String()
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(s.Vars, " "), s.Qual)
}

// Monomorphic wraps a type with no quantified variables and no
// obligations, the scheme every non-generalized binding gets.
func Monomorphic(t tytype.Type) Scheme {
	return Scheme{Qual: QualType{Ty: t}}
}

// FreeVars returns s's free type variables as seen from outside the
// scheme: everything free in its qualified type minus the variables it
// quantifies over.
func (s Scheme) FreeVars() map[string]*tytype.Var {
	acc := s.Qual.FreeVars()
	for _, v := range s.Vars {
		delete(acc, v)
	}
	return acc
}

// Generalize quantifies q over exactly its free variables that are not
// free in envFree (the enclosing typing environment), per §4.5: "exactly
// over variables free in the inferred qualified type and not free in
// the environment; predicates/equalities whose free variables are all
// quantified become part of the produced scheme." Predicates/equalities
// with a variable still free in envFree are NOT generalized over — they
// are returned separately as obligations the caller must keep solving
// in the outer scope.
func Generalize(q QualType, envFree map[string]*tytype.Var) (Scheme, []tytype.Predicate, []tytype.Equality) {
	qualFree := q.FreeVars()
	var quantified []string
	quantifiedSet := make(map[string]bool)
	for v := range qualFree {
		if _, captured := envFree[v]; captured {
			continue
		}
		quantified = append(quantified, v)
		quantifiedSet[v] = true
	}
	slices.Sort(quantified)

	var ownConstraints, keptConstraints []tytype.Predicate
	for _, c := range q.Constraints {
		if allQuantified(c.Ty, quantifiedSet) {
			ownConstraints = append(ownConstraints, c)
		} else {
			keptConstraints = append(keptConstraints, c)
		}
	}
	var ownEqualities, keptEqualities []tytype.Equality
	for _, e := range q.Equalities {
		if allQuantifiedEquality(e, quantifiedSet) {
			ownEqualities = append(ownEqualities, e)
		} else {
			keptEqualities = append(keptEqualities, e)
		}
	}

	sch := Scheme{
		Vars: quantified,
		Qual: QualType{Constraints: ownConstraints, Equalities: ownEqualities, Ty: q.Ty},
	}
	return sch, keptConstraints, keptEqualities
}

func allQuantified(t tytype.Type, quantified map[string]bool) bool {
	for v := range tytype.Free(t) {
		if !quantified[v] {
			return false
		}
	}
	return true
}

func allQuantifiedEquality(e tytype.Equality, quantified map[string]bool) bool {
	for _, arg := range e.Args {
		if !allQuantified(arg, quantified) {
			return false
		}
	}
	return allQuantified(e.Value, quantified)
}

// Instantiate replaces every quantified variable of s with a fresh one
// of the same kind, via supply, and returns the resulting QualType —
// the call site's predicate/equality obligations to discharge (§4.5
// "instantiate its scheme; fresh vars; emit constraints for
// predicates/equalities").
func Instantiate(s Scheme, supply *tytype.Fresh) QualType {
	sub := tytype.Substitution{}
	free := s.Qual.FreeVars()
	for _, v := range s.Vars {
		orig, ok := free[v]
		k := kind.Kind(kind.Star{})
		if ok {
			k = orig.Kind
		}
		sub[v] = supply.Var(k)
	}
	return s.Qual.Substitute(sub)
}

// AsQualPredicate renders s's own (generalized) constraints and
// equalities as a solver.QualPredicate rooted at head, for feeding the
// typechecker's goal queue when a call site needs to resolve them
// immediately rather than propagate them further.
func (s Scheme) AsQualPredicate(head tytype.Predicate) solver.QualPredicate {
	return solver.QualPredicate{
		Constraints: s.Qual.Constraints,
		Equalities:  s.Qual.Equalities,
		Head:        head,
	}
}
