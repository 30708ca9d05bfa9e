// Package solver implements §4.4: the predicate/equality solver that
// resolves `T : Trait` goals against a trait environment and reduces
// associated-type applications to head-normal form.
//
// Grounded on internal/types/instances.go's InstanceEnv (canonicalKey,
// Add coherence check, MissingInstanceError), generalized from
// monomorphic instances to qualified ones whose overlap check performs
// real unification (spec §9 resolves the "empty substitution, never
// inspected" gap named there). The two near-identical qual_pred /
// qual_predicate Rust modules (spec §9 open question) are collapsed into
// the single QualPredicate type below.
package solver

import (
	"fmt"
	"strings"

	"github.com/sunholo/fixcore/internal/tytype"
)

// QualPredicate is a qualified predicate: `constraints, equalities => head`.
// It models both a trait instance ("constraints ⇒ head") and the
// surface-level predicate an expression's type carries in its scheme.
type QualPredicate struct {
	Constraints []tytype.Predicate
	Equalities  []tytype.Equality
	Head        tytype.Predicate
}

func (q QualPredicate) String() string {
	if len(q.Constraints) == 0 && len(q.Equalities) == 0 {
		return q.Head.String()
	}
	parts := make([]string, 0, len(q.Constraints)+len(q.Equalities))
	for _, c := range q.Constraints {
		parts = append(parts, c.String())
	}
	for _, e := range q.Equalities {
		parts = append(parts, e.String())
	}
	return fmt.Sprintf("(%s) => %s", strings.Join(parts, ", "), q.Head)
}

// Substitute applies sub to every component of the qualified predicate.
func (q QualPredicate) Substitute(sub tytype.Substitution) QualPredicate {
	constraints := make([]tytype.Predicate, len(q.Constraints))
	for i, c := range q.Constraints {
		constraints[i] = c.Substitute(sub)
	}
	equalities := make([]tytype.Equality, len(q.Equalities))
	for i, e := range q.Equalities {
		equalities[i] = e.Substitute(sub)
	}
	return QualPredicate{
		Constraints: constraints,
		Equalities:  equalities,
		Head:        q.Head.Substitute(sub),
	}
}

// allTypes returns every Type reachable from this qualified predicate,
// used both for free-variable collection and for alpha-renaming.
func (q QualPredicate) allTypes() []tytype.Type {
	ts := []tytype.Type{q.Head.Ty}
	for _, c := range q.Constraints {
		ts = append(ts, c.Ty)
	}
	for _, e := range q.Equalities {
		ts = append(ts, e.Args...)
		ts = append(ts, e.Value)
	}
	return ts
}

// Freshen alpha-renames every free variable of q to a fresh one of the
// same kind, consistently across head/constraints/equalities, using
// supply. This is what makes instance lookup hygienic: each use of an
// instance gets variables that cannot collide with the caller's.
func (q QualPredicate) Freshen(supply *tytype.Fresh) QualPredicate {
	sub := tytype.Substitution{}
	for _, t := range q.allTypes() {
		for varName, v := range tytype.Free(t) {
			if _, done := sub[varName]; done {
				continue
			}
			fresh := supply.Var(v.Kind)
			fresh.Span = v.Span
			sub[varName] = fresh
		}
	}
	return q.Substitute(sub)
}
