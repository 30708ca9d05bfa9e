package solver

import (
	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/tytype"
)

// Goals is the solver's working state (§4.4): a bag of predicate and
// equality goals still to be discharged.
type Goals struct {
	Preds []tytype.Predicate
	Eqs   []tytype.Equality
}

// Result is what remains after Solve runs out of progress to make:
// Sub is the accumulated substitution from equality/instance resolution,
// Residual is whatever couldn't be discharged (variable-headed
// predicates, equalities whose LHS still contains a variable) and is
// carried forward into the caller's scheme as a qualified obligation.
type Result struct {
	Sub      tytype.Substitution
	Residual Goals
}

// Solve discharges every goal in g against te, each step either:
//   - resolving a predicate to a matching instance and replacing it with
//     that instance's constraints and equalities,
//   - reducing an equality whose associated-type application matches an
//     instance's type-family equation, binding its value, or
//   - deferring a goal whose head is still a variable to Result.Residual.
//
// maxDepth bounds the total number of resolution/reduction steps across
// all rounds; exceeding it without reaching a fixed point is
// diag.NewSolverDepthExceeded rather than an infinite loop (§4.4's
// termination requirement — the source states this as a recursion bound
// on reduction, not on total goal count, so a step only consumes depth
// when it actually resolves or reduces a goal, not when it merely defers
// one).
func Solve(te *TraitEnv, g Goals, maxDepth int) (Result, error) {
	sub := tytype.Substitution{}
	preds := append([]tytype.Predicate(nil), g.Preds...)
	eqs := append([]tytype.Equality(nil), g.Eqs...)

	depth := 0
	for {
		progressed := false

		var residualPreds []tytype.Predicate
		for _, p := range preds {
			p = p.Substitute(sub)
			if isVarHeaded(p.Ty) {
				residualPreds = append(residualPreds, p)
				continue
			}
			inst, instSub, err := te.Lookup(p.Trait, p.Ty)
			if err != nil {
				return Result{}, err
			}
			depth++
			if depth > maxDepth {
				return Result{}, diag.NewSolverDepthExceeded(maxDepth)
			}
			sub = tytype.Compose(instSub, sub)
			residualPreds = append(residualPreds, inst.Qual.Constraints...)
			eqs = append(eqs, inst.Qual.Equalities...)
			progressed = true
		}
		preds = residualPreds

		var residualEqs []tytype.Equality
		for _, eq := range eqs {
			eq = eq.Substitute(sub)
			reduced, reduction, err := reduceEquality(te, eq)
			if err != nil {
				return Result{}, err
			}
			if !reduced {
				residualEqs = append(residualEqs, eq)
				continue
			}
			depth++
			if depth > maxDepth {
				return Result{}, diag.NewSolverDepthExceeded(maxDepth)
			}
			sub = tytype.Compose(reduction, sub)
			progressed = true
		}
		eqs = residualEqs

		if !progressed {
			return Result{Sub: sub, Residual: Goals{Preds: preds, Eqs: eqs}}, nil
		}
	}
}

// isVarHeaded reports whether t is (or reduces trivially to) a bare
// type variable, which means a predicate over it cannot yet be resolved
// to a concrete instance.
func isVarHeaded(t tytype.Type) bool {
	_, ok := t.(*tytype.Var)
	return ok
}

// reduceEquality tries to discharge eq using the type-family equations
// contributed by te's instances: an equality reduces when some
// instance's own Equalities entry unifies both Assoc/Trait/Args against
// eq, binding eq.Value to that equation's RHS. If no instance matches
// and eq's arguments contain no variable, it's a hard failure
// (NoAssocReduction); if an argument is still a variable, the equality
// is left as a residual for solving to retry once that variable is
// bound elsewhere.
func reduceEquality(te *TraitEnv, eq tytype.Equality) (bool, tytype.Substitution, error) {
	for _, insts := range te.instances {
		for _, inst := range insts {
			for _, candidate := range inst.Qual.Equalities {
				if !candidate.Assoc.Equals(eq.Assoc) || !candidate.Trait.Equals(eq.Trait) {
					continue
				}
				fresh := TraitInstance{Qual: QualPredicate{Equalities: []tytype.Equality{candidate}}}
				frozen := fresh.Qual.Freshen(te.fresh).Equalities[0]
				if len(frozen.Args) != len(eq.Args) {
					continue
				}
				u := tytype.NewUnifier(te.env, te.scope)
				sub := tytype.Substitution{}
				ok := true
				for i := range eq.Args {
					var err error
					sub, err = u.Unify(frozen.Args[i], eq.Args[i], sub)
					if err != nil {
						ok = false
						break
					}
				}
				if !ok {
					continue
				}
				valueSub, err := u.Unify(frozen.Value, eq.Value, sub)
				if err != nil {
					return false, nil, nil
				}
				return true, valueSub, nil
			}
		}
	}

	for _, arg := range eq.Args {
		if containsVar(arg) {
			return false, nil, nil
		}
	}
	return false, nil, diag.NewNoAssocReduction(eq.Assoc.String(), eq.String())
}

func containsVar(t tytype.Type) bool {
	return len(tytype.Free(t)) > 0
}
