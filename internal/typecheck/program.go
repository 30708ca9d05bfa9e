package typecheck

import (
	"github.com/sunholo/fixcore/internal/scheme"
	"github.com/sunholo/fixcore/internal/solver"
	"github.com/sunholo/fixcore/internal/typedexpr"
	"github.com/sunholo/fixcore/internal/tytype"
)

// CheckSymbol infers body's type in env, solves every predicate/equality
// goal the body raised, and generalizes the result into a Scheme over
// whatever remains free in env (§4.5's top-level counterpart to
// inferLet's own value/generalize split — a top-level binding has no
// outer context to leave variables free in beyond env itself).
//
// Errors are accumulated on c.Errors rather than returned, consistent
// with every other Checker method (§7: accumulate, don't abort).
func (c *Checker) CheckSymbol(env *Env, body typedexpr.Expr) typedexpr.TypedExpr {
	predsBefore, eqsBefore := len(c.goals.Preds), len(c.goals.Eqs)
	typed, ty := c.Infer(env, body)

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
		Ty:          tytype.Apply(c.sub, ty),
	}
	sch, keptPreds, keptEqs := scheme.Generalize(qual, env.FreeVars())
	c.goals.Preds = append(c.goals.Preds, keptPreds...)
	c.goals.Eqs = append(c.goals.Eqs, keptEqs...)

	return typedexpr.TypedExpr{Expr: typed, Scheme: sch}
}
