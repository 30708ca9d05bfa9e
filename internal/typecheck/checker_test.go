package typecheck

import (
	"testing"

	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/scheme"
	"github.com/sunholo/fixcore/internal/solver"
	"github.com/sunholo/fixcore/internal/tytype"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

func star() kind.Kind { return kind.Star{} }

func newChecker() *Checker {
	kinds := kind.NewEnv()
	scope := kind.NewScope()
	types := tytype.NewTypeEnv()
	fresh := tytype.NewFresh()
	traits := solver.NewTraitEnv(kinds, scope, fresh)
	return New(kinds, scope, types, traits, fresh)
}

// TestIdentityPolymorphism covers spec scenario 1: `id = λx. x` infers
// to ∀α. α → α; applying it to distinct concrete types instantiates
// distinct fresh variables each time.
func TestIdentityPolymorphism(t *testing.T) {
	c := newChecker()
	env := NewEnv()

	idExpr := typedexpr.NewLam(diag.Span{}, []string{"x"}, typedexpr.NewVar(diag.Span{}, name.New("x")))
	_, idTy := c.Infer(env, idExpr)

	fn, ok := idTy.(*tytype.Fun)
	if !ok {
		t.Fatalf("expected a function type, got %s", idTy)
	}
	if !fn.Param.Equals(fn.Result) {
		t.Fatalf("expected id's parameter and result type to be the same variable, got %s -> %s", fn.Param, fn.Result)
	}
	if !c.Errors.OK() {
		t.Fatalf("unexpected errors: %v", c.Errors.All())
	}
}

// TestSimpleClassResolution covers spec scenario 2: given `class Eq a`
// and `instance Eq Int`, `eq 1 2` types to Bool with no residual
// predicates.
func TestSimpleClassResolution(t *testing.T) {
	c := newChecker()
	intName := name.New("Int")
	c.Kinds.DeclareTyCon(intName, star())
	intTy := &tytype.Con{Name: intName, Kind: star()}
	boolTy := con("Bool")

	eqTrait := name.New("Eq")
	eqScheme := scheme.Scheme{
		Vars: []string{"a"},
		Qual: scheme.QualType{
			Constraints: []tytype.Predicate{{Trait: eqTrait, Ty: &tytype.Var{Name: "a", Kind: star()}}},
			Ty: &tytype.Fun{
				Param: &tytype.Var{Name: "a", Kind: star()},
				Result: &tytype.Fun{
					Param:  &tytype.Var{Name: "a", Kind: star()},
					Result: boolTy,
				},
			},
		},
	}

	if err := c.Traits.Add(solver.TraitInstance{Qual: solver.QualPredicate{Head: tytype.Predicate{Trait: eqTrait, Ty: intTy}}}); err != nil {
		t.Fatalf("unexpected error declaring instance: %v", err)
	}

	env := NewEnv()
	env.BindScheme("eq", eqScheme)
	env.BindVar("one", intTy)
	env.BindVar("two", intTy)

	call := typedexpr.NewApp(diag.Span{}, typedexpr.NewVar(diag.Span{}, name.New("eq")), []typedexpr.Expr{
		typedexpr.NewVar(diag.Span{}, name.New("one")),
		typedexpr.NewVar(diag.Span{}, name.New("two")),
	})

	// Simulate how a top-level binding resolves its own goals: infer,
	// substitute the goals with whatever unification has pinned down so
	// far, then solve.
	_, ty := c.Infer(env, call)
	substituted := solver.Goals{}
	for _, p := range c.goals.Preds {
		substituted.Preds = append(substituted.Preds, p.Substitute(c.sub))
	}
	result, err := solver.Solve(c.Traits, substituted, 10)
	if err != nil {
		t.Fatalf("unexpected error solving: %v", err)
	}
	if len(result.Residual.Preds) != 0 {
		t.Fatalf("expected no residual predicates, got %v", result.Residual.Preds)
	}
	if !tytype.Apply(result.Sub, ty).Equals(boolTy) {
		t.Fatalf("expected eq 1 2 : Bool, got %s", ty)
	}
}

// TestDeferredPredicate covers spec scenario 3: `λx. eq x x` types to
// ∀α. Eq α ⇒ α → Bool, with the Eq α predicate surviving generalization
// as a residual obligation on the produced scheme.
func TestDeferredPredicate(t *testing.T) {
	c := newChecker()
	boolTy := con("Bool")
	eqTrait := name.New("Eq")
	eqScheme := scheme.Scheme{
		Vars: []string{"a"},
		Qual: scheme.QualType{
			Constraints: []tytype.Predicate{{Trait: eqTrait, Ty: &tytype.Var{Name: "a", Kind: star()}}},
			Ty: &tytype.Fun{
				Param: &tytype.Var{Name: "a", Kind: star()},
				Result: &tytype.Fun{
					Param:  &tytype.Var{Name: "a", Kind: star()},
					Result: boolTy,
				},
			},
		},
	}

	env := NewEnv()
	env.BindScheme("eq", eqScheme)

	body := typedexpr.NewApp(diag.Span{}, typedexpr.NewVar(diag.Span{}, name.New("eq")), []typedexpr.Expr{
		typedexpr.NewVar(diag.Span{}, name.New("x")),
		typedexpr.NewVar(diag.Span{}, name.New("x")),
	})
	lam := typedexpr.NewLam(diag.Span{}, []string{"x"}, body)

	_, ty := c.Infer(env, lam)
	if !c.Errors.OK() {
		t.Fatalf("unexpected errors: %v", c.Errors.All())
	}

	// The predicate the call produced is still outstanding on c.goals;
	// generalizing it (as a Let at the top level would) must keep it.
	qual := scheme.QualType{Constraints: c.goals.Preds, Ty: tytype.Apply(c.sub, ty)}
	sch, _, _ := scheme.Generalize(qual, map[string]*tytype.Var{})
	if len(sch.Qual.Constraints) != 1 {
		t.Fatalf("expected the Eq predicate to survive generalization, got %v", sch.Qual.Constraints)
	}
}

// TestOccursCheckFails covers spec scenario 4: `λf. f f` fails with
// OccursCheck on the attempted unification α = α → β.
func TestOccursCheckFails(t *testing.T) {
	c := newChecker()
	env := NewEnv()

	body := typedexpr.NewApp(diag.Span{}, typedexpr.NewVar(diag.Span{}, name.New("f")), []typedexpr.Expr{
		typedexpr.NewVar(diag.Span{}, name.New("f")),
	})
	lam := typedexpr.NewLam(diag.Span{}, []string{"f"}, body)

	c.Infer(env, lam)
	if c.Errors.OK() {
		t.Fatalf("expected an occurs-check error")
	}
	found := false
	for _, e := range c.Errors.All() {
		if e.Code == diag.CodeOccursCheck {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an OccursCheck error among %v", c.Errors.All())
	}
}

// TestIfBranchesMustUnify exercises the If contract: mismatched branch
// types are reported as a type mismatch, not silently accepted.
func TestIfBranchesMustUnify(t *testing.T) {
	c := newChecker()
	intName := name.New("Int")
	c.Kinds.DeclareTyCon(intName, star())
	intTy := &tytype.Con{Name: intName, Kind: star()}

	env := NewEnv()
	env.BindVar("cond", con("Bool"))
	env.BindVar("n", intTy)
	env.BindVar("b", con("Bool"))

	ifExpr := typedexpr.NewIf(diag.Span{},
		typedexpr.NewVar(diag.Span{}, name.New("cond")),
		typedexpr.NewVar(diag.Span{}, name.New("n")),
		typedexpr.NewVar(diag.Span{}, name.New("b")),
	)
	c.Infer(env, ifExpr)
	if c.Errors.OK() {
		t.Fatalf("expected a type mismatch error between branches")
	}
}

// TestLetGeneralizesOverFreshVariables exercises the Let contract with
// no predicates involved: the bound value's scheme should quantify
// over its own free type variable.
func TestLetGeneralizesOverFreshVariables(t *testing.T) {
	c := newChecker()
	env := NewEnv()

	letExpr := typedexpr.NewLet(diag.Span{}, "id",
		typedexpr.NewLam(diag.Span{}, []string{"x"}, typedexpr.NewVar(diag.Span{}, name.New("x"))),
		typedexpr.NewApp(diag.Span{}, typedexpr.NewVar(diag.Span{}, name.New("id")), []typedexpr.Expr{
			typedexpr.NewVar(diag.Span{}, name.New("id")),
		}),
	)

	_, _ = c.Infer(env, letExpr)
	if !c.Errors.OK() {
		t.Fatalf("unexpected errors generalizing and reusing id at two types: %v", c.Errors.All())
	}
}
