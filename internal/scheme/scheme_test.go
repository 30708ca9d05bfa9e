package scheme

import (
	"testing"

	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/tytype"
)

func star() kind.Kind { return kind.Star{} }

func TestGeneralizeQuantifiesOnlyUncaptured(t *testing.T) {
	a := &tytype.Var{Name: "a", Kind: star()}
	b := &tytype.Var{Name: "b", Kind: star()}
	fn := &tytype.Fun{Param: a, Result: b}

	envFree := map[string]*tytype.Var{"b": b}
	sch, keptPreds, keptEqs := Generalize(QualType{Ty: fn}, envFree)

	if len(sch.Vars) != 1 || sch.Vars[0] != "a" {
		t.Fatalf("expected scheme quantified over [a], got %v", sch.Vars)
	}
	if len(keptPreds) != 0 || len(keptEqs) != 0 {
		t.Fatalf("expected no leftover obligations")
	}
}

func TestGeneralizeKeepsConstraintOnCapturedVariable(t *testing.T) {
	a := &tytype.Var{Name: "a", Kind: star()}
	b := &tytype.Var{Name: "b", Kind: star()}
	showTrait := name.New("Show")

	q := QualType{
		Constraints: []tytype.Predicate{{Trait: showTrait, Ty: b}},
		Ty:          a,
	}
	envFree := map[string]*tytype.Var{"b": b}
	sch, keptPreds, _ := Generalize(q, envFree)

	if len(sch.Qual.Constraints) != 0 {
		t.Fatalf("constraint over captured var b should not be generalized, got %v", sch.Qual.Constraints)
	}
	if len(keptPreds) != 1 {
		t.Fatalf("expected the Show b constraint to be kept as an obligation")
	}
}

func TestInstantiateProducesFreshDistinctVars(t *testing.T) {
	a := &tytype.Var{Name: "a", Kind: star()}
	sch := Scheme{Vars: []string{"a"}, Qual: QualType{Ty: &tytype.Fun{Param: a, Result: a}}}

	supply := tytype.NewFresh()
	inst1 := Instantiate(sch, supply)
	inst2 := Instantiate(sch, supply)

	if inst1.Ty.Equals(inst2.Ty) {
		t.Fatalf("expected two instantiations to produce distinct fresh variables")
	}
	fn, ok := inst1.Ty.(*tytype.Fun)
	if !ok {
		t.Fatalf("expected a function type, got %s", inst1.Ty)
	}
	if !fn.Param.Equals(fn.Result) {
		t.Fatalf("expected both occurrences of a to be instantiated to the same fresh variable")
	}
}

func TestMonomorphicHasNoQuantifiedVars(t *testing.T) {
	intTy := &tytype.Con{Name: name.New("Int"), Kind: star()}
	sch := Monomorphic(intTy)
	if len(sch.Vars) != 0 {
		t.Fatalf("expected no quantified variables")
	}
}
