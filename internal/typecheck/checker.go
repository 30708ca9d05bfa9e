// Package typecheck implements §4.5's constraint-generation typechecker:
// one contract per typedexpr.Expr variant, producing a sealed
// typedexpr.TypedExpr and accumulating diag.Errors rather than aborting
// at the first mismatch.
//
// Grounded on internal/types/typechecker.go's TypeChecker struct
// (errors []error, CheckProgram/checkDecl dispatch), generalized from
// its ast.Node dispatch to typedexpr.Expr dispatch, with the
// bidirectional-ish mix of unification and goal collection grounded on
// internal/types/inference.go's constraint-first structure.
package typecheck

import (
	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/solver"
	"github.com/sunholo/fixcore/internal/tytype"
)

// StructDecl declares a struct type's fields in source order, used by
// MakeStruct to derive a type without inferring one from scratch.
type StructDecl struct {
	Name   name.Name
	Fields []StructField
	Type   tytype.Type
}

// StructField is one field of a StructDecl.
type StructField struct {
	Name string
	Type tytype.Type
}

// FfiSignature declares an external function's parameter and result
// types, used by FfiCall (§4.5: "types derived from declarations ...;
// no novel inference rules").
type FfiSignature struct {
	Params []tytype.Type
	Result tytype.Type
}

// Checker holds everything one typechecking run needs: the kind
// environment/scope for kind-of checks, the alias table for expanding
// TyAnno annotations, the trait environment for resolving predicates,
// a fresh-variable supply, and declaration tables for the built-in
// constructs that derive their type rather than infer it.
type Checker struct {
	Kinds   *kind.Env
	Scope   *kind.Scope
	Types   *tytype.TypeEnv
	Traits  *solver.TraitEnv
	Fresh   *tytype.Fresh
	Structs map[string]StructDecl
	Ffi     map[string]FfiSignature
	Errors  diag.Errors

	sub   tytype.Substitution
	goals solver.Goals
}

// New creates a Checker over the given shared, read-only environments
// (§5: KindEnv/TraitEnv/TypeEnv are constructed once per compile, then
// read-only).
func New(kinds *kind.Env, scope *kind.Scope, types *tytype.TypeEnv, traits *solver.TraitEnv, fresh *tytype.Fresh) *Checker {
	return &Checker{
		Kinds:   kinds,
		Scope:   scope,
		Types:   types,
		Traits:  traits,
		Fresh:   fresh,
		Structs: map[string]StructDecl{},
		Ffi:     map[string]FfiSignature{},
		sub:     tytype.Substitution{},
	}
}

// star is shorthand for the kind every ordinary type variable is
// minted with unless a signature says otherwise.
func star() kind.Kind { return kind.Star{} }

// unify runs c's unifier over a/b, folding the resulting substitution
// into c.sub and absorbing any suspended associated-type goals; a
// failure is recorded in c.Errors and a is returned unchanged so
// inference can keep going (§7: errors accumulate rather than abort).
func (c *Checker) unify(a, b tytype.Type) tytype.Type {
	u := tytype.NewUnifier(c.Kinds, c.Scope)
	sub, err := u.Unify(tytype.Apply(c.sub, a), tytype.Apply(c.sub, b), tytype.Substitution{})
	if err != nil {
		c.addErr(err)
		return a
	}
	c.sub = tytype.Compose(sub, c.sub)
	c.goals.Eqs = append(c.goals.Eqs, u.Residual...)
	return tytype.Apply(c.sub, a)
}

func (c *Checker) addErr(err error) {
	if de, ok := err.(*diag.Error); ok {
		c.Errors.Add(de)
	}
}

func (c *Checker) fresh() *tytype.Var { return c.Fresh.Var(star()) }
