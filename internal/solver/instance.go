package solver

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/tytype"
)

// TraitInstance is one `instance (constraints, equalities) => Ty : Trait`
// declaration: Head names the trait and the instance type, Constraints
// are the predicates that must be discharged to use it, Equalities are
// the associated-type equations it contributes.
type TraitInstance struct {
	Qual QualPredicate
	Span diag.Span
}

func (i TraitInstance) Trait() name.Name { return i.Qual.Head.Trait }

// TraitEnv holds every instance declared for every trait, keyed by
// trait name, and enforces coherence: no two instances for the same
// trait may have unifiable heads (§4.4 invariant).
//
// Grounded on internal/types/instances.go's InstanceEnv, whose Add
// performed a canonicalKey string-equality check. Here Add instead
// unifies the candidate's head type against every existing instance's
// head type (after freshening both, so free variables in either side
// don't accidentally pin the other): any unifier at all means the two
// instances overlap and Add rejects the second.
type TraitEnv struct {
	env       *kind.Env
	scope     *kind.Scope
	fresh     *tytype.Fresh
	instances map[string][]TraitInstance
}

// NewTraitEnv creates an empty trait environment. env/scope are used to
// kind-check unifications performed during overlap detection; fresh
// supplies variables for freshening instances before comparison.
func NewTraitEnv(env *kind.Env, scope *kind.Scope, fresh *tytype.Fresh) *TraitEnv {
	return &TraitEnv{env: env, scope: scope, fresh: fresh, instances: make(map[string][]TraitInstance)}
}

// Add declares inst, rejecting it with diag.NewOverlappingInstance if
// its head unifies with any already-declared instance of the same
// trait.
func (te *TraitEnv) Add(inst TraitInstance) error {
	traitKey := inst.Trait().String()
	for _, existing := range te.instances[traitKey] {
		if te.overlaps(existing, inst) {
			return diag.NewOverlappingInstance(traitKey, existing.Qual.Head.Ty.String(), inst.Qual.Head.Ty.String())
		}
	}
	te.instances[traitKey] = append(te.instances[traitKey], inst)
	return nil
}

// overlaps reports whether a and b's instance heads unify once each is
// freshened independently, which is the standard notion of instance
// overlap: if some concrete type could satisfy both heads at once,
// resolution would be ambiguous for it.
func (te *TraitEnv) overlaps(a, b TraitInstance) bool {
	af := a.Qual.Freshen(te.fresh)
	bf := b.Qual.Freshen(te.fresh)
	u := tytype.NewUnifier(te.env, te.scope)
	_, err := u.Unify(af.Head.Ty, bf.Head.Ty, tytype.Substitution{})
	return err == nil
}

// Instances returns every instance declared for trait, in declaration
// order.
func (te *TraitEnv) Instances(trait name.Name) []TraitInstance {
	return te.instances[trait.String()]
}

// Lookup finds the unique instance of trait whose head unifies with ty,
// freshened so the match doesn't leak variables into the caller's
// substitution. Returns diag.NewNoInstance if none match.
func (te *TraitEnv) Lookup(trait name.Name, ty tytype.Type) (TraitInstance, tytype.Substitution, error) {
	for _, inst := range te.instances[trait.String()] {
		fresh := inst.Qual.Freshen(te.fresh)
		u := tytype.NewUnifier(te.env, te.scope)
		sub, err := u.Unify(fresh.Head.Ty, ty, tytype.Substitution{})
		if err == nil {
			return TraitInstance{Qual: fresh, Span: inst.Span}, sub, nil
		}
	}
	return TraitInstance{}, nil, diag.NewNoInstance(trait.String(), ty.String())
}

// DeclaredTraits returns the name of every trait with at least one
// declared instance, sorted for deterministic output (used by
// cache/cmd-level introspection tooling that needs a stable listing
// rather than Go's randomized map iteration order).
func (te *TraitEnv) DeclaredTraits() []string {
	keys := maps.Keys(te.instances)
	slices.Sort(keys)
	return keys
}

func (i TraitInstance) String() string {
	return fmt.Sprintf("instance %s", i.Qual)
}
