package typecheck

import (
	"github.com/sunholo/fixcore/internal/scheme"
	"github.com/sunholo/fixcore/internal/tytype"
)

// Env is the typing environment threaded through inference: a chain of
// scopes each holding monomorphic bindings (lambda parameters, match
// arm bindings) and scheme bindings (let-bound and global values).
type Env struct {
	vars    map[string]tytype.Type
	schemes map[string]scheme.Scheme
	parent  *Env
}

// NewEnv creates an empty root environment, typically seeded with
// global Symbol schemes before typechecking a program.
func NewEnv() *Env {
	return &Env{vars: map[string]tytype.Type{}, schemes: map[string]scheme.Scheme{}}
}

// Extend creates a child scope; bindings added to it shadow the parent
// without mutating it.
func (e *Env) Extend() *Env {
	return &Env{vars: map[string]tytype.Type{}, schemes: map[string]scheme.Scheme{}, parent: e}
}

// BindVar introduces a monomorphic binding in this scope (§4.5 Lam,
// Match arm bindings).
func (e *Env) BindVar(name string, ty tytype.Type) {
	e.vars[name] = ty
}

// BindScheme introduces a (possibly polymorphic) scheme binding in this
// scope (§4.5 Let, and globals seeded at the root).
func (e *Env) BindScheme(name string, sch scheme.Scheme) {
	e.schemes[name] = sch
}

// LookupVar finds a monomorphic binding by walking outward through
// enclosing scopes.
func (e *Env) LookupVar(name string) (tytype.Type, bool) {
	for s := e; s != nil; s = s.parent {
		if ty, ok := s.vars[name]; ok {
			return ty, true
		}
	}
	return nil, false
}

// LookupScheme finds a scheme binding by walking outward through
// enclosing scopes.
func (e *Env) LookupScheme(name string) (scheme.Scheme, bool) {
	for s := e; s != nil; s = s.parent {
		if sch, ok := s.schemes[name]; ok {
			return sch, true
		}
	}
	return scheme.Scheme{}, false
}

// FreeVars returns the set of type variables free anywhere in e,
// walking the whole scope chain: this is "the environment" against
// which Let generalization (§4.5) decides what it may quantify over.
func (e *Env) FreeVars() map[string]*tytype.Var {
	acc := make(map[string]*tytype.Var)
	for s := e; s != nil; s = s.parent {
		for _, ty := range s.vars {
			ty.FreeVars(acc)
		}
		for _, sch := range s.schemes {
			for k, v := range sch.FreeVars() {
				acc[k] = v
			}
		}
	}
	return acc
}
