package kind

import "github.com/sunholo/fixcore/internal/diag"

// Scope is a per-definition overlay mapping type-variable names to kinds,
// produced by folding explicit kind signatures and predicates/equalities
// in declaration order (spec §4.2). This package does not perform that
// fold; a Scope is filled by calling Insert, and Scope only owns the
// insert-or-match rule.
type Scope struct {
	vars map[string]Kind
}

// NewScope creates an empty kind scope.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]Kind)}
}

// Insert binds a type-variable name to a kind. Inserting a name already
// present must match the existing kind or fails with KindMismatch.
func (s *Scope) Insert(tvar string, k Kind) error {
	if existing, ok := s.vars[tvar]; ok {
		if !existing.Equals(k) {
			return diag.NewKindMismatch(tvar, existing.String(), k.String())
		}
		return nil
	}
	s.vars[tvar] = k
	return nil
}

// Lookup returns the kind bound to tvar in this scope, if any.
func (s *Scope) Lookup(tvar string) (Kind, bool) {
	k, ok := s.vars[tvar]
	return k, ok
}

// Vars returns the set of type-variable names bound in this scope.
func (s *Scope) Vars() []string {
	out := make([]string, 0, len(s.vars))
	for v := range s.vars {
		out = append(out, v)
	}
	return out
}
