package kind

import (
	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/name"
)

// Env holds TyCon -> Kind, TyAssoc -> (param kinds, value kind), and
// TraitId -> Kind, exactly as spec §4.2 describes KindEnv.
type Env struct {
	tycons  map[string]Kind
	assocs  map[string]AssocSig
	traits  map[string]Kind
}

// AssocSig is an associated type's declared signature: the kinds of its
// parameters (beyond the trait's own type parameter) and the kind its
// reduction produces.
type AssocSig struct {
	ParamKinds []Kind
	ValueKind  Kind
}

// NewEnv creates an empty kind environment.
func NewEnv() *Env {
	return &Env{
		tycons: make(map[string]Kind),
		assocs: make(map[string]AssocSig),
		traits: make(map[string]Kind),
	}
}

// DeclareTyCon registers a type constructor's kind. Declaring the same
// name twice with a differing kind is a KindMismatch.
func (e *Env) DeclareTyCon(n name.Name, k Kind) error {
	return declare(e.tycons, n.String(), k)
}

// DeclareTrait registers a trait's kind (the kind its type parameter
// must have for an instance head to apply).
func (e *Env) DeclareTrait(n name.Name, k Kind) error {
	return declare(e.traits, n.String(), k)
}

// DeclareAssoc registers an associated type's signature.
func (e *Env) DeclareAssoc(n name.Name, sig AssocSig) error {
	key := n.String()
	if existing, ok := e.assocs[key]; ok {
		if !sameSig(existing, sig) {
			return diag.NewKindMismatch(n.String(), assocSigString(existing), assocSigString(sig))
		}
		return nil
	}
	e.assocs[key] = sig
	return nil
}

// TyCon looks up a type constructor's kind. The referenced tycon must
// exist in the kind env (§3 invariant); a miss is reported by the caller
// as an UnknownName, not here, since Env has no notion of diagnostics
// location.
func (e *Env) TyCon(n name.Name) (Kind, bool) {
	k, ok := e.tycons[n.String()]
	return k, ok
}

// Trait looks up a trait's declared kind.
func (e *Env) Trait(n name.Name) (Kind, bool) {
	k, ok := e.traits[n.String()]
	return k, ok
}

// Assoc looks up an associated type's declared signature.
func (e *Env) Assoc(n name.Name) (AssocSig, bool) {
	sig, ok := e.assocs[n.String()]
	return sig, ok
}

func declare(m map[string]Kind, key string, k Kind) error {
	if existing, ok := m[key]; ok {
		if !existing.Equals(k) {
			return diag.NewKindMismatch(key, existing.String(), k.String())
		}
		return nil
	}
	m[key] = k
	return nil
}

func sameSig(a, b AssocSig) bool {
	if len(a.ParamKinds) != len(b.ParamKinds) {
		return false
	}
	for i := range a.ParamKinds {
		if !a.ParamKinds[i].Equals(b.ParamKinds[i]) {
			return false
		}
	}
	return a.ValueKind.Equals(b.ValueKind)
}

func assocSigString(s AssocSig) string {
	out := "("
	for i, k := range s.ParamKinds {
		if i > 0 {
			out += ", "
		}
		out += k.String()
	}
	return out + ") -> " + s.ValueKind.String()
}
