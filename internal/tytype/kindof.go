package tytype

import (
	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/kind"
)

// KindOf computes the kind of t given a kind environment and a per-
// definition kind scope, failing with KindMismatch if an application's
// argument kind does not match the head's expected parameter kind.
func KindOf(t Type, env *kind.Env, scope *kind.Scope) (kind.Kind, error) {
	switch t := t.(type) {
	case *Var:
		if k, ok := scope.Lookup(t.Name); ok {
			return k, nil
		}
		return t.Kind, nil

	case *Con:
		if k, ok := env.TyCon(t.Name); ok {
			return k, nil
		}
		return t.Kind, nil

	case *Fun:
		if _, err := KindOf(t.Param, env, scope); err != nil {
			return nil, err
		}
		if _, err := KindOf(t.Result, env, scope); err != nil {
			return nil, err
		}
		return kind.Star{}, nil

	case *App:
		headKind, err := KindOf(t.Head, env, scope)
		if err != nil {
			return nil, err
		}
		arrow, ok := headKind.(kind.Arrow)
		if !ok {
			return nil, diag.NewKindMismatch(t.String(), "_ -> _", headKind.String())
		}
		argKind, err := KindOf(t.Arg, env, scope)
		if err != nil {
			return nil, err
		}
		if !arrow.From.Equals(argKind) {
			return nil, diag.NewKindMismatch(t.String(), arrow.From.String(), argKind.String())
		}
		return arrow.To, nil

	case *AssocTy:
		sig, ok := env.Assoc(t.Assoc)
		if !ok {
			return t.Kind, nil
		}
		if len(t.Args) != len(sig.ParamKinds) {
			return nil, diag.NewKindMismatch(t.String(), "matching arity", "mismatched arity")
		}
		for i, arg := range t.Args {
			argKind, err := KindOf(arg, env, scope)
			if err != nil {
				return nil, err
			}
			if !argKind.Equals(sig.ParamKinds[i]) {
				return nil, diag.NewKindMismatch(t.String(), sig.ParamKinds[i].String(), argKind.String())
			}
		}
		return sig.ValueKind, nil
	}
	return nil, diag.NewKindMismatch(t.String(), "known type shape", "unrecognized type shape")
}
