package tytype

import (
	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/name"
)

// Alias is a non-recursive type alias: `type Name params... = Body`.
type Alias struct {
	Params []string
	Body   Type
}

// TypeEnv holds declared type aliases and expands them before
// unification. Aliases must be non-recursive; a cycle is rejected with
// AliasCycle (§4.3).
type TypeEnv struct {
	aliases map[string]Alias
}

// NewTypeEnv creates an empty alias environment.
func NewTypeEnv() *TypeEnv {
	return &TypeEnv{aliases: make(map[string]Alias)}
}

// Declare registers a type alias. It does not itself check for cycles;
// cycles are caught lazily by Expand, the same way the spec describes
// alias cycles being rejected at expansion time.
func (e *TypeEnv) Declare(n name.Name, a Alias) {
	e.aliases[n.String()] = a
}

// Expand fully expands every alias application reachable from t,
// substituting alias parameters with the supplied arguments at each
// application site. Cycles are detected via a visiting set threaded
// through the recursion.
func (e *TypeEnv) Expand(t Type) (Type, error) {
	return e.expand(t, nil)
}

func (e *TypeEnv) expand(t Type, visiting []string) (Type, error) {
	head, args := flatten(t)
	con, isCon := head.(*Con)
	if !isCon {
		return e.expandChildren(t, visiting)
	}
	alias, ok := e.aliases[con.Name.String()]
	if !ok {
		return e.expandChildren(t, visiting)
	}
	key := con.Name.String()
	for _, v := range visiting {
		if v == key {
			chain := append(append([]string(nil), visiting...), key)
			return nil, diag.NewAliasCycle(chain)
		}
	}
	if len(args) < len(alias.Params) {
		// Partially applied alias: expand children only; under-saturated
		// aliases are not reduced (there is nothing to substitute yet).
		return e.expandChildren(t, visiting)
	}
	sub := make(Substitution, len(alias.Params))
	for i, p := range alias.Params {
		expandedArg, err := e.expand(args[i], visiting)
		if err != nil {
			return nil, err
		}
		sub[p] = expandedArg
	}
	body := alias.Body.Substitute(sub)
	rest := args[len(alias.Params):]
	expandedBody, err := e.expand(body, append(visiting, key))
	if err != nil {
		return nil, err
	}
	return reapply(expandedBody, rest), nil
}

func (e *TypeEnv) expandChildren(t Type, visiting []string) (Type, error) {
	switch t := t.(type) {
	case *App:
		head, err := e.expand(t.Head, visiting)
		if err != nil {
			return nil, err
		}
		arg, err := e.expand(t.Arg, visiting)
		if err != nil {
			return nil, err
		}
		return &App{Head: head, Arg: arg}, nil
	case *Fun:
		param, err := e.expand(t.Param, visiting)
		if err != nil {
			return nil, err
		}
		result, err := e.expand(t.Result, visiting)
		if err != nil {
			return nil, err
		}
		return &Fun{Param: param, Result: result}, nil
	case *AssocTy:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			expanded, err := e.expand(a, visiting)
			if err != nil {
				return nil, err
			}
			args[i] = expanded
		}
		return &AssocTy{Trait: t.Trait, Assoc: t.Assoc, Args: args, Kind: t.Kind}, nil
	default:
		return t, nil
	}
}

// flatten decomposes a left-nested chain of App nodes into its head and
// argument list, e.g. `((F a) b)` becomes (F, [a, b]).
func flatten(t Type) (Type, []Type) {
	var args []Type
	for {
		app, ok := t.(*App)
		if !ok {
			return t, args
		}
		args = append([]Type{app.Arg}, args...)
		t = app.Head
	}
}

// reapply rebuilds an App chain applying head to the given arguments.
func reapply(head Type, args []Type) Type {
	for _, a := range args {
		head = &App{Head: head, Arg: a}
	}
	return head
}
