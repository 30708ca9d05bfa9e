// Package tytype implements §4.3: the type representation and the
// operations over it (substitution, free-variable enumeration, alias
// expansion, unification).
//
// Grounded on internal/types/types.go's Type interface shape
// (String/Equals/Substitute per variant) and internal/types/unification.go's
// per-case type switch, narrowed from the teacher's row/effect-heavy
// variant set to the spec's five variants (§3): Var, Con, App, Fun,
// AssocTy.
package tytype

import (
	"fmt"
	"strings"

	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/name"
)

// Type is a first-order type term.
type Type interface {
	String() string
	Equals(Type) bool
	// Substitute applies a substitution, returning a possibly-new term.
	Substitute(Substitution) Type
	// FreeVars appends this term's free type variables to acc, keyed by
	// name, so callers can recover both the span and the kind of the
	// first occurrence found.
	FreeVars(acc map[string]*Var)
}

// Var is a type variable. Within one inference frame, a name uniquely
// determines a kind (§3 invariant): the Kind field is authoritative for
// that name everywhere it's seen in that frame.
type Var struct {
	Name string
	Kind kind.Kind
	Span diag.Span
}

func (v *Var) String() string { return v.Name }
func (v *Var) Equals(o Type) bool {
	other, ok := o.(*Var)
	return ok && other.Name == v.Name
}
func (v *Var) Substitute(sub Substitution) Type {
	if t, ok := sub[v.Name]; ok {
		return t
	}
	return v
}
func (v *Var) FreeVars(acc map[string]*Var) {
	if _, ok := acc[v.Name]; !ok {
		acc[v.Name] = v
	}
}

// Con is a type constructor referenced by qualified name; it must exist
// in the kind environment (§3 invariant, enforced by callers that have a
// kind.Env in scope).
type Con struct {
	Name name.Name
	Kind kind.Kind
}

func (c *Con) String() string { return c.Name.String() }
func (c *Con) Equals(o Type) bool {
	other, ok := o.(*Con)
	return ok && other.Name.Equals(c.Name)
}
func (c *Con) Substitute(Substitution) Type { return c }
func (c *Con) FreeVars(map[string]*Var)     {}

// App is a type application `head arg`; kinds must be consistent at
// every application (head's kind must be an Arrow whose From matches
// arg's kind).
type App struct {
	Head Type
	Arg  Type
}

func (a *App) String() string {
	return fmt.Sprintf("(%s %s)", a.Head, a.Arg)
}
func (a *App) Equals(o Type) bool {
	other, ok := o.(*App)
	return ok && a.Head.Equals(other.Head) && a.Arg.Equals(other.Arg)
}
func (a *App) Substitute(sub Substitution) Type {
	return &App{Head: a.Head.Substitute(sub), Arg: a.Arg.Substitute(sub)}
}
func (a *App) FreeVars(acc map[string]*Var) {
	a.Head.FreeVars(acc)
	a.Arg.FreeVars(acc)
}

// Fun is a function type `a -> b`.
type Fun struct {
	Param  Type
	Result Type
}

func (f *Fun) String() string {
	return fmt.Sprintf("(%s -> %s)", f.Param, f.Result)
}
func (f *Fun) Equals(o Type) bool {
	other, ok := o.(*Fun)
	return ok && f.Param.Equals(other.Param) && f.Result.Equals(other.Result)
}
func (f *Fun) Substitute(sub Substitution) Type {
	return &Fun{Param: f.Param.Substitute(sub), Result: f.Result.Substitute(sub)}
}
func (f *Fun) FreeVars(acc map[string]*Var) {
	f.Param.FreeVars(acc)
	f.Result.FreeVars(acc)
}

// AssocTy is an associated-type application `Trait::Assoc args...`,
// bound to the trait that declares it. It does not unify syntactically
// with other shapes until the solver (§4.4) reduces it; arity must equal
// the declared parameter count (§3 invariant).
type AssocTy struct {
	Trait name.Name
	Assoc name.Name
	Args  []Type
	Kind  kind.Kind // the value kind this application reduces to
}

func (a *AssocTy) String() string {
	args := make([]string, len(a.Args))
	for i, arg := range a.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s::%s %s", a.Trait, a.Assoc, strings.Join(args, " "))
}
func (a *AssocTy) Equals(o Type) bool {
	other, ok := o.(*AssocTy)
	if !ok || !a.Trait.Equals(other.Trait) || !a.Assoc.Equals(other.Assoc) || len(a.Args) != len(other.Args) {
		return false
	}
	for i := range a.Args {
		if !a.Args[i].Equals(other.Args[i]) {
			return false
		}
	}
	return true
}
func (a *AssocTy) Substitute(sub Substitution) Type {
	args := make([]Type, len(a.Args))
	for i, arg := range a.Args {
		args[i] = arg.Substitute(sub)
	}
	return &AssocTy{Trait: a.Trait, Assoc: a.Assoc, Args: args, Kind: a.Kind}
}
func (a *AssocTy) FreeVars(acc map[string]*Var) {
	for _, arg := range a.Args {
		arg.FreeVars(acc)
	}
}

// Free returns the set of free type variables in t, keyed by name (used
// for error messages and for recovering kinds during alpha-renaming,
// §4.3).
func Free(t Type) map[string]*Var {
	acc := make(map[string]*Var)
	t.FreeVars(acc)
	return acc
}
