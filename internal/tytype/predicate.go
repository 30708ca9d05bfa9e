package tytype

import (
	"fmt"

	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/name"
)

// Predicate is a goal `ty : TraitId` (§3): ty's kind must equal the
// trait's declared kind, checked by callers with a kind.Env in scope.
type Predicate struct {
	Trait name.Name
	Ty    Type
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s %s", p.Trait, p.Ty)
}

// Substitute applies sub to the predicate's type.
func (p Predicate) Substitute(sub Substitution) Predicate {
	return Predicate{Trait: p.Trait, Ty: p.Ty.Substitute(sub)}
}

// Equality is a type-family equation `AssocTy args = value` (§3): args
// arity must match the associated type's declaration and kinds must
// match.
type Equality struct {
	Assoc name.Name
	Trait name.Name
	Args  []Type
	Value Type
	Span  diag.Span
}

func (eq Equality) String() string {
	args := ""
	for i, a := range eq.Args {
		if i > 0 {
			args += " "
		}
		args += a.String()
	}
	return fmt.Sprintf("%s::%s %s = %s", eq.Trait, eq.Assoc, args, eq.Value)
}

// Substitute applies sub to both sides of the equality.
func (eq Equality) Substitute(sub Substitution) Equality {
	args := make([]Type, len(eq.Args))
	for i, a := range eq.Args {
		args[i] = a.Substitute(sub)
	}
	return Equality{Assoc: eq.Assoc, Trait: eq.Trait, Args: args, Value: eq.Value.Substitute(sub)}
}

// AsAssocTy renders this equality's left-hand side as an AssocTy
// application, e.g. for matching against a suspended unification goal.
func (eq Equality) AsAssocTy() *AssocTy {
	return &AssocTy{Trait: eq.Trait, Assoc: eq.Assoc, Args: eq.Args}
}
