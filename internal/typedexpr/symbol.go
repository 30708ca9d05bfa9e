package typedexpr

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/scheme"
	"github.com/sunholo/fixcore/internal/tytype"
)

// TypedExpr is a self-describing (expression, scheme) pair (§3): once
// produced it carries no external references besides qualified names,
// so it can be serialized into the typecheck cache verbatim.
type TypedExpr struct {
	Expr   Expr
	Scheme scheme.Scheme
}

// Symbol is a top-level binding: name, scheme, expression. The scheme
// must cover the expression's inferred type (§3 invariant), which the
// typechecker establishes by construction.
type Symbol struct {
	Name  name.Name
	Typed TypedExpr
}

// InstantiatedSymbol is one monomorphized specialization of a Symbol at
// a concrete type substitution (§4.7): every free type variable in Body
// is resolved.
type InstantiatedSymbol struct {
	MangledName string
	Original    name.Name
	Subst       tytype.Substitution
	Body        Expr
}

// Mangle computes the stable specialization name mangle(name, τ) from
// §4.7: the original qualified name plus a content hash of the
// substitution's string rendering, so two substitutions that print
// identically (the only thing that matters for specialized code)
// collide to the same mangled name and get memoized together.
func Mangle(n name.Name, subst tytype.Substitution) string {
	h := md5.Sum([]byte(substString(subst)))
	return fmt.Sprintf("%s$%s", n, hex.EncodeToString(h[:])[:12])
}

func substString(subst tytype.Substitution) string {
	keys := make([]string, 0, len(subst))
	for k := range subst {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(subst[k].String())
		b.WriteByte(';')
	}
	return b.String()
}
