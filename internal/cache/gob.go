package cache

import (
	"encoding/gob"

	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/tytype"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

// gob requires every concrete type that flows through an interface
// field to be registered up front, so FileCache's serialization of a
// TypedExpr (whose Expr and Type fields are both interfaces) needs
// every ExprNode variant, Type variant, and Kind variant named here.
func init() {
	gob.Register(typedexpr.Var{})
	gob.Register(typedexpr.Lam{})
	gob.Register(typedexpr.App{})
	gob.Register(typedexpr.Let{})
	gob.Register(typedexpr.If{})
	gob.Register(typedexpr.Match{})
	gob.Register(typedexpr.TyAnno{})
	gob.Register(typedexpr.MakeStruct{})
	gob.Register(typedexpr.ArrayLit{})
	gob.Register(typedexpr.FfiCall{})
	gob.Register(typedexpr.Llvm{})
	gob.Register(typedexpr.Eval{})

	gob.Register(&tytype.Var{})
	gob.Register(&tytype.Con{})
	gob.Register(&tytype.App{})
	gob.Register(&tytype.Fun{})
	gob.Register(&tytype.AssocTy{})

	gob.Register(kind.Star{})
	gob.Register(kind.Arrow{})
}
