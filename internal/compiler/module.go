package compiler

import (
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

// Decl is one not-yet-typechecked top-level binding: a name and the
// expression tree its value compiles to. Compile builds its own Checker
// with empty Checker.Structs/Checker.Ffi tables, so a MakeStruct or
// FfiCall in a Decl's body is reported as an unknown name.
type Decl struct {
	Name name.Name
	Body typedexpr.Expr
}

// Module is everything one compile needs: every top-level declaration,
// which of them are exported, and which (if any) is the entry point
// (§4.7's monomorphization roots).
type Module struct {
	Decls   []Decl
	Exports []name.Name
	Main    name.Name
}
