package optimize

import "github.com/sunholo/fixcore/internal/typedexpr"

// removeTypeAnnotations rewrites every TyAnno(e, _) node to e: once
// typing has sealed every node with its own Type(), the annotation's
// only job was steering inference and it carries no further meaning.
// Grounded on original_source/src/optimization/remove_tyanno.rs's
// TyAnnoRemover, which does the identical unwrap at the end of visiting
// a tyanno node.
func removeTypeAnnotations(prog Program) Program {
	out := make([]typedexpr.InstantiatedSymbol, len(prog.Symbols))
	for i, sym := range prog.Symbols {
		sym.Body = walk(sym.Body, func(e typedexpr.Expr) typedexpr.Expr {
			if anno, ok := e.(typedexpr.TyAnno); ok {
				return anno.Inner
			}
			return e
		})
		out[i] = sym
	}
	return Program{Symbols: out, Roots: prog.Roots}
}
