package optimize

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

// simplifyNames replaces each InstantiatedSymbol's content-hash mangled
// suffix (typedexpr.Mangle's `name$hexhash`) with a short, stable
// `name$i` index assigned by sorting every mangled name that exists in
// this program — so later stages (and the compile-unit cache's file
// names) hash something short and deterministic across otherwise
// identical rebuilds, rather than md5's full twelve hex characters.
// Every call-site reference is rewritten along with the definition it
// now names.
func simplifyNames(prog Program) Program {
	sorted := append([]typedexpr.InstantiatedSymbol(nil), prog.Symbols...)
	slices.SortFunc(sorted, func(a, b typedexpr.InstantiatedSymbol) int {
		return strings.Compare(a.MangledName, b.MangledName)
	})

	rename := make(map[string]string, len(sorted))
	for i, sym := range sorted {
		rename[sym.MangledName] = fmt.Sprintf("%s$%d", sym.Original.String(), i)
	}

	out := make([]typedexpr.InstantiatedSymbol, len(prog.Symbols))
	for i, sym := range prog.Symbols {
		body := walk(sym.Body, func(e typedexpr.Expr) typedexpr.Expr {
			v, ok := e.(typedexpr.Var)
			if !ok {
				return e
			}
			if renamed, ok := rename[v.Name.String()]; ok {
				v.Name = name.New(renamed)
				return v
			}
			return e
		})
		sym.Body = body
		sym.MangledName = rename[sym.MangledName]
		out[i] = sym
	}

	roots := make([]string, len(prog.Roots))
	for i, r := range prog.Roots {
		if renamed, ok := rename[r]; ok {
			roots[i] = renamed
		} else {
			roots[i] = r
		}
	}

	return Program{Symbols: out, Roots: roots}
}
