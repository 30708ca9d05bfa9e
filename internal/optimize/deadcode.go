package optimize

import (
	"golang.org/x/exp/slices"

	"github.com/sunholo/fixcore/internal/typedexpr"
)

// eliminateDeadSymbols computes the reachable set starting from
// prog.Roots (the entry point plus every exported value's
// instantiations) by iterating to a fixed point over each retained
// symbol's free global references, then discards every symbol not in
// that set. Grounded on
// original_source/src/optimization/dead_symbol_elimination.rs, which
// seeds the same way from entry_io_value + export_statements and grows
// the reachable set via each retained symbol's free_vars() until
// nothing new is added.
func eliminateDeadSymbols(prog Program) Program {
	byName := make(map[string]typedexpr.InstantiatedSymbol, len(prog.Symbols))
	for _, sym := range prog.Symbols {
		byName[sym.MangledName] = sym
	}

	reachable := make(map[string]bool, len(prog.Roots))
	for _, r := range prog.Roots {
		reachable[r] = true
	}

	for {
		grew := false
		for name := range reachable {
			sym, ok := byName[name]
			if !ok {
				continue
			}
			refs := map[string]bool{}
			freeVars(sym.Body, map[string]bool{}, map[string]bool{}, refs)
			for ref := range refs {
				if _, known := byName[ref]; known && !reachable[ref] {
					reachable[ref] = true
					grew = true
				}
			}
		}
		if !grew {
			break
		}
	}

	names := make([]string, 0, len(reachable))
	for n := range reachable {
		names = append(names, n)
	}
	slices.Sort(names)

	out := make([]typedexpr.InstantiatedSymbol, 0, len(names))
	for _, n := range names {
		if sym, ok := byName[n]; ok {
			out = append(out, sym)
		}
	}

	return Program{Symbols: out, Roots: prog.Roots}
}
