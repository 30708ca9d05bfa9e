package typecheck

import (
	"testing"

	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

// TestCheckSymbolGeneralizesIdentity covers a top-level binding the way
// a Symbol's own body would reach the checker: `id = λx. x` must
// generalize to ∀α. α → α exactly as inferLet generalizes a local let,
// since CheckSymbol is that same snapshot/solve/generalize sequence
// applied with no outer body to return into.
func TestCheckSymbolGeneralizesIdentity(t *testing.T) {
	c := newChecker()
	env := NewEnv()

	body := typedexpr.NewLam(diag.Span{}, []string{"x"}, typedexpr.NewVar(diag.Span{}, name.New("x")))

	typed := c.CheckSymbol(env, body)
	if !c.Errors.OK() {
		t.Fatalf("unexpected errors: %v", c.Errors.All())
	}
	if len(typed.Scheme.Vars) != 1 {
		t.Fatalf("expected identity to generalize over exactly one variable, got scheme %s", typed.Scheme)
	}
}
