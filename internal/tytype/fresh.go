package tytype

import (
	"fmt"
	"sync/atomic"

	"github.com/sunholo/fixcore/internal/kind"
)

// Fresh generates fresh type variables. A single Fresh is shared across
// one compile so that mangled names stay distinct; its counter is
// accessed atomically because the typecheck cache (§5) allows an
// embedding host to parallelize independent module typings that may
// share a Fresh.
type Fresh struct {
	counter int64
}

// NewFresh creates a fresh-variable supply starting from zero.
func NewFresh() *Fresh {
	return &Fresh{}
}

// Var allocates a new type variable of the given kind with a name
// guaranteed not to collide with any other Var produced by this supply.
func (f *Fresh) Var(k kind.Kind) *Var {
	n := atomic.AddInt64(&f.counter, 1)
	return &Var{Name: fmt.Sprintf("t%d", n), Kind: k}
}
