package diag

import (
	"fmt"
	"strings"
)

// Error is the canonical structured error carried through every pipeline
// stage. It always has a stable Code, a human message, and zero or more
// (description, span) call-outs rendered as indented notes.
type Error struct {
	Code    Code
	Message string
	Notes   []Note
	Cause   error // wrapped lower-level error, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	for _, n := range e.Notes {
		fmt.Fprintf(&b, "\n  at %s: %s", n.Span, n.Description)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, "\n  caused by: %s", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// WithNote appends a (description, span) call-out and returns the receiver,
// so construction can read as a chained builder at call sites.
func (e *Error) WithNote(description string, span Span) *Error {
	e.Notes = append(e.Notes, Note{Description: description, Span: span})
	return e
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewUnknownName reports a name resolution lookup with no candidates.
func NewUnknownName(name string) *Error {
	return newError(CodeUnknownName, "unknown name %q", name)
}

// NewAmbiguousName reports a name resolution lookup with multiple
// candidates and no unique resolution.
func NewAmbiguousName(name string, candidates []string) *Error {
	return newError(CodeAmbiguousName, "ambiguous name %q: could mean %s", name, strings.Join(candidates, ", "))
}

// NewKindMismatch reports a kind mismatch between an expected and an
// actual kind, both already rendered to strings by the caller so this
// package need not depend on internal/kind.
func NewKindMismatch(context, expected, actual string) *Error {
	return newError(CodeKindMismatch, "kind mismatch in %s: expected %s, got %s", context, expected, actual)
}

// NewTypeMismatch reports two types that could not be unified.
func NewTypeMismatch(a, b string) *Error {
	return newError(CodeTypeMismatch, "cannot unify %s with %s", a, b)
}

// NewOccursCheck reports a failed occurs check.
func NewOccursCheck(tvar, in string) *Error {
	return newError(CodeOccursCheck, "occurs check failed: %s occurs in %s", tvar, in)
}

// NewAliasCycle reports a cyclic type alias chain.
func NewAliasCycle(chain []string) *Error {
	return newError(CodeCycleInAlias, "cyclic type alias: %s", strings.Join(chain, " -> "))
}

// NewNoInstance reports a predicate goal with no applicable instance.
func NewNoInstance(trait, ty string) *Error {
	return newError(CodeNoInstance, "no instance for %s %s", trait, ty)
}

// NewOverlappingInstance reports two instance heads for the same trait
// that unify with each other.
func NewOverlappingInstance(trait, headA, headB string) *Error {
	return newError(CodeOverlappingInstance, "overlapping instances for trait %s: %s overlaps %s", trait, headA, headB)
}

// NewSolverDepthExceeded reports the solver hitting its recursion cap.
func NewSolverDepthExceeded(depth int) *Error {
	return newError(CodeSolverDepthExceeded, "solver recursion depth exceeded (cap=%d)", depth)
}

// NewNoAssocReduction reports an associated-type application that cannot
// be reduced to head-normal form.
func NewNoAssocReduction(assoc, args string) *Error {
	return newError(CodeNoAssocReduction, "cannot reduce associated type %s%s", assoc, args)
}

// NewPolymorphicRecursion reports a global value reached again, at a
// strictly varying type, along its own instantiation chain.
func NewPolymorphicRecursion(name string) *Error {
	return newError(CodePolymorphicRecursion, "polymorphic recursion rejected: %s is called at a strictly varying type within its own instantiation chain", name)
}

// NewLeakedObject reports a tracked, non-global object still retained
// at check-leaks time.
func NewLeakedObject(id int64, code string, refcount int) *Error {
	return newError(CodeLeakedObject, "object id=%d is leaked: refcount=%d, code=%q", id, refcount, code)
}

// NewRefcountMismatch reports a retain or release against an object the
// tracer never allocated, or whose refcount had already reached zero.
func NewRefcountMismatch(id int64) *Error {
	return newError(CodeRefcountMismatch, "object id=%d is not registered with the allocation tracer", id)
}
