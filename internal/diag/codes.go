// Package diag provides the stable error-code taxonomy and error
// accumulation contract shared by every stage of the fixcore pipeline.
package diag

// Code is one of the stable, IDE-consumed error codes from spec §6.
type Code string

const (
	// CodeUnknownName indicates a name resolution lookup found no candidate.
	CodeUnknownName Code = "E.UNKNOWN_NAME"

	// CodeAmbiguousName indicates a name resolution lookup found more than
	// one candidate and the partial namespace suffix did not disambiguate.
	CodeAmbiguousName Code = "E.AMBIGUOUS_NAME"

	// CodeKindMismatch indicates a kind-of computation found a mismatch
	// between an expected and an actual kind.
	CodeKindMismatch Code = "E.KIND_MISMATCH"

	// CodeTypeMismatch indicates unification failed because the two sides
	// have incompatible head shapes.
	CodeTypeMismatch Code = "E.TYPE_MISMATCH"

	// CodeNoInstance indicates predicate resolution found no instance
	// whose head unifies with the goal, and the goal's head is not a
	// variable (so it cannot be deferred).
	CodeNoInstance Code = "E.NO_INSTANCE"

	// CodeOverlappingInstance indicates two instance heads for the same
	// trait unify with each other.
	CodeOverlappingInstance Code = "E.OVERLAPPING_INSTANCE"

	// CodeOccursCheck indicates a variable would occur in the type it is
	// being unified with.
	CodeOccursCheck Code = "E.OCCURS_CHECK"

	// CodeCycleInAlias indicates a type alias expansion found a cycle.
	CodeCycleInAlias Code = "E.CYCLE_IN_ALIAS"

	// CodeSolverDepthExceeded indicates the predicate/equality solver hit
	// its configured recursion-depth cap before reaching a fixed point.
	CodeSolverDepthExceeded Code = "E.SOLVER_DEPTH_EXCEEDED"

	// CodeNoAssocReduction indicates an associated-type application could
	// not be reduced: no instance equation applies and no argument is a
	// variable that could eventually make one apply.
	CodeNoAssocReduction Code = "E.NO_ASSOC_REDUCTION"

	// CodePolymorphicRecursion indicates the monomorphizer found a global
	// value calling itself at a strictly varying type along a single
	// instantiation chain, which would never terminate.
	CodePolymorphicRecursion Code = "E.POLYMORPHIC_RECURSION"

	// CodeLeakedObject indicates the optional allocation tracer found a
	// non-global tracked object whose allocation plus retains outnumbered
	// its releases at check-leaks time.
	CodeLeakedObject Code = "E.LEAKED_OBJECT"

	// CodeRefcountMismatch indicates the optional allocation tracer was
	// asked to retain or release an object whose refcount was already
	// zero, or one it never allocated.
	CodeRefcountMismatch Code = "E.REFCOUNT_MISMATCH"
)
