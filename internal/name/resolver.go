package name

import "github.com/sunholo/fixcore/internal/diag"

// Kind classifies what a fully qualified Name denotes, so the same
// resolver can serve values, type constructors, traits, associated
// types, and modules from one registry.
type Kind int

const (
	KindValue Kind = iota
	KindTyCon
	KindTrait
	KindAssocTy
	KindModule
)

// Resolver maps unqualified or partially qualified references to fully
// qualified Names, honoring a set of Import directives. It is consulted
// by kind-checking, scheme resolution, and (outside this spec's scope)
// IDE auto-import suggestions.
type Resolver struct {
	// declared holds every fully qualified Name known to the program,
	// grouped by Kind, regardless of what is imported where.
	declared map[Kind][]Name
	imports  []Import
}

// NewResolver creates a Resolver with no declarations or imports.
func NewResolver() *Resolver {
	return &Resolver{declared: make(map[Kind][]Name)}
}

// Declare registers a fully qualified Name as existing, so it can be a
// candidate for later Resolve calls.
func (r *Resolver) Declare(kind Kind, n Name) {
	r.declared[kind] = append(r.declared[kind], n)
}

// Import registers an import directive that brings declared names into
// scope under unqualified or partially qualified references.
func (r *Resolver) Import(i Import) {
	r.imports = append(r.imports, i)
}

// Resolve looks up a partially (or fully) qualified reference against
// every declared Name of the given Kind, filtered by the active imports.
// A reference that already matches a declared Name exactly is always a
// candidate (import directives only widen what an abbreviated reference
// can mean; they never hide an exact match).
//
// Resolution is idempotent: resolving an already fully qualified Name
// that uniquely matches itself returns that same Name.
func (r *Resolver) Resolve(kind Kind, partial Name) (Name, error) {
	var candidates []Name
	for _, full := range r.declared[kind] {
		if full.Equals(partial) {
			candidates = append(candidates, full)
			continue
		}
		if !full.HasSuffix(partial) {
			continue
		}
		if r.inScope(full) {
			candidates = append(candidates, full)
		}
	}

	switch len(candidates) {
	case 0:
		return Name{}, diag.NewUnknownName(partial.String())
	case 1:
		return candidates[0], nil
	default:
		if unique, ok := dedupe(candidates); ok {
			return unique, nil
		}
		return Name{}, diag.NewAmbiguousName(partial.String(), names(candidates))
	}
}

// inScope reports whether full is brought into scope by some import
// directive, or has no namespace (local/builtin names are always in
// scope without an explicit import).
func (r *Resolver) inScope(full Name) bool {
	if len(full.Namespace()) == 0 {
		return true
	}
	for _, imp := range r.imports {
		if imp.imports(full) {
			return true
		}
	}
	return false
}

// dedupe collapses a candidate list to a single Name if every candidate
// is equal (the same declaration reached through two import paths is not
// ambiguous).
func dedupe(candidates []Name) (Name, bool) {
	first := candidates[0]
	for _, c := range candidates[1:] {
		if !c.Equals(first) {
			return Name{}, false
		}
	}
	return first, true
}

func names(ns []Name) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.String()
	}
	return out
}
