// Package compiler implements §5's CompilerContext and pipeline
// ordering: name resolution, kind checking, constraint-based typing,
// scheme generalization, monomorphization, the optimizer's seven passes
// in declared order, and finally compile-unit planning. Every shared
// environment (kind/type/trait tables, the fresh-variable supply) is
// constructed once per CompilerContext and treated as read-only for the
// rest of the run, per §5's "Trait and type environments are logically
// global for the duration of one compile."
package compiler

import (
	"github.com/google/uuid"

	"github.com/sunholo/fixcore/internal/cache"
	"github.com/sunholo/fixcore/internal/config"
	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/planner"
	"github.com/sunholo/fixcore/internal/solver"
	"github.com/sunholo/fixcore/internal/tracer"
	"github.com/sunholo/fixcore/internal/tytype"
)

// CompilerContext threads every shared, compile-scoped service through
// the pipeline stages (§5). It is built once per compile via New and
// passed by reference to each stage rather than recreated per stage.
type CompilerContext struct {
	Config config.Config

	Kinds  *kind.Env
	Scope  *kind.Scope
	Types  *tytype.TypeEnv
	Traits *solver.TraitEnv
	Fresh  *tytype.Fresh

	Resolver *name.Resolver
	Memory   *cache.MemoryCache
	Files    *cache.FileCache
	Tracer   *tracer.Tracer

	// RunID is a run-scoped UUID minted once per CompilerContext; no
	// solver-trace or cache-warning diagnostic includes it.
	RunID uuid.UUID

	// VersionHash feeds every cache lookup this run performs (§4.6/§6):
	// two compiles of identical sources under an identical
	// CompilerContext configuration must derive identical hashes, or the
	// cache silently stops paying for itself.
	VersionHash string

	DirCache *planner.DirectoryCache
}

// New constructs a CompilerContext with fresh, empty shared environments
// and cfg's knobs. dirCache may be nil when the caller only needs
// typechecking/monomorphization/optimization and has no on-disk
// compile-unit cache to consult.
func New(cfg config.Config, versionHash string, dirCache *planner.DirectoryCache) *CompilerContext {
	kinds := kind.NewEnv()
	scope := kind.NewScope()
	fresh := tytype.NewFresh()
	return &CompilerContext{
		Config:      cfg,
		Kinds:       kinds,
		Scope:       scope,
		Types:       tytype.NewTypeEnv(),
		Traits:      solver.NewTraitEnv(kinds, scope, fresh),
		Fresh:       fresh,
		Resolver:    name.NewResolver(),
		Memory:      cache.NewMemoryCache(),
		Files:       cache.NewFileCache(cfg.CacheDir),
		Tracer:      tracer.New(),
		RunID:       uuid.New(),
		VersionHash: versionHash,
		DirCache:    dirCache,
	}
}
