// Package cache implements §4.6's two cooperating typecheck-cache
// layers: a bounded in-memory deque and an on-disk file-per-entry
// store, both implementing the same save/load contract.
//
// Grounded nearly verbatim on original_source/src/typecheckcache.rs
// (the TypeCheckCache trait, CACHE_GENERATION = 3, cache_file_name
// sanitization, "read/write failure warns, never aborts" contract),
// translated into the teacher's struct/method idiom from
// internal/types/instances.go (explicit constructor + receiver
// methods, no embedded interfaces beyond the one cache contract).
package cache

import (
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/scheme"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

// CacheGeneration is the memory layer's bounded deque depth (§4.6).
const CacheGeneration = 3

// TypeCheckCache is the contract both layers satisfy: saving/loading a
// typedexpr.TypedExpr keyed by (name, scheme, version hash).
type TypeCheckCache interface {
	SaveCache(expr typedexpr.TypedExpr, entityName name.Name, sch scheme.Scheme, versionHash string)
	LoadCache(entityName name.Name, sch scheme.Scheme, versionHash string) (typedexpr.TypedExpr, bool)
}
