package cache

import (
	"sync"

	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/scheme"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

type generation struct {
	versionHash string
	expr        typedexpr.TypedExpr
}

// MemoryCache is the in-process layer: per entity identity, a bounded
// deque of (version_hash, TypedExpr) pairs (§4.6). It is safe for
// concurrent use so an embedding host can parallelize independent
// module typings (§5).
type MemoryCache struct {
	mu   sync.Mutex
	data map[string][]generation
}

// NewMemoryCache creates an empty memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string][]generation)}
}

func entityIdentity(entityName name.Name, sch scheme.Scheme) string {
	return entityName.String() + "_" + sch.String()
}

// SaveCache push-fronts (versionHash, expr), evicting the oldest
// generation once the deque reaches CacheGeneration entries.
func (m *MemoryCache) SaveCache(expr typedexpr.TypedExpr, entityName name.Name, sch scheme.Scheme, versionHash string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := entityIdentity(entityName, sch)
	entry := m.data[key]
	for len(entry) >= CacheGeneration {
		entry = entry[:len(entry)-1]
	}
	entry = append([]generation{{versionHash: versionHash, expr: expr}}, entry...)
	m.data[key] = entry
}

// LoadCache scans the entity's deque for a generation whose version
// hash matches exactly.
func (m *MemoryCache) LoadCache(entityName name.Name, sch scheme.Scheme, versionHash string) (typedexpr.TypedExpr, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := entityIdentity(entityName, sch)
	for _, g := range m.data[key] {
		if g.versionHash == versionHash {
			return g.expr, true
		}
	}
	return typedexpr.TypedExpr{}, false
}

var _ TypeCheckCache = (*MemoryCache)(nil)
