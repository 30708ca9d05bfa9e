package planner

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DirectoryCache backs the `is_cached: &[Name] -> bool` predicate §4.9
// calls for with a one-time directory scan: every `CU_*.o` file already
// present under Root is loaded into an in-memory set once, so
// SplitIntoUnits's O(n·MaxCacheLen) predicate calls become set lookups
// against an already-hashed name rather than a filesystem stat apiece.
type DirectoryCache struct {
	Root       string
	ModHash    map[string]string
	ConfigHash string
	known      map[string]bool
}

// NewDirectoryCache scans root for existing compile-unit object files.
func NewDirectoryCache(root string, modHash map[string]string, configHash string) (*DirectoryCache, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	matches, err := doublestar.Glob(os.DirFS(root), "CU_*.o")
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(matches))
	for _, m := range matches {
		known[m] = true
	}
	return &DirectoryCache{Root: root, ModHash: modHash, ConfigHash: configHash, known: known}, nil
}

// IsCached reports whether names' compile unit already has an object
// file on disk, per the scan NewDirectoryCache took.
func (d *DirectoryCache) IsCached(names []string) bool {
	return d.known[CacheFileName(names, d.ModHash, d.ConfigHash)]
}

// ObjectPath returns the path a NotCached unit's freshly compiled
// object file should be written to.
func (d *DirectoryCache) ObjectPath(names []string) string {
	return filepath.Join(d.Root, CacheFileName(names, d.ModHash, d.ConfigHash))
}

// Record marks names' compile unit as now cached, for a long-lived
// DirectoryCache that keeps planning across multiple compiles in one
// process without re-scanning the directory.
func (d *DirectoryCache) Record(names []string) {
	d.known[CacheFileName(names, d.ModHash, d.ConfigHash)] = true
}
