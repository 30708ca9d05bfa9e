package cache

import (
	"bytes"
	"crypto/md5"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/scheme"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

// FileCache is the on-disk layer: one file per (name, scheme,
// version_hash) key under Root. Serialization uses encoding/gob, the
// stdlib's self-describing binary format, in place of the source's
// serde_pickle — any self-describing format satisfies §4.6.
type FileCache struct {
	Root string
}

// NewFileCache creates a file cache rooted at dir (§6:
// <root>/type_check_cache/...).
func NewFileCache(dir string) *FileCache {
	return &FileCache{Root: dir}
}

// cacheFileName mirrors cache_file_name: sanitize the entity name to
// filename-safe characters, md5 the normalized scheme text, and join
// with the version hash (§4.6).
func cacheFileName(entityName name.Name, sch scheme.Scheme, versionHash string) string {
	sanitized := sanitize(entityName.String())
	schemeHash := fmt.Sprintf("%x", md5.Sum([]byte(sch.String())))
	return fmt.Sprintf("%s_%s_%s.cache", sanitized, schemeHash, versionHash)
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// SaveCache serializes expr and writes it via a temp-file-then-rename
// so a concurrent reader never observes a partial file (§5's atomic
// cache-write contract). I/O failures warn but never abort (§4.6).
func (f *FileCache) SaveCache(expr typedexpr.TypedExpr, entityName name.Name, sch scheme.Scheme, versionHash string) {
	if err := os.MkdirAll(f.Root, 0o755); err != nil {
		diag.Warnf("failed to create cache directory %q: %v", f.Root, err)
		return
	}
	target := filepath.Join(f.Root, cacheFileName(entityName, sch, versionHash))

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(expr); err != nil {
		diag.Warnf("failed to serialize cache entry for %s: %v", entityName, err)
		return
	}

	tmp, err := os.CreateTemp(f.Root, ".tmp-cache-*")
	if err != nil {
		diag.Warnf("failed to create temp cache file for %s: %v", entityName, err)
		return
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		diag.Warnf("failed to write cache file %q: %v", target, err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		diag.Warnf("failed to close cache file %q: %v", target, err)
		return
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		diag.Warnf("failed to install cache file %q: %v", target, err)
	}
}

// LoadCache reads and deserializes the cache file for this key. A
// missing or corrupt file is treated as "not cached" (§4.6), never a
// fatal error.
func (f *FileCache) LoadCache(entityName name.Name, sch scheme.Scheme, versionHash string) (typedexpr.TypedExpr, bool) {
	target := filepath.Join(f.Root, cacheFileName(entityName, sch, versionHash))
	bs, err := os.ReadFile(target)
	if err != nil {
		if !os.IsNotExist(err) {
			diag.Warnf("failed to read cache file %q: %v", target, err)
		}
		return typedexpr.TypedExpr{}, false
	}
	var expr typedexpr.TypedExpr
	if err := gob.NewDecoder(bytes.NewReader(bs)).Decode(&expr); err != nil {
		diag.Warnf("failed to parse cache file %q: %v", target, err)
		return typedexpr.TypedExpr{}, false
	}
	return expr, true
}

// Scan lists every cache file under Root matching the *.cache naming
// convention cacheFileName produces, returning paths relative to Root.
// Used by cache-inspection tooling that needs "what's already cached"
// without replaying a full compile (§6) — a flat directory of cache
// files today, but doublestar.Glob over "**/*.cache" is future-proof
// against Root growing subdirectories (internal/planner's DirectoryCache,
// by contrast, globs only CU_*.o directly under its own root).
func (f *FileCache) Scan() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(f.Root), "**/*.cache")
	if err != nil {
		return nil, fmt.Errorf("scanning cache directory %q: %w", f.Root, err)
	}
	return matches, nil
}

var _ TypeCheckCache = (*FileCache)(nil)
