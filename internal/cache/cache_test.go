package cache

import (
	"path/filepath"
	"testing"

	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/kind"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/scheme"
	"github.com/sunholo/fixcore/internal/tytype"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

func sampleTypedExpr() typedexpr.TypedExpr {
	intTy := &tytype.Con{Name: name.New("Int"), Kind: kind.Star{}}
	v := typedexpr.NewVar(diag.Span{}, name.New("x")).WithType(intTy)
	return typedexpr.TypedExpr{Expr: v, Scheme: scheme.Monomorphic(intTy)}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	m := NewMemoryCache()
	n := name.New("Main", "answer")
	sch := scheme.Monomorphic(&tytype.Con{Name: name.New("Int"), Kind: kind.Star{}})
	expr := sampleTypedExpr()

	if _, ok := m.LoadCache(n, sch, "v1"); ok {
		t.Fatalf("expected miss before any save")
	}
	m.SaveCache(expr, n, sch, "v1")
	got, ok := m.LoadCache(n, sch, "v1")
	if !ok {
		t.Fatalf("expected hit after save")
	}
	if got.Expr.Type() != expr.Expr.Type() {
		t.Fatalf("round-tripped expr type mismatch")
	}
	if _, ok := m.LoadCache(n, sch, "v2"); ok {
		t.Fatalf("expected miss for a different version hash")
	}
}

func TestMemoryCacheEvictsOldestGeneration(t *testing.T) {
	m := NewMemoryCache()
	n := name.New("Main", "answer")
	sch := scheme.Monomorphic(&tytype.Con{Name: name.New("Int"), Kind: kind.Star{}})
	expr := sampleTypedExpr()

	m.SaveCache(expr, n, sch, "v1")
	m.SaveCache(expr, n, sch, "v2")
	m.SaveCache(expr, n, sch, "v3")
	m.SaveCache(expr, n, sch, "v4")

	if _, ok := m.LoadCache(n, sch, "v1"); ok {
		t.Fatalf("expected v1 to have been evicted once a 4th generation was saved")
	}
	if _, ok := m.LoadCache(n, sch, "v4"); !ok {
		t.Fatalf("expected the newest generation to still be present")
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	f := NewFileCache(filepath.Join(dir, "type_check_cache"))
	n := name.New("Main", "answer")
	sch := scheme.Monomorphic(&tytype.Con{Name: name.New("Int"), Kind: kind.Star{}})
	expr := sampleTypedExpr()

	if _, ok := f.LoadCache(n, sch, "v1"); ok {
		t.Fatalf("expected miss before any save")
	}
	f.SaveCache(expr, n, sch, "v1")
	got, ok := f.LoadCache(n, sch, "v1")
	if !ok {
		t.Fatalf("expected hit after save")
	}
	if got.Scheme.String() != expr.Scheme.String() {
		t.Fatalf("round-tripped scheme mismatch: %s vs %s", got.Scheme, expr.Scheme)
	}
}

func TestFileCacheMissOnDifferentVersionHash(t *testing.T) {
	dir := t.TempDir()
	f := NewFileCache(dir)
	n := name.New("Main", "answer")
	sch := scheme.Monomorphic(&tytype.Con{Name: name.New("Int"), Kind: kind.Star{}})

	f.SaveCache(sampleTypedExpr(), n, sch, "v1")
	if _, ok := f.LoadCache(n, sch, "v2"); ok {
		t.Fatalf("expected a different version hash to miss")
	}
}

func TestFileCacheScanListsSavedEntries(t *testing.T) {
	dir := t.TempDir()
	f := NewFileCache(dir)
	sch := scheme.Monomorphic(&tytype.Con{Name: name.New("Int"), Kind: kind.Star{}})

	before, err := f.Scan()
	if err != nil {
		t.Fatalf("unexpected error scanning empty cache dir: %v", err)
	}
	if len(before) != 0 {
		t.Fatalf("expected no cache files before any save, got %v", before)
	}

	f.SaveCache(sampleTypedExpr(), name.New("Main", "answer"), sch, "v1")
	f.SaveCache(sampleTypedExpr(), name.New("Main", "other"), sch, "v1")

	after, err := f.Scan()
	if err != nil {
		t.Fatalf("unexpected error scanning cache dir: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected 2 cache files after saving 2 entries, got %d: %v", len(after), after)
	}
	for _, m := range after {
		if filepath.Ext(m) != ".cache" {
			t.Fatalf("expected every scanned entry to end in .cache, got %q", m)
		}
	}
}

func TestCacheFileNameSanitizesName(t *testing.T) {
	n := name.New("Main::Sub", "answer!")
	sch := scheme.Monomorphic(&tytype.Con{Name: name.New("Int"), Kind: kind.Star{}})
	got := cacheFileName(n, sch, "v1")
	for _, r := range got[:len(got)-len(".cache")] {
		if r == ':' || r == '!' {
			t.Fatalf("expected non-alphanumerics to be sanitized, got %q", got)
		}
	}
}
