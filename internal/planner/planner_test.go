package planner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func namesEqual(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSplitIntoUnitsAllCachedAtOnce(t *testing.T) {
	seq := []string{"a", "b", "c"}
	isCached := func(xs []string) bool { return len(xs) == 3 }

	units := SplitIntoUnits(seq, isCached)

	if len(units) != 1 || !units[0].Cached {
		t.Fatalf("expected one cached unit, got %+v", units)
	}
	namesEqual(t, units[0].Names, "a", "b", "c")
}

func TestSplitIntoUnitsPrefersLongestCachedSubsequence(t *testing.T) {
	seq := []string{"a", "b", "c", "d"}
	// Both [a,b] and [a] are cached; the longer one must win.
	cachedSets := map[string]bool{"a,b": true, "a": true}
	isCached := func(xs []string) bool { return cachedSets[joinComma(xs)] }

	units := SplitIntoUnits(seq, isCached)

	if len(units) < 1 || !units[0].Cached {
		t.Fatalf("expected first unit cached, got %+v", units)
	}
	namesEqual(t, units[0].Names, "a", "b")
}

func TestSplitIntoUnitsGrowsNotCachedUntilACachedRunStarts(t *testing.T) {
	seq := []string{"a", "b", "c", "d"}
	// Only [c,d] is cached; a and b must collapse into one NotCached run.
	isCached := func(xs []string) bool { return joinComma(xs) == "c,d" }

	units := SplitIntoUnits(seq, isCached)

	if len(units) != 2 {
		t.Fatalf("expected two units, got %+v", units)
	}
	if units[0].Cached {
		t.Fatalf("expected the first unit to be NotCached, got %+v", units[0])
	}
	namesEqual(t, units[0].Names, "a", "b")
	if !units[1].Cached {
		t.Fatalf("expected the second unit to be Cached, got %+v", units[1])
	}
	namesEqual(t, units[1].Names, "c", "d")
}

func TestSplitIntoUnitsNeverCached(t *testing.T) {
	seq := []string{"a", "b", "c"}
	units := SplitIntoUnits(seq, func([]string) bool { return false })

	if len(units) != 1 || units[0].Cached {
		t.Fatalf("expected one NotCached unit covering everything, got %+v", units)
	}
	namesEqual(t, units[0].Names, "a", "b", "c")
}

func joinComma(xs []string) string {
	out := ""
	for i, x := range xs {
		if i > 0 {
			out += ","
		}
		out += x
	}
	return out
}

func TestCacheFileNameIsDeterministicAndOrderSensitive(t *testing.T) {
	modHash := map[string]string{"Main": "deadbeef"}
	a := CacheFileName([]string{"Main::f$0", "Main::g$0"}, modHash, "cfg1")
	b := CacheFileName([]string{"Main::f$0", "Main::g$0"}, modHash, "cfg1")
	if a != b {
		t.Fatalf("expected CacheFileName to be deterministic, got %q and %q", a, b)
	}

	c := CacheFileName([]string{"Main::g$0", "Main::f$0"}, modHash, "cfg1")
	if a == c {
		t.Fatalf("expected a different name ordering to hash differently, both gave %q", a)
	}

	d := CacheFileName([]string{"Main::f$0", "Main::g$0"}, modHash, "cfg2")
	if a == d {
		t.Fatalf("expected a different config hash to change the file name")
	}
}

func TestDirectoryCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	modHash := map[string]string{"Main": "abc123"}

	cache, err := NewDirectoryCache(dir, modHash, "cfg")
	if err != nil {
		t.Fatalf("NewDirectoryCache: %v", err)
	}

	names := []string{"Main::f$0", "Main::g$0"}
	if cache.IsCached(names) {
		t.Fatalf("expected a fresh directory to report nothing cached")
	}

	objPath := cache.ObjectPath(names)
	if err := os.WriteFile(objPath, []byte("object"), 0o644); err != nil {
		t.Fatalf("write object file: %v", err)
	}
	if filepath.Dir(objPath) != dir {
		t.Fatalf("expected object path under %q, got %q", dir, objPath)
	}

	rescanned, err := NewDirectoryCache(dir, modHash, "cfg")
	if err != nil {
		t.Fatalf("NewDirectoryCache (rescan): %v", err)
	}
	if !rescanned.IsCached(names) {
		t.Fatalf("expected a rescanned cache to see the object file just written")
	}

	cache.Record(names)
	if !cache.IsCached(names) {
		t.Fatalf("expected Record to mark the unit cached without rescanning")
	}
}

func TestPlanSortsAndDeduplicatesBeforeSplitting(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewDirectoryCache(dir, map[string]string{"Main": "h"}, "cfg")
	if err != nil {
		t.Fatalf("NewDirectoryCache: %v", err)
	}

	units := Plan([]string{"Main::c$0", "Main::a$0", "Main::a$0", "Main::b$0"}, cache)

	var all []string
	for _, u := range units {
		all = append(all, u.Names...)
	}
	sort.Strings(all)
	namesEqual(t, all, "Main::a$0", "Main::b$0", "Main::c$0")
}
