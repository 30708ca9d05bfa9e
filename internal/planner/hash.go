package planner

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/sunholo/fixcore/internal/name"
)

// CacheFileName computes the compile-unit object file name for names
// (already sorted): `CU_{md5(configHash || Σ(name + modHash[module]))}.o`,
// reproduced from original_source/src/object_cache.rs's
// cache_file_name — same hash input order, `CU_` prefix per spec §4.9.
func CacheFileName(names []string, modHash map[string]string, configHash string) string {
	h := md5.New()
	h.Write([]byte(configHash))
	for _, n := range names {
		h.Write([]byte(n))
		h.Write([]byte(modHash[moduleOf(n)]))
	}
	return fmt.Sprintf("CU_%s.o", hex.EncodeToString(h.Sum(nil)))
}

// moduleOf returns the defining module of a qualified (possibly
// mangled) symbol name: every segment but the leaf, joined back with
// "::". A single-segment name has no module namespace of its own and
// is keyed under itself.
func moduleOf(qualified string) string {
	n := name.Parse(qualified)
	ns := n.Namespace()
	if len(ns) == 0 {
		return qualified
	}
	return strings.Join(ns, "::")
}
