// Package name implements the name resolution context of §4.1: mapping
// unqualified or partially qualified identifiers to fully qualified Names
// given a set of import directives.
package name

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Name is a dotted path of segments plus a leaf, e.g. "Std::List::map"
// is segments ["Std", "List"] and leaf "map". The segment list is always
// non-empty: the leaf alone is a valid one-segment Name.
type Name struct {
	segments []string
}

// New constructs a Name from dotted path segments, NFC-normalizing each
// segment the way internal/lexer/normalize.go normalizes source bytes at
// the lexer boundary: this ensures "café" written in NFC or NFD form
// resolves to the same qualified name regardless of the source file's
// byte-level encoding choice.
func New(segments ...string) Name {
	if len(segments) == 0 {
		panic("name: New requires at least one segment")
	}
	normalized := make([]string, len(segments))
	for i, s := range segments {
		normalized[i] = normalizeSegment(s)
	}
	return Name{segments: normalized}
}

// Parse splits a "::"-separated qualified name into a Name.
func Parse(qualified string) Name {
	return New(strings.Split(qualified, "::")...)
}

func normalizeSegment(s string) string {
	if norm.NFC.IsNormal([]byte(s)) {
		return s
	}
	return string(norm.NFC.Bytes([]byte(s)))
}

// Leaf returns the final segment, e.g. "map" for "Std::List::map".
func (n Name) Leaf() string {
	return n.segments[len(n.segments)-1]
}

// Namespace returns the segments before the leaf, e.g. ["Std", "List"].
func (n Name) Namespace() []string {
	return append([]string(nil), n.segments[:len(n.segments)-1]...)
}

// Segments returns the full segment list.
func (n Name) Segments() []string {
	return append([]string(nil), n.segments...)
}

// String renders the qualified name as "A::B::leaf".
func (n Name) String() string {
	return strings.Join(n.segments, "::")
}

// Equals reports whether two Names denote the same qualified path.
func (n Name) Equals(other Name) bool {
	if len(n.segments) != len(other.segments) {
		return false
	}
	for i := range n.segments {
		if n.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// HasSuffix reports whether partial is a contiguous suffix of n's
// segments (including the leaf), e.g. "List::map" is a suffix of
// "Std::List::map" and so is "map" alone.
func (n Name) HasSuffix(partial Name) bool {
	if len(partial.segments) > len(n.segments) {
		return false
	}
	offset := len(n.segments) - len(partial.segments)
	for i, s := range partial.segments {
		if n.segments[offset+i] != s {
			return false
		}
	}
	return true
}
